// Package config loads the pulseboard server configuration from config.yaml.
//
// Sections:
//   - server:    HTTP port, static UI directory, WebSocket broadcast interval,
//     event log capacity
//   - upstreams: per-service base URLs and credential env var names
//     (workflow engine, TTS, LLM, deploy platform, video API)
//   - notify:    webhook targets for error-typed events
//
// Credentials are never stored in the file. Each upstream names the
// environment variable holding its key; the value is resolved at call time.
// A missing config file is not an error — defaults plus the flat legacy
// environment variables (N8N_API_KEY, ELEVENLABS_API_KEY, ...) are enough to
// run the server.
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) hot-reloads the file via fsnotify.
package config
