// Package upstream provides one adapter per external service the dashboard
// aggregates: the workflow engine (workflow.go), TTS credits (tts.go), LLM
// key check (llm.go), the deployment platform (deploy.go) and the video
// generation service (video.go).
//
// Each adapter performs a single outbound GET with a 10s timeout and maps the
// response into a flat normalized struct. Failures stay typed at this layer:
//
//   - ErrNotConfigured — credential or base URL absent; returned without any
//     network attempt
//   - *StatusError — the upstream answered with a non-2xx status
//   - anything else — transport or decode failure
//
// The API layer flattens all three into the "HTTP 200 + embedded error"
// wire contract; adapters never decide HTTP status codes.
//
// Authentication headers are injected by the shared authRoundTripper in
// base.go; credentials are re-read from the environment on every request.
package upstream
