package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort          = 3000
	DefaultBroadcastInterval = 5 * time.Second
	DefaultEventCapacity     = 100
	DefaultExecutionLimit    = 10
)

// Default upstream base URLs. The hosted services have fixed public API
// hosts; self-hosted services (workflow engine, deploy platform, video API)
// have no usable default and must be configured.
const (
	DefaultTTSBaseURL = "https://api.elevenlabs.io"
	DefaultLLMBaseURL = "https://api.openai.com"
)

// Config is the full server configuration parsed from config.yaml.
// Every field is optional; a missing config file yields a Config built
// entirely from defaults and environment variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstreams UpstreamsConfig `yaml:"upstreams"`
	Notify    NotifyConfig    `yaml:"notify"`
}

// ServerConfig holds the HTTP listener and dashboard settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket hub and static UI
	// listen on (default 3000).
	HTTPPort int `yaml:"http_port"`

	// StaticDir serves the dashboard UI from this directory when non-empty.
	StaticDir string `yaml:"static_dir"`

	// BroadcastInterval is how often the WebSocket hub pushes the current
	// event/pipeline snapshot to connected dashboards (default 5s).
	BroadcastInterval time.Duration `yaml:"broadcast_interval"`

	// EventCapacity is the bounded event log size (default 100).
	EventCapacity int `yaml:"event_capacity"`
}

// UpstreamsConfig groups the per-service upstream settings.
type UpstreamsConfig struct {
	Workflow WorkflowConfig `yaml:"workflow"`
	TTS      Upstream       `yaml:"tts"`
	LLM      Upstream       `yaml:"llm"`
	Deploy   Upstream       `yaml:"deploy"`
	Video    VideoConfig    `yaml:"video"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
}

// Upstream is the common shape of one external service: where it lives and
// which environment variable holds its credential. The credential value is
// resolved at call time, never stored in the config file.
type Upstream struct {
	BaseURL string `yaml:"base_url"`
	KeyEnv  string `yaml:"key_env"`
}

// Key returns the credential resolved from the environment, or "" when the
// service is not configured.
func (u Upstream) Key() string {
	if u.KeyEnv == "" {
		return ""
	}
	return os.Getenv(u.KeyEnv)
}

// WorkflowConfig is the workflow engine upstream plus the single workflow
// this dashboard tracks.
type WorkflowConfig struct {
	Upstream `yaml:",inline"`

	// WorkflowID identifies the tracked workflow in the engine.
	WorkflowID string `yaml:"workflow_id"`

	// ExecutionLimit caps the executions listing (default 10).
	ExecutionLimit int `yaml:"execution_limit"`
}

// VideoConfig is the video-generation service upstream. It is probed via
// GET {base_url}/health and has no credential.
type VideoConfig struct {
	BaseURL string `yaml:"base_url"`

	// Metrics lists the Prometheus metric families summed by the
	// /api/services/video-api/metrics endpoint. Defaults to a small
	// generic set when empty.
	Metrics []string `yaml:"metrics"`
}

// YouTubeConfig lists the channel names surfaced by the /api/youtube/channel
// placeholder until OAuth is wired up.
type YouTubeConfig struct {
	Channels []string `yaml:"channels"`
	SetupURL string   `yaml:"setup_url"`
}

// NotifyConfig holds webhook targets that receive error-typed events.
type NotifyConfig struct {
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the config file at path. A missing file is not an
// error: the server then runs on defaults plus environment variables.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values. Base URLs and
// the workflow ID honor the legacy flat environment variables so an env-only
// deployment needs no config file at all.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:          DefaultHTTPPort,
			BroadcastInterval: DefaultBroadcastInterval,
			EventCapacity:     DefaultEventCapacity,
		},
		Upstreams: UpstreamsConfig{
			Workflow: WorkflowConfig{
				Upstream: Upstream{
					BaseURL: os.Getenv("N8N_BASE_URL"),
					KeyEnv:  "N8N_API_KEY",
				},
				WorkflowID:     os.Getenv("WORKFLOW_ID"),
				ExecutionLimit: DefaultExecutionLimit,
			},
			TTS: Upstream{
				BaseURL: DefaultTTSBaseURL,
				KeyEnv:  "ELEVENLABS_API_KEY",
			},
			LLM: Upstream{
				BaseURL: DefaultLLMBaseURL,
				KeyEnv:  "OPENAI_API_KEY",
			},
			Deploy: Upstream{
				BaseURL: os.Getenv("COOLIFY_BASE_URL"),
				KeyEnv:  "COOLIFY_API_TOKEN",
			},
			Video: VideoConfig{
				BaseURL: os.Getenv("VIDEO_API_URL"),
			},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval <= 0 {
		return fmt.Errorf("server.broadcast_interval must be positive")
	}
	if cfg.Server.EventCapacity <= 0 {
		return fmt.Errorf("server.event_capacity must be positive")
	}
	if cfg.Upstreams.Workflow.ExecutionLimit <= 0 {
		return fmt.Errorf("upstreams.workflow.execution_limit must be positive")
	}
	for _, wh := range cfg.Notify.Webhooks {
		switch wh.Type {
		case "slack", "http":
		default:
			return fmt.Errorf("notify.webhooks type %q unknown: want slack|http", wh.Type)
		}
	}
	return nil
}
