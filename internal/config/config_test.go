package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != DefaultHTTPPort {
		t.Errorf("http_port: got %d, want %d", cfg.Server.HTTPPort, DefaultHTTPPort)
	}
	if cfg.Server.BroadcastInterval != DefaultBroadcastInterval {
		t.Errorf("broadcast_interval: got %v, want %v", cfg.Server.BroadcastInterval, DefaultBroadcastInterval)
	}
	if cfg.Upstreams.TTS.BaseURL != DefaultTTSBaseURL {
		t.Errorf("tts base_url: got %q, want %q", cfg.Upstreams.TTS.BaseURL, DefaultTTSBaseURL)
	}
	if cfg.Upstreams.Workflow.ExecutionLimit != DefaultExecutionLimit {
		t.Errorf("execution_limit: got %d, want %d", cfg.Upstreams.Workflow.ExecutionLimit, DefaultExecutionLimit)
	}
}

func TestLoad_EnvBackedDefaults(t *testing.T) {
	t.Setenv("N8N_BASE_URL", "https://n8n.example.com")
	t.Setenv("WORKFLOW_ID", "wf-env")
	t.Setenv("VIDEO_API_URL", "https://video.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upstreams.Workflow.BaseURL != "https://n8n.example.com" {
		t.Errorf("workflow base_url: got %q", cfg.Upstreams.Workflow.BaseURL)
	}
	if cfg.Upstreams.Workflow.WorkflowID != "wf-env" {
		t.Errorf("workflow_id: got %q", cfg.Upstreams.Workflow.WorkflowID)
	}
	if cfg.Upstreams.Video.BaseURL != "https://video.example.com" {
		t.Errorf("video base_url: got %q", cfg.Upstreams.Video.BaseURL)
	}
}

func TestLoad_FullFile(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 8088
  static_dir: static
  broadcast_interval: 10s
  event_capacity: 50
upstreams:
  workflow:
    base_url: "https://flows.example.com"
    key_env: MY_N8N_KEY
    workflow_id: "wf-9"
    execution_limit: 5
  video:
    base_url: "https://video.internal"
    metrics: ["render_jobs_total"]
  youtube:
    channels: ["Main", "Second"]
notify:
  webhooks:
    - type: slack
      url_env: SLACK_WEBHOOK_URL
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != 8088 {
		t.Errorf("http_port: got %d, want 8088", cfg.Server.HTTPPort)
	}
	if cfg.Server.BroadcastInterval != 10*time.Second {
		t.Errorf("broadcast_interval: got %v, want 10s", cfg.Server.BroadcastInterval)
	}
	if cfg.Server.EventCapacity != 50 {
		t.Errorf("event_capacity: got %d, want 50", cfg.Server.EventCapacity)
	}
	if cfg.Upstreams.Workflow.KeyEnv != "MY_N8N_KEY" || cfg.Upstreams.Workflow.WorkflowID != "wf-9" {
		t.Errorf("workflow: got %+v", cfg.Upstreams.Workflow)
	}
	if len(cfg.Upstreams.Video.Metrics) != 1 || cfg.Upstreams.Video.Metrics[0] != "render_jobs_total" {
		t.Errorf("video metrics: got %v", cfg.Upstreams.Video.Metrics)
	}
	if len(cfg.Upstreams.YouTube.Channels) != 2 {
		t.Errorf("youtube channels: got %v", cfg.Upstreams.YouTube.Channels)
	}
	if len(cfg.Notify.Webhooks) != 1 || cfg.Notify.Webhooks[0].Type != "slack" {
		t.Errorf("webhooks: got %+v", cfg.Notify.Webhooks)
	}
	// File did not touch the TTS section — defaults survive a partial file.
	if cfg.Upstreams.TTS.BaseURL != DefaultTTSBaseURL {
		t.Errorf("tts base_url: got %q, want default", cfg.Upstreams.TTS.BaseURL)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	p := writeConfig(t, `server:
  http_port: 99999
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestLoad_UnknownWebhookType(t *testing.T) {
	p := writeConfig(t, `notify:
  webhooks:
    - type: carrier-pigeon
      url_env: X
`)
	if _, err := Load(p); err == nil {
		t.Fatal("expected error for unknown webhook type")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	p := writeConfig(t, "server: [not: a: mapping")
	if _, err := Load(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestUpstream_KeyResolution(t *testing.T) {
	t.Setenv("MY_TEST_KEY", "s3cret")

	u := Upstream{KeyEnv: "MY_TEST_KEY"}
	if got := u.Key(); got != "s3cret" {
		t.Errorf("Key: got %q, want s3cret", got)
	}

	if got := (Upstream{}).Key(); got != "" {
		t.Errorf("Key without env name: got %q, want empty", got)
	}
}

func TestWebhook_URLResolution(t *testing.T) {
	t.Setenv("MY_HOOK_URL", "https://hooks.example.com/x")

	w := WebhookConfig{Type: "http", URLEnv: "MY_HOOK_URL"}
	if got := w.URL(); got != "https://hooks.example.com/x" {
		t.Errorf("URL: got %q", got)
	}
}
