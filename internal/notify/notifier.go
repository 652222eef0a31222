package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/eventlog"
)

// Notifier forwards error-typed events to configured webhook targets.
// Delivery is asynchronous and best-effort: failures are logged, never
// surfaced to the producer that logged the event.
//
// Notifier is safe for concurrent use; SetTargets supports config hot reload.
type Notifier struct {
	mu      sync.RWMutex
	targets []config.WebhookConfig
	client  *http.Client
}

// New creates a Notifier. An empty target list is valid — EventLogged
// becomes a no-op.
func New(cfg config.NotifyConfig) *Notifier {
	return &Notifier{
		targets: cfg.Webhooks,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetTargets replaces the webhook targets, taking effect for subsequent
// deliveries.
func (n *Notifier) SetTargets(targets []config.WebhookConfig) {
	n.mu.Lock()
	n.targets = targets
	n.mu.Unlock()
}

// EventLogged inspects ev and triggers webhook delivery for error events.
// It returns immediately; delivery happens in a background goroutine.
func (n *Notifier) EventLogged(ev eventlog.Event) {
	if ev.Type != "error" {
		return
	}

	n.mu.RLock()
	targets := make([]config.WebhookConfig, len(n.targets))
	copy(targets, n.targets)
	n.mu.RUnlock()

	if len(targets) == 0 {
		return
	}
	go n.deliver(targets, ev)
}

// deliver sends ev to all targets. Errors are logged but do not affect the
// caller.
func (n *Notifier) deliver(targets []config.WebhookConfig, ev eventlog.Event) {
	for _, wh := range targets {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, ev)
		case "http":
			err = n.sendHTTP(url, ev)
		default:
			slog.Warn("notify: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("notify: webhook delivery failed",
				"type", wh.Type,
				"event_id", ev.ID,
				"err", err,
			)
		} else {
			slog.Debug("notify: webhook delivered",
				"type", wh.Type,
				"event_id", ev.ID,
				"source", ev.Source,
			)
		}
	}
}

func (n *Notifier) sendSlack(url string, ev eventlog.Event) error {
	body, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf(":rotating_light: *%s* %s", ev.Source, ev.Message),
	})
	return n.post(url, body)
}

func (n *Notifier) sendHTTP(url string, ev eventlog.Event) error {
	body, _ := json.Marshal(map[string]any{"event": ev})
	return n.post(url, body)
}

func (n *Notifier) post(url string, body []byte) error {
	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
