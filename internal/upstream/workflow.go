package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pulseboard/pulseboard/internal/config"
)

// WorkflowStatus is the tracked workflow's metadata, projected from the
// engine's workflow object. Field names follow the engine's wire casing so
// the dashboard client needs no translation.
type WorkflowStatus struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
	UpdatedAt    string `json:"updatedAt"`
	TriggerCount int    `json:"triggerCount"`
}

// Execution is one workflow run. The engine reports execution ids as JSON
// numbers but workflow ids as strings; json.Number passes either through.
type Execution struct {
	ID        json.Number `json:"id"`
	Status    string      `json:"status"`
	StartedAt string      `json:"startedAt"`
	StoppedAt string      `json:"stoppedAt"`
	Mode      string      `json:"mode"`
}

// Workflow talks to the n8n-style workflow engine's REST API.
type Workflow struct {
	cfg    config.WorkflowConfig
	client *http.Client
}

// NewWorkflow builds the adapter. The API key is resolved from the
// environment on every request, not captured here.
func NewWorkflow(cfg config.WorkflowConfig) *Workflow {
	return &Workflow{
		cfg:    cfg,
		client: newClient("X-N8N-API-KEY", "", cfg.Key),
	}
}

// configured returns ErrNotConfigured when the credential or base URL is
// missing, naming the env var so the dashboard shows what to set.
func (w *Workflow) configured() error {
	if w.cfg.Key() == "" {
		return fmt.Errorf("%s %w", w.cfg.KeyEnv, ErrNotConfigured)
	}
	if w.cfg.BaseURL == "" {
		return fmt.Errorf("N8N_BASE_URL %w", ErrNotConfigured)
	}
	return nil
}

// FetchStatus retrieves the tracked workflow's metadata.
func (w *Workflow) FetchStatus(ctx context.Context) (WorkflowStatus, error) {
	if err := w.configured(); err != nil {
		return WorkflowStatus{}, err
	}

	var st WorkflowStatus
	u := fmt.Sprintf("%s/api/v1/workflows/%s", w.cfg.BaseURL, w.cfg.WorkflowID)
	if err := getJSON(ctx, w.client, u, nil, &st); err != nil {
		return WorkflowStatus{}, fmt.Errorf("workflow status: %w", err)
	}
	return st, nil
}

// FetchExecutions retrieves the most recent runs of the tracked workflow,
// capped at the configured limit (10 by default).
func (w *Workflow) FetchExecutions(ctx context.Context) ([]Execution, error) {
	if err := w.configured(); err != nil {
		return nil, err
	}

	var body struct {
		Data []Execution `json:"data"`
	}
	params := url.Values{
		"workflowId": {w.cfg.WorkflowID},
		"limit":      {strconv.Itoa(w.cfg.ExecutionLimit)},
	}
	if err := getJSON(ctx, w.client, w.cfg.BaseURL+"/api/v1/executions", params, &body); err != nil {
		return nil, fmt.Errorf("workflow executions: %w", err)
	}
	if body.Data == nil {
		body.Data = []Execution{}
	}
	return body.Data, nil
}
