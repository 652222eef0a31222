package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/config"
)

// LLMStatus reports key validity for the LLM provider. The provider exposes
// no real-time balance endpoint, so a valid key yields a static note plus a
// link to the usage console — a capability gap upstream, not a bug here.
type LLMStatus struct {
	Status  string `json:"status"` // "active" | "error"
	Note    string `json:"note,omitempty"`
	CheckAt string `json:"check_at,omitempty"`
	Message string `json:"message,omitempty"`
}

// LLM probes the OpenAI-style API with a cheap authenticated request.
type LLM struct {
	cfg    config.Upstream
	client *http.Client
}

func NewLLM(cfg config.Upstream) *LLM {
	return &LLM{
		cfg:    cfg,
		client: newClient("Authorization", "Bearer ", cfg.Key),
	}
}

// FetchStatus verifies the key against the models listing. An invalid key is
// a well-formed result, not an error: the upstream answered, it just said no.
func (l *LLM) FetchStatus(ctx context.Context) (LLMStatus, error) {
	if l.cfg.Key() == "" {
		return LLMStatus{}, fmt.Errorf("%s %w", l.cfg.KeyEnv, ErrNotConfigured)
	}

	err := getJSON(ctx, l.client, l.cfg.BaseURL+"/v1/models", nil, nil)
	var se *StatusError
	if errors.As(err, &se) {
		return LLMStatus{Status: "error", Message: "API key invalid"}, nil
	}
	if err != nil {
		return LLMStatus{}, fmt.Errorf("llm status: %w", err)
	}

	return LLMStatus{
		Status:  "active",
		Note:    "OpenAI does not provide real-time credit balance via API",
		CheckAt: "https://platform.openai.com/usage",
	}, nil
}
