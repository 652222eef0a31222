package api

import (
	"github.com/pulseboard/pulseboard/internal/eventlog"
	"github.com/pulseboard/pulseboard/internal/upstream"
)

// Every response below carries an optional Error field instead of mapping
// failures to HTTP status codes. The dashboard client branches on the
// presence of "error", never on the status — all endpoints answer 200.

// HealthResponse is the payload for GET /api/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"` // RFC3339 UTC
	Instance      string `json:"instance"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// WorkflowStatusResponse is the payload for GET /api/workflow/status.
// On failure the embedded zero value keeps active=false and empty metadata.
type WorkflowStatusResponse struct {
	upstream.WorkflowStatus
	Error string `json:"error,omitempty"`
}

// ExecutionsResponse is the payload for GET /api/workflow/executions.
type ExecutionsResponse struct {
	Executions []upstream.Execution `json:"executions"`
	Error      string               `json:"error,omitempty"`
}

// TTSCreditsResponse is the payload for GET /api/credits/elevenlabs.
type TTSCreditsResponse struct {
	upstream.TTSCredits
	Error string `json:"error,omitempty"`
}

// LLMStatusResponse is the payload for GET /api/credits/openai.
type LLMStatusResponse struct {
	upstream.LLMStatus
	Error string `json:"error,omitempty"`
}

// VideoHealthResponse is the payload for GET /api/services/video-api.
type VideoHealthResponse struct {
	upstream.VideoHealth
	Error string `json:"error,omitempty"`
}

// VideoMetricsResponse is the payload for GET /api/services/video-api/metrics.
type VideoMetricsResponse struct {
	upstream.VideoMetrics
	Error string `json:"error,omitempty"`
}

// DeploymentsResponse is the payload for GET /api/services/coolify.
type DeploymentsResponse struct {
	upstream.Deployments
	Error string `json:"error,omitempty"`
}

// Channel is one entry in the YouTube placeholder listing.
type Channel struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// YouTubeResponse is the payload for GET /api/youtube/channel. OAuth is not
// wired up, so every channel reports pending_auth.
type YouTubeResponse struct {
	Note     string    `json:"note"`
	Channels []Channel `json:"channels"`
	SetupURL string    `json:"setup_url,omitempty"`
}

// CalendarResponse is the payload for GET /api/content/calendar.
type CalendarResponse struct {
	Note  string `json:"note"`
	Items []any  `json:"items"`
}

// LoggedResponse acknowledges POST /api/events/log and POST /api/agent/decision.
type LoggedResponse struct {
	Status    string `json:"status"`
	EventID   int64  `json:"event_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

// EventsResponse is the payload for GET /api/events.
type EventsResponse struct {
	Events []eventlog.Event `json:"events"`
	Total  int              `json:"total"`
}

// UpdatedResponse acknowledges POST /api/pipeline/update.
type UpdatedResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// DecisionRequest is the body of POST /api/agent/decision.
type DecisionRequest struct {
	Action     string  `json:"action"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
	Result     string  `json:"result"`
}

// AgentStatusResponse is the derived summary for GET /api/agent/status.
// DecisionsToday counts decision events still inside the bounded log window,
// not a calendar day — see the package comment.
type AgentStatusResponse struct {
	Status         string          `json:"status"` // "active" | "idle"
	DecisionsToday int             `json:"decisions_today"`
	LastDecision   *eventlog.Event `json:"last_decision"`
	LastActivity   string          `json:"last_activity,omitempty"`
}

// SummaryResponse is the payload for GET /api/status/summary: every upstream
// probed concurrently, each section flattened exactly as its own endpoint
// would report it.
type SummaryResponse struct {
	GeneratedAt string                 `json:"generated_at"` // RFC3339 UTC
	Workflow    WorkflowStatusResponse `json:"workflow"`
	TTS         TTSCreditsResponse     `json:"tts"`
	LLM         LLMStatusResponse      `json:"llm"`
	Video       VideoHealthResponse    `json:"video"`
	Deploy      DeploymentsResponse    `json:"deploy"`
}
