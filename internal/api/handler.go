package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/eventlog"
	"github.com/pulseboard/pulseboard/internal/pipeline"
	"github.com/pulseboard/pulseboard/internal/upstream"
)

// defaultEventLimit caps GET /api/events when no limit parameter is given.
const defaultEventLimit = 50

// Upstreams bundles the five adapters the dispatch layer fans out to.
type Upstreams struct {
	Workflow *upstream.Workflow
	TTS      *upstream.TTS
	LLM      *upstream.LLM
	Deploy   *upstream.Deploy
	Video    *upstream.Video
}

// Notifier receives every event appended through the API. The webhook
// notifier filters for error-typed events; tests plug in a recorder.
type Notifier interface {
	EventLogged(eventlog.Event)
}

// Handler is the HTTP handler for all /api/* endpoints. It routes each
// request to exactly one adapter call, event log operation or pipeline
// state operation and serializes the result with no extra envelope.
type Handler struct {
	log      *eventlog.Log
	tracker  *pipeline.Tracker
	up       Upstreams
	notifier Notifier
	youtube  config.YouTubeConfig

	router   chi.Router
	instance string
	started  time.Time
	now      func() time.Time // injectable for deterministic tests
}

// New creates a Handler wired to the given stores and adapters and registers
// all routes. notifier may be nil.
func New(log *eventlog.Log, tracker *pipeline.Tracker, up Upstreams, notifier Notifier, yt config.YouTubeConfig) *Handler {
	h := &Handler{
		log:      log,
		tracker:  tracker,
		up:       up,
		notifier: notifier,
		youtube:  yt,
		instance: uuid.NewString(),
		started:  time.Now(),
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/api/health", h.health)
	r.Get("/api/workflow/status", h.workflowStatus)
	r.Get("/api/workflow/executions", h.workflowExecutions)
	r.Get("/api/credits/elevenlabs", h.ttsCredits)
	r.Get("/api/credits/openai", h.llmStatus)
	r.Get("/api/services/video-api", h.videoHealth)
	r.Get("/api/services/video-api/metrics", h.videoMetrics)
	r.Get("/api/services/coolify", h.deployments)
	r.Get("/api/youtube/channel", h.youtubeChannel)
	r.Post("/api/events/log", h.logEvent)
	r.Get("/api/events", h.listEvents)
	r.Post("/api/pipeline/update", h.updatePipeline)
	r.Get("/api/pipeline/status", h.pipelineStatus)
	r.Get("/api/content/calendar", h.contentCalendar)
	r.Post("/api/agent/decision", h.agentDecision)
	r.Get("/api/agent/status", h.agentStatus)
	r.Get("/api/status/summary", h.statusSummary)

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- liveness ---------------------------------------------------------------

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, HealthResponse{
		Status:        "healthy",
		Timestamp:     h.now().UTC().Format(time.RFC3339),
		Instance:      h.instance,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	})
}

// --- upstream pass-throughs -------------------------------------------------

func (h *Handler) workflowStatus(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, h.fetchWorkflowStatus(r))
}

func (h *Handler) fetchWorkflowStatus(r *http.Request) WorkflowStatusResponse {
	st, err := h.up.Workflow.FetchStatus(r.Context())
	if err != nil {
		return WorkflowStatusResponse{Error: err.Error()}
	}
	return WorkflowStatusResponse{WorkflowStatus: st}
}

func (h *Handler) workflowExecutions(w http.ResponseWriter, r *http.Request) {
	execs, err := h.up.Workflow.FetchExecutions(r.Context())
	if err != nil {
		jsonResp(w, ExecutionsResponse{Executions: []upstream.Execution{}, Error: err.Error()})
		return
	}
	jsonResp(w, ExecutionsResponse{Executions: execs})
}

func (h *Handler) ttsCredits(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, h.fetchTTSCredits(r))
}

func (h *Handler) fetchTTSCredits(r *http.Request) TTSCreditsResponse {
	c, err := h.up.TTS.FetchCredits(r.Context())
	if err != nil {
		return TTSCreditsResponse{Error: err.Error()}
	}
	return TTSCreditsResponse{TTSCredits: c}
}

func (h *Handler) llmStatus(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, h.fetchLLMStatus(r))
}

func (h *Handler) fetchLLMStatus(r *http.Request) LLMStatusResponse {
	st, err := h.up.LLM.FetchStatus(r.Context())
	if upstream.NotConfigured(err) {
		return LLMStatusResponse{
			LLMStatus: upstream.LLMStatus{Status: "not_configured"},
			Error:     err.Error(),
		}
	}
	if err != nil {
		return LLMStatusResponse{
			LLMStatus: upstream.LLMStatus{Status: "error"},
			Error:     err.Error(),
		}
	}
	return LLMStatusResponse{LLMStatus: st}
}

func (h *Handler) videoHealth(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, h.fetchVideoHealth(r))
}

func (h *Handler) fetchVideoHealth(r *http.Request) VideoHealthResponse {
	vh, err := h.up.Video.FetchHealth(r.Context())
	if upstream.NotConfigured(err) {
		return VideoHealthResponse{
			VideoHealth: upstream.VideoHealth{Status: "not_configured"},
			Error:       err.Error(),
		}
	}
	if err != nil {
		// Unreachable service: the dashboard shows it as offline.
		return VideoHealthResponse{
			VideoHealth: upstream.VideoHealth{Status: "offline"},
			Error:       err.Error(),
		}
	}
	return VideoHealthResponse{VideoHealth: vh}
}

func (h *Handler) videoMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.up.Video.FetchMetrics(r.Context())
	if err != nil {
		status := "offline"
		if upstream.NotConfigured(err) {
			status = "not_configured"
		}
		jsonResp(w, VideoMetricsResponse{
			VideoMetrics: upstream.VideoMetrics{Status: status, Metrics: map[string]float64{}},
			Error:        err.Error(),
		})
		return
	}
	jsonResp(w, VideoMetricsResponse{VideoMetrics: m})
}

func (h *Handler) deployments(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, h.fetchDeployments(r))
}

func (h *Handler) fetchDeployments(r *http.Request) DeploymentsResponse {
	d, err := h.up.Deploy.FetchApplications(r.Context())
	if err != nil {
		return DeploymentsResponse{
			Deployments: upstream.Deployments{Applications: []upstream.Application{}},
			Error:       err.Error(),
		}
	}
	return DeploymentsResponse{Deployments: d}
}

// --- placeholders -----------------------------------------------------------

func (h *Handler) youtubeChannel(w http.ResponseWriter, r *http.Request) {
	channels := make([]Channel, 0, len(h.youtube.Channels))
	for _, name := range h.youtube.Channels {
		channels = append(channels, Channel{Name: name, Status: "pending_auth"})
	}
	jsonResp(w, YouTubeResponse{
		Note:     "YouTube Analytics requires OAuth authentication",
		Channels: channels,
		SetupURL: h.youtube.SetupURL,
	})
}

func (h *Handler) contentCalendar(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, CalendarResponse{
		Note:  "Content calendar is managed in the workflow engine",
		Items: []any{},
	})
}

// --- event log --------------------------------------------------------------

func (h *Handler) logEvent(w http.ResponseWriter, r *http.Request) {
	var in eventlog.Input
	if err := decodeBody(r, &in); err != nil {
		jsonResp(w, LoggedResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	ev := h.log.Append(in)
	if h.notifier != nil {
		h.notifier.EventLogged(ev)
	}
	jsonResp(w, LoggedResponse{Status: "logged", EventID: ev.ID, Timestamp: ev.Timestamp})
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	events, total := h.log.Snapshot(limit)
	jsonResp(w, EventsResponse{Events: events, Total: total})
}

// --- pipeline state ---------------------------------------------------------

func (h *Handler) updatePipeline(w http.ResponseWriter, r *http.Request) {
	var u pipeline.Update
	if err := decodeBody(r, &u); err != nil {
		jsonResp(w, UpdatedResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	h.tracker.Apply(u)
	jsonResp(w, UpdatedResponse{Status: "updated"})
}

func (h *Handler) pipelineStatus(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, h.tracker.Read())
}

// --- agent ------------------------------------------------------------------

func (h *Handler) agentDecision(w http.ResponseWriter, r *http.Request) {
	var d DecisionRequest
	if err := decodeBody(r, &d); err != nil {
		jsonResp(w, LoggedResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	ev := h.log.Append(eventlog.Input{
		Type:    "decision",
		Source:  "agent",
		Message: d.Action,
		Details: map[string]any{
			"action":     d.Action,
			"reason":     d.Reason,
			"confidence": d.Confidence,
			"result":     d.Result,
		},
	})
	if h.notifier != nil {
		h.notifier.EventLogged(ev)
	}
	jsonResp(w, LoggedResponse{Status: "logged", EventID: ev.ID, Timestamp: ev.Timestamp})
}

func (h *Handler) agentStatus(w http.ResponseWriter, r *http.Request) {
	resp := AgentStatusResponse{
		Status:         "idle",
		DecisionsToday: h.log.CountByType("decision"),
	}
	if last, ok := h.log.LatestOfType("decision"); ok {
		resp.Status = "active"
		resp.LastDecision = &last
	}
	if latest, ok := h.log.Latest(); ok {
		resp.LastActivity = latest.Timestamp
	}
	jsonResp(w, resp)
}

// --- aggregate --------------------------------------------------------------

// statusSummary probes every upstream concurrently. Adapter failures are
// flattened per section, so the group never returns an error and one slow
// or dead upstream cannot blank the whole summary.
func (h *Handler) statusSummary(w http.ResponseWriter, r *http.Request) {
	resp := SummaryResponse{GeneratedAt: h.now().UTC().Format(time.RFC3339)}

	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error { resp.Workflow = h.fetchWorkflowStatus(r); return nil })
	g.Go(func() error { resp.TTS = h.fetchTTSCredits(r); return nil })
	g.Go(func() error { resp.LLM = h.fetchLLMStatus(r); return nil })
	g.Go(func() error { resp.Video = h.fetchVideoHealth(r); return nil })
	g.Go(func() error { resp.Deploy = h.fetchDeployments(r); return nil })
	g.Wait() //nolint:errcheck // goroutines never return errors

	jsonResp(w, resp)
}

// --- helpers ----------------------------------------------------------------

// jsonResp writes v with status 200. Business failures ride inside the body;
// the status code is reserved for transport-level problems.
func jsonResp(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// cors allows any origin. The dashboard is a separate static frontend and
// the API carries no credentials.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
