// Package api implements the HTTP REST API for pulseboard.
//
// New(log, tracker, upstreams, notifier, youtube) returns a handler serving:
//
//	GET  /api/health                     — liveness, UTC timestamp, instance id
//	GET  /api/workflow/status            — tracked workflow metadata
//	GET  /api/workflow/executions        — the workflow's most recent runs
//	GET  /api/credits/elevenlabs         — TTS character usage and percentage
//	GET  /api/credits/openai             — LLM key validity note
//	GET  /api/services/video-api         — video service /health probe
//	GET  /api/services/video-api/metrics — summed Prometheus counters
//	GET  /api/services/coolify           — deployed applications listing
//	GET  /api/youtube/channel            — placeholder until OAuth lands
//	POST /api/events/log                 — append one event
//	GET  /api/events?limit=              — newest-first event snapshot + total
//	POST /api/pipeline/update            — partial-merge pipeline state
//	GET  /api/pipeline/status            — full pipeline state
//	GET  /api/content/calendar           — placeholder
//	POST /api/agent/decision             — append a decision-typed event
//	GET  /api/agent/status               — derived summary over the event log
//	GET  /api/status/summary             — all upstreams probed concurrently
//
// Error contract: every endpoint answers 200 with any failure embedded as an
// "error" field next to adapter-appropriate fallback values. Existing
// dashboard clients branch on the presence of "error", not on status codes,
// so this contract must not change.
//
// Note on /api/agent/status: decisions_today is the count of decision events
// still inside the bounded log window, not a calendar-day count. Once the log
// wraps, older decisions silently stop counting.
package api
