// Package ws implements the WebSocket hub for live dashboard updates.
//
// Hub manages a set of connected clients and broadcasts the recent event tail
// plus the current pipeline state on a configurable interval (default 5s in
// production). The same data is available by polling GET /api/events and
// GET /api/pipeline/status; the hub just saves the dashboard from polling.
//
// Message format sent to clients:
//
//	{
//	  "event": "state",
//	  "data": {
//	    "events":       [ /* newest-first tail */ ],
//	    "event_total":  42,
//	    "pipeline":     { /* same schema as GET /api/pipeline/status */ },
//	    "generated_at": "2025-06-01T12:00:00Z"
//	  }
//	}
//
// The upgrader accepts all origins. The endpoint is mounted at /ws/stream by
// the server.
package ws
