package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pulseboard/pulseboard/internal/eventlog"
	"github.com/pulseboard/pulseboard/internal/pipeline"
	wsHub "github.com/pulseboard/pulseboard/internal/ws"
)

const testInterval = 20 * time.Millisecond

// --- helpers ----------------------------------------------------------------

// startHub starts a test HTTP server with the hub as its handler.
// The hub's Run loop is started with a cancellable context.
func startHub(t *testing.T, log *eventlog.Log, tracker *pipeline.Tracker) (wsURL string, hub *wsHub.Hub) {
	t.Helper()

	hub = wsHub.New(log, tracker, testInterval)
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeHTTP))
	go hub.Run(ctx)

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return "ws" + strings.TrimPrefix(srv.URL, "http"), hub
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsHub.Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg wsHub.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal message: %v (raw: %s)", err, raw)
	}
	return msg
}

// --- tests ------------------------------------------------------------------

func TestHub_Connect_ReceivesImmediateState(t *testing.T) {
	log := eventlog.New(100)
	log.Append(eventlog.Input{Type: "info", Message: "boot"})
	tracker := pipeline.NewTracker()

	wsURL, _ := startHub(t, log, tracker)
	conn := dial(t, wsURL)

	msg := readMessage(t, conn)
	if msg.Event != "state" {
		t.Errorf("event: got %q, want state", msg.Event)
	}
	if msg.Data.EventTotal != 1 || len(msg.Data.Events) != 1 {
		t.Errorf("events: got %+v", msg.Data)
	}
	if msg.Data.Pipeline.CurrentStage != "idle" {
		t.Errorf("pipeline stage: got %q, want idle", msg.Data.Pipeline.CurrentStage)
	}
}

func TestHub_Broadcast_ReflectsNewEvents(t *testing.T) {
	log := eventlog.New(100)
	tracker := pipeline.NewTracker()
	wsURL, _ := startHub(t, log, tracker)
	conn := dial(t, wsURL)

	readMessage(t, conn) // initial state

	log.Append(eventlog.Input{Type: "success", Message: "rendered"})

	// The next tick (or the one after) must carry the new event.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		msg := readMessage(t, conn)
		if msg.Data.EventTotal == 1 {
			if msg.Data.Events[0].Message != "rendered" {
				t.Errorf("event: got %+v", msg.Data.Events[0])
			}
			return
		}
	}
	t.Fatal("broadcast never reflected the appended event")
}

func TestHub_CountTracksConnections(t *testing.T) {
	wsURL, hub := startHub(t, eventlog.New(100), pipeline.NewTracker())

	if hub.Count() != 0 {
		t.Fatalf("initial count: got %d, want 0", hub.Count())
	}

	conn := dial(t, wsURL)
	waitFor(t, func() bool { return hub.Count() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
