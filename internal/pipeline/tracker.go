package pipeline

import (
	"maps"
	"sync"
	"time"
)

// Stats are the lifetime production counters. They only ever grow; resetting
// the daily/weekly windows is left to an external job or restart.
type Stats struct {
	VideosToday    int `json:"videos_today"`
	VideosThisWeek int `json:"videos_this_week"`
	TotalVideos    int `json:"total_videos"`
}

// Completed records the most recently finished item.
type Completed struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"` // RFC3339 UTC
}

// State is the full pipeline record returned by GET /api/pipeline/status.
type State struct {
	CurrentStage  string         `json:"current_stage"`
	CurrentVideo  map[string]any `json:"current_video"`
	Progress      float64        `json:"progress"`
	LastCompleted *Completed     `json:"last_completed,omitempty"`
	Stats         Stats          `json:"stats"`
	LastUpdated   string         `json:"last_updated"` // RFC3339 UTC
}

// Update is a partial state change posted by the content pipeline. Pointer
// fields and nil maps mean "not present — leave unchanged".
type Update struct {
	Stage     *string        `json:"stage"`
	Video     map[string]any `json:"video"`
	Progress  *float64       `json:"progress"`
	Completed bool           `json:"completed"`
}

// Tracker owns the single process-wide pipeline record. All access goes
// through Apply and Read under one mutex; callers never see a live reference.
type Tracker struct {
	mu    sync.Mutex
	state State
	now   func() time.Time // injectable for deterministic tests
}

// NewTracker creates a Tracker in the idle state with zeroed stats.
func NewTracker() *Tracker {
	return &Tracker{
		state: State{CurrentStage: "idle"},
		now:   time.Now,
	}
}

// Apply merges u over the current state. Only fields present in u are
// overwritten; last_updated is refreshed on every call. A completed update
// additionally records last_completed and increments the videos_today and
// total_videos counters.
func (t *Tracker) Apply(u Update) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC().Format(time.RFC3339)

	if u.Stage != nil {
		t.state.CurrentStage = *u.Stage
	}
	if u.Video != nil {
		t.state.CurrentVideo = maps.Clone(u.Video)
	}
	if u.Progress != nil {
		t.state.Progress = *u.Progress
	}

	if u.Completed {
		t.state.LastCompleted = &Completed{
			Title:     completedTitle(u.Video, t.state.CurrentVideo),
			Timestamp: now,
		}
		t.state.Stats.VideosToday++
		t.state.Stats.TotalVideos++
	}

	t.state.LastUpdated = now
}

// Read returns a copy of the current state. Mutating the returned value, or
// applying concurrent updates, cannot change a copy a reader already holds.
func (t *Tracker) Read() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := t.state
	out.CurrentVideo = maps.Clone(t.state.CurrentVideo)
	if t.state.LastCompleted != nil {
		lc := *t.state.LastCompleted
		out.LastCompleted = &lc
	}
	return out
}

// completedTitle picks the finished item's title: the incoming video wins,
// then whatever is currently in progress, then a placeholder.
func completedTitle(incoming, current map[string]any) string {
	for _, m := range []map[string]any{incoming, current} {
		if title, ok := m["title"].(string); ok && title != "" {
			return title
		}
	}
	return "untitled"
}
