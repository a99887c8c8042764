package session

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestManager(ttl time.Duration) *Manager {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(testDatasets(), func() RecentSource {
		return &fakeSource{}
	}, ttl, logger)
}

func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(time.Hour)

	s := m.Create()
	if s.ID == "" {
		t.Fatal("expected a session id")
	}

	got, ok := m.Get(s.ID)
	if !ok || got.ID != s.ID {
		t.Fatalf("expected to retrieve session %q", s.ID)
	}
	if _, ok := m.Get("nope"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := newTestManager(time.Hour)

	a := m.Create()
	b := m.Create()

	if err := a.Engine.SetDisplayMode("Heatmap"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Engine.View().Selection.DisplayMode == "Heatmap" {
		t.Fatal("sessions must not share selection state")
	}
}

func TestManagerSweepRemovesIdleSessions(t *testing.T) {
	m := newTestManager(10 * time.Millisecond)

	s := m.Create()
	time.Sleep(25 * time.Millisecond)
	m.sweep()

	if _, ok := m.Get(s.ID); ok {
		t.Fatal("expected idle session to be swept")
	}
	if m.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", m.Len())
	}
}

func TestManagerDelete(t *testing.T) {
	m := newTestManager(time.Hour)

	s := m.Create()
	m.Delete(s.ID)

	if _, ok := m.Get(s.ID); ok {
		t.Fatal("expected session to be gone after delete")
	}
}
