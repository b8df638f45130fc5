package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mt4110/quickcut/internal/runner"
	"github.com/mt4110/quickcut/internal/watcher"
)

func apply(m Model, msgs ...interface{}) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_TracksTargets(t *testing.T) {
	m := NewModel("quickcut.csv", []string{"a.mkv", "b.mkv", "c.mkv"}, make(chan interface{}))

	m = apply(m,
		runner.TargetSkippedEvent{Target: "a.mkv"},
		runner.TargetStartEvent{Target: "b.mkv", Cuts: 2},
		runner.SegmentDoneEvent{Target: "b.mkv", Index: 1, Total: 2},
	)

	view := m.View()
	for _, want := range []string{"a.mkv", "exists, skipped", "cutting 1/2", "pending"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = apply(m,
		runner.TargetDoneEvent{Target: "b.mkv", Path: "b.mkv"},
		runner.FailureEvent{Target: "c.mkv", Err: errors.New("source in.mkv not found (target c.mkv)")},
		DoneMsg{Err: errors.New("source in.mkv not found (target c.mkv)")},
	)

	view = m.View()
	for _, want := range []string{"merged", "❌ Failed: c.mkv", "error: source in.mkv not found"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_NoMergeAndNewTargets(t *testing.T) {
	m := NewModel("quickcut.csv", nil, make(chan interface{}))

	m = apply(m,
		watcher.PassStartEvent{ControlFile: "quickcut.csv"},
		runner.TargetStartEvent{Target: "new.mkv", Cuts: 2},
		runner.TargetDoneEvent{Target: "new.mkv", Segments: []string{"new-1.mkv", "new-2.mkv"}},
		DoneMsg{},
	)

	view := m.View()
	for _, want := range []string{"new.mkv", "2 segments", "All done", "Reloading"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
