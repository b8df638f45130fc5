package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mt4110/quickcut/internal/mkvtool"
	"github.com/mt4110/quickcut/internal/runner"
)

type countingCutter struct {
	mu     sync.Mutex
	merges int
}

func (c *countingCutter) Split(_ context.Context, _, out, _, _ string, _ mkvtool.RangeMode) error {
	return os.WriteFile(out, nil, 0644)
}

func (c *countingCutter) Merge(_ context.Context, out string, _ ...string) error {
	c.mu.Lock()
	c.merges++
	c.mu.Unlock()
	return os.WriteFile(out, nil, 0644)
}

func TestIsControlFileChange(t *testing.T) {
	absFile := filepath.Join(string(filepath.Separator)+"work", "quickcut.csv")
	w := &Watcher{}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "write to control file",
			event: fsnotify.Event{Name: absFile, Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "control file replaced",
			event: fsnotify.Event{Name: absFile, Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: absFile, Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "segment written next to it",
			event: fsnotify.Event{Name: filepath.Join(filepath.Dir(absFile), "a-1.mkv"), Op: fsnotify.Create},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.isControlFileChange(tt.event, absFile); got != tt.want {
				t.Errorf("isControlFileChange(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func waitPass(t *testing.T, events <-chan interface{}) PassDoneEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if done, ok := ev.(PassDoneEvent); ok {
				return done
			}
		case <-timeout:
			t.Fatal("timed out waiting for a pass")
		}
	}
}

func TestRun_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	controlFile := filepath.Join(dir, "quickcut.csv")
	if err := os.WriteFile(filepath.Join(dir, "in.mkv"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(controlFile, []byte("source,target,cut_from,cut_to\nin.mkv,a.mkv,0,10\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cutter := &countingCutter{}
	opts := runner.DefaultOptions()
	opts.BaseDir = dir
	events := make(chan interface{}, 64)

	w := New(controlFile, runner.New(cutter, opts), 50*time.Millisecond)
	w.EventChan = events

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	first := waitPass(t, events)
	if first.Err != nil || first.Summary.Built != 1 {
		t.Fatalf("first pass = %+v", first)
	}

	// a.mkv exists now and is no longer the last target, b.mkv is new.
	content := "source,target,cut_from,cut_to\nin.mkv,a.mkv,0,10\nin.mkv,b.mkv,20,30\n"
	if err := os.WriteFile(controlFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	second := waitPass(t, events)
	if second.Err != nil {
		t.Fatalf("second pass failed: %v", second.Err)
	}
	if second.Summary.Skipped != 1 || second.Summary.Built != 1 {
		t.Errorf("second pass summary = %+v, want 1 built, 1 skipped", second.Summary)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Run returned %v", err)
	}
}

func TestRun_MissingControlFileDoesNotStop(t *testing.T) {
	dir := t.TempDir()
	events := make(chan interface{}, 16)

	w := New(filepath.Join(dir, "quickcut.csv"), runner.New(&countingCutter{}, runner.DefaultOptions()), 50*time.Millisecond)
	w.EventChan = events

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	done := waitPass(t, events)
	if done.Err == nil {
		t.Fatal("expected the first pass to fail without a control file")
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Run returned %v", err)
	}
}
