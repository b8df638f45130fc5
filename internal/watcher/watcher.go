package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mt4110/quickcut/internal/control"
	"github.com/mt4110/quickcut/internal/runner"
)

// Watcher re-runs a control file every time it is saved.
type Watcher struct {
	ControlFile string
	Runner      *runner.Runner
	Debounce    time.Duration
	EventChan   chan<- interface{} // Optional: Send events for TUI
}

func New(controlFile string, r *runner.Runner, debounce time.Duration) *Watcher {
	return &Watcher{
		ControlFile: controlFile,
		Runner:      r,
		Debounce:    debounce,
	}
}

// Events
type PassStartEvent struct {
	ControlFile string
}
type PassDoneEvent struct {
	ControlFile string
	Summary     runner.Summary
	Err         error
}

// Run performs one pass right away and another after every change to the
// control file, until ctx is done. A failing pass is logged and does not
// stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	absFile, err := filepath.Abs(w.ControlFile)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	// Editors replace files on save, so watch the directory.
	dir := filepath.Dir(absFile)
	if err := fw.Add(dir); err != nil {
		return err
	}
	log.Printf("監視を開始しました: %s", absFile)

	w.pass(ctx, absFile)

	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.isControlFileChange(event, absFile) {
				continue
			}
			timer.Reset(w.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Println("監視エラー:", err)
		case <-timer.C:
			log.Printf("変更を検知: %s", absFile)
			w.pass(ctx, absFile)
		}
	}
}

func (w *Watcher) isControlFileChange(event fsnotify.Event, absFile string) bool {
	if filepath.Clean(event.Name) != absFile {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) pass(ctx context.Context, absFile string) {
	w.emit(PassStartEvent{ControlFile: absFile})

	plan, stats, err := control.Load(absFile)
	if err != nil {
		log.Printf("❌ %v", err)
		w.emit(PassDoneEvent{ControlFile: absFile, Err: err})
		return
	}
	if stats.Skipped > 0 {
		log.Printf("ℹ️ %d rows skipped", stats.Skipped)
	}

	sum, err := w.Runner.Run(ctx, plan)
	if err != nil {
		log.Printf("❌ %v", err)
	}
	w.emit(PassDoneEvent{ControlFile: absFile, Summary: sum, Err: err})
}

func (w *Watcher) emit(ev interface{}) {
	if w.EventChan != nil {
		w.EventChan <- ev
	}
}
