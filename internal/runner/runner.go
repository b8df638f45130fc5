package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mt4110/quickcut/internal/control"
	"github.com/mt4110/quickcut/internal/mkvtool"
)

// Cutter is the part of mkvtool.Tool the runner needs.
type Cutter interface {
	Split(ctx context.Context, in, out, from, to string, mode mkvtool.RangeMode) error
	Merge(ctx context.Context, out string, parts ...string) error
}

type Options struct {
	// SkipExisting leaves targets that already exist on disk alone.
	SkipExisting bool
	// AlwaysRebuildLast exempts the plan's last target from SkipExisting.
	AlwaysRebuildLast bool
	// Merge concatenates the segments into the target and removes them.
	Merge bool
	Mode  mkvtool.RangeMode
	// BaseDir resolves relative paths of the plan. Empty means the
	// working directory.
	BaseDir string
	// DryRun treats sources produced by earlier targets as present.
	DryRun bool
}

func DefaultOptions() Options {
	return Options{
		SkipExisting:      true,
		AlwaysRebuildLast: true,
		Merge:             true,
		Mode:              mkvtool.Frames,
	}
}

// MissingSourceError is returned when a cut refers to a file that does not exist.
type MissingSourceError struct {
	Target string
	Source string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("source %s not found (target %s)", e.Source, e.Target)
}

// Summary counts what a run did.
type Summary struct {
	Built    int
	Skipped  int
	Segments int
}

type Runner struct {
	Tool      Cutter
	Opts      Options
	EventChan chan<- interface{} // Optional: Send events for TUI
}

func New(tool Cutter, opts Options) *Runner {
	return &Runner{Tool: tool, Opts: opts}
}

// Run builds every target of plan in order. The first error stops the run;
// targets built before it stay on disk.
func (r *Runner) Run(ctx context.Context, plan *control.Plan) (Summary, error) {
	var sum Summary
	targets := plan.Targets()
	log.Printf("対象: %d件 (mode: %s)", len(targets), r.Opts.Mode)

	for _, target := range targets {
		if r.ShouldSkip(plan, target) {
			log.Printf("skipping %s", target)
			sum.Skipped++
			r.emit(TargetSkippedEvent{Target: target})
			continue
		}

		segments, err := r.buildTarget(ctx, plan, target)
		sum.Segments += segments
		if err != nil {
			r.emit(FailureEvent{Target: target, Err: err})
			return sum, err
		}
		sum.Built++
	}

	log.Printf("✅ すべて完了 (built: %d, skipped: %d)", sum.Built, sum.Skipped)
	return sum, nil
}

// ShouldSkip reports whether Run would leave target alone.
func (r *Runner) ShouldSkip(plan *control.Plan, target string) bool {
	if !r.Opts.SkipExisting {
		return false
	}
	if r.Opts.AlwaysRebuildLast && target == plan.LastTarget() {
		return false
	}
	return isFile(r.Resolve(target))
}

func (r *Runner) buildTarget(ctx context.Context, plan *control.Plan, target string) (int, error) {
	cuts := plan.Cuts(target)
	targetPath := r.Resolve(target)
	startTime := time.Now()

	log.Printf("▶ %s (%d cuts)", target, len(cuts))
	r.emit(TargetStartEvent{Target: target, Cuts: len(cuts)})

	segments := make([]string, 0, len(cuts))
	for i, cut := range cuts {
		source := r.Resolve(cut.Source)
		if !isFile(source) && !(r.Opts.DryRun && plan.Has(cut.Source)) {
			return len(segments), &MissingSourceError{Target: target, Source: cut.Source}
		}

		segment := mkvtool.SegmentPath(targetPath, i+1)
		if err := r.Tool.Split(ctx, source, segment, cut.CutFrom, cut.CutTo, r.Opts.Mode); err != nil {
			return len(segments), fmt.Errorf("cut %d of %s: %w", i+1, target, err)
		}
		segments = append(segments, segment)
		r.emit(SegmentDoneEvent{Target: target, Index: i + 1, Total: len(cuts), Path: segment})
	}

	if !r.Opts.Merge {
		log.Printf("🔪 %s: %d segments left in place", target, len(segments))
		r.emit(TargetDoneEvent{Target: target, Segments: segments})
		return len(segments), nil
	}

	if err := r.Tool.Merge(ctx, targetPath, segments...); err != nil {
		return len(segments), fmt.Errorf("merge %s: %w", target, err)
	}
	if !r.Opts.DryRun {
		for _, segment := range segments {
			if err := os.Remove(segment); err != nil {
				return len(segments), fmt.Errorf("failed to remove segment: %w", err)
			}
		}
	}

	r.logResult(target, targetPath, len(segments), time.Since(startTime))
	r.emit(TargetDoneEvent{Target: target, Path: targetPath})
	return len(segments), nil
}

// logResult writes one JSON line per built target; `quickcut stats` reads them back.
func (r *Runner) logResult(target, targetPath string, segments int, d time.Duration) {
	var size int64
	if info, err := os.Stat(targetPath); err == nil {
		size = info.Size()
	}

	entry := ResultEntry{
		Type:        ResultType,
		Target:      target,
		Segments:    segments,
		DurationSec: d.Seconds(),
		Size:        size,
		DryRun:      r.Opts.DryRun,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if jsonBytes, err := json.Marshal(entry); err == nil {
		log.Println(string(jsonBytes))
	}
}

// Resolve maps a path of the plan onto BaseDir.
func (r *Runner) Resolve(path string) string {
	if r.Opts.BaseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.Opts.BaseDir, path)
}

func (r *Runner) emit(ev interface{}) {
	if r.EventChan != nil {
		r.EventChan <- ev
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
