package runner

// Events
type TargetSkippedEvent struct {
	Target string
}
type TargetStartEvent struct {
	Target string
	Cuts   int
}
type SegmentDoneEvent struct {
	Target string
	Index  int
	Total  int
	Path   string
}

// TargetDoneEvent has Path set when the target was merged, Segments when
// merging is off.
type TargetDoneEvent struct {
	Target   string
	Path     string
	Segments []string
}
type FailureEvent struct {
	Target string
	Err    error
}

// ResultType tags the JSON log line written for every built target.
const ResultType = "target_result"

type ResultEntry struct {
	Type        string  `json:"type"`
	Target      string  `json:"target"`
	Segments    int     `json:"segments"`
	DurationSec float64 `json:"duration_sec"`
	Size        int64   `json:"size"`
	DryRun      bool    `json:"dry_run,omitempty"`
	Timestamp   string  `json:"timestamp"`
}
