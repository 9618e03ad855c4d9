package driver

import "time"

// Stage describes a phase of the per-file pipeline.
type Stage string

const (
	// StageLoad reads the file into memory.
	StageLoad Stage = "load"
	// StagePlan locates directives and decides the edit.
	StagePlan Stage = "plan"
	// StageWrite commits the edit through a temp file.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently in Stage.
	StatusWorking Status = "working"
	// StatusDone indicates the file finished; Changed tells whether it was rewritten.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file. Elapsed is set on the final event
// (StatusDone or StatusError) and covers the whole per-file pipeline.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Changed bool
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: events arrive from every worker.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
