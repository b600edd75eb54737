package analyze

import "time"

// Stage names one branch of the analysis pipeline.
type Stage string

const (
	// StageManifest covers manifest parsing and metadata checks.
	StageManifest Stage = "manifest"
	// StageCode covers source collection and pattern scanning.
	StageCode Stage = "code"
	// StageDeps covers dependency resolution and registry lookups.
	StageDeps Stage = "deps"
	// StageAudit covers the vulnerability scan.
	StageAudit Stage = "audit"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusWorking indicates the stage is currently running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed outright.
	StatusError Status = "error"
)

// Event reports progress for one stage.
type Event struct {
	Stage    Stage
	Status   Status
	Err      error
	Elapsed  time.Duration
	Findings int
}

// ProgressSink consumes progress events. OnEvent may be called from
// multiple goroutines.
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
