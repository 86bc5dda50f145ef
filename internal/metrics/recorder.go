package metrics

import "time"

// OutcomeLabel enumerates command outcomes for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeWarning  OutcomeLabel = "warning"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for command runs. All methods must be
// safe to call on a NoopRecorder.
type Recorder interface {
	ObserveRunDuration(command string, d time.Duration)
	IncRunOutcome(command string, outcome OutcomeLabel)
	IncFileWritten(format string)
	SetDocuments(n int)
	SetUnresolved(n int)
	SetBrokenLinks(n int)
	IncRebuild(trigger string) // trigger: fsnotify|rescan
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(string, OutcomeLabel)       {}
func (NoopRecorder) IncFileWritten(string)                    {}
func (NoopRecorder) SetDocuments(int)                         {}
func (NoopRecorder) SetUnresolved(int)                        {}
func (NoopRecorder) SetBrokenLinks(int)                       {}
func (NoopRecorder) IncRebuild(string)                        {}

// OutcomeFor maps a run error onto an outcome label. warned marks a run that
// succeeded with findings.
func OutcomeFor(err error, canceled, warned bool) OutcomeLabel {
	switch {
	case canceled:
		return OutcomeCanceled
	case err != nil:
		return OutcomeFailed
	case warned:
		return OutcomeWarning
	default:
		return OutcomeSuccess
	}
}
