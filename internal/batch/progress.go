package batch

import "fmt"

// ProgressStatus is the lifecycle state of one request in a batch.
type ProgressStatus int

const (
	ProgressPending ProgressStatus = iota
	ProgressWorking
	ProgressComplete
	ProgressFailed
)

// ProgressEvent reports a state change of one request.
type ProgressEvent struct {
	FileID  string
	Status  ProgressStatus
	Message string
}

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event. It blocks while the buffer is full, so every
// event reaches the subscriber and the pipeline is paced by its reader.
// Emit must not be called after Close.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	pr.ch <- event
}

// Subscribe returns a read-only channel for consuming progress events. The
// subscriber must drain it for as long as events are emitted.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (queued)", event.FileID)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.FileID)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s", event.FileID)
	case ProgressFailed:
		return fmt.Sprintf("  ✗ %s failed: %s", event.FileID, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.FileID)
	}
}
