package domain

import "time"

// MonitorState is the lifecycle state of a file monitor
type MonitorState string

const (
	StateIdle               MonitorState = "idle"
	StateWatching           MonitorState = "watching"
	StatePaused             MonitorState = "paused"
	StateAwaitingRecreation MonitorState = "awaiting_recreation"
)

// RotationType describes how a watched file went away or changed identity
type RotationType string

const (
	RotationDeleted   RotationType = "deleted"
	RotationRenamed   RotationType = "renamed"
	RotationTruncated RotationType = "truncated"
)

// Severity classifies a status message
type Severity string

const (
	SeverityNormal  Severity = "normal"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Detection methods reported with RotationDetected
const (
	DetectedByEvents  = "events"
	DetectedByPolling = "polling"
)

// Notification is emitted by a file monitor. The concrete types below form
// a closed set; consumers switch on the type.
type Notification interface {
	Kind() string
}

// Changed signals that the file content should be re-read
type Changed struct{}

// Deleted signals that the watched file no longer exists at its path
type Deleted struct {
	Path string
}

// BufferedCountChanged reports how many change notifications were held back while paused
type BufferedCountChanged struct {
	Count int
}

// RotationDetected reports a deletion, rename or truncation of the watched file
type RotationDetected struct {
	Type            RotationType
	OldPath         string
	NewPath         string
	DetectionMethod string
	At              time.Time
}

// Recreated signals that a deleted file reappeared and monitoring resumed
type Recreated struct {
	Path    string
	Elapsed time.Duration
}

// StatusChanged carries a human readable status line
type StatusChanged struct {
	Message  string
	Severity Severity
}

// TimedOut signals that a deleted file did not reappear in time
type TimedOut struct {
	Path     string
	Elapsed  time.Duration
	Attempts int
}

// StateChanged reports a lifecycle transition
type StateChanged struct {
	From MonitorState
	To   MonitorState
}

func (Changed) Kind() string              { return "changed" }
func (Deleted) Kind() string              { return "deleted" }
func (BufferedCountChanged) Kind() string { return "pending" }
func (RotationDetected) Kind() string     { return "rotation" }
func (Recreated) Kind() string            { return "recreated" }
func (StatusChanged) Kind() string        { return "status" }
func (TimedOut) Kind() string             { return "timeout" }
func (StateChanged) Kind() string         { return "state" }
