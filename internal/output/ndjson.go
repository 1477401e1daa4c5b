package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/validate"
)

// NDJSONWriter writes tail output as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep log lines unescaped
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// LinesOutput carries the lines of a reload or an append
type LinesOutput struct {
	Type          string   `json:"type"` // "reload" or "append"
	SchemaVersion int      `json:"schemaVersion"`
	Path          string   `json:"path"`
	Lines         []string `json:"lines"`
	Trimmed       int      `json:"trimmed,omitempty"`
	Total         int      `json:"total"`
}

// RotationOutput describes a deletion, rename or truncation of the tailed file
type RotationOutput struct {
	Type          string `json:"type"` // Always "rotation"
	SchemaVersion int    `json:"schemaVersion"`
	RotationType  string `json:"rotation_type"`
	OldPath       string `json:"old_path"`
	NewPath       string `json:"new_path,omitempty"`
	Method        string `json:"method"`
	Timestamp     string `json:"timestamp"`
}

// PathOutput is used for "deleted", "recreated" and "timeout"
type PathOutput struct {
	Type          string `json:"type"`
	SchemaVersion int    `json:"schemaVersion"`
	Path          string `json:"path"`
	ElapsedMs     int64  `json:"elapsed_ms,omitempty"`
	Attempts      int    `json:"attempts,omitempty"`
}

// StatusOutput carries a status line
type StatusOutput struct {
	Type          string `json:"type"` // Always "status"
	SchemaVersion int    `json:"schemaVersion"`
	Message       string `json:"message"`
	Severity      string `json:"severity"`
}

// PendingOutput reports changes held back while paused
type PendingOutput struct {
	Type          string `json:"type"` // Always "pending"
	SchemaVersion int    `json:"schemaVersion"`
	Count         int    `json:"count"`
}

// StateOutput reports a monitor state transition
type StateOutput struct {
	Type          string `json:"type"` // Always "state"
	SchemaVersion int    `json:"schemaVersion"`
	From          string `json:"from"`
	To            string `json:"to"`
}

// ErrorOutput represents an error
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schemaVersion"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// ValidationOutput is the result of validating a file
type ValidationOutput struct {
	Type          string `json:"type"` // Always "validation"
	SchemaVersion int    `json:"schemaVersion"`
	Path          string `json:"path"`
	validate.Result
}

// VersionOutput describes the binary
type VersionOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schemaVersion"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
}

// FormatOutput describes a log format
type FormatOutput struct {
	Type          string            `json:"type"` // Always "format"
	SchemaVersion int               `json:"schemaVersion"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	BuiltIn       bool              `json:"builtIn"`
	HeaderPattern string            `json:"fullLogPattern,omitempty"`
	LevelPattern  string            `json:"levelPattern"`
	LevelMappings map[string]string `json:"levelMappings"`
}

// WriteUpdate outputs the lines of a tail pass
func (w *NDJSONWriter) WriteUpdate(path string, u engine.Update) error {
	lines := u.Lines
	if lines == nil {
		lines = []string{}
	}
	return w.encoder.Encode(&LinesOutput{
		Type:          string(u.Kind),
		SchemaVersion: SchemaVersion,
		Path:          path,
		Lines:         lines,
		Trimmed:       u.Trimmed,
		Total:         u.Total,
	})
}

// WriteNotification outputs a monitor notification. Changed is internal and skipped.
func (w *NDJSONWriter) WriteNotification(n domain.Notification) error {
	switch n := n.(type) {
	case domain.RotationDetected:
		return w.encoder.Encode(&RotationOutput{
			Type:          "rotation",
			SchemaVersion: SchemaVersion,
			RotationType:  string(n.Type),
			OldPath:       n.OldPath,
			NewPath:       n.NewPath,
			Method:        n.DetectionMethod,
			Timestamp:     n.At.Format(time.RFC3339Nano),
		})
	case domain.Deleted:
		return w.encoder.Encode(&PathOutput{Type: "deleted", SchemaVersion: SchemaVersion, Path: n.Path})
	case domain.Recreated:
		return w.encoder.Encode(&PathOutput{
			Type:          "recreated",
			SchemaVersion: SchemaVersion,
			Path:          n.Path,
			ElapsedMs:     n.Elapsed.Milliseconds(),
		})
	case domain.TimedOut:
		return w.encoder.Encode(&PathOutput{
			Type:          "timeout",
			SchemaVersion: SchemaVersion,
			Path:          n.Path,
			ElapsedMs:     n.Elapsed.Milliseconds(),
			Attempts:      n.Attempts,
		})
	case domain.StatusChanged:
		return w.encoder.Encode(&StatusOutput{
			Type:          "status",
			SchemaVersion: SchemaVersion,
			Message:       n.Message,
			Severity:      string(n.Severity),
		})
	case domain.BufferedCountChanged:
		return w.encoder.Encode(&PendingOutput{Type: "pending", SchemaVersion: SchemaVersion, Count: n.Count})
	case domain.StateChanged:
		return w.encoder.Encode(&StateOutput{
			Type:          "state",
			SchemaVersion: SchemaVersion,
			From:          string(n.From),
			To:            string(n.To),
		})
	}
	return nil
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(out)
}

// WriteValidation outputs a validation result
func (w *NDJSONWriter) WriteValidation(path string, res validate.Result) error {
	return w.encoder.Encode(&ValidationOutput{
		Type:          "validation",
		SchemaVersion: SchemaVersion,
		Path:          path,
		Result:        res,
	})
}

// WriteVersion outputs version information
func (w *NDJSONWriter) WriteVersion(version, commit string) error {
	return w.encoder.Encode(&VersionOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
	})
}

// WriteFormat outputs a format descriptor
func (w *NDJSONWriter) WriteFormat(d format.Descriptor) error {
	spec := d.Spec()
	return w.encoder.Encode(&FormatOutput{
		Type:          "format",
		SchemaVersion: SchemaVersion,
		Name:          spec.Name,
		Description:   spec.Description,
		BuiltIn:       d.BuiltIn,
		HeaderPattern: spec.HeaderPattern,
		LevelPattern:  spec.LevelPattern,
		LevelMappings: spec.LevelMappings,
	})
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
