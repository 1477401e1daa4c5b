package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vburojevic/ltail/internal/change"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/engine"
	"github.com/vburojevic/ltail/internal/parser"
	"github.com/vburojevic/ltail/internal/validate"
)

// clearScreen moves the cursor home and clears the terminal
const clearScreen = "\x1b[H\x1b[2J"

// TextWriter writes tail output as level-coloured text. Status lines go to a
// separate writer so that the log stream can be piped.
type TextWriter struct {
	w      io.Writer
	status io.Writer
	parser *parser.LineParser

	// Clear redraws the screen on every full reload
	Clear bool
	// Quiet suppresses status lines
	Quiet bool

	reloads int
	level   domain.Level
}

// NewTextWriter creates a new text writer. Lines are coloured by the level
// p finds in them; status may be nil to drop status lines.
func NewTextWriter(w, status io.Writer, p *parser.LineParser) *TextWriter {
	return &TextWriter{w: w, status: status, parser: p}
}

// WriteUpdate outputs the lines of a tail pass
func (w *TextWriter) WriteUpdate(_ string, u engine.Update) error {
	var b strings.Builder
	if u.Kind == change.FullReload {
		w.reloads++
		w.level = ""
		switch {
		case w.Clear:
			b.WriteString(clearScreen)
		case w.reloads > 1:
			b.WriteString(Styles.Label.Render("--- reloaded ---") + "\n")
		}
	}
	for _, line := range u.Lines {
		b.WriteString(w.colour(line))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w.w, b.String())
	return err
}

// colour styles a header by its level. Continuation lines take the style of
// the header above them.
func (w *TextWriter) colour(line string) string {
	if w.parser == nil {
		return line
	}
	if w.parser.IsHeader(line) {
		level, _ := w.parser.ExtractLevel(line)
		w.level = level
	}
	if !w.level.Valid() {
		return line
	}
	return LevelStyle(w.level).Render(line)
}

// WriteNotification outputs the notifications a reader cares about
func (w *TextWriter) WriteNotification(n domain.Notification) error {
	if w.Quiet || w.status == nil {
		return nil
	}
	var line string
	switch n := n.(type) {
	case domain.StatusChanged:
		line = StatusStyle(n.Severity).Render(n.Message)
	case domain.RotationDetected:
		if n.Type == domain.RotationDeleted {
			return nil // reported by the status line that follows
		}
		line = Styles.Caution.Render(fmt.Sprintf("File %s (%s)", n.Type, n.DetectionMethod))
	default:
		return nil
	}
	_, err := io.WriteString(w.status, line+"\n")
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string, hint ...string) error {
	out := w.status
	if out == nil {
		out = w.w
	}
	line := Styles.Danger.Render("Error") + " " + Styles.Caution.Render("["+code+"]") + ": " + message + "\n"
	if len(hint) > 0 && hint[0] != "" {
		line += Styles.Label.Render("Hint: ") + hint[0] + "\n"
	}
	_, err := io.WriteString(out, line)
	return err
}

// WriteValidation outputs a validation result
func (w *TextWriter) WriteValidation(path string, res validate.Result) error {
	var line string
	if res.Valid {
		line = Styles.Success.Render("OK") + " " + path + "\n"
	} else {
		line = Styles.Danger.Render("INVALID") + " " + path + " " +
			Styles.Label.Render("["+string(res.Reason)+"]") + " " + res.Message + "\n"
	}
	_, err := io.WriteString(w.w, line)
	return err
}
