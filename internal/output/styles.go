package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vburojevic/ltail/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Log level styles
	Verbose lipgloss.Style
	Debug   lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Fatal   lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Source    lipgloss.Style
	Message   lipgloss.Style

	// Status styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Caution lipgloss.Style
	Danger  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Selected  lipgloss.Style
	Help      lipgloss.Style
}{
	// Log levels, same palette as a classic console tail
	Verbose: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),           // Dark gray
	Debug:   lipgloss.NewStyle().Foreground(lipgloss.Color("243")),           // Gray
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),           // White
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),           // Yellow
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold
	Fatal:   lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true), // Magenta bold

	// Components
	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Source:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	Message:   lipgloss.NewStyle(),

	// Status
	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Caution: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

	// TUI
	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Selected:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("39")),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// LevelStyle returns the style for a canonical level. Unknown levels are unstyled.
func LevelStyle(level domain.Level) lipgloss.Style {
	switch level {
	case domain.LevelVerbose:
		return Styles.Verbose
	case domain.LevelDebug:
		return Styles.Debug
	case domain.LevelInfo:
		return Styles.Info
	case domain.LevelWarning:
		return Styles.Warning
	case domain.LevelError:
		return Styles.Error
	case domain.LevelFatal:
		return Styles.Fatal
	default:
		return Styles.Message
	}
}

// StatusStyle returns the style for a status message severity
func StatusStyle(severity domain.Severity) lipgloss.Style {
	switch severity {
	case domain.SeverityError:
		return Styles.Danger
	case domain.SeverityWarning:
		return Styles.Caution
	default:
		return Styles.Success
	}
}
