package domain

import "strings"

// Level is a canonical log severity shared by every log format
type Level string

const (
	LevelVerbose Level = "Verbose"
	LevelDebug   Level = "Debug"
	LevelInfo    Level = "Info"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
	LevelFatal   Level = "Fatal"
)

// Levels lists the canonical levels from least to most severe
var Levels = []Level{LevelVerbose, LevelDebug, LevelInfo, LevelWarning, LevelError, LevelFatal}

// Priority returns the priority of a level (higher = more severe)
func (l Level) Priority() int {
	switch l {
	case LevelVerbose:
		return 0
	case LevelDebug:
		return 1
	case LevelInfo:
		return 2
	case LevelWarning:
		return 3
	case LevelError:
		return 4
	case LevelFatal:
		return 5
	default:
		return -1
	}
}

// Valid reports whether l is one of the canonical levels
func (l Level) Valid() bool {
	return l.Priority() >= 0
}

// ParseLevel converts a string to a canonical Level, ignoring case.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}

// ParsedLine holds the fields extracted from a single log line.
// Missing fields are empty strings.
type ParsedLine struct {
	Timestamp  string `json:"timestamp,omitempty"`
	LevelToken string `json:"level,omitempty"`
	Source     string `json:"source,omitempty"`
	Message    string `json:"message"`
}

// Block is a header line followed by its continuation lines
type Block struct {
	Lines []string
}

// Header returns the first line of the block
func (b *Block) Header() string {
	if b == nil || len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0]
}
