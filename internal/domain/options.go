package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultTailCount is the number of entries shown when none is requested
const DefaultTailCount = 10

// MonitoringMode selects how file changes are detected
type MonitoringMode string

const (
	// ModeAuto uses filesystem events unless the path is on a network share
	ModeAuto MonitoringMode = "auto"
	// ModeRealTime prefers filesystem events even for network paths
	ModeRealTime MonitoringMode = "realtime"
	// ModePolling always polls at the refresh interval
	ModePolling MonitoringMode = "polling"
)

// ParseMonitoringMode converts a string to a MonitoringMode
func ParseMonitoringMode(s string) (MonitoringMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "realtime", "real-time", "events":
		return ModeRealTime, nil
	case "polling", "poll":
		return ModePolling, nil
	default:
		return "", fmt.Errorf("unknown monitoring mode %q (want auto, realtime or polling)", s)
	}
}

// TailOptions controls what a tail pass reads and which blocks it keeps
type TailOptions struct {
	FilePath  string
	TailCount int

	// Levels holds uppercase level names. A block passes when its raw level
	// token or its canonical level name is in the set. Empty means no filter.
	Levels map[string]struct{}

	// TextFilter is matched case-insensitively against every line of a block
	TextFilter string

	TimeRangeEnabled bool
	From             *time.Time
	To               *time.Time

	// MinLevel drops blocks whose canonical level is less severe. Blocks
	// with an unmapped level token pass. Empty disables the check.
	MinLevel Level
	// Match keeps blocks where any line matches any of the patterns
	Match []*regexp.Regexp
	// Exclude drops blocks where any line matches any of the patterns
	Exclude []*regexp.Regexp
}

// NewLevelSet builds an uppercase level set from user input such as
// "error,warning" or repeated flags. Blank entries are ignored.
func NewLevelSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part != "" {
				set[part] = struct{}{}
			}
		}
	}
	return set
}

// EffectiveTailCount returns TailCount or the default when it is not positive
func (o TailOptions) EffectiveTailCount() int {
	if o.TailCount <= 0 {
		return DefaultTailCount
	}
	return o.TailCount
}
