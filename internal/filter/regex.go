package filter

import (
	"regexp"

	"github.com/vburojevic/ltail/internal/domain"
)

// RegexFilter keeps blocks where any line matches a pattern
type RegexFilter struct {
	pattern *regexp.Regexp
}

// NewRegexFilter creates a regex filter from a pattern string
func NewRegexFilter(pattern string) (*RegexFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexFilter{pattern: re}, nil
}

// NewRegexFilterFromRegexp creates a regex filter from a compiled regexp
func NewRegexFilterFromRegexp(re *regexp.Regexp) *RegexFilter {
	return &RegexFilter{pattern: re}
}

// Match returns true if any line of the block matches the pattern
func (f *RegexFilter) Match(block *domain.Block) bool {
	if f.pattern == nil {
		return true
	}
	return anyLineMatches(f.pattern, block)
}

func anyLineMatches(re *regexp.Regexp, block *domain.Block) bool {
	for _, line := range block.Lines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
