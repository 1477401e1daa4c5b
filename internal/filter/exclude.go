package filter

import (
	"regexp"

	"github.com/vburojevic/ltail/internal/domain"
)

// ExcludePatternFilter drops blocks where any line matches a pattern
type ExcludePatternFilter struct {
	pattern *regexp.Regexp
}

// NewExcludePatternFilter creates an exclusion filter from a pattern string
func NewExcludePatternFilter(pattern string) (*ExcludePatternFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &ExcludePatternFilter{pattern: re}, nil
}

// NewExcludePatternFilterFromRegexp creates an exclusion filter from a compiled regexp
func NewExcludePatternFilterFromRegexp(re *regexp.Regexp) *ExcludePatternFilter {
	return &ExcludePatternFilter{pattern: re}
}

// Match returns true if the block does NOT match the exclusion pattern
func (f *ExcludePatternFilter) Match(block *domain.Block) bool {
	if f.pattern == nil {
		return true
	}
	return !anyLineMatches(f.pattern, block)
}
