package filter

import (
	"strings"

	"github.com/vburojevic/ltail/internal/domain"
)

// TextFilter keeps blocks where any line contains a substring, ignoring case
type TextFilter struct {
	needle string
}

// NewTextFilter creates a text filter. Blank text matches everything.
func NewTextFilter(text string) *TextFilter {
	if strings.TrimSpace(text) == "" {
		return &TextFilter{}
	}
	return &TextFilter{needle: strings.ToLower(text)}
}

// Match returns true if any line of the block contains the text
func (f *TextFilter) Match(block *domain.Block) bool {
	if f.needle == "" {
		return true
	}
	for _, line := range block.Lines {
		if strings.Contains(strings.ToLower(line), f.needle) {
			return true
		}
	}
	return false
}
