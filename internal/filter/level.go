package filter

import (
	"strings"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/parser"
)

// LevelFilter keeps blocks whose header level is in a set. The set holds
// uppercase names; both raw tokens ("EROR") and canonical names ("ERROR")
// are accepted.
type LevelFilter struct {
	levels map[string]struct{}
	parser *parser.LineParser
}

// NewLevelFilter creates a level set filter. An empty set matches everything.
func NewLevelFilter(levels map[string]struct{}, p *parser.LineParser) *LevelFilter {
	return &LevelFilter{levels: levels, parser: p}
}

// Match returns true if the header level token or its canonical level is selected
func (f *LevelFilter) Match(block *domain.Block) bool {
	if len(f.levels) == 0 {
		return true
	}
	header := block.Header()
	token := f.parser.LevelToken(header)
	if token == "" {
		return false
	}
	if _, ok := f.levels[token]; ok {
		return true
	}
	if level, ok := f.parser.ExtractLevel(header); ok {
		_, ok = f.levels[strings.ToUpper(string(level))]
		return ok
	}
	return false
}

// MinLevelFilter filters blocks by minimum canonical level
type MinLevelFilter struct {
	minLevel domain.Level
	parser   *parser.LineParser
}

// NewMinLevelFilter creates a minimum level filter
func NewMinLevelFilter(minLevel domain.Level, p *parser.LineParser) *MinLevelFilter {
	return &MinLevelFilter{minLevel: minLevel, parser: p}
}

// Match returns true if the block level is >= minimum level.
// Blocks whose token has no canonical mapping are kept.
func (f *MinLevelFilter) Match(block *domain.Block) bool {
	if !f.minLevel.Valid() {
		return true
	}
	level, ok := f.parser.ExtractLevel(block.Header())
	if !ok {
		return true
	}
	return level.Priority() >= f.minLevel.Priority()
}
