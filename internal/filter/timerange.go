package filter

import (
	"time"

	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/parser"
)

// TimeRangeFilter keeps blocks whose header timestamp lies within [from, to].
// A header whose timestamp cannot be parsed is dropped.
type TimeRangeFilter struct {
	from   *time.Time
	to     *time.Time
	parser *parser.LineParser
}

// NewTimeRangeFilter creates a time range filter. It returns nil when the
// range is disabled or has no bounds.
func NewTimeRangeFilter(enabled bool, from, to *time.Time, p *parser.LineParser) *TimeRangeFilter {
	if !enabled || (from == nil && to == nil) {
		return nil
	}
	f := &TimeRangeFilter{parser: p}
	if from != nil {
		v := *from
		f.from = &v
	}
	if to != nil {
		v := EndOfDay(*to)
		f.to = &v
	}
	return f
}

// Match returns true if the header timestamp is inside the range
func (f *TimeRangeFilter) Match(block *domain.Block) bool {
	if f == nil {
		return true
	}
	ts, ok := ParseTimestamp(f.parser.Parse(block.Header()).Timestamp)
	if !ok {
		return false
	}
	if f.from != nil && ts.Before(*f.from) {
		return false
	}
	if f.to != nil && ts.After(*f.to) {
		return false
	}
	return true
}
