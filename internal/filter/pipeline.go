package filter

import (
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/parser"
)

// Build assembles the filter chain for opts. Only active filters are added.
func Build(opts domain.TailOptions, p *parser.LineParser) *Chain {
	chain := NewChain()
	if len(opts.Levels) > 0 {
		chain.Add(NewLevelFilter(opts.Levels, p))
	}
	if opts.MinLevel.Valid() {
		chain.Add(NewMinLevelFilter(opts.MinLevel, p))
	}
	if text := NewTextFilter(opts.TextFilter); text.needle != "" {
		chain.Add(text)
	}
	if len(opts.Match) > 0 {
		matchAny := NewOrChain()
		for _, re := range opts.Match {
			matchAny.filters = append(matchAny.filters, NewRegexFilterFromRegexp(re))
		}
		chain.Add(matchAny)
	}
	for _, re := range opts.Exclude {
		chain.Add(NewExcludePatternFilterFromRegexp(re))
	}
	if tr := NewTimeRangeFilter(opts.TimeRangeEnabled, opts.From, opts.To, p); tr != nil {
		chain.Add(tr)
	}
	return chain
}

// Blocks groups lines into entries. Lines before the first header belong to
// an entry whose header is outside the window and are dropped.
func Blocks(lines []string, p *parser.LineParser) []domain.Block {
	var blocks []domain.Block
	for _, line := range lines {
		if p.IsHeader(line) {
			blocks = append(blocks, domain.Block{Lines: []string{line}})
			continue
		}
		if len(blocks) == 0 {
			continue
		}
		last := &blocks[len(blocks)-1]
		last.Lines = append(last.Lines, line)
	}
	return blocks
}

// Apply groups lines into blocks and returns the lines of the blocks that
// pass every active filter, in their original order.
func Apply(lines []string, opts domain.TailOptions, p *parser.LineParser) []string {
	return ApplyChain(lines, Build(opts, p), p)
}

// ApplyChain is Apply with a prebuilt chain
func ApplyChain(lines []string, chain Filter, p *parser.LineParser) []string {
	out := make([]string, 0, len(lines))
	for _, block := range Blocks(lines, p) {
		if chain.Match(&block) {
			out = append(out, block.Lines...)
		}
	}
	return out
}
