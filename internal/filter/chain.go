package filter

import (
	"github.com/vburojevic/ltail/internal/domain"
)

// Filter determines if a log block should be included
type Filter interface {
	// Match returns true if the block passes the filter
	Match(block *domain.Block) bool
}

// Chain combines multiple filters (all must pass)
type Chain struct {
	filters []Filter
}

// NewChain creates a filter chain from multiple filters
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// Match returns true only if all filters pass
func (c *Chain) Match(block *domain.Block) bool {
	for _, f := range c.filters {
		if !f.Match(block) {
			return false
		}
	}
	return true
}

// Add appends a filter to the chain
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Len returns the number of filters in the chain
func (c *Chain) Len() int {
	return len(c.filters)
}

// OrChain combines multiple filters (any must pass)
type OrChain struct {
	filters []Filter
}

// NewOrChain creates an OR filter chain
func NewOrChain(filters ...Filter) *OrChain {
	return &OrChain{filters: filters}
}

// Match returns true if any filter passes
func (c *OrChain) Match(block *domain.Block) bool {
	if len(c.filters) == 0 {
		return true
	}
	for _, f := range c.filters {
		if f.Match(block) {
			return true
		}
	}
	return false
}
