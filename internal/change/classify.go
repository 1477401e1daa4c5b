// Package change decides how a new filtered snapshot relates to the previous one.
package change

import "slices"

// Kind is the outcome of comparing two snapshots
type Kind string

const (
	NoChange   Kind = "none"
	FullReload Kind = "reload"
	Append     Kind = "append"
)

// Result describes how to move from the previous snapshot to the current one
type Result struct {
	Kind Kind
	// Added holds the new tail lines for Append and every line for FullReload
	Added []string
}

// Classify compares the previous and current filtered output. A nil previous
// snapshot means there is none yet; callers should store an empty non-nil
// slice when a pass produced no lines.
func Classify(previous, current []string) Result {
	if previous == nil || len(current) < len(previous) {
		return Result{Kind: FullReload, Added: current}
	}
	if !slices.Equal(previous, current[:len(previous)]) {
		return Result{Kind: FullReload, Added: current}
	}
	if len(current) == len(previous) {
		return Result{Kind: NoChange}
	}
	return Result{Kind: Append, Added: current[len(previous):]}
}
