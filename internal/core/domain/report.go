package domain

import "time"

// Report is the complete output of one rollup computation: the displayed
// status order, the full rollup tree, and the target set. It is built fresh
// per request and never mutated after construction.
type Report struct {
	// Statuses is the displayed status column order, with the configured
	// hidden statuses removed.
	Statuses []string

	// AllStatuses is the full ranked vocabulary, including hidden statuses.
	// Hidden statuses still count toward every node total.
	AllStatuses []string

	// Root is the grand-total aggregate; its children are the region groups.
	Root *Node

	Targets TargetSet

	// RowCount is the number of identifier-bearing rows that were counted.
	RowCount int

	GeneratedAt time.Time
}
