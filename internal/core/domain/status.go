package domain

import "sort"

// CanonicalStatusOrder is the business workflow ordering of the known
// application statuses. It drives column order in every rendered report;
// statuses outside this list sort after it, alphabetically.
var CanonicalStatusOrder = []string{
	"Draft",
	"Submitted",
	"Approved",
	"Rejected",
	"Returned",
	"In Review",
	"In-Review",
	"Resubmitted",
	"Cancelled",
}

// unrankedPriority sorts every status missing from the canonical list after
// all ranked ones, as a single block.
const unrankedPriority = 9999

// StatusRanker computes a deterministic ordering of status values against a
// configured canonical list. The zero-value ranker is not usable; construct
// one with NewStatusRanker.
type StatusRanker struct {
	priority map[string]int
}

// NewStatusRanker builds a ranker from an ordered canonical status list.
// Lookup is case- and whitespace-insensitive.
func NewStatusRanker(canonical []string) *StatusRanker {
	priority := make(map[string]int, len(canonical))
	for i, s := range canonical {
		key := CanonicalKey(s)
		if _, seen := priority[key]; !seen {
			priority[key] = i
		}
	}
	return &StatusRanker{priority: priority}
}

// priorityOf returns the canonical position of a status, or unrankedPriority
// when the status is not in the canonical list.
func (r *StatusRanker) priorityOf(status string) int {
	if p, ok := r.priority[CanonicalKey(status)]; ok {
		return p
	}
	return unrankedPriority
}

// Less is the total-order comparator over status literals: canonical position
// first, then case-insensitive alphabetical.
func (r *StatusRanker) Less(a, b string) bool {
	pa, pb := r.priorityOf(a), r.priorityOf(b)
	if pa != pb {
		return pa < pb
	}
	return CanonicalKey(a) < CanonicalKey(b)
}

// Rank deduplicates and orders the given status values. Deduplication is
// case/whitespace-insensitive and keeps the first literal form seen; the
// returned order is a pure function of the distinct status set, independent
// of input order.
func (r *StatusRanker) Rank(values []string) []string {
	seen := make(map[string]string, len(values))
	for _, v := range values {
		key := CanonicalKey(v)
		if _, ok := seen[key]; !ok {
			seen[key] = v
		}
	}

	distinct := make([]string, 0, len(seen))
	for _, literal := range seen {
		distinct = append(distinct, literal)
	}

	sort.Slice(distinct, func(i, j int) bool {
		return r.Less(distinct[i], distinct[j])
	})
	return distinct
}

// Representatives maps each canonical status key to the literal chosen by
// Rank, so repeated spellings of one status all count into the same column.
func Representatives(ranked []string) map[string]string {
	reps := make(map[string]string, len(ranked))
	for _, s := range ranked {
		reps[CanonicalKey(s)] = s
	}
	return reps
}
