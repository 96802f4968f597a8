package domain

import "strings"

// BlankSentinel is the placeholder recorded for an empty or whitespace-only
// categorical cell. It is a real group key: blank rows aggregate under it.
const BlankSentinel = "(blank)"

// Row is one normalized application record from an uploaded export.
// The three organizational fields and Status are never empty; blank source
// cells are replaced with BlankSentinel during normalization. AppKey may be
// empty, which marks the row as a draft entry without an identity.
type Row struct {
	Region   string
	District string
	Office   string
	AppKey   string
	Status   string
}

// Countable reports whether the row carries an application identifier and
// therefore participates in aggregation.
func (r Row) Countable() bool {
	return r.AppKey != ""
}

// CanonicalKey normalizes a label for comparison: leading/trailing whitespace
// trimmed, internal whitespace runs collapsed to one space, lower-cased.
// It is used both for status deduplication and for header resolution.
func CanonicalKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
