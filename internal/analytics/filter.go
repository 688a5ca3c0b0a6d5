package analytics

import (
	"strings"
	"time"
)

// Dated is a record carrying the calendar day it belongs to.
type Dated interface {
	RecordDate() time.Time
}

// Searchable exposes the stringified fields matched by Search.
type Searchable interface {
	SearchFields() []string
}

// Filter returns the records of series inside r, in their original order.
// series is never modified.
func Filter[T Dated](series []T, r DateRange) []T {
	out := make([]T, 0, len(series))
	for _, rec := range series {
		if r.Contains(rec.RecordDate()) {
			out = append(out, rec)
		}
	}
	return out
}

// Search keeps records where any search field contains query, ignoring case.
// A blank query keeps everything.
func Search[T Searchable](series []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(series))
	for _, rec := range series {
		if q == "" || matches(rec.SearchFields(), q) {
			out = append(out, rec)
		}
	}
	return out
}

// SearchableRecord is a record that can be both date-filtered and searched.
type SearchableRecord interface {
	Dated
	Searchable
}

// FilterAndSearch keeps records satisfying both the range and the query.
func FilterAndSearch[T SearchableRecord](series []T, r DateRange, query string) []T {
	return Search(Filter(series, r), query)
}

func matches(fields []string, q string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
