package listview

import (
	"strings"
	"time"
)

// All is the category value that disables a categorical filter.
const All = "all"

// RecentWindow is the span counted as "new" by CreatedSince callers.
const RecentWindow = 7 * 24 * time.Hour

// Field extracts a string from a record.
type Field[T any] func(T) string

// Spec declares which fields a list can be searched and categorized by.
type Spec[T any] struct {
	Text       []Field[T]
	Categories map[string]Field[T]
}

// Query is a search over a Spec. Exact keys without a matching category are ignored.
type Query struct {
	Text  string
	Exact map[string]string
}

// Filter returns the items whose text fields contain q.Text case-insensitively
// (any field) and whose categories equal every q.Exact value. It does not
// modify items.
func Filter[T any](items []T, spec Spec[T], q Query) []T {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	type exact struct {
		field Field[T]
		want  string
	}
	var exacts []exact
	for key, want := range q.Exact {
		field, ok := spec.Categories[key]
		if !ok || want == "" || want == All {
			continue
		}
		exacts = append(exacts, exact{field, want})
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if needle != "" && !matchesText(item, spec.Text, needle) {
			continue
		}
		ok := true
		for _, e := range exacts {
			if e.field(item) != e.want {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, item)
		}
	}
	return out
}

func matchesText[T any](item T, fields []Field[T], needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f(item)), needle) {
			return true
		}
	}
	return false
}

// CountBy counts items per value of key.
func CountBy[T any](items []T, key Field[T]) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// CountIf counts items satisfying pred.
func CountIf[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

// CreatedSince counts items created at or after since.
func CreatedSince[T any](items []T, createdAt func(T) time.Time, since time.Time) int {
	return CountIf(items, func(item T) bool { return !createdAt(item).Before(since) })
}
