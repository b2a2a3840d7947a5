package table

import (
	"strings"

	"github.com/asaidimu/go-tabula/utils"
)

// FilterSeparator joins field values in the default filter predicate. It is a
// character unlikely to appear in data, so a filter cannot match across the
// boundary between two fields.
const FilterSeparator = "◬"

// DefaultFilterPredicate matches rows whose own field values contain filter,
// ignoring case and surrounding whitespace in filter.
func DefaultFilterPredicate[T any](row T, filter string) bool {
	fields := utils.FieldValues(row)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = stringOf(f.Value)
	}
	haystack := strings.ToLower(strings.Join(parts, FilterSeparator))
	return strings.Contains(haystack, normalizeFilter(filter))
}

func normalizeFilter(filter string) string {
	return strings.ToLower(strings.TrimSpace(filter))
}

// FilterRows keeps the rows accepted by predicate, preserving their order. An
// empty or blank filter returns rows itself.
func FilterRows[T any](rows []T, filter string, predicate FilterPredicate[T]) []T {
	if strings.TrimSpace(filter) == "" {
		return rows
	}
	if predicate == nil {
		predicate = DefaultFilterPredicate[T]
	}

	filtered := make([]T, 0, len(rows))
	for _, row := range rows {
		if predicate(row, filter) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
