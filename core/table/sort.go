package table

import "slices"

// SortRows returns a stably ordered copy of rows using accessor to extract sort
// keys. An inactive sort returns a copy in the original order.
func SortRows[T any](rows []T, sort Sort, accessor SortingKeyAccessor[T]) []T {
	ordered := slices.Clone(rows)
	if !sort.IsActive() {
		return ordered
	}
	if accessor == nil {
		accessor = DefaultSortingKeyAccessor[T]
	}

	sign := 1
	if sort.Direction == SortDesc {
		sign = -1
	}

	slices.SortStableFunc(ordered, func(a, b T) int {
		return CompareValues(accessor(a, sort.Active), accessor(b, sort.Active)) * sign
	})
	return ordered
}
