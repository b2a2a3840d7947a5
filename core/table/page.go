package table

// PaginateRows returns the window of rows shown on pageIndex. Windows past the
// end are clipped, so the result may be shorter than pageSize or empty.
func PaginateRows[T any](rows []T, pageIndex, pageSize int) []T {
	if pageIndex < 0 || pageSize <= 0 {
		return rows[:0:0]
	}
	start := pageIndex * pageSize
	if start >= len(rows) {
		return rows[:0:0]
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end:end]
}

// LastPageIndex is the index of the last page holding any of length rows, or 0
// when there are none.
func LastPageIndex(length, pageSize int) int {
	if pageSize <= 0 || length <= 0 {
		return 0
	}
	return (length+pageSize-1)/pageSize - 1
}

// CorrectPageIndex clamps pageIndex to the last page of length rows. An index of
// 0 is never changed.
func CorrectPageIndex(pageIndex, length, pageSize int) int {
	if pageIndex <= 0 {
		return pageIndex
	}
	return min(pageIndex, LastPageIndex(length, pageSize))
}
