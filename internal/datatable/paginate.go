package datatable

// DefaultPageSize is used when a table is built without a positive page size.
const DefaultPageSize = 5

// PageCount returns ceil(count/size). Zero rows give zero pages.
func PageCount(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage pins page into [0, max(0, pageCount-1)].
func ClampPage(page, pageCount int) int {
	if page > pageCount-1 {
		page = pageCount - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Paginate returns the rows of the given 0-based page, clamped to the last
// page when it lies past the end.
func Paginate[T any](rows []T, page, size int) []T {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = ClampPage(page, PageCount(len(rows), size))
	start := page * size
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}
