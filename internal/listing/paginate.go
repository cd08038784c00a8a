package listing

// DefaultPageSize is the number of articles per page in the latest view.
const DefaultPageSize = 19

// Paginate returns the 1-based page of items. Pages outside the range and
// non-positive sizes give an empty slice. The result shares storage with
// items and must not be modified.
func Paginate[T any](items []T, pageSize, page int) []T {
	if pageSize <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end:end]
}

// TotalPages is ceil(count/pageSize); zero items or a non-positive size
// give zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage keeps page within [1, total]. With no pages it returns 1.
func ClampPage(page, total int) int {
	if total < 1 || page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}
