package service

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePagination resolves the page and size actually served: page floors
// at 1, size defaults to 20 and caps at 100. The same values are passed to
// the repository and echoed in the response metadata.
func normalizePagination(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
