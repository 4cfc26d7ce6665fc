package search

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MenuPage is one window over menu search hits. Page is 1-based.
type MenuPage struct {
	Page int
	Size int
}

// NewMenuPage clamps client-supplied paging: pages below 1 become the first
// page, a missing or oversized size falls back to DefaultPageSize.
func NewMenuPage(page, size int) MenuPage {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return MenuPage{Page: page, Size: size}
}

// From is the offset of the first dish on the page.
func (p MenuPage) From() int {
	return (p.Page - 1) * p.Size
}

// Pages is the number of pages needed to show total dishes.
func (p MenuPage) Pages(total int64) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
