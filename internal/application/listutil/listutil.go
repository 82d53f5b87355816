package listutil

import (
	"strconv"
)

// DefaultPerPage is the number of student cards on one page.
const DefaultPerPage = 16

// PerPageOptions are the allowed page sizes.
var PerPageOptions = []int{8, 16, 24, 32, 48}

// PageInfo carries pagination metadata for rendering.
// Page is 0-indexed; the label shown to users is 1-indexed.
type PageInfo struct {
	Page       int // current page (0-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // max(1, ceil(Total / PerPage))
}

// PageCount returns max(1, ceil(total/perPage)).
// PRE: perPage > 0 (values below 1 use DefaultPerPage)
// POST: returns >= 1
func PageCount(total, perPage int) int {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// NewPageInfo computes pagination metadata and clamps page into range.
// PRE: total >= 0
// POST: 0 <= Page < TotalPages
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return PageInfo{
		Page:       ClampPage(page, perPage, total),
		PerPage:    perPage,
		Total:      total,
		TotalPages: PageCount(total, perPage),
	}
}

// ClampPage keeps page inside [0, PageCount(total, perPage)).
func ClampPage(page, perPage, total int) int {
	last := PageCount(total, perPage) - 1
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Paginate returns the fixed-size slice of items for page.
// An out-of-range page yields an empty slice; the input is never modified.
// PRE: perPage > 0 (values below 1 use DefaultPerPage)
// POST: concatenating every page in order reproduces items
func Paginate[T any](items []T, page, perPage int) []T {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	start := page * perPage
	if page < 0 || start >= len(items) {
		return []T{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

// Label is the human page indicator, e.g. "Page 1 / 5".
func (p PageInfo) Label() string {
	return "Page " + strconv.Itoa(p.Page+1) + " / " + strconv.Itoa(p.TotalPages)
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool {
	return p.Page > 0
}

// HasNext reports whether a following page exists.
func (p PageInfo) HasNext() bool {
	return p.Page+1 < p.TotalPages
}

// PageNumbers returns the 0-indexed page numbers for the pager, at most 5
// centred on the current page.
func (p PageInfo) PageNumbers() []int {
	const maxButtons = 5
	start := p.Page - maxButtons/2
	if start < 0 {
		start = 0
	}
	end := start + maxButtons - 1
	if end > p.TotalPages-1 {
		end = p.TotalPages - 1
		start = end - maxButtons + 1
		if start < 0 {
			start = 0
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ParsePerPage returns the requested page size when it is an allowed option.
func ParsePerPage(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || !isValidPerPage(n) {
		return fallback
	}
	return n
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
