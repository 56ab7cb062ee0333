package stockview

import (
	"github.com/samber/lo"
)

// Pager slices an already filtered and sorted collection into pages.
// Pages are 1-based. The zero value (and a nil *Pager) shows the first page of
// DefaultPerPage items.
type Pager struct {
	page    int
	perPage int
}

func NewPager() *Pager {
	return new(Pager)
}

// WithPage sets the requested page. Values below 1 select the first page;
// values past the end are clamped by Paginate.
func (p *Pager) WithPage(page int) *Pager {
	if p == nil {
		p = new(Pager)
	}

	p.page = max(page, 1)

	return p
}

// WithPerPage sets the page size.
//
// IMPORTANT:
//   - If the size is not NoLimit, NormalizePerPage will be applied.
func (p *Pager) WithPerPage(perPage int) *Pager {
	if p == nil {
		p = new(Pager)
	}

	if perPage == NoLimit {
		return p.WithUnlimited()
	}
	p.perPage = NormalizePerPage(perPage)

	return p
}

// WithUnlimited puts every item on a single page.
func (p *Pager) WithUnlimited() *Pager {
	if p == nil {
		p = new(Pager)
	}

	p.perPage = NoLimit

	return p
}

// GetPage returns the requested page as stored, at least 1.
func (p *Pager) GetPage() int {
	if p == nil {
		return 1
	}

	return max(p.page, 1)
}

// GetPerPage returns the effective page size: DefaultPerPage when unset,
// NoLimit when unlimited.
func (p *Pager) GetPerPage() int {
	if p == nil || p.perPage == 0 {
		return DefaultPerPage
	}

	return p.perPage
}

// IsUnlimited returns true if every item goes on one page.
func (p *Pager) IsUnlimited() bool {
	if p == nil {
		return false
	}

	return p.perPage == NoLimit
}

// Page is one page of a collection.
type Page[T any] struct {
	// Items on the current page.
	Items []T
	// CurrentPage the page actually shown, clamped into [1, TotalPages].
	CurrentPage int
	// PerPage effective page size, NoLimit when unlimited.
	PerPage int
	// TotalItems number of items across all pages.
	TotalItems int
	// TotalPages number of pages; 0 for an empty collection.
	TotalPages int
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// TotalPages returns ceil(total / perPage). NoLimit yields a single page for a
// non-empty collection.
func TotalPages(total, perPage int) int {
	if total <= 0 {
		return 0
	}
	if perPage == NoLimit {
		return 1
	}

	perPage = NormalizePerPage(perPage)

	return (total + perPage - 1) / perPage
}

// Paginate returns the page of items selected by p. The returned Items slice
// is a copy, items is not retained.
func Paginate[T any](p *Pager, items []T) Page[T] {
	perPage := p.GetPerPage()
	total := len(items)
	totalPages := TotalPages(total, perPage)
	current := lo.Clamp(p.GetPage(), 1, max(totalPages, 1))

	if total == 0 {
		return Page[T]{
			Items:       []T{},
			CurrentPage: current,
			PerPage:     perPage,
		}
	}

	start, end := pageBounds(current, perPage, total)

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])

	return Page[T]{
		Items:       pageItems,
		CurrentPage: current,
		PerPage:     perPage,
		TotalItems:  total,
		TotalPages:  totalPages,
	}
}

const visiblePagesWindow = 5

// VisiblePages returns the page numbers for a compact page selector: every page
// when there are at most five, otherwise the first and last page around a
// three-page window that follows current.
func VisiblePages(current, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}

	if totalPages <= visiblePagesWindow {
		return lo.RangeFrom(1, totalPages)
	}

	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, totalPages}
	case current >= totalPages-2:
		return []int{1, totalPages - 3, totalPages - 2, totalPages - 1, totalPages}
	default:
		return []int{1, current - 1, current, current + 1, totalPages}
	}
}
