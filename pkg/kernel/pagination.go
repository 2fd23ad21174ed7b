// Package kernel holds small shared building blocks used across modules.
package kernel

// Page carries pagination metadata for a result set.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"limit"`
	Total  int `json:"total"`
	Pages  int `json:"totalPages"`
}

// Paginated wraps one page of items together with its metadata.
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"pagination"`
}

// NewPaginated builds a Paginated result, deriving the page count by
// ceiling division.
func NewPaginated[T any](items []T, page, size, total int) Paginated[T] {
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Paginated[T]{
		Items: items,
		Page: Page{
			Number: page,
			Size:   size,
			Total:  total,
			Pages:  pages,
		},
	}
}

// HasNext reports whether pages remain after the current one.
func (p Paginated[T]) HasNext() bool {
	return p.Page.Number < p.Page.Pages
}

// PaginationOptions is a 1-based page request.
type PaginationOptions struct {
	Page     int
	PageSize int
}

// Normalize clamps the options to valid values, applying defaultSize when
// the page size is unset.
func (o PaginationOptions) Normalize(defaultSize int) PaginationOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = defaultSize
	}
	return o
}

// Offset returns the number of records to skip for the current page.
func (o PaginationOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}
