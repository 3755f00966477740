package model

// Pagination is the paging block returned alongside every list response.
// It is display data only; the client never derives requests from it other
// than following HasNext.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// Page is one page of a list response: the records of the current page and
// the server's paging block (nil when the server sent none).
type Page[T any] struct {
	Items      []T
	Pagination *Pagination
}

// Len returns the number of records on the page.
func (p *Page[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}
