package pagination

import "errors"

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

var ErrInvalidPage = errors.New("invalid_pagination")

// Page is an offset window over a tenant-scoped listing.
type Page struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// Normalize applies the default limit and clamps it to MaxLimit.
func (p Page) Normalize() (Page, error) {
	if p.Limit < 0 || p.Offset < 0 {
		return Page{}, ErrInvalidPage
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

// Envelope is the response shape of every list endpoint. Total is counted
// before the window is applied.
type Envelope[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func NewEnvelope[T any](items []T, total int64, page Page) Envelope[T] {
	if items == nil {
		items = []T{}
	}
	return Envelope[T]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}
}
