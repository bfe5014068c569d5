package shared

// Page is an offset/limit window over a listing. Total counts every match,
// not only Items.
type Page[T any] struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Items  []T `json:"items"`
}

// NewPage builds a page, normalising nil items to an empty slice.
func NewPage[T any](items []T, total, offset, limit int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Total: total, Offset: offset, Limit: limit, Items: items}
}
