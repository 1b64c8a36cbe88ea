package models

// Pagination describes list metadata returned alongside data.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Count      int `json:"count"`
	TotalCount int `json:"total"`
}

// Page is one page of aggregated entities.
type Page[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
	Total int `json:"total"`
}

// NewPage builds a Page, deriving Count from data.
func NewPage[T any](data []T, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Count: len(data), Total: total}
}
