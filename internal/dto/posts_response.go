package dto

type PageResponse[T any] struct {
	Items       []T `json:"items"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
}

func NewPageResponse[T any](items []T, total int64, page int, limit int) *PageResponse[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &PageResponse[T]{
		Items:       items,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}
