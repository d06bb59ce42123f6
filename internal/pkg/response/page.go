package response

// PageResponse is the envelope for every paginated admin listing:
// bookings, customers, treatments, technicians and announcements.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// A nil slice would serialize as JSON null, which breaks the
	// admin frontend's table rendering.
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
