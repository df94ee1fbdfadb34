package model

type APIResponse struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination is 1-indexed. TotalPages = ceil(Total/Limit).
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(page int, limit int, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
