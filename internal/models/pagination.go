package models

import "math"

// Pagination describes one page of a larger result set.
// Pages is always ceil(Total/Limit).
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for a result set
func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// Skip returns the number of documents preceding this page
func Skip(page, limit int) int64 {
	return int64(page-1) * int64(limit)
}
