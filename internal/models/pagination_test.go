package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		limit int
		total int64
		pages int
	}{
		{"exact multiple", 1, 10, 50, 5},
		{"partial last page", 2, 10, 25, 3},
		{"empty result set", 1, 10, 0, 0},
		{"single item", 1, 10, 1, 1},
		{"limit one", 3, 1, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.pages, p.Pages)
		})
	}
}

func TestSkip(t *testing.T) {
	assert.Equal(t, int64(0), Skip(1, 10))
	assert.Equal(t, int64(10), Skip(2, 10))
	assert.Equal(t, int64(90), Skip(10, 10))
	assert.Equal(t, int64(50), Skip(11, 5))
}
