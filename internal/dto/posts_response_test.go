package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageResponse(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		limit      int
		totalPages int
	}{
		{name: "exact", total: 10, limit: 5, totalPages: 2},
		{name: "remainder", total: 12, limit: 5, totalPages: 3},
		{name: "empty", total: 0, limit: 10, totalPages: 0},
		{name: "single", total: 1, limit: 10, totalPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPageResponse[int](nil, tt.total, 2, tt.limit)
			assert.Equal(t, tt.totalPages, page.TotalPages)
			assert.Equal(t, 2, page.CurrentPage)
			assert.NotNil(t, page.Items)
		})
	}
}
