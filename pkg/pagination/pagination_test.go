package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParamsValidate(t *testing.T) {
	t.Run("clamps invalid values", func(t *testing.T) {
		p := &PaginationParams{Page: 0, PerPage: -3}
		p.Validate()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 15, p.PerPage)
	})

	t.Run("caps per_page at 100", func(t *testing.T) {
		p := &PaginationParams{Page: 2, PerPage: 500}
		p.Validate()
		assert.Equal(t, 100, p.PerPage)
	})
}

func TestOffset(t *testing.T) {
	p := &PaginationParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pag := NewPagination(2, 10, 35)

	assert.Equal(t, 4, pag.TotalPages)
	assert.True(t, pag.HasNext)
	assert.True(t, pag.HasPrev)

	last := NewPagination(4, 10, 35)
	assert.False(t, last.HasNext)
}

func TestNewPaginatedResultNeverNilItems(t *testing.T) {
	result := NewPaginatedResult[int](nil, NewPagination(1, 15, 0))
	assert.NotNil(t, result.Items)
	assert.Len(t, result.Items, 0)
}
