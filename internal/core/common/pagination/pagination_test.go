package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		pageSize int
		want     int
	}{
		{"exact multiple", 100, 20, 5},
		{"partial last page", 95, 20, 5},
		{"single item", 1, 20, 1},
		{"empty", 0, 20, 0},
		{"zero page size", 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.pageSize))
		})
	}
}

func TestParse(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=5&page_size=20", nil)
	p := Parse(r, 10, 100)
	require.Equal(t, 5, p.Page)
	require.Equal(t, 20, p.PageSize)
	assert.Equal(t, 80, p.Offset())

	r = httptest.NewRequest("GET", "/?page=-1&page_size=500", nil)
	p = Parse(r, 10, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	p = Parse(r, 50, 100)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 50, p.PageSize)
}

func TestNewPageLastPage(t *testing.T) {
	items := make([]int, 15)
	page := NewPage(items, 95, Params{Page: 5, PageSize: 20})
	assert.Len(t, page.Items, 15)
	assert.Equal(t, 5, page.TotalPages)
	assert.Equal(t, int64(95), page.Total)
}

func TestNewPageNilItems(t *testing.T) {
	page := NewPage[string](nil, 0, Params{Page: 1, PageSize: 10})
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
}

func TestLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=80", nil)
	assert.Equal(t, 50, Limit(r, 10, 50))
	r = httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, 10, Limit(r, 10, 50))
}
