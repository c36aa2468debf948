package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := Paginate(items, 1, 2)
	assert.Equal(t, []int{3, 4}, page.Content)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(5), page.TotalElements)

	assert.Equal(t, []int{5}, Paginate(items, 2, 2).Content)
	assert.Empty(t, Paginate(items, 3, 2).Content)
	assert.Empty(t, Paginate(items, -1, 2).Content)
	assert.Empty(t, Paginate(items, 0, 0).Content)
	assert.Empty(t, Paginate([]int{}, 0, 10).Content)

	whole := Paginate(items, 0, 1<<63-1)
	assert.Equal(t, items, whole.Content)
	assert.Equal(t, 1, whole.TotalPages)
}

func TestPaginate_HugePageNumberIsEmpty(t *testing.T) {
	items := []int{1, 2, 3}
	cases := []struct {
		number, size int
	}{
		{1 << 61, 60},
		{1 << 62, 4},
		{1<<63 - 1, 1},
		{1, 1<<63 - 1},
	}
	for _, tc := range cases {
		require.NotPanics(t, func() {
			page := Paginate(items, tc.number, tc.size)
			assert.Empty(t, page.Content)
			assert.Equal(t, tc.number, page.Number)
			assert.Equal(t, int64(3), page.TotalElements)
		})
	}
}

func TestMapPage(t *testing.T) {
	page := MapPage(Paginate([]int{1, 2, 3}, 0, 2), func(v int) string {
		return string(rune('a' + v - 1))
	})
	assert.Equal(t, []string{"a", "b"}, page.Content)
	assert.Equal(t, 2, page.TotalPages)
}
