package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uzeyirmammadli/catcare-sub001/pkg/pagination"
)

func TestPaginate_EmptyStillHasPageOne(t *testing.T) {
	t.Parallel()

	w := pagination.Paginate(0, 9, 1)

	assert.Equal(t, 1, w.Page)
	assert.Equal(t, 1, w.TotalPages)
	assert.False(t, w.HasPrev)
	assert.False(t, w.HasNext)
	assert.Equal(t, []int{1}, w.Numbers)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, 0, w.End)
}

func TestPaginate_ClampsPage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		page     int
		wantPage int
		hasPrev  bool
		hasNext  bool
	}{
		{"zero_clamps_to_first", 0, 1, false, true},
		{"negative_clamps_to_first", -5, 1, false, true},
		{"beyond_clamps_to_last", 999999, 3, true, false},
		{"valid_middle", 2, 2, true, true},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			// 25 items at 9 per page = 3 pages
			w := pagination.Paginate(25, 9, c.page)

			assert.Equal(t, c.wantPage, w.Page)
			assert.Equal(t, 3, w.TotalPages)
			assert.Equal(t, c.hasPrev, w.HasPrev)
			assert.Equal(t, c.hasNext, w.HasNext)
		})
	}
}

func TestPaginate_SliceBounds(t *testing.T) {
	t.Parallel()

	w := pagination.Paginate(25, 9, 3)
	assert.Equal(t, 18, w.Offset)
	assert.Equal(t, 25, w.End)

	w = pagination.Paginate(25, 9, 1)
	assert.Equal(t, 0, w.Offset)
	assert.Equal(t, 9, w.End)
}

func TestPaginate_NumbersWithEllipsis(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		total int64
		page  int
		want  []int
	}{
		{"short_run_no_ellipsis", 45, 3, []int{1, 2, 3, 4, 5}},
		{"middle_of_long_run", 108, 6, []int{1, pagination.Ellipsis, 4, 5, 6, 7, 8, pagination.Ellipsis, 12}},
		{"start_of_long_run", 108, 1, []int{1, 2, 3, pagination.Ellipsis, 12}},
		{"end_of_long_run", 108, 12, []int{1, pagination.Ellipsis, 10, 11, 12}},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			w := pagination.Paginate(c.total, 9, c.page)
			assert.Equal(t, c.want, w.Numbers)
		})
	}
}

func TestPaginate_PageSizeFloor(t *testing.T) {
	t.Parallel()

	w := pagination.Paginate(10, 0, 1)
	assert.Equal(t, 1, w.PageSize)
	assert.Equal(t, 10, w.TotalPages)
}
