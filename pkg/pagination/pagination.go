// Package pagination computes page windows for listing views. It is a pure
// helper: every listing endpoint feeds it (total, page size, requested page)
// and renders from the returned Window.
package pagination

// Ellipsis marks a gap in the display page numbers.
const Ellipsis = 0

// edge and around control how many page numbers are shown at the ends of the
// run and on each side of the current page before a gap collapses.
const (
	edge   = 1
	around = 2
)

type Window struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`

	// Numbers is the run of page numbers to display, with Ellipsis (0)
	// standing in for collapsed gaps, e.g. [1 0 4 5 6 0 12].
	Numbers []int `json:"numbers"`

	// Offset and End are half-open slice bounds into the full result set.
	Offset int `json:"-"`
	End    int `json:"-"`
}

// Paginate clamps page into [1, totalPages] and never yields fewer than one
// page, so an empty result set still renders page 1 of 1.
func Paginate(totalItems int64, pageSize, page int) Window {
	if pageSize < 1 {
		pageSize = 1
	}

	totalPages := int((totalItems + int64(pageSize) - 1) / int64(pageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * pageSize
	end := offset + pageSize
	if int64(offset) > totalItems {
		offset = int(totalItems)
	}
	if int64(end) > totalItems {
		end = int(totalItems)
	}

	return Window{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		Numbers:    numbers(page, totalPages),
		Offset:     offset,
		End:        end,
	}
}

func numbers(page, totalPages int) []int {
	out := make([]int, 0, 2*(edge+around)+3)
	prev := 0
	for n := 1; n <= totalPages; n++ {
		show := n <= edge ||
			n > totalPages-edge ||
			(n >= page-around && n <= page+around)
		if !show {
			continue
		}
		if prev != 0 && n-prev > 1 {
			out = append(out, Ellipsis)
		}
		out = append(out, n)
		prev = n
	}
	return out
}
