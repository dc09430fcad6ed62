package datatable

import "strconv"

// MaxVisiblePages bounds the run of consecutive page buttons.
const MaxVisiblePages = 5

type ItemKind uint8

const (
	PageButton ItemKind = iota
	Ellipsis
)

// Item is one entry of the pagination strip.
type Item struct {
	Kind    ItemKind
	Page    int // 0-based; unused for Ellipsis
	Label   string
	Current bool
}

// Window is the computed pagination strip for one state.
type Window struct {
	Current     int
	PageCount   int
	Start       int // first page of the run, inclusive
	End         int // last page of the run, exclusive
	Items       []Item
	HasPrevious bool
	HasNext     bool
}

// PageWindow centres up to MaxVisiblePages buttons on current, keeps them
// inside [0, pageCount), and adds first/last buttons with ellipses for the
// pages left out.
func PageWindow(current, pageCount int) Window {
	if pageCount < 0 {
		pageCount = 0
	}
	current = ClampPage(current, pageCount)

	start := min(current-MaxVisiblePages/2, pageCount-MaxVisiblePages)
	start = max(start, 0)
	end := min(pageCount, start+MaxVisiblePages)

	w := Window{
		Current:     current,
		PageCount:   pageCount,
		Start:       start,
		End:         end,
		HasPrevious: current > 0,
		HasNext:     current < pageCount-1,
	}

	if start > 0 {
		w.Items = append(w.Items, pageItem(0, current))
		if start > 1 {
			w.Items = append(w.Items, Item{Kind: Ellipsis, Label: "..."})
		}
	}
	for i := start; i < end; i++ {
		w.Items = append(w.Items, pageItem(i, current))
	}
	if end < pageCount {
		if end < pageCount-1 {
			w.Items = append(w.Items, Item{Kind: Ellipsis, Label: "..."})
		}
		w.Items = append(w.Items, pageItem(pageCount-1, current))
	}
	return w
}

func pageItem(page, current int) Item {
	return Item{Kind: PageButton, Page: page, Label: strconv.Itoa(page + 1), Current: page == current}
}

// Size is the number of consecutive buttons in the run.
func (w Window) Size() int { return w.End - w.Start }

// Previous is the page the Previous control leads to. It never wraps.
func (w Window) Previous() int { return max(w.Current-1, 0) }

// Next is the page the Next control leads to. It never wraps.
func (w Window) Next() int { return max(min(w.Current+1, w.PageCount-1), 0) }

// Last is the final page, or 0 for an empty table.
func (w Window) Last() int { return max(w.PageCount-1, 0) }
