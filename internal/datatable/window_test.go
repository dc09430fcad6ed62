package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func labels(w Window) []string {
	out := make([]string, len(w.Items))
	for i, it := range w.Items {
		out[i] = it.Label
	}
	return out
}

func TestPageWindowBounds(t *testing.T) {
	for pageCount := 0; pageCount <= 30; pageCount++ {
		for current := -2; current <= pageCount+2; current++ {
			w := PageWindow(current, pageCount)

			assert.Equal(t, min(MaxVisiblePages, pageCount), w.Size(), "current=%d pageCount=%d", current, pageCount)
			assert.GreaterOrEqual(t, w.Start, 0)
			assert.LessOrEqual(t, w.End, pageCount)
			if pageCount > 0 {
				assert.True(t, w.Start <= w.Current && w.Current < w.End, "current page inside run")
			}
		}
	}
}

func TestPageWindowItems(t *testing.T) {
	cases := []struct {
		name      string
		current   int
		pageCount int
		want      []string
	}{
		{"empty", 0, 0, []string{}},
		{"fits", 1, 3, []string{"1", "2", "3"}},
		{"start", 0, 10, []string{"1", "2", "3", "4", "5", "...", "10"}},
		{"middle", 5, 10, []string{"1", "...", "4", "5", "6", "7", "8", "...", "10"}},
		{"end", 9, 10, []string{"1", "...", "6", "7", "8", "9", "10"}},
		{"adjacent first", 3, 10, []string{"1", "2", "3", "4", "5", "6", "...", "10"}},
		{"adjacent last", 6, 10, []string{"1", "...", "5", "6", "7", "8", "9", "10"}},
		{"six pages", 2, 6, []string{"1", "2", "3", "4", "5", "6"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := labels(PageWindow(tc.current, tc.pageCount))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPageWindowCurrentMarked(t *testing.T) {
	w := PageWindow(4, 10)
	var current []int
	for _, it := range w.Items {
		if it.Current {
			current = append(current, it.Page)
		}
	}
	assert.Equal(t, []int{4}, current)
}

func TestPageWindowNavigation(t *testing.T) {
	first := PageWindow(0, 3)
	assert.False(t, first.HasPrevious)
	assert.True(t, first.HasNext)
	assert.Equal(t, 0, first.Previous())
	assert.Equal(t, 1, first.Next())

	last := PageWindow(2, 3)
	assert.True(t, last.HasPrevious)
	assert.False(t, last.HasNext)
	assert.Equal(t, 2, last.Next(), "next never wraps")
	assert.Equal(t, 2, last.Last())

	empty := PageWindow(0, 0)
	assert.False(t, empty.HasPrevious)
	assert.False(t, empty.HasNext)
	assert.Equal(t, 0, empty.Next())
	assert.Equal(t, 0, empty.Last())

	clamped := PageWindow(7, 3)
	assert.Equal(t, 2, clamped.Current)
	assert.False(t, clamped.HasNext, "enablement uses the clamped page")
}
