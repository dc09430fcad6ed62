package datatable

import "sync/atomic"

// PaginationStrategy decides where filtering and paging happen.
type PaginationStrategy[T any] interface {
	// Select narrows the supplied rows by the committed search text.
	Select(rows []T, search string) []T
	// ComputeCount returns the number of records the pages are cut from.
	ComputeCount(selected []T) int
	// ComputePage returns the rows to display for page.
	ComputePage(selected []T, page, size int) []T
	// OnPageRequest is told about every page change.
	OnPageRequest(page int)
	// SetTotal records a caller-supplied record count.
	SetTotal(total int)
	// SyncsLocation reports whether state is mirrored into the LocationStore.
	SyncsLocation() bool
}

// ClientStrategy filters and pages a fully loaded dataset in memory.
type ClientStrategy[T any] struct {
	columns []Column[T]
	field   FieldFunc[T]
}

func NewClientStrategy[T any](columns []Column[T], field FieldFunc[T]) *ClientStrategy[T] {
	if field == nil {
		field = DefaultField[T]
	}
	return &ClientStrategy[T]{columns: columns, field: field}
}

func (s *ClientStrategy[T]) Select(rows []T, search string) []T {
	return Filter(rows, s.columns, s.field, search)
}

func (s *ClientStrategy[T]) ComputeCount(selected []T) int { return len(selected) }

func (s *ClientStrategy[T]) ComputePage(selected []T, page, size int) []T {
	return Paginate(selected, page, size)
}

func (s *ClientStrategy[T]) OnPageRequest(int) {}

func (s *ClientStrategy[T]) SetTotal(int) {}

func (s *ClientStrategy[T]) SyncsLocation() bool { return true }

// ServerStrategy displays exactly the page the caller supplied and forwards
// page requests to the caller.
type ServerStrategy[T any] struct {
	total        atomic.Int64
	onPageChange func(page int)
}

func NewServerStrategy[T any](total int, onPageChange func(page int)) *ServerStrategy[T] {
	s := &ServerStrategy[T]{onPageChange: onPageChange}
	s.total.Store(int64(total))
	return s
}

func (s *ServerStrategy[T]) Select(rows []T, _ string) []T { return rows }

func (s *ServerStrategy[T]) ComputeCount([]T) int { return int(s.total.Load()) }

func (s *ServerStrategy[T]) ComputePage(selected []T, _, _ int) []T { return selected }

func (s *ServerStrategy[T]) OnPageRequest(page int) {
	if s.onPageChange != nil {
		s.onPageChange(page)
	}
}

func (s *ServerStrategy[T]) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	s.total.Store(int64(total))
}

func (s *ServerStrategy[T]) SyncsLocation() bool { return false }
