package datatable

import (
	"sync"
	"time"
)

// Options configures a Controller.
type Options[T any] struct {
	// PageSize defaults to DefaultPageSize when not positive.
	PageSize int
	// Debounce defaults to DefaultDebounce when zero.
	Debounce time.Duration
	Clock    Clock
	Field    FieldFunc[T]

	// Location seeds and mirrors client-mode state. A fresh MemoryLocation
	// is used when nil. Server mode never reads or writes it.
	Location LocationStore

	OnSearch     func(search string)
	OnPageChange func(page int)

	ServerSide bool
	// TotalCount is the record count behind the supplied page (server mode).
	TotalCount int
	// CurrentPage is the 1-based page the supplied rows belong to (server
	// mode). Zero means the first page.
	CurrentPage int
	// Search is the search text already applied by the caller (server mode).
	Search string

	Loading bool
}

// State is a consistent snapshot of a table.
type State[T any] struct {
	Rows       []T
	Page       int // canonical 0-based page
	PageCount  int
	PageSize   int
	Total      int
	RawSearch  string
	Search     string
	Loading    bool
	ServerSide bool
	Window     Window
}

// View is everything a host needs to draw a table.
type View struct {
	ViewModel
	Window    Window
	Summary   string
	RawSearch string
	Search    string
	Page      int
	PageCount int
	Total     int
}

// Controller owns page and search state for one table.
type Controller[T any] struct {
	mu       sync.Mutex
	columns  []Column[T]
	field    FieldFunc[T]
	strategy PaginationStrategy[T]
	location LocationStore
	debounce *Debouncer
	onSearch func(string)
	pageSize int
	server   bool

	data      []T
	page      int
	rawSearch string
	search    string
	loading   bool
	closed    bool
}

// New builds a controller over data. Client mode reads its initial page and
// search from the location; server mode takes them from opts.
func New[T any](data []T, columns []Column[T], opts Options[T]) (*Controller[T], error) {
	if err := validateColumns(columns); err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	delay := opts.Debounce
	if delay == 0 {
		delay = DefaultDebounce
	}
	field := opts.Field
	if field == nil {
		field = DefaultField[T]
	}

	c := &Controller[T]{
		columns:  columns,
		field:    field,
		debounce: NewDebouncer(opts.Clock, delay),
		onSearch: opts.OnSearch,
		pageSize: pageSize,
		server:   opts.ServerSide,
		data:     data,
		loading:  opts.Loading,
	}

	if opts.ServerSide {
		c.strategy = NewServerStrategy[T](opts.TotalCount, opts.OnPageChange)
		c.page = max(opts.CurrentPage-1, 0)
		c.search = opts.Search
	} else {
		c.strategy = NewClientStrategy(columns, field)
		c.location = opts.Location
		if c.location == nil {
			c.location = NewMemoryLocation("")
		}
		c.page = readPage(c.location)
		c.search = c.location.Get(QueryParamSearch)
	}
	c.rawSearch = c.search

	c.mu.Lock()
	c.clampLocked()
	c.syncLocked()
	c.mu.Unlock()
	return c, nil
}

// Columns returns the column descriptors.
func (c *Controller[T]) Columns() []Column[T] { return c.columns }

// ServerSide reports whether paging is delegated to the caller.
func (c *Controller[T]) ServerSide() bool { return c.server }

// Location returns the store client-mode state is mirrored to.
func (c *Controller[T]) Location() LocationStore { return c.location }

// SetSearchText echoes text immediately and commits it once the debounce
// period passes without another keystroke.
func (c *Controller[T]) SetSearchText(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.rawSearch = text
	c.mu.Unlock()

	c.debounce.Trigger(func() { c.commit(text) })
}

// CommitSearch commits pending search text without waiting. It reports
// whether anything was pending.
func (c *Controller[T]) CommitSearch() bool {
	return c.debounce.Flush()
}

// SearchPending reports whether typed text is waiting to be committed.
func (c *Controller[T]) SearchPending() bool {
	return c.debounce.Pending()
}

func (c *Controller[T]) commit(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.search = text
	c.page = 0
	c.syncLocked()
	cb := c.onSearch
	c.mu.Unlock()

	if cb != nil {
		cb(text)
	}
}

// SetPage moves to index, clamped to the existing pages, and returns the
// page actually selected. The page-change callback runs on every call,
// including repeats of the current page.
func (c *Controller[T]) SetPage(index int) int {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return index
	}
	index = ClampPage(index, c.pageCountLocked())
	c.page = index
	c.syncLocked()
	strategy := c.strategy
	c.mu.Unlock()

	strategy.OnPageRequest(index)
	return index
}

// Previous steps back one page, stopping at the first.
func (c *Controller[T]) Previous() int {
	return c.SetPage(c.State().Window.Previous())
}

// Next steps forward one page, stopping at the last.
func (c *Controller[T]) Next() int {
	return c.SetPage(c.State().Window.Next())
}

// JumpTo selects page n, clamped.
func (c *Controller[T]) JumpTo(n int) int {
	return c.SetPage(n)
}

// SetData replaces the rows. In server mode they are the current page and
// total is the record count behind them; client mode ignores total.
func (c *Controller[T]) SetData(data []T, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = data
	c.strategy.SetTotal(total)
	c.clampLocked()
	c.syncLocked()
}

// SyncPage adopts a 0-based page chosen by the caller without firing the
// page-change callback.
func (c *Controller[T]) SyncPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.page = ClampPage(page, c.pageCountLocked())
	c.syncLocked()
}

func (c *Controller[T]) SetLoading(loading bool) {
	c.mu.Lock()
	c.loading = loading
	c.mu.Unlock()
}

// State returns a snapshot using the clamped page everywhere.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	selected := c.strategy.Select(c.data, c.search)
	count := c.strategy.ComputeCount(selected)
	pageCount := PageCount(count, c.pageSize)
	page := ClampPage(c.page, pageCount)

	return State[T]{
		Rows:       c.strategy.ComputePage(selected, page, c.pageSize),
		Page:       page,
		PageCount:  pageCount,
		PageSize:   c.pageSize,
		Total:      count,
		RawSearch:  c.rawSearch,
		Search:     c.search,
		Loading:    c.loading,
		ServerSide: c.server,
		Window:     PageWindow(page, pageCount),
	}
}

// View renders the current state.
func (c *Controller[T]) View() View {
	st := c.State()
	return View{
		ViewModel: Render(st.Rows, c.columns, c.field, st.Loading),
		Window:    st.Window,
		Summary:   Summary(len(st.Rows), st.Total),
		RawSearch: st.RawSearch,
		Search:    st.Search,
		Page:      st.Page,
		PageCount: st.PageCount,
		Total:     st.Total,
	}
}

// Close releases the debounce timer. A commit that was pending is dropped.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.debounce.Stop()
}

func (c *Controller[T]) pageCountLocked() int {
	selected := c.strategy.Select(c.data, c.search)
	return PageCount(c.strategy.ComputeCount(selected), c.pageSize)
}

func (c *Controller[T]) clampLocked() {
	c.page = ClampPage(c.page, c.pageCountLocked())
}

func (c *Controller[T]) syncLocked() {
	if !c.strategy.SyncsLocation() {
		return
	}
	writeState(c.location, c.page, c.search)
}
