package tui

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rana718/roster/internal/database"
	"github.com/Rana718/roster/internal/datatable"
	"github.com/Rana718/roster/internal/models"
)

// Store is what the browser reads.
type Store interface {
	ListCustomers(ctx context.Context, q database.CustomerQuery) (database.CustomerPage, error)
	AllConsultants(ctx context.Context) ([]models.Consultant, error)
}

type (
	// committedMsg reports that typed search text was committed.
	committedMsg struct{}

	consultantsLoadedMsg struct {
		rows []models.Consultant
		err  error
	}

	customersFetchedMsg struct {
		seq  int
		page database.CustomerPage
		err  error
	}
)

// pager is one browsable table.
type pager interface {
	Title() string
	View() datatable.View
	Query() string
	Controller() searcher
	Init() tea.Cmd
	SetPage(index int) tea.Cmd
	Searched() tea.Cmd
	Handle(msg tea.Msg) (tea.Cmd, error)
	Close()
}

type searcher interface {
	SetSearchText(text string)
	CommitSearch() bool
	SearchPending() bool
}

// notifier turns controller commits, which fire on timer goroutines, into
// messages for the event loop. Bursts collapse into one message.
type notifier struct {
	mu     sync.Mutex
	ch     chan struct{}
	closed bool
}

func newNotifier() *notifier {
	return &notifier{ch: make(chan struct{}, 1)}
}

func (n *notifier) notify(string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *notifier) wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-n.ch; !ok {
			return nil
		}
		return committedMsg{}
	}
}

func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.closed {
		n.closed = true
		close(n.ch)
	}
}

func customerColumns() []datatable.Column[models.Customer] {
	return []datatable.Column[models.Customer]{
		datatable.Data[models.Customer]("Name", "name"),
		datatable.Data[models.Customer]("Email", "email"),
		{
			Header: "Phone",
			Kind:   datatable.DataColumn("phone"),
			Render: func(c models.Customer) any { return c.FullPhone() },
		},
		datatable.Data[models.Customer]("City", "city"),
		datatable.Data[models.Customer]("Subscription", "subscription_status"),
		datatable.Data[models.Customer]("Ends", "subscription_end_date"),
	}
}

func consultantColumns() []datatable.Column[models.Consultant] {
	return []datatable.Column[models.Consultant]{
		datatable.Data[models.Consultant]("Name", "name"),
		datatable.Data[models.Consultant]("Email", "email"),
		datatable.Data[models.Consultant]("Role", "role"),
		datatable.Data[models.Consultant]("Department", "department"),
		datatable.Data[models.Consultant]("Status", "status"),
	}
}

// consultantTable loads every consultant once and pages them in memory.
type consultantTable struct {
	ctx   context.Context
	store Store
	opts  Options
	n     *notifier
	ctrl  *datatable.Controller[models.Consultant]
	loc   *datatable.MemoryLocation
}

func newConsultantTable(ctx context.Context, store Store, opts Options, n *notifier) (*consultantTable, error) {
	t := &consultantTable{ctx: ctx, store: store, opts: opts, n: n}
	if err := t.reset(nil, true); err != nil {
		return nil, err
	}
	return t, nil
}

// reset rebuilds the controller over rows, starting again from the page and
// search the browser was opened with.
func (t *consultantTable) reset(rows []models.Consultant, loading bool) error {
	loc := datatable.NewMemoryLocation(initialQuery(t.opts))
	ctrl, err := datatable.New(rows, consultantColumns(), datatable.Options[models.Consultant]{
		PageSize: t.opts.PageSize,
		Debounce: t.opts.Debounce,
		Clock:    t.opts.Clock,
		Location: loc,
		OnSearch: t.n.notify,
		Loading:  loading,
	})
	if err != nil {
		return err
	}
	if t.ctrl != nil {
		t.ctrl.Close()
	}
	t.ctrl, t.loc = ctrl, loc
	return nil
}

func (t *consultantTable) Title() string { return "Consultants" }

func (t *consultantTable) View() datatable.View { return t.ctrl.View() }

func (t *consultantTable) Query() string { return t.loc.Encode() }

func (t *consultantTable) Controller() searcher { return t.ctrl }

func (t *consultantTable) Searched() tea.Cmd { return nil }

func (t *consultantTable) Close() { t.ctrl.Close() }

func (t *consultantTable) SetPage(i int) tea.Cmd {
	t.ctrl.SetPage(i)
	return nil
}

func (t *consultantTable) Init() tea.Cmd {
	ctx, store := t.ctx, t.store
	return func() tea.Msg {
		rows, err := store.AllConsultants(ctx)
		return consultantsLoadedMsg{rows: rows, err: err}
	}
}

func (t *consultantTable) Handle(msg tea.Msg) (tea.Cmd, error) {
	loaded, ok := msg.(consultantsLoadedMsg)
	if !ok {
		return nil, nil
	}
	if loaded.err != nil {
		t.ctrl.SetLoading(false)
		return nil, loaded.err
	}
	return nil, t.reset(loaded.rows, false)
}

// customerTable shows one page at a time, fetched from the store whenever
// the page or the committed search changes.
type customerTable struct {
	ctx   context.Context
	store Store
	ctrl  *datatable.Controller[models.Customer]
	base  database.CustomerQuery

	requested int // 0-based page asked for by the controller
	seq       int
}

func newCustomerTable(ctx context.Context, store Store, opts Options, n *notifier) (*customerTable, error) {
	t := &customerTable{
		ctx:   ctx,
		store: store,
		base: database.CustomerQuery{
			Limit:              opts.PageSize,
			InternalConsultant: opts.Consultant,
		},
		requested: max(opts.Page-1, 0),
	}
	ctrl, err := datatable.New([]models.Customer{}, customerColumns(), datatable.Options[models.Customer]{
		PageSize:     opts.PageSize,
		Debounce:     opts.Debounce,
		Clock:        opts.Clock,
		OnSearch:     n.notify,
		OnPageChange: func(page int) { t.requested = page },
		ServerSide:   true,
		CurrentPage:  opts.Page,
		Search:       opts.Search,
		Loading:      true,
	})
	if err != nil {
		return nil, err
	}
	t.ctrl = ctrl
	return t, nil
}

func (t *customerTable) Title() string { return "Customers" }

func (t *customerTable) View() datatable.View { return t.ctrl.View() }

func (t *customerTable) Controller() searcher { return t.ctrl }

func (t *customerTable) Close() { t.ctrl.Close() }

// Query is the query string the web console would show for this page.
func (t *customerTable) Query() string {
	st := t.ctrl.State()
	q := url.Values{}
	q.Set(datatable.QueryParamPage, strconv.Itoa(t.requested+1))
	if st.Search != "" {
		q.Set(datatable.QueryParamSearch, st.Search)
	}
	return q.Encode()
}

func (t *customerTable) Init() tea.Cmd { return t.fetch() }

func (t *customerTable) SetPage(i int) tea.Cmd {
	t.ctrl.SetPage(i)
	return t.fetch()
}

// Searched refetches from the first page after a search commit.
func (t *customerTable) Searched() tea.Cmd {
	t.requested = 0
	return t.fetch()
}

func (t *customerTable) fetch() tea.Cmd {
	t.seq++
	t.ctrl.SetLoading(true)

	q := t.base
	q.Page = t.requested + 1
	q.Search = t.ctrl.State().Search
	seq, ctx, store := t.seq, t.ctx, t.store
	return func() tea.Msg {
		page, err := store.ListCustomers(ctx, q)
		return customersFetchedMsg{seq: seq, page: page, err: err}
	}
}

func (t *customerTable) Handle(msg tea.Msg) (tea.Cmd, error) {
	fetched, ok := msg.(customersFetchedMsg)
	if !ok || fetched.seq != t.seq {
		return nil, nil
	}
	if fetched.err != nil {
		t.ctrl.SetLoading(false)
		return nil, fetched.err
	}

	page := fetched.page
	t.ctrl.SetData(page.Rows, page.Total)
	t.ctrl.SyncPage(page.Page - 1)

	// A page past the end comes back empty; ask again for the last one.
	if last := t.ctrl.State().Page; page.Total > 0 && last != page.Page-1 {
		t.requested = last
		return t.fetch(), nil
	}
	t.requested = t.ctrl.State().Page
	t.ctrl.SetLoading(false)
	return nil, nil
}

func initialQuery(opts Options) string {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set(datatable.QueryParamPage, strconv.Itoa(opts.Page))
	}
	if opts.Search != "" {
		q.Set(datatable.QueryParamSearch, opts.Search)
	}
	return q.Encode()
}
