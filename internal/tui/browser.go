// Package tui is the terminal browser for roster tables.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rana718/roster/internal/datatable"
	"github.com/Rana718/roster/internal/models"
)

// CardBreakpoint is the terminal width below which rows render as cards.
const CardBreakpoint = 80

type Options struct {
	PageSize int
	Debounce time.Duration
	Clock    datatable.Clock
	// Page (1-based) and Search are the state the browser opens on.
	Page   int
	Search string
	// Consultant restricts customers to one internal consultant.
	Consultant string
	Logger     *zap.Logger
}

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	First  key.Binding
	Last   key.Binding
	Search key.Binding
	Blur   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "prev")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next")),
	First:  key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
	Last:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Blur:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search now")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the bubbletea model of one browsable table.
type Model struct {
	table  pager
	notify *notifier
	search textinput.Model
	log    *zap.Logger

	width  int
	height int
	err    error
}

// New builds a browser over table.
func New(ctx context.Context, store Store, table models.Table, opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	n := newNotifier()

	var (
		p   pager
		err error
	)
	switch table {
	case models.TableCustomers:
		p, err = newCustomerTable(ctx, store, opts, n)
	case models.TableConsultants:
		p, err = newConsultantTable(ctx, store, opts, n)
	default:
		err = models.ErrUnknownTable
	}
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Placeholder = "Search..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40
	ti.SetValue(opts.Search)

	return Model{
		table:  p,
		notify: n,
		search: ti,
		log:    opts.Logger,
		width:  CardBreakpoint,
	}, nil
}

// Close stops the table's debounce timer and releases the commit listener.
func (m Model) Close() {
	m.table.Close()
	m.notify.close()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.table.Init(), m.notify.wait())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case committedMsg:
		m.log.Debug("search committed", zap.String("query", m.table.Query()))
		return m, tea.Batch(m.table.Searched(), m.notify.wait())

	case consultantsLoadedMsg, customersFetchedMsg:
		cmd, err := m.table.Handle(msg)
		if err != nil {
			m.log.Warn("table load failed", zap.Error(err))
		}
		m.err = err
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.search.Focused() {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	// cursor blink
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.table.View()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Prev):
		return m, m.table.SetPage(view.Window.Previous())
	case key.Matches(msg, keys.Next):
		return m, m.table.SetPage(view.Window.Next())
	case key.Matches(msg, keys.First):
		return m, m.table.SetPage(0)
	case key.Matches(msg, keys.Last):
		return m, m.table.SetPage(view.Window.Last())
	case key.Matches(msg, keys.Search):
		return m, m.search.Focus()
	}

	// 1-9 jump to that page.
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return m, m.table.SetPage(int(s[0] - '1'))
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Blur):
		m.search.Blur()
		return m, nil
	case key.Matches(msg, keys.Submit):
		m.search.Blur()
		m.table.Controller().CommitSearch()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.table.Controller().SetSearchText(v)
	}
	return m, cmd
}

// Print loads the requested page of table and writes it to w once.
func Print(ctx context.Context, w io.Writer, store Store, table models.Table, opts Options, width int) error {
	m, err := New(ctx, store, table, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	for cmd := m.table.Init(); cmd != nil; {
		if cmd, err = m.table.Handle(cmd()); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, Snapshot(m.table.View(), width)); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "?%s\n", m.table.Query())
	return err
}

// Run opens the browser full screen until the user quits or ctx ends.
func Run(ctx context.Context, store Store, table models.Table, opts Options) error {
	m, err := New(ctx, store, table, opts)
	if err != nil {
		return err
	}
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
