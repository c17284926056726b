package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/routewatch/internal/filter"
	"github.com/five82/routewatch/internal/flags"
	"github.com/five82/routewatch/internal/fleet"
	"github.com/five82/routewatch/internal/poll"
	"github.com/five82/routewatch/internal/prefs"
	"github.com/five82/routewatch/internal/route"
	"github.com/five82/routewatch/internal/selection"
	"github.com/five82/routewatch/internal/state"
)

// ThemeKey is the prefs key holding the chosen theme name.
const ThemeKey = "ui.theme"

// Poller is the part of poll.Scheduler the console drives.
type Poller interface {
	Start(ctx context.Context) error
	StartAfter(ctx context.Context, d time.Duration) *poll.Task
	Pause()
	Stop(reset bool)
	Refresh()
	SetFocused(focused bool)
	State() poll.State
}

var _ Poller = (*poll.Scheduler[[]route.Route])(nil)

// DetailsFunc returns a fresh, idle scheduler and store for one route.
type DetailsFunc func(slug string) (Poller, *state.Store[route.Route])

// Options configures the console.
type Options struct {
	Context   context.Context
	Routes    *state.Store[[]route.Route]
	List      Poller
	Details   DetailsFunc
	Filters   *filter.State
	Flags     *flags.Store
	Selection *selection.Tracker
	Prefs     prefs.Store
	Logger    *zap.Logger
	APIURL    string

	// LogFile is the console's own log, shown by the log overlay.
	LogFile   string
	ReadTick  time.Duration
	ThemeName string

	// DetailDelay holds back the first details fetch, so opening and
	// leaving a route quickly fetches nothing.
	DetailDelay time.Duration
}

type view int

const (
	viewList view = iota
	viewDetail
)

// detailSession is the details screen of one route. task is the delayed
// first start, nil once nothing is pending.
type detailSession struct {
	id      string
	slug    string
	poller  Poller
	task    *poll.Task
	store   *state.Store[route.Route]
	snap    state.Snapshot[route.Route]
	loading bool
	err     error
}

// Model is the root console state for Bubble Tea.
type Model struct {
	ctx      context.Context
	routes   *state.Store[[]route.Route]
	list     Poller
	details  DetailsFunc
	filters  *filter.State
	flags    *flags.Store
	sel      *selection.Tracker
	prefs    prefs.Store
	logger   *zap.Logger
	apiURL   string
	readTick time.Duration
	delay    time.Duration
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	search   textinput.Model
	theme    Theme
	width    int
	height   int
	ready    bool
	focused  bool
	paused   bool
	showHelp bool
	current  view
	notice   string
	listSnap state.Snapshot[[]route.Route]
	visible  []route.Route
	listBusy bool
	listErr  error
	detail   *detailSession
	facets   facetPanel
	logs     logPanel
}

// New creates the console model. Missing cells are created empty.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	routes := opts.Routes
	if routes == nil {
		routes = state.NewRoutesStore()
	}
	filters := opts.Filters
	if filters == nil {
		filters = filter.New(ctx, opts.Prefs, logger)
	}
	flagStore := opts.Flags
	if flagStore == nil {
		flagStore = &flags.Store{}
	}
	sel := opts.Selection
	if sel == nil {
		sel = &selection.Tracker{}
	}
	readTick := opts.ReadTick
	if readTick <= 0 {
		readTick = 250 * time.Millisecond
	}
	delay := opts.DetailDelay
	if delay <= 0 {
		delay = 150 * time.Millisecond
	}

	themeName := opts.ThemeName
	if themeName == "" && opts.Prefs != nil {
		if raw, err := opts.Prefs.Get(ctx, ThemeKey); err == nil {
			themeName = string(raw)
		}
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "reference, driver, vehicle..."
	search.CharLimit = 80

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		ctx:      ctx,
		routes:   routes,
		list:     opts.List,
		details:  opts.Details,
		filters:  filters,
		flags:    flagStore,
		sel:      sel,
		prefs:    opts.Prefs,
		logger:   logger.Named("ui"),
		apiURL:   opts.APIURL,
		readTick: readTick,
		delay:    delay,
		keys:     defaultKeyMap(),
		help:     help.New(),
		spinner:  spin,
		search:   search,
		theme:    GetTheme(themeName),
		logs:     logPanel{path: opts.LogFile},
		focused:  true,
		current:  viewList,
		listBusy: opts.List != nil,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.readTick), m.spinner.Tick}
	if m.list != nil {
		cmds = append(cmds, startCmd(m.ctx, m.list, targetList))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tea.FocusMsg:
		m.setFocused(true)
		return m, nil

	case tea.BlurMsg:
		m.setFocused(false)
		return m, nil

	case tickMsg:
		m.readSnapshots()
		return m, tickCmd(m.readTick)

	case startedMsg:
		m.handleStarted(msg)
		return m, nil

	case logChangedMsg:
		cmd := m.handleLogChanged(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	switch {
	case m.facets.open:
		b.WriteString(m.renderFacets())
	case m.logs.open:
		b.WriteString(m.renderLogs())
	case m.current == viewDetail:
		b.WriteString(m.renderDetail())
	default:
		b.WriteString(m.renderList())
	}
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.facets.open {
		return m.handleFacetKey(msg)
	}
	if m.logs.open {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		cmd := m.togglePause()
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.refresh()
		return m, cmd
	case key.Matches(msg, m.keys.Logs):
		cmd := m.openLogs()
		return m, cmd
	}

	if m.current == viewDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.search.Blur()
		m.filters.SetQuery("")
		m.recompute()
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filters.SetQuery(m.search.Value())
	m.recompute()
	return m, cmd
}

// setFocused forwards terminal focus to every scheduler so they switch
// between the short and long interval.
func (m *Model) setFocused(focused bool) {
	m.focused = focused
	if m.list != nil {
		m.list.SetFocused(focused)
	}
	if m.detail != nil {
		m.detail.poller.SetFocused(focused)
	}
}

func (m *Model) togglePause() tea.Cmd {
	if m.list == nil {
		return nil
	}
	if m.paused {
		m.paused = false
		m.notice = ""
		cmds := []tea.Cmd{startCmd(m.ctx, m.list, targetList)}
		if m.detail != nil {
			cmds = append(cmds, startDetailCmd(m.ctx, m.detail.poller))
		}
		return tea.Batch(cmds...)
	}
	m.paused = true
	m.notice = "polling paused"
	m.list.Pause()
	if m.detail != nil {
		m.detail.cancelPending()
		m.detail.poller.Pause()
	}
	return nil
}

// refresh fetches now, or retries a start that failed.
func (m *Model) refresh() tea.Cmd {
	if m.current == viewDetail && m.detail != nil {
		if m.detail.err != nil && !m.detail.snap.HasValue {
			m.detail.err = nil
			m.detail.loading = true
			return startDetailCmd(m.ctx, m.detail.poller)
		}
		m.detail.poller.Refresh()
		return nil
	}
	if m.list == nil {
		return nil
	}
	if m.listErr != nil && !m.listSnap.HasValue {
		m.listErr = nil
		m.listBusy = true
		return startCmd(m.ctx, m.list, targetList)
	}
	m.list.Refresh()
	return nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefs == nil {
		return
	}
	if err := m.prefs.Put(m.ctx, ThemeKey, []byte(m.theme.Name)); err != nil {
		m.logger.Warn("save theme", zap.Error(err))
	}
}

func (m *Model) handleStarted(msg startedMsg) {
	switch msg.target {
	case targetList:
		m.listBusy = false
		m.listErr = msg.err
		if msg.err != nil {
			m.logger.Warn("route list unavailable", zap.Error(msg.err))
		}
	case targetDetail:
		if m.detail == nil || m.detail.poller != msg.poller {
			return
		}
		m.detail.task = nil
		m.detail.loading = false
		m.detail.err = msg.err
		state.EditClientState(m.routes, m.detail.id, func(c *route.ClientState) { c.Pending = "" })
		if msg.err != nil {
			m.logger.Warn("route details unavailable", zap.String("slug", m.detail.slug), zap.Error(msg.err))
		}
	}
	m.readSnapshots()
}

// readSnapshots copies the published cells and recomputes the visible
// list. Selection is re-resolved against the new data.
func (m *Model) readSnapshots() {
	m.listSnap = m.routes.Snapshot()
	if m.detail != nil {
		m.detail.snap = m.detail.store.Snapshot()
		if m.detail.snap.HasValue {
			m.sel.Observe([]route.Route{m.detail.snap.Value})
		}
	} else if m.listSnap.HasValue {
		m.sel.Observe(m.listSnap.Value)
	}
	m.recompute()
}

func (m *Model) recompute() {
	m.visible = route.Sorted(m.filters.Apply(m.listSnap.Value), m.flags)
}

// errorText renders a start failure for the blocking error screen.
func errorText(err error, what string) string {
	if errors.Is(err, fleet.ErrNotFound) {
		return what + " not found"
	}
	return what + " unavailable: " + err.Error()
}

// Messages

type tickMsg time.Time

type target int

const (
	targetList target = iota
	targetDetail
)

type startedMsg struct {
	target target
	poller Poller
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func startCmd(ctx context.Context, p Poller, t target) tea.Cmd {
	return func() tea.Msg {
		return startedMsg{target: t, poller: p, err: p.Start(ctx)}
	}
}

func startDetailCmd(ctx context.Context, p Poller) tea.Cmd {
	return startCmd(ctx, p, targetDetail)
}

// awaitDetailCmd reports the outcome of a delayed details start. A start
// aborted during its delay reports nothing.
func awaitDetailCmd(p Poller, task *poll.Task) tea.Cmd {
	return func() tea.Msg {
		err := task.Wait()
		if poll.IsAborted(err) {
			return nil
		}
		return startedMsg{target: targetDetail, poller: p, err: err}
	}
}

// Run starts the console and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
