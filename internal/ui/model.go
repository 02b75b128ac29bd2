package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"trialscope/internal/config"
	"trialscope/internal/domain"
	"trialscope/internal/eventbus"
	"trialscope/internal/history"
	"trialscope/internal/ui/commands"
	"trialscope/internal/ui/input"
	"trialscope/internal/ui/input/modes"
	inputtypes "trialscope/internal/ui/input/types"
	"trialscope/internal/ui/state"
	"trialscope/internal/ui/views"
)

// DefaultDebounce is how long the search field must be idle before
// suggestions are requested
const DefaultDebounce = 250 * time.Millisecond

// rows taken by the title, tabs, search line, headings, status and help hint
const chromeHeight = 14

// Options configures the search view
type Options struct {
	Config       *config.Config
	Fetcher      commands.Fetcher
	BackendURL   string // shown in the header
	Bus          eventbus.EventBus
	History      history.Recorder
	Logger       *zap.Logger
	Debounce     time.Duration // zero means DefaultDebounce
	GlamourStyle string        // glamour style for the detail popup
}

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	state   *state.AppState // centralized state
	history history.Recorder
	logger  *zap.Logger

	width       int
	height      int
	tableHeight int
	backendURL  string
	debounce    time.Duration

	// last autocomplete labels, merged with history on every refresh
	backendSuggestions []string

	help     help.Model
	keys     views.KeyMap
	spinner  spinner.Model
	viewport viewport.Model
	trials   views.ResultTable
	ids      views.ResultTable

	renderer     *views.Renderer
	detail       *views.DetailRenderer
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	appState := state.NewAppState()
	appState.ShowIDIndex = cfg.UI.ShowIDIndex

	styles := views.NewStyles()
	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.StatusLoading))

	m := &Model{
		bus:          opts.Bus,
		config:       cfg,
		state:        appState,
		history:      opts.History,
		logger:       logger.Named("ui"),
		backendURL:   opts.BackendURL,
		debounce:     debounce,
		help:         help.New(),
		keys:         views.DefaultKeyMap(),
		spinner:      sp,
		viewport:     viewport.New(60, 20),
		trials:       views.NewTrialTable(styles),
		ids:          views.NewIDTable(styles),
		renderer:     views.NewRenderer(styles),
		detail:       views.NewDetailRenderer(opts.GlamourStyle),
		inputHandler: input.New(),
	}
	m.cmdExecutor = commands.NewExecutor(appState, opts.Bus, opts.Fetcher)
	return m
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("trialscope")
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layoutTables()
		if m.state.DetailOpen() {
			m.refreshDetail()
		}
		return m, nil

	case tea.KeyMsg:
		ctx := &input.ModelContext{State: m.state, Table: m.trials}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, batch(cmds...)

	default:
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.buildViewState())
}

func (m *Model) buildViewState() views.ViewState {
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		BackendURL:    m.backendURL,
		SelectedTab:   m.state.SelectedTab,
		Submitting:    m.state.Submitting,
		Query:         m.state.Query,
		InputMode:     m.inputHandler.ModeName(),
		SearchField:   m.inputHandler.TextInput(),
		SortIndex:     m.state.SortIndex,
		StatusMessage: m.state.StatusMessage,
		Failed:        m.state.LastError != nil,
		TrialsTable:   m.trials,
		IDTable:       m.ids,
		ShowIDIndex:   m.state.ShowIDIndex,
		ShowHelp:      m.state.ShowHelp,
		HelpModel:     m.help,
		Keys:          m.keys,
		DetailOpen:    m.state.DetailOpen(),
	}
	if m.state.Submitting {
		vs.Spinner = m.spinner.View()
	}
	switch m.state.SelectedTab {
	case state.TabDashboard:
		vs.Summary = m.state.Summarize()
	case state.TabDrugs:
		vs.Interventions = m.state.Interventions()
	}
	if vs.DetailOpen {
		hint := m.renderer.Styles().Dim.Render("↑/↓ scroll • o pager • esc close")
		vs.DetailContent = m.viewport.View() + "\n\n" + hint
	}
	return vs
}

// processAction executes one input action and returns its command, if any
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.SelectTabAction:
		m.state.SelectTab(state.Tab(a.Index))

	case inputtypes.CycleTabAction:
		if a.Delta < 0 {
			m.state.PrevTab()
		} else {
			m.state.NextTab()
		}

	case inputtypes.UpdateTextAction:
		if strings.TrimSpace(a.Text) == "" {
			m.backendSuggestions = nil
			m.setSuggestions(nil)
		}
		// A blank term still bumps the round so in-flight suggestions go stale
		return m.cmdExecutor.ExecuteSuggest(a.Text, m.debounce)

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeSearch {
			return m.search(a.Text)
		}

	case inputtypes.CancelTextAction:
		m.backendSuggestions = nil
		m.setSuggestions(nil)

	case inputtypes.RefreshAction:
		return m.search(m.state.Query)

	case inputtypes.OpenDetailAction:
		cmd := m.cmdExecutor.ExecuteDetail(a.NCTID)
		m.refreshDetail()
		return cmd

	case inputtypes.CloseDetailAction:
		m.cmdExecutor.CancelDetail()
		m.state.CloseDetail()
		m.viewport.SetContent("")

	case inputtypes.OpenPagerAction:
		return m.openPager()

	case inputtypes.UpdateSortIndexAction:
		if a.Index >= 0 && a.Index < len(modes.SortOptions) {
			m.state.SortIndex = a.Index
		}

	case inputtypes.SortByAction:
		if a.Index < 0 || a.Index >= len(modes.SortOptions) {
			return nil
		}
		m.state.SortIndex = a.Index
		return m.search(m.state.Query)

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp

	case inputtypes.ToggleIDIndexAction:
		m.state.ShowIDIndex = !m.state.ShowIDIndex
		m.layoutTables()

	case inputtypes.QuitAction:
		m.cmdExecutor.Cancel()
		return tea.Quit
	}
	return nil
}

// search dispatches term with the selected ordering. The submitting flag is
// set before the command is returned.
func (m *Model) search(term string) tea.Cmd {
	q := domain.SearchQuery{Term: term}
	if opt := modes.SortOptions[m.sortIndex()]; opt.Key != "" {
		q.Sort = opt.Key
		q.SortOrder = opt.Order
	}

	m.backendSuggestions = nil
	m.setSuggestions(nil)

	cmd := m.cmdExecutor.ExecuteSearch(q)
	m.logger.Debug("search dispatched",
		zap.String("query", strings.TrimSpace(term)),
		zap.String("sort", q.Sort),
		zap.Uint64("token", m.state.LatestToken()),
	)
	return batch(cmd, m.spinner.Tick)
}

func (m *Model) sortIndex() int {
	if m.state.SortIndex < 0 || m.state.SortIndex >= len(modes.SortOptions) {
		return 0
	}
	return m.state.SortIndex
}

func (m *Model) navigate(direction string) {
	if m.state.DetailOpen() {
		switch direction {
		case "up":
			m.viewport.ScrollUp(1)
		case "down":
			m.viewport.ScrollDown(1)
		case "pageup":
			m.viewport.PageUp()
		case "pagedown":
			m.viewport.PageDown()
		case "home":
			m.viewport.GotoTop()
		case "end":
			m.viewport.GotoBottom()
		}
		return
	}
	if m.state.SelectedTab != state.TabTrials {
		return
	}

	// Both tables hold the same rows, so moving them together keeps them aligned
	for _, t := range []views.ResultTable{m.trials, m.ids} {
		switch direction {
		case "up":
			t.MoveUp(1)
		case "down":
			t.MoveDown(1)
		case "pageup":
			t.MoveUp(m.pageSize())
		case "pagedown":
			t.MoveDown(m.pageSize())
		case "home":
			t.GotoTop()
		case "end":
			t.GotoBottom()
		}
	}
}

func (m *Model) pageSize() int {
	if m.tableHeight > 1 {
		return m.tableHeight - 1
	}
	return 1
}

// layoutTables splits the rows left after the chrome between the tables
func (m *Model) layoutTables() {
	avail := m.height - chromeHeight
	if avail < 6 {
		avail = 6
	}
	trialsHeight := avail
	if m.state.ShowIDIndex {
		trialsHeight = avail * 2 / 3
		m.ids.SetHeight(avail - trialsHeight - 3)
	}
	m.tableHeight = trialsHeight
	m.trials.SetHeight(trialsHeight)
}

func (m *Model) popupSize() (int, int) {
	w := m.width * 3 / 4
	if w < 40 {
		w = 40
	}
	h := m.height - 10
	if h < 5 {
		h = 5
	}
	return w, h
}

// refreshDetail renders the popup content for the open trial
func (m *Model) refreshDetail() {
	if !m.state.DetailOpen() {
		return
	}
	w, h := m.popupSize()
	m.viewport.Width = w
	m.viewport.Height = h

	var content string
	switch {
	case m.state.DetailLoading:
		content = fmt.Sprintf("Loading %s…", m.state.DetailID)
	case m.state.DetailErr != nil:
		content = fmt.Sprintf("Could not load %s: %v", m.state.DetailID, m.state.DetailErr)
	case m.state.Detail != nil:
		content = m.detail.Render(*m.state.Detail, w)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *Model) setSuggestions(s []string) {
	m.state.Suggestions = s
	m.inputHandler.TextInput().SetSuggestions(s)
}

// refreshSuggestions merges matching recent searches with the last
// autocomplete labels; recent searches come first
func (m *Model) refreshSuggestions() {
	term := strings.TrimSpace(m.inputHandler.TextInput().Value())
	if term == "" {
		m.setSuggestions(nil)
		return
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}
	if m.history != nil {
		for _, h := range m.history.Matching(term, m.config.UI.SuggestionLimit) {
			add(h)
		}
	}
	for _, s := range m.backendSuggestions {
		add(s)
	}
	m.setSuggestions(out)
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case commands.SearchResultMsg:
		m.settleSearch(msg)
		return m, nil

	case commands.DetailMsg:
		if !m.state.ApplyDetail(msg.Token, msg.Detail, msg.Err) {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("trial detail failed", zap.String("nct_id", msg.NCTID), zap.Error(msg.Err))
		} else {
			m.publish(eventbus.DetailLoadedEvent{NCTID: msg.NCTID})
		}
		m.refreshDetail()
		return m, nil

	case pagerClosedMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.String("nct_id", msg.nctID), zap.Error(msg.err))
			m.state.StatusMessage = "pager failed"
		}
		return m, nil

	case commands.SuggestTickMsg:
		return m, m.cmdExecutor.ExecuteAutocomplete(msg, m.config.UI.SuggestionLimit)

	case commands.SuggestionsMsg:
		if !m.state.IsLatestSuggest(msg.Seq) {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Debug("autocomplete failed", zap.String("term", msg.Term), zap.Error(msg.Err))
		}
		labels := make([]string, 0, len(msg.Suggestions))
		for _, s := range msg.Suggestions {
			labels = append(labels, s.Label())
		}
		m.backendSuggestions = labels
		m.refreshSuggestions()
		return m, nil

	case spinner.TickMsg:
		if !m.state.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		if e, ok := msg.Event.(eventbus.HistoryChangedEvent); ok {
			m.logger.Debug("history changed", zap.Int("entries", len(e.Recent)))
			if m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
				m.refreshSuggestions()
			}
		}
		return m, nil

	default:
		// Cursor blink and other messages for the search field
		return m, m.inputHandler.Update(msg)
	}
}

// settleSearch applies a search result. Results for anything but the latest
// token are dropped. The submitting flag is cleared before logging.
func (m *Model) settleSearch(msg commands.SearchResultMsg) {
	if !m.state.IsLatest(msg.Token) {
		m.logger.Debug("discarding stale search result",
			zap.Uint64("token", msg.Token),
			zap.Uint64("latest", m.state.LatestToken()),
		)
		m.publish(eventbus.SearchDiscardedEvent{Token: msg.Token, Latest: m.state.LatestToken()})
		return
	}

	if msg.Err != nil {
		m.state.ApplyFailure(msg.Token, msg.Err)
		m.logger.Error("search failed",
			zap.String("query", msg.Query.Term),
			zap.Uint64("token", msg.Token),
			zap.Error(msg.Err),
		)
		m.publish(eventbus.SearchFailedEvent{Token: msg.Token, Query: msg.Query, Err: msg.Err})
		return
	}

	m.state.ApplyResult(msg.Token, msg.Trials)
	m.trials.SetTrials(m.state.Trials)
	m.ids.SetTrials(m.state.Trials)
	m.logger.Debug("search completed",
		zap.String("query", msg.Query.Term),
		zap.Uint64("token", msg.Token),
		zap.Int("results", len(m.state.Trials)),
	)
	m.publish(eventbus.SearchCompletedEvent{Token: msg.Token, Query: msg.Query, Results: len(m.state.Trials)})
}

// batch drops nil commands; it returns nil when nothing is left
func batch(cmds ...tea.Cmd) tea.Cmd {
	var valid []tea.Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	switch len(valid) {
	case 0:
		return nil
	case 1:
		return valid[0]
	default:
		return tea.Batch(valid...)
	}
}
