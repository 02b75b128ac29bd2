package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/domain"
	"trialscope/internal/eventbus"
	"trialscope/internal/ui/state"
)

// Fetcher is the part of the trials client the UI needs
type Fetcher interface {
	ListTrials(ctx context.Context, q domain.SearchQuery) ([]domain.Trial, error)
	GetTrial(ctx context.Context, nctID string) (domain.TrialDetail, error)
	Autocomplete(ctx context.Context, term string, limit int) ([]domain.Suggestion, error)
}

// SearchResultMsg settles the search identified by Token
type SearchResultMsg struct {
	Token  uint64
	Query  domain.SearchQuery
	Trials []domain.Trial
	Err    error
}

// DetailMsg carries a fetched trial record
type DetailMsg struct {
	Token  uint64
	NCTID  string
	Detail domain.TrialDetail
	Err    error
}

// SuggestTickMsg fires when the search field has been idle for the debounce period
type SuggestTickMsg struct {
	Seq  uint64
	Term string
}

// SuggestionsMsg carries autocomplete results for round Seq
type SuggestionsMsg struct {
	Seq         uint64
	Term        string
	Suggestions []domain.Suggestion
	Err         error
}

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	State   *state.AppState
	Bus     eventbus.EventBus
	Fetcher Fetcher
}

// recovered turns a panic in a fetch into an error so the settle path still runs
func recovered(r any) error {
	return fmt.Errorf("fetch panicked: %v", r)
}

// SearchCommand dispatches a trial search
type SearchCommand struct {
	ctx    *CommandContext
	reqCtx context.Context
	query  domain.SearchQuery
}

// NewSearchCommand creates a new search command bound to reqCtx
func NewSearchCommand(ctx *CommandContext, reqCtx context.Context, query domain.SearchQuery) *SearchCommand {
	return &SearchCommand{
		ctx:    ctx,
		reqCtx: reqCtx,
		query:  query,
	}
}

// Execute marks the search as outstanding and returns the fetch
func (c *SearchCommand) Execute() tea.Cmd {
	token := c.ctx.State.BeginSearch(c.query.Term)
	if c.ctx.Bus != nil {
		c.ctx.Bus.Publish(eventbus.SearchStartedEvent{Token: token, Query: c.query})
	}

	fetcher, reqCtx, query := c.ctx.Fetcher, c.reqCtx, c.query
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = SearchResultMsg{Token: token, Query: query, Err: recovered(r)}
			}
		}()
		trials, err := fetcher.ListTrials(reqCtx, query)
		return SearchResultMsg{Token: token, Query: query, Trials: trials, Err: err}
	}
}

// DetailCommand loads one trial for the detail popup
type DetailCommand struct {
	ctx    *CommandContext
	reqCtx context.Context
	nctID  string
}

// NewDetailCommand creates a new detail command
func NewDetailCommand(ctx *CommandContext, reqCtx context.Context, nctID string) *DetailCommand {
	return &DetailCommand{
		ctx:    ctx,
		reqCtx: reqCtx,
		nctID:  nctID,
	}
}

// Execute opens the popup and returns the fetch
func (c *DetailCommand) Execute() tea.Cmd {
	if c.nctID == "" {
		return nil
	}
	token := c.ctx.State.OpenDetail(c.nctID)

	fetcher, reqCtx, id := c.ctx.Fetcher, c.reqCtx, c.nctID
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = DetailMsg{Token: token, NCTID: id, Err: recovered(r)}
			}
		}()
		d, err := fetcher.GetTrial(reqCtx, id)
		return DetailMsg{Token: token, NCTID: id, Detail: d, Err: err}
	}
}

// SuggestCommand starts a debounced autocomplete round for the search field
type SuggestCommand struct {
	ctx      *CommandContext
	term     string
	debounce time.Duration
}

// NewSuggestCommand creates a new suggest command
func NewSuggestCommand(ctx *CommandContext, term string, debounce time.Duration) *SuggestCommand {
	return &SuggestCommand{
		ctx:      ctx,
		term:     term,
		debounce: debounce,
	}
}

// Execute bumps the suggestion round and waits out the debounce period
func (c *SuggestCommand) Execute() tea.Cmd {
	seq := c.ctx.State.NextSuggestSeq()
	term := c.term
	if c.debounce <= 0 {
		return func() tea.Msg { return SuggestTickMsg{Seq: seq, Term: term} }
	}
	return tea.Tick(c.debounce, func(time.Time) tea.Msg {
		return SuggestTickMsg{Seq: seq, Term: term}
	})
}

// autocomplete performs the request for a debounce tick that is still current
func autocomplete(reqCtx context.Context, fetcher Fetcher, seq uint64, term string, limit int) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = SuggestionsMsg{Seq: seq, Term: term, Err: recovered(r)}
			}
		}()
		hits, err := fetcher.Autocomplete(reqCtx, term, limit)
		return SuggestionsMsg{Seq: seq, Term: term, Suggestions: hits, Err: err}
	}
}
