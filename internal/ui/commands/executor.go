package commands

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/domain"
	"trialscope/internal/eventbus"
	"trialscope/internal/ui/state"
)

// Executor handles command execution. It owns the request contexts so a new
// search cancels the one before it. Not safe for concurrent use; call it from
// the Update loop only.
type Executor struct {
	ctx          *CommandContext
	parent       context.Context
	cancelSearch context.CancelFunc
	cancelDetail context.CancelFunc
}

// NewExecutor creates a new command executor
func NewExecutor(state *state.AppState, bus eventbus.EventBus, fetcher Fetcher) *Executor {
	return &Executor{
		ctx: &CommandContext{
			State:   state,
			Bus:     bus,
			Fetcher: fetcher,
		},
		parent: context.Background(),
	}
}

// ExecuteSearch cancels any outstanding search and dispatches q
func (e *Executor) ExecuteSearch(q domain.SearchQuery) tea.Cmd {
	if e.cancelSearch != nil {
		e.cancelSearch()
	}
	reqCtx, cancel := context.WithCancel(e.parent)
	e.cancelSearch = cancel

	q.Term = strings.TrimSpace(q.Term)
	return NewSearchCommand(e.ctx, reqCtx, q).Execute()
}

// ExecuteDetail opens the detail popup for nctID and loads it
func (e *Executor) ExecuteDetail(nctID string) tea.Cmd {
	if e.cancelDetail != nil {
		e.cancelDetail()
	}
	reqCtx, cancel := context.WithCancel(e.parent)
	e.cancelDetail = cancel
	return NewDetailCommand(e.ctx, reqCtx, nctID).Execute()
}

// CancelDetail aborts the load behind the detail popup
func (e *Executor) CancelDetail() {
	if e.cancelDetail != nil {
		e.cancelDetail()
		e.cancelDetail = nil
	}
}

// ExecuteSuggest starts a debounced suggestion round for term
func (e *Executor) ExecuteSuggest(term string, debounce time.Duration) tea.Cmd {
	return NewSuggestCommand(e.ctx, term, debounce).Execute()
}

// ExecuteAutocomplete requests completions for a tick that is still the
// current round; stale ticks return nil
func (e *Executor) ExecuteAutocomplete(tick SuggestTickMsg, limit int) tea.Cmd {
	if !e.ctx.State.IsLatestSuggest(tick.Seq) || strings.TrimSpace(tick.Term) == "" {
		return nil
	}
	return autocomplete(e.parent, e.ctx.Fetcher, tick.Seq, tick.Term, limit)
}

// Cancel aborts any outstanding requests
func (e *Executor) Cancel() {
	if e.cancelSearch != nil {
		e.cancelSearch()
		e.cancelSearch = nil
	}
	e.CancelDetail()
}
