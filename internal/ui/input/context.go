package input

import (
	"trialscope/internal/ui/state"
)

// RowCursor is the part of the results table the key handling needs
type RowCursor interface {
	SelectedID() string
	Len() int
}

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
	Table RowCursor
}

// SelectedTab returns the index of the visible pane
func (c *ModelContext) SelectedTab() int {
	return int(c.State.SelectedTab)
}

// TabCount returns the number of panes
func (c *ModelContext) TabCount() int {
	return len(state.TabNames)
}

// TotalRows returns the number of rows in the results table
func (c *ModelContext) TotalRows() int {
	if c.Table == nil {
		return 0
	}
	return c.Table.Len()
}

// CurrentTrialID returns the nct_id under the table cursor
func (c *ModelContext) CurrentTrialID() string {
	if c.Table == nil {
		return ""
	}
	return c.Table.SelectedID()
}

// Query returns the last submitted search term
func (c *ModelContext) Query() string {
	return c.State.Query
}

// CurrentSort returns the selected sort option index
func (c *ModelContext) CurrentSort() int {
	return c.State.SortIndex
}
