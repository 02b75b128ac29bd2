package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/ui/input/types"
)

// SortOptions available for ordering search results. Key and Order are sent
// to the backend as sort and sort_order; an empty Key keeps the backend order.
var SortOptions = []struct {
	Key         string
	Order       int
	Name        string
	Description string
}{
	{"", 0, "Relevance", "Backend order"},
	{"enrollment", -1, "Enrollment", "Largest trials first"},
	{"phase", 1, "Phase", "Earliest phase first"},
	{"status", 1, "Status", "Alphabetical by recruitment status"},
	{"brief_title", 1, "Title", "Alphabetical by title"},
}

// SortSelectMode picks a sort option; enter re-runs the search with it
type SortSelectMode struct {
	sortIndex     int
	originalIndex int // Remember the original sort when entering
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	m.sortIndex = ctx.CurrentSort()
	if m.sortIndex < 0 || m.sortIndex >= len(SortOptions) {
		m.sortIndex = 0
	}
	m.originalIndex = m.sortIndex
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *SortSelectMode) move(delta int) []types.Action {
	m.sortIndex = (m.sortIndex + delta + len(SortOptions)) % len(SortOptions)
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

// HandleKey processes key messages for sort selection
func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		// Cancel and restore original sort
		return []types.Action{
			types.UpdateSortIndexAction{Index: m.originalIndex},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "enter":
		actions := []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}
		if m.sortIndex != m.originalIndex {
			actions = append([]types.Action{types.SortByAction{Index: m.sortIndex}}, actions...)
		}
		return actions, true

	case "up", "k":
		return m.move(-1), true

	case "down", "j":
		return m.move(1), true
	}

	return nil, true
}

// GetCurrentIndex returns the current sort option index
func (m *SortSelectMode) GetCurrentIndex() int {
	return m.sortIndex
}
