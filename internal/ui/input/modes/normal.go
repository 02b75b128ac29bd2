package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// trialsTab is the index of the pane holding the results table
const trialsTab = 1

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft, tea.KeyShiftTab:
		return []types.Action{types.CycleTabAction{Delta: -1}}, true

	case tea.KeyRight, tea.KeyTab:
		return []types.Action{types.CycleTabAction{Delta: 1}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		// Enter opens the detail popup for the highlighted trial
		if ctx.SelectedTab() == trialsTab && ctx.CurrentTrialID() != "" {
			id := ctx.CurrentTrialID()
			return []types.Action{
				types.OpenDetailAction{NCTID: id},
				types.ChangeModeAction{Mode: types.ModeDetail},
			}, true
		}
		return nil, false
	}

	switch key := msg.String(); key {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h":
		return []types.Action{types.CycleTabAction{Delta: -1}}, true

	case "l":
		return []types.Action{types.CycleTabAction{Delta: 1}}, true

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(key[0] - '1')
		if idx < ctx.TabCount() {
			return []types.Action{types.SelectTabAction{Index: idx}}, true
		}
		return nil, true

	case "/":
		// Enter search mode, starting from the last submitted term
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.Query()}}, true

	case "r":
		// Run the last search again
		return []types.Action{types.RefreshAction{}}, true

	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true

	case "i":
		return []types.Action{types.ToggleIDIndexAction{}}, true

	case "?":
		return []types.Action{
			types.ToggleHelpAction{},
			types.ChangeModeAction{Mode: types.ModeHelp},
		}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		// First g, wait for next key
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	default:
		// Any other key cancels the 'g' prefix
		m.lastKeyWasG = false
	}

	return nil, false
}
