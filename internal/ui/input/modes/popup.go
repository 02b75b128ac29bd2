package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/ui/input/types"
)

// PopupMode handles keys while a modal popup is open. Scroll keys are
// forwarded as navigation; close keys emit the close action and return
// to normal mode.
type PopupMode struct {
	name      string
	closeKeys map[string]bool
	onClose   types.Action
	extra     map[string]types.Action
}

// NewDetailMode handles the trial detail popup
func NewDetailMode() *PopupMode {
	return &PopupMode{
		name:      "detail",
		closeKeys: map[string]bool{"esc": true, "q": true, "enter": true},
		onClose:   types.CloseDetailAction{},
		extra:     map[string]types.Action{"o": types.OpenPagerAction{}},
	}
}

// NewHelpMode handles the key help popup
func NewHelpMode() *PopupMode {
	return &PopupMode{
		name:      "help",
		closeKeys: map[string]bool{"esc": true, "q": true, "?": true},
		onClose:   types.ToggleHelpAction{},
	}
}

func (m *PopupMode) Name() string {
	return m.name
}

func (m *PopupMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *PopupMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *PopupMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return []types.Action{types.QuitAction{Force: true}}, true
	}
	if m.closeKeys[key] {
		return []types.Action{
			m.onClose,
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	if action, ok := m.extra[key]; ok {
		return []types.Action{action}, true
	}

	switch key {
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "pgup":
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case "pgdown", " ":
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	}

	// Swallow everything else while the popup is open
	return nil, true
}
