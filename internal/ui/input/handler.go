package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/ui/input/modes"
	"trialscope/internal/ui/input/types"
)

// Handler routes key presses to the active mode and owns the search field.
// Mode changes requested by a mode are applied here and never reach the model.
type Handler struct {
	mode  types.Mode
	modes map[types.Mode]types.ModeHandler
	field *textinput.Model
}

func New() *Handler {
	field := textinput.New()
	field.Prompt = ""
	field.Placeholder = "condition, drug, title or NCT id"
	field.ShowSuggestions = true
	field.CharLimit = 256

	return &Handler{
		mode:  types.ModeNormal,
		field: &field,
		modes: map[types.Mode]types.ModeHandler{
			types.ModeNormal: modes.NewNormalMode(),
			types.ModeSearch: modes.NewSearchMode(&field),
			types.ModeDetail: modes.NewDetailMode(),
			types.ModeHelp:   modes.NewHelpMode(),
			types.ModeSort:   modes.NewSortSelectMode(),
		},
	}
}

// HandleKey returns the actions for msg. In search mode a key no mode claims
// edits the field and yields an UpdateTextAction with the new value.
func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	active := h.modes[h.mode]
	if active == nil {
		return nil, nil
	}

	emitted, consumed := active.HandleKey(msg, ctx)
	if !consumed && h.mode != types.ModeSearch {
		return nil, nil
	}

	var (
		out []types.Action
		cmd tea.Cmd
	)
	for _, action := range emitted {
		change, ok := action.(types.ChangeModeAction)
		if !ok {
			out = append(out, action)
			continue
		}
		var hooks []types.Action
		hooks, cmd = h.switchMode(change, ctx)
		out = append(out, hooks...)
	}

	if h.mode == types.ModeSearch && len(emitted) == 0 {
		var fieldCmd tea.Cmd
		*h.field, fieldCmd = h.field.Update(msg)
		return append(out, types.UpdateTextAction{Text: h.field.Value()}), fieldCmd
	}
	return out, cmd
}

// switchMode runs the exit and enter hooks. Entering search focuses the
// field, prefilled with the change's string data.
func (h *Handler) switchMode(change types.ChangeModeAction, ctx types.Context) ([]types.Action, tea.Cmd) {
	var hooks []types.Action
	if from := h.modes[h.mode]; from != nil {
		hooks = append(hooks, from.Exit(ctx)...)
	}
	h.mode = change.Mode
	if to := h.modes[h.mode]; to != nil {
		hooks = append(hooks, to.Enter(ctx)...)
	}

	if h.mode != types.ModeSearch {
		return hooks, nil
	}
	h.field.Reset()
	if term, ok := change.Data.(string); ok {
		h.field.SetValue(term)
		h.field.CursorEnd()
	}
	h.field.Focus()
	return hooks, textinput.Blink
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.mode
}

// ModeName returns the display name of the current mode
func (h *Handler) ModeName() string {
	if m := h.modes[h.mode]; m != nil {
		return m.Name()
	}
	return ""
}

// TextInput returns the search field
func (h *Handler) TextInput() *textinput.Model {
	return h.field
}

// Update passes non-key messages such as cursor blinks to the focused field
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.mode != types.ModeSearch {
		return nil
	}
	var cmd tea.Cmd
	*h.field, cmd = h.field.Update(msg)
	return cmd
}
