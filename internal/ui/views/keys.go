package views

import "github.com/charmbracelet/bubbles/key"

// KeyMap documents the key bindings shown in the help popup
type KeyMap struct {
	Search  key.Binding
	Submit  key.Binding
	Accept  key.Binding
	Cancel  key.Binding
	Tabs    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Open    key.Binding
	Pager   key.Binding
	Sort    key.Binding
	Refresh key.Binding
	IDIndex key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the bindings handled by the input modes
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit search")),
		Accept:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "accept suggestion")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel / close")),
		Tabs:    key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "dashboard/trials/drugs")),
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab/←", "previous tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("gg", "top")),
		Bottom:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "trial details")),
		Pager:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "record in pager")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort results")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat search")),
		IDIndex: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "toggle id index")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Tabs, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Submit, k.Accept, k.Cancel},
		{k.Tabs, k.NextTab, k.PrevTab},
		{k.Up, k.Down, k.Top, k.Bottom, k.Open, k.Pager},
		{k.Sort, k.Refresh, k.IDIndex, k.Help, k.Quit},
	}
}
