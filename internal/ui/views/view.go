package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"trialscope/internal/ui/input/modes"
	"trialscope/internal/ui/state"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	BackendURL    string
	SelectedTab   state.Tab
	Submitting    bool
	Spinner       string
	Query         string
	InputMode     string
	SearchField   SearchField
	SortIndex     int
	StatusMessage string
	Failed        bool
	TrialsTable   ResultTable
	IDTable       ResultTable
	ShowIDIndex   bool
	Summary       state.Summary
	Interventions []string
	ShowHelp      bool
	HelpModel     help.Model
	Keys          KeyMap
	DetailOpen    bool
	DetailContent string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	if styles == nil {
		styles = NewStyles()
	}
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(vs ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(vs))
	content.WriteString("\n\n")
	content.WriteString(r.RenderTabs(vs.SelectedTab))
	content.WriteString("\n\n")
	content.WriteString(r.renderSearchLine(vs))
	content.WriteString("\n\n")

	switch vs.SelectedTab {
	case state.TabTrials:
		content.WriteString(r.RenderTrialsPane(vs))
	case state.TabDrugs:
		content.WriteString(r.RenderDrugsPane(vs.Interventions))
	default:
		content.WriteString(r.RenderDashboardPane(vs.Summary))
	}

	if vs.StatusMessage != "" {
		content.WriteString("\n\n")
		if vs.Failed {
			content.WriteString(r.styles.StatusError.Render(vs.StatusMessage))
		} else {
			content.WriteString(r.styles.Status.Render(vs.StatusMessage))
		}
	}

	// Push the help hint to the bottom when there is room
	helpText := ""
	if !vs.ShowHelp && !vs.DetailOpen {
		helpText = r.styles.Help.Render("Press ? for help")
	}
	if helpText != "" {
		currentLines := strings.Count(content.String(), "\n") + 1
		availableLines := vs.Height - 2 // container padding
		if paddingNeeded := availableLines - currentLines - 2; paddingNeeded > 0 {
			content.WriteString(strings.Repeat("\n", paddingNeeded))
		}
		content.WriteString("\n")
		content.WriteString(helpText)
	}

	mainStyle := r.styles.Main
	if vs.Height > 0 {
		mainStyle = mainStyle.MaxHeight(vs.Height)
	}
	finalContent := mainStyle.Render(content.String())

	if vs.DetailOpen {
		return r.popupRender.RenderPopupOverlay(finalContent, vs.DetailContent, vs.Height, vs.Width, r.styles.PopupBox)
	}
	if vs.ShowHelp {
		return r.popupRender.RenderPopupOverlay(finalContent, r.renderHelpContent(vs), vs.Height, vs.Width, r.styles.HelpBox)
	}
	return finalContent
}

// renderTitle renders the logo with the loading indicator right-aligned
func (r *Renderer) renderTitle(vs ViewState) string {
	logo := r.styles.Title.Render("trialscope")

	var right []string
	if vs.Submitting {
		right = append(right, r.styles.StatusLoading.Render(strings.TrimSpace(vs.Spinner+" Searching…")))
	}
	if vs.BackendURL != "" {
		right = append(right, r.styles.Dim.Render(vs.BackendURL))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := vs.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

// RenderTabs renders the tab bar with the selected tab highlighted
func (r *Renderer) RenderTabs(selected state.Tab) string {
	tabs := make([]string, len(state.TabNames))
	for i, name := range state.TabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if state.Tab(i) == selected {
			tabs[i] = r.styles.TabActive.Render(label)
		} else {
			tabs[i] = r.styles.TabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (r *Renderer) renderSearchLine(vs ViewState) string {
	label := r.styles.Label.Render("Search: ")
	switch vs.InputMode {
	case "search":
		if vs.SearchField != nil {
			return label + vs.SearchField.View()
		}
	case "sort":
		return r.renderSortOptions(vs.SortIndex)
	}
	if vs.Query == "" {
		return label + r.styles.Dim.Render("press / to search")
	}
	line := label + vs.Query
	if vs.SortIndex > 0 && vs.SortIndex < len(modes.SortOptions) {
		line += r.styles.Dim.Render(fmt.Sprintf("  (by %s)", strings.ToLower(modes.SortOptions[vs.SortIndex].Name)))
	}
	return line
}

// renderSortOptions renders the sort mode selection interface
func (r *Renderer) renderSortOptions(index int) string {
	if index < 0 || index >= len(modes.SortOptions) {
		return ""
	}
	option := modes.SortOptions[index]
	sortLine := fmt.Sprintf("Sort by: %s - %s", option.Name, option.Description)
	helpLine := r.styles.Dim.Render("↑/↓ or j/k to change • Enter to search • Esc to cancel")
	return sortLine + "\n" + helpLine
}

// RenderDashboardPane renders the summary of the current results
func (r *Renderer) RenderDashboardPane(sum state.Summary) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render("Dashboard"))
	b.WriteString("\n")

	if sum.Trials == 0 {
		b.WriteString(r.styles.Dim.Render("No trials loaded. Press / to search."))
		return b.String()
	}

	fmt.Fprintf(&b, "%s %d\n", r.styles.Label.Render("Trials:"), sum.Trials)
	fmt.Fprintf(&b, "%s %d\n", r.styles.Label.Render("Total enrollment:"), sum.TotalEnrollment)

	b.WriteString("\n")
	b.WriteString(r.styles.Label.Render("By status"))
	for _, c := range sum.ByStatus {
		status := lipgloss.NewStyle().Foreground(lipgloss.Color(StatusColor(c.Label))).Render(c.Label)
		fmt.Fprintf(&b, "\n  %-4d %s", c.N, status)
	}

	b.WriteString("\n\n")
	b.WriteString(r.styles.Label.Render("By phase"))
	for _, c := range sum.ByPhase {
		fmt.Fprintf(&b, "\n  %-4d %s", c.N, c.Label)
	}
	return b.String()
}

// RenderTrialsPane renders the results table and, when enabled, the ID index
func (r *Renderer) RenderTrialsPane(vs ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render("Trials"))
	b.WriteString("\n")
	if vs.TrialsTable != nil {
		b.WriteString(vs.TrialsTable.View())
	}
	if vs.ShowIDIndex && vs.IDTable != nil {
		b.WriteString("\n\n")
		b.WriteString(r.styles.Label.Render("Trial IDs"))
		b.WriteString("\n")
		b.WriteString(vs.IDTable.View())
	}
	return b.String()
}

// RenderDrugsPane lists the distinct interventions of the current results
func (r *Renderer) RenderDrugsPane(interventions []string) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render("Drugs"))
	b.WriteString("\n")
	if len(interventions) == 0 {
		b.WriteString(r.styles.Dim.Render("No interventions to show."))
		return b.String()
	}
	for i, name := range interventions {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• " + name)
	}
	return b.String()
}

// renderHelpContent renders the key help for the popup
func (r *Renderer) renderHelpContent(vs ViewState) string {
	h := vs.HelpModel
	h.ShowAll = true
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1).
		Render("trialscope help")
	return title + "\n" + h.View(vs.Keys)
}
