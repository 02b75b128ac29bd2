package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay centers a popup over a dimmed copy of the main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	styledPopup := popupStyle.Render(popupContent)
	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	if modalW > width || modalH > height {
		// Too big to overlay; show the popup alone
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styledPopup)
	}

	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	x := (width - modalW) / 2
	y := (height - modalH) / 2
	for i, line := range strings.Split(styledPopup, "\n") {
		row := y + i
		base[row] = spliceLine(ansiRE.ReplaceAllString(base[row], ""), line, x, modalW)
	}
	return strings.Join(base[:height], "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	plain := ansiRE.ReplaceAllString(s, "")
	lines := strings.Split(plain, "\n")
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range lines {
		lines[i] = dim.Render(line)
	}
	return strings.Join(lines, "\n")
}

// spliceLine replaces the cells [x, x+w) of a plain base line with overlay
func spliceLine(base, overlay string, x, w int) string {
	runes := []rune(base)
	for len(runes) < x+w {
		runes = append(runes, ' ')
	}
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	left := dim.Render(string(runes[:x]))
	right := dim.Render(strings.TrimRight(string(runes[x+w:]), " "))
	return left + overlay + right
}
