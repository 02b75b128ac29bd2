package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"trialscope/internal/domain"
)

// DetailRenderer turns a trial record into markdown and renders it with glamour
type DetailRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewDetailRenderer creates a renderer using a glamour style name ("dark",
// "light", "notty", ...)
func NewDetailRenderer(style string) *DetailRenderer {
	if style == "" {
		style = "dark"
	}
	return &DetailRenderer{style: style}
}

func (d *DetailRenderer) get(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	if d.renderer == nil || d.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStylePath(d.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return nil, err
		}
		d.renderer = r
		d.width = width
	}
	return d.renderer, nil
}

// Render returns the record formatted for a popup of the given width. When
// glamour fails the raw markdown is returned.
func (d *DetailRenderer) Render(t domain.TrialDetail, width int) string {
	md := DetailMarkdown(t)
	r, err := d.get(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// DetailMarkdown formats a trial record as markdown
func DetailMarkdown(t domain.TrialDetail) string {
	var b strings.Builder

	title := t.BriefTitle
	if title == "" {
		title = t.NCTID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if t.OfficialTitle != "" && t.OfficialTitle != t.BriefTitle {
		fmt.Fprintf(&b, "_%s_\n\n", t.OfficialTitle)
	}

	field := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "- **%s:** %s\n", label, value)
		}
	}
	field("NCT ID", t.NCTID)
	field("Phase", t.Phase)
	field("Status", t.Status)
	field("Enrollment", t.EnrollmentText())
	field("Condition", t.ConditionText())
	field("Intervention", t.Intervention.String())
	field("Gender", t.Gender)
	field("Ages", ageRange(t.MinimumAge, t.MaximumAge))
	field("Start", t.StartDate)
	field("Completion", t.CompletionDate)
	field("Sponsors", strings.Join(t.Sponsors, ", "))
	field("Link", t.URL)

	if t.BriefSummary != "" {
		fmt.Fprintf(&b, "\n## Summary\n\n%s\n", t.BriefSummary)
	}
	if t.DetailedDescription != "" {
		fmt.Fprintf(&b, "\n## Description\n\n%s\n", t.DetailedDescription)
	}
	return b.String()
}

func ageRange(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%d to %d", *min, *max)
	case min != nil:
		return fmt.Sprintf("%d and over", *min)
	case max != nil:
		return fmt.Sprintf("up to %d", *max)
	default:
		return ""
	}
}
