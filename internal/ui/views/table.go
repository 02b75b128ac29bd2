package views

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"trialscope/internal/domain"
)

// ResultTable is the table widget the search view renders trials into.
// Rows are keyed by nct_id.
type ResultTable interface {
	SetTrials(trials []domain.Trial)
	Rows() [][]string
	Len() int
	Cursor() int
	SelectedID() string
	MoveUp(n int)
	MoveDown(n int)
	GotoTop()
	GotoBottom()
	SetHeight(h int)
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// SearchField is the text field the search form reads from
type SearchField interface {
	Value() string
	View() string
	SetSuggestions(suggestions []string)
	Focused() bool
}

// TrialColumns are the headings of the trials table, in order
var TrialColumns = []string{"Title", "NCT ID", "Phase", "Status", "Enrollment", "Condition", "Intervention"}

var trialColumnWidths = []int{36, 12, 9, 22, 10, 24, 28}

// TrialRow returns the cells of one trials table row
func TrialRow(t domain.Trial) []string {
	return []string{
		t.BriefTitle,
		t.NCTID,
		t.Phase,
		t.Status,
		t.EnrollmentText(),
		t.ConditionText(),
		t.Intervention.String(),
	}
}

// trialTable adapts bubbles/table to ResultTable
type trialTable struct {
	model table.Model
	ids   []string
	row   func(domain.Trial) []string
}

// NewTrialTable creates the seven-column trials table
func NewTrialTable(styles *Styles) ResultTable {
	cols := make([]table.Column, len(TrialColumns))
	for i, title := range TrialColumns {
		cols[i] = table.Column{Title: title, Width: trialColumnWidths[i]}
	}
	return newTrialTable(cols, TrialRow, styles.Table, true)
}

// NewIDTable creates the identifier-only index table
func NewIDTable(styles *Styles) ResultTable {
	cols := []table.Column{{Title: "NCT ID", Width: 12}}
	row := func(t domain.Trial) []string { return []string{t.NCTID} }
	return newTrialTable(cols, row, styles.IndexTable, false)
}

func newTrialTable(cols []table.Column, row func(domain.Trial) []string, styles table.Styles, focused bool) *trialTable {
	m := table.New(
		table.WithColumns(cols),
		table.WithRows(nil),
		table.WithFocused(focused),
		table.WithHeight(10),
		table.WithStyles(styles),
	)
	return &trialTable{model: m, row: row}
}

// SetTrials replaces the rows. The cursor follows the previously selected
// nct_id when it is still present and otherwise returns to the top.
func (t *trialTable) SetTrials(trials []domain.Trial) {
	prev := t.SelectedID()

	rows := make([]table.Row, 0, len(trials))
	ids := make([]string, 0, len(trials))
	for _, tr := range trials {
		rows = append(rows, t.row(tr))
		ids = append(ids, tr.NCTID)
	}
	t.ids = ids
	t.model.SetRows(rows)

	cursor := 0
	if prev != "" {
		for i, id := range ids {
			if id == prev {
				cursor = i
				break
			}
		}
	}
	t.model.SetCursor(cursor)
}

func (t *trialTable) Rows() [][]string {
	rows := t.model.Rows()
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string(r)
	}
	return out
}

func (t *trialTable) Len() int {
	return len(t.ids)
}

func (t *trialTable) Cursor() int {
	if len(t.ids) == 0 {
		return 0
	}
	return t.model.Cursor()
}

func (t *trialTable) SelectedID() string {
	c := t.model.Cursor()
	if c < 0 || c >= len(t.ids) {
		return ""
	}
	return t.ids[c]
}

func (t *trialTable) MoveUp(n int)   { t.model.MoveUp(n) }
func (t *trialTable) MoveDown(n int) { t.model.MoveDown(n) }
func (t *trialTable) GotoTop()       { t.model.GotoTop() }
func (t *trialTable) GotoBottom()    { t.model.GotoBottom() }

func (t *trialTable) SetHeight(h int) {
	if h < 3 {
		h = 3
	}
	t.model.SetHeight(h)
}

func (t *trialTable) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.model, cmd = t.model.Update(msg)
	return cmd
}

func (t *trialTable) View() string {
	return t.model.View()
}
