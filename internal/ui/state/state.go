package state

import (
	"fmt"
	"sort"
	"strings"

	"trialscope/internal/domain"
)

// Tab identifies one of the panes of the search view
type Tab int

const (
	TabDashboard Tab = iota
	TabTrials
	TabDrugs
)

// TabNames are the pane titles in display order
var TabNames = []string{"Dashboard", "Trials", "Drugs"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(TabNames) {
		return fmt.Sprintf("Tab(%d)", int(t))
	}
	return TabNames[t]
}

// AppState contains all the application state
type AppState struct {
	// Search data
	Trials     []domain.Trial // results of the latest successful search
	Submitting bool           // latest search is outstanding
	Query      string         // term of the latest submitted search

	// UI state
	SelectedTab   Tab
	SortIndex     int // selected result ordering
	ShowIDIndex   bool
	ShowHelp      bool
	StatusMessage string
	LastError     error

	// Search field suggestions
	Suggestions []string

	// Detail popup
	DetailID      string
	Detail        *domain.TrialDetail
	DetailLoading bool
	DetailErr     error

	latestToken uint64
	suggestSeq  uint64
	detailToken uint64
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Trials:      make([]domain.Trial, 0),
		SelectedTab: TabDashboard,
		ShowIDIndex: true,
	}
}

// Search lifecycle

// BeginSearch marks a new search as outstanding and returns its token.
// Any earlier token stops being the latest.
func (s *AppState) BeginSearch(term string) uint64 {
	s.latestToken++
	s.Submitting = true
	s.Query = strings.TrimSpace(term)
	s.StatusMessage = ""
	return s.latestToken
}

// LatestToken returns the token of the most recently dispatched search
func (s *AppState) LatestToken() uint64 {
	return s.latestToken
}

// IsLatest reports whether token belongs to the most recent search
func (s *AppState) IsLatest(token uint64) bool {
	return token != 0 && token == s.latestToken
}

// ApplyResult settles the search identified by token with trials. It returns
// false, leaving the state untouched, when token is stale.
func (s *AppState) ApplyResult(token uint64, trials []domain.Trial) bool {
	if !s.IsLatest(token) {
		return false
	}
	s.Submitting = false
	if trials == nil {
		trials = make([]domain.Trial, 0)
	}
	s.Trials = trials
	s.LastError = nil
	if len(trials) == 1 {
		s.StatusMessage = "1 trial"
	} else {
		s.StatusMessage = fmt.Sprintf("%d trials", len(trials))
	}
	return true
}

// ApplyFailure settles the search identified by token with err. Trials are
// kept. It returns false when token is stale.
func (s *AppState) ApplyFailure(token uint64, err error) bool {
	if !s.IsLatest(token) {
		return false
	}
	s.Submitting = false
	s.LastError = err
	s.StatusMessage = "search failed"
	return true
}

// Suggestions

// NextSuggestSeq starts a new suggestion round and returns its sequence number
func (s *AppState) NextSuggestSeq() uint64 {
	s.suggestSeq++
	return s.suggestSeq
}

// IsLatestSuggest reports whether seq belongs to the current suggestion round
func (s *AppState) IsLatestSuggest(seq uint64) bool {
	return seq != 0 && seq == s.suggestSeq
}

// Tabs

// SelectTab switches to tab; out-of-range values are ignored
func (s *AppState) SelectTab(tab Tab) {
	if tab < 0 || int(tab) >= len(TabNames) {
		return
	}
	s.SelectedTab = tab
}

// NextTab cycles forward through the tabs
func (s *AppState) NextTab() {
	s.SelectedTab = Tab((int(s.SelectedTab) + 1) % len(TabNames))
}

// PrevTab cycles backward through the tabs
func (s *AppState) PrevTab() {
	s.SelectedTab = Tab((int(s.SelectedTab) + len(TabNames) - 1) % len(TabNames))
}

// Detail popup

// OpenDetail shows the popup for nctID while its record loads. The returned
// token identifies this load; reopening the popup issues a new one.
func (s *AppState) OpenDetail(nctID string) uint64 {
	s.detailToken++
	s.DetailID = nctID
	s.Detail = nil
	s.DetailErr = nil
	s.DetailLoading = true
	return s.detailToken
}

// ApplyDetail stores a fetched record if token is the load of the open popup
func (s *AppState) ApplyDetail(token uint64, detail domain.TrialDetail, err error) bool {
	if s.DetailID == "" || token == 0 || token != s.detailToken {
		return false
	}
	s.DetailLoading = false
	if err != nil {
		s.Detail = nil
		s.DetailErr = err
		return true
	}
	s.DetailErr = nil
	s.Detail = &detail
	return true
}

// CloseDetail hides the popup. Loads still in flight become stale.
func (s *AppState) CloseDetail() {
	s.detailToken++
	s.DetailID = ""
	s.Detail = nil
	s.DetailErr = nil
	s.DetailLoading = false
}

// DetailOpen reports whether the detail popup is visible
func (s *AppState) DetailOpen() bool {
	return s.DetailID != ""
}

// Derived data

// Count is a label with its number of trials
type Count struct {
	Label string
	N     int
}

// Summary aggregates the current trials for the dashboard
type Summary struct {
	Trials          int
	TotalEnrollment int
	ByStatus        []Count
	ByPhase         []Count
}

// Summarize derives the dashboard numbers from the current trials
func (s *AppState) Summarize() Summary {
	sum := Summary{Trials: len(s.Trials)}
	status := map[string]int{}
	phase := map[string]int{}
	for _, t := range s.Trials {
		if t.Enrollment != nil {
			sum.TotalEnrollment += *t.Enrollment
		}
		status[labelOrUnknown(t.Status)]++
		phase[labelOrUnknown(t.Phase)]++
	}
	sum.ByStatus = sortedCounts(status)
	sum.ByPhase = sortedCounts(phase)
	return sum
}

// Interventions returns the distinct interventions of the current trials
// in first-seen order
func (s *AppState) Interventions() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range s.Trials {
		name := strings.TrimSpace(t.Intervention.String())
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, name)
	}
	return out
}

func labelOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// sortedCounts orders by count descending, then label
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for label, n := range m {
		out = append(out, Count{Label: label, N: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N != out[j].N {
			return out[i].N > out[j].N
		}
		return out[i].Label < out[j].Label
	})
	return out
}
