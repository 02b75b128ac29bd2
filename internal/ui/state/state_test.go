package state

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialscope/internal/domain"
)

func intPtr(n int) *int { return &n }

func sampleTrials() []domain.Trial {
	return []domain.Trial{
		{NCTID: "NCT1", Phase: "Phase 2", Status: "Recruiting", Enrollment: intPtr(100), Intervention: "DrugX"},
		{NCTID: "NCT2", Phase: "Phase 3", Status: "Recruiting", Enrollment: intPtr(50), Intervention: "drugx"},
		{NCTID: "NCT3", Phase: "Phase 2", Status: "Completed", Intervention: "Placebo"},
		{NCTID: "NCT4", Status: "Completed"},
	}
}

func TestNewAppStateDefaults(t *testing.T) {
	s := NewAppState()
	assert.Empty(t, s.Trials)
	assert.NotNil(t, s.Trials)
	assert.False(t, s.Submitting)
	assert.Equal(t, TabDashboard, s.SelectedTab)
	assert.True(t, s.ShowIDIndex)
	assert.Zero(t, s.LatestToken())
}

func TestSearchSuccessReplacesTrials(t *testing.T) {
	s := NewAppState()
	s.Trials = []domain.Trial{{NCTID: "OLD"}}

	token := s.BeginSearch("  asthma ")
	assert.True(t, s.Submitting)
	assert.Equal(t, "asthma", s.Query)

	trials := []domain.Trial{{NCTID: "NCT001", BriefTitle: "Study A"}}
	require.True(t, s.ApplyResult(token, trials))
	assert.False(t, s.Submitting)
	assert.Equal(t, trials, s.Trials)
	assert.Equal(t, "1 trial", s.StatusMessage)
	assert.NoError(t, s.LastError)
}

func TestSearchSuccessWithNoResults(t *testing.T) {
	s := NewAppState()
	token := s.BeginSearch("")
	require.True(t, s.ApplyResult(token, nil))
	assert.NotNil(t, s.Trials)
	assert.Empty(t, s.Trials)
	assert.Equal(t, "0 trials", s.StatusMessage)
}

func TestSearchFailureKeepsTrials(t *testing.T) {
	s := NewAppState()
	prev := []domain.Trial{{NCTID: "NCT001"}}
	s.Trials = prev

	token := s.BeginSearch("x")
	boom := errors.New("boom")
	require.True(t, s.ApplyFailure(token, boom))
	assert.False(t, s.Submitting)
	assert.Equal(t, prev, s.Trials)
	assert.Equal(t, boom, s.LastError)
	assert.Equal(t, "search failed", s.StatusMessage)
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	s := NewAppState()
	first := s.BeginSearch("a")
	second := s.BeginSearch("b")
	assert.Greater(t, second, first)

	assert.False(t, s.ApplyResult(first, []domain.Trial{{NCTID: "A"}}))
	assert.False(t, s.ApplyFailure(first, errors.New("late")))
	assert.True(t, s.Submitting, "latest search is still outstanding")
	assert.Empty(t, s.Trials)

	require.True(t, s.ApplyResult(second, []domain.Trial{{NCTID: "B"}}))
	assert.False(t, s.Submitting)
	assert.Equal(t, "B", s.Trials[0].NCTID)

	assert.False(t, s.ApplyResult(0, nil), "zero token is never latest")
}

func TestTabCycling(t *testing.T) {
	s := NewAppState()
	s.Trials = sampleTrials()

	s.NextTab()
	assert.Equal(t, TabTrials, s.SelectedTab)
	s.NextTab()
	s.NextTab()
	assert.Equal(t, TabDashboard, s.SelectedTab)
	s.PrevTab()
	assert.Equal(t, TabDrugs, s.SelectedTab)

	s.SelectTab(TabTrials)
	assert.Equal(t, TabTrials, s.SelectedTab)
	s.SelectTab(Tab(7))
	assert.Equal(t, TabTrials, s.SelectedTab)

	assert.Equal(t, sampleTrials(), s.Trials, "tab changes never touch trials")
	assert.Equal(t, "Drugs", TabDrugs.String())
}

func TestSuggestSequence(t *testing.T) {
	s := NewAppState()
	a := s.NextSuggestSeq()
	b := s.NextSuggestSeq()
	assert.False(t, s.IsLatestSuggest(a))
	assert.True(t, s.IsLatestSuggest(b))
	assert.False(t, s.IsLatestSuggest(0))
}

func TestDetailLifecycle(t *testing.T) {
	s := NewAppState()
	token := s.OpenDetail("NCT1")
	assert.True(t, s.DetailOpen())
	assert.True(t, s.DetailLoading)

	assert.False(t, s.ApplyDetail(token+1, domain.TrialDetail{}, nil), "unknown load")
	require.True(t, s.ApplyDetail(token, domain.TrialDetail{Trial: domain.Trial{NCTID: "NCT1"}}, nil))
	assert.False(t, s.DetailLoading)
	require.NotNil(t, s.Detail)
	assert.Equal(t, "NCT1", s.Detail.NCTID)

	s.CloseDetail()
	assert.False(t, s.DetailOpen())
	assert.False(t, s.ApplyDetail(token, domain.TrialDetail{}, nil))
}

func TestReopenedDetailIgnoresEarlierLoad(t *testing.T) {
	s := NewAppState()
	first := s.OpenDetail("NCT1")
	s.CloseDetail()
	second := s.OpenDetail("NCT1")
	require.NotEqual(t, first, second)

	assert.False(t, s.ApplyDetail(first, domain.TrialDetail{}, context.Canceled), "same id, earlier load")
	assert.NoError(t, s.DetailErr)
	assert.True(t, s.DetailLoading)

	require.True(t, s.ApplyDetail(second, domain.TrialDetail{Trial: domain.Trial{NCTID: "NCT1"}}, nil))
	assert.NoError(t, s.DetailErr)
	require.NotNil(t, s.Detail)
}

func TestDetailSuccessClearsEarlierError(t *testing.T) {
	s := NewAppState()
	token := s.OpenDetail("NCT1")
	require.True(t, s.ApplyDetail(token, domain.TrialDetail{}, errors.New("boom")))
	require.Error(t, s.DetailErr)

	require.True(t, s.ApplyDetail(token, domain.TrialDetail{Trial: domain.Trial{NCTID: "NCT1"}}, nil))
	assert.NoError(t, s.DetailErr)
	assert.NotNil(t, s.Detail)
}

func TestSummarize(t *testing.T) {
	s := NewAppState()
	s.Trials = sampleTrials()

	sum := s.Summarize()
	assert.Equal(t, 4, sum.Trials)
	assert.Equal(t, 150, sum.TotalEnrollment)
	assert.Equal(t, []Count{{"Completed", 2}, {"Recruiting", 2}}, sum.ByStatus)
	assert.Equal(t, []Count{{"Phase 2", 2}, {"Phase 3", 1}, {"Unknown", 1}}, sum.ByPhase)
}

func TestInterventions(t *testing.T) {
	s := NewAppState()
	s.Trials = sampleTrials()
	assert.Equal(t, []string{"DrugX", "Placebo"}, s.Interventions())

	s.Trials = nil
	assert.Empty(t, s.Interventions())
}
