package fakebackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialscope/internal/domain"
)

func get(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestListReturnsAllFixtures(t *testing.T) {
	s := New(nil)
	w := get(t, s.Router(), http.MethodGet, "/trials")
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.Trial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, len(Fixtures()))
	assert.Equal(t, 1, s.Requests("list"))
	assert.Equal(t, []string{""}, s.ListQueries())
}

func TestListFiltersByTermAndLimit(t *testing.T) {
	s := New(nil)
	w := get(t, s.Router(), http.MethodGet, "/trials?term=asthma&limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.Trial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "NCT00000102", got[0].NCTID)
}

func TestListSortsAndIgnoresFilters(t *testing.T) {
	s := New(nil)
	w := get(t, s.Router(), http.MethodGet, "/trials?sort=enrollment&sort_order=-1&filters=phase:Phase%203")
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.Trial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(Fixtures()), "the list route does not filter")
	assert.Equal(t, "NCT00000341", got[0].NCTID)
	assert.Equal(t, "NCT00000459", got[1].NCTID)
}

func TestSearchAppliesFilters(t *testing.T) {
	s := New(nil)
	w := get(t, s.Router(), http.MethodPost, "/trials?sort=enrollment&sort_order=-1&filters=phase:Phase%203")
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.Trial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "NCT00000341", got[0].NCTID)
	assert.Equal(t, "NCT00000459", got[1].NCTID)

	w = get(t, s.Router(), http.MethodPost, "/trials?term=asthma&filters=status:Recruiting&filters=phase:Phase%203")
	require.Equal(t, http.StatusOK, w.Code)
	got = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "NCT00000459", got[0].NCTID)

	assert.Equal(t, 2, s.Requests("search"))
	assert.Equal(t, 0, s.Requests("list"))
	assert.Len(t, s.SearchQueries(), 2)
	assert.Empty(t, s.ListQueries())
}

func TestShowTrial(t *testing.T) {
	s := New(nil)

	w := get(t, s.Router(), http.MethodGet, "/trials/NCT00000218")
	require.Equal(t, http.StatusOK, w.Code)
	var d domain.TrialDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "Early Pulmonary Rehabilitation After COPD Exacerbation", d.BriefTitle)
	assert.Equal(t, domain.StringList{"COPD", "Dyspnea"}, d.Condition)

	w = get(t, s.Router(), http.MethodGet, "/trials/NCT99999999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 2, s.Requests("detail"))
}

func TestAutocomplete(t *testing.T) {
	s := New(nil)

	w := get(t, s.Router(), http.MethodPost, "/trials/autocomplete?term=asthma")
	require.Equal(t, http.StatusOK, w.Code)
	var got []domain.Suggestion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	w = get(t, s.Router(), http.MethodPost, "/trials/autocomplete?term=nct0000034")
	require.Equal(t, http.StatusOK, w.Code)
	got = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "NCT00000341: Metformin Extended Release in Prediabetes", got[0].Label())

	w = get(t, s.Router(), http.MethodPost, "/trials/autocomplete")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFailWith(t *testing.T) {
	s := New(nil)
	s.FailWith(http.StatusBadGateway)

	w := get(t, s.Router(), http.MethodGet, "/trials")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	s.FailWith(0)
	w = get(t, s.Router(), http.MethodGet, "/trials")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartServesOverTCP(t *testing.T) {
	s := New([]domain.TrialDetail{})
	base, shutdown, err := s.Start("127.0.0.1:0")
	require.NoError(t, err)
	defer shutdown(context.Background())

	resp, err := http.Get(base + "/trials")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []domain.Trial
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Empty(t, got)
}
