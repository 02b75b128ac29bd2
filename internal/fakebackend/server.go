// Package fakebackend serves a small in-memory trials API with the routes and
// response shapes trialscope uses. It backs the client tests, the e2e suite
// and the --demo flag; its search is a plain substring match.
//
// GET /trials lists trials and, unlike the real backend, honours term.
// Filters are only applied by the search route, POST /trials, as on the real
// backend; the list route ignores them.
package fakebackend

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"trialscope/internal/domain"
)

var nctPattern = regexp.MustCompile(`(?i)^NCT\d{1,8}$`)

// Server holds the fixture data and the knobs tests use to shape responses
type Server struct {
	mu       sync.RWMutex
	trials   []domain.TrialDetail
	latency  time.Duration
	failWith int // non-zero: answer every request with this status
	requests map[string]int
	queries  map[string][]string // raw query strings seen by "list" and "search"
}

// New creates a server serving trials; nil selects Fixtures()
func New(trials []domain.TrialDetail) *Server {
	if trials == nil {
		trials = Fixtures()
	}
	return &Server{
		trials:   trials,
		requests: make(map[string]int),
		queries:  make(map[string][]string),
	}
}

// SetTrials replaces the served data
func (s *Server) SetTrials(trials []domain.TrialDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trials = trials
}

// SetLatency delays every response by d
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// FailWith makes every request answer with status; zero restores normal answers
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Requests returns how many requests hit the named route ("list", "search",
// "detail", "autocomplete")
func (s *Server) Requests(route string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests[route]
}

// ListQueries returns the raw query strings received by GET /trials, in order
func (s *Server) ListQueries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.queries["list"]...)
}

// SearchQueries returns the raw query strings received by POST /trials, in order
func (s *Server) SearchQueries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.queries["search"]...)
}

// Router builds the gin engine exposing the API routes
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.track(), s.inject())

	trials := r.Group("/trials")
	{
		trials.GET("", s.listTrials)
		trials.POST("", s.searchTrials)
		trials.GET("/:nct_id", s.showTrial)
		trials.POST("/autocomplete", s.autocomplete)
	}
	return r
}

// Start serves the router on addr (use "127.0.0.1:0" for an ephemeral port).
// It returns the base URL and a shutdown func.
func (s *Server) Start(addr string) (string, func(context.Context) error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	srv := &http.Server{Handler: s.Router(), ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	return "http://" + ln.Addr().String(), srv.Shutdown, nil
}

func routeName(c *gin.Context) string {
	switch {
	case c.FullPath() == "/trials/autocomplete":
		return "autocomplete"
	case c.FullPath() == "/trials/:nct_id":
		return "detail"
	case c.Request.Method == http.MethodPost:
		return "search"
	default:
		return "list"
	}
}

func (s *Server) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := routeName(c)
		s.mu.Lock()
		s.requests[route]++
		if route == "list" || route == "search" {
			s.queries[route] = append(s.queries[route], c.Request.URL.RawQuery)
		}
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) inject() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.RLock()
		latency, failWith := s.latency, s.failWith
		s.mu.RUnlock()

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}
		if failWith != 0 {
			c.AbortWithStatusJSON(failWith, gin.H{"detail": http.StatusText(failWith)})
			return
		}
		c.Next()
	}
}

func (s *Server) snapshot() []domain.TrialDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.TrialDetail(nil), s.trials...)
}

func matches(t domain.TrialDetail, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	fields := []string{t.NCTID, t.BriefTitle, t.OfficialTitle, t.BriefSummary, t.DetailedDescription, t.Intervention.String()}
	fields = append(fields, t.Condition...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func matchesFilters(t domain.TrialDetail, filters []string) bool {
	for _, f := range filters {
		key, value, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		var field string
		switch key {
		case "phase":
			field = t.Phase
		case "status":
			field = t.Status
		case "condition":
			field = strings.Join(t.Condition, "|")
		case "intervention":
			field = t.Intervention.String()
		default:
			continue
		}
		if !strings.Contains(strings.ToLower(field), strings.ToLower(value)) {
			return false
		}
	}
	return true
}

func enrollment(t domain.TrialDetail) int {
	if t.Enrollment == nil {
		return 0
	}
	return *t.Enrollment
}

func (s *Server) listTrials(c *gin.Context) {
	s.respondTrials(c, nil)
}

func (s *Server) searchTrials(c *gin.Context) {
	s.respondTrials(c, c.QueryArray("filters"))
}

func (s *Server) respondTrials(c *gin.Context, filters []string) {
	term := strings.TrimSpace(c.Query("term"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	sortField := c.Query("sort")
	sortOrder, _ := strconv.Atoi(c.DefaultQuery("sort_order", "1"))

	var hits []domain.TrialDetail
	for _, t := range s.snapshot() {
		if matches(t, term) && matchesFilters(t, filters) {
			hits = append(hits, t)
		}
	}

	if sortField != "" {
		less := func(a, b domain.TrialDetail) bool {
			switch sortField {
			case "brief_title":
				return a.BriefTitle < b.BriefTitle
			case "phase":
				return a.Phase < b.Phase
			case "status":
				return a.Status < b.Status
			case "enrollment":
				return enrollment(a) < enrollment(b)
			default:
				return a.NCTID < b.NCTID
			}
		}
		sort.SliceStable(hits, func(i, j int) bool {
			if sortOrder < 0 {
				return less(hits[j], hits[i])
			}
			return less(hits[i], hits[j])
		})
	}

	if skip > 0 {
		if skip >= len(hits) {
			hits = nil
		} else {
			hits = hits[skip:]
		}
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.Trial, 0, len(hits))
	for _, t := range hits {
		out = append(out, t.Trial)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) showTrial(c *gin.Context) {
	id := c.Param("nct_id")
	for _, t := range s.snapshot() {
		if strings.EqualFold(t.NCTID, id) {
			c.JSON(http.StatusOK, t)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("Trial %s not found", id)})
}

func (s *Server) autocomplete(c *gin.Context) {
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "term is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 0 {
		limit = 0
	}
	byNCT := nctPattern.MatchString(term)

	out := make([]domain.Suggestion, 0, limit)
	lower := strings.ToLower(term)
	for _, t := range s.snapshot() {
		if limit > 0 && len(out) >= limit {
			break
		}
		if byNCT {
			if strings.HasPrefix(strings.ToLower(t.NCTID), lower) {
				out = append(out, domain.Suggestion{
					NCTID:      t.NCTID,
					BriefTitle: t.BriefTitle,
					NCTTitle:   t.NCTID + ": " + t.BriefTitle,
				})
			}
			continue
		}
		if strings.Contains(strings.ToLower(t.BriefTitle), lower) {
			out = append(out, domain.Suggestion{NCTID: t.NCTID, BriefTitle: t.BriefTitle})
		}
	}
	c.JSON(http.StatusOK, out)
}
