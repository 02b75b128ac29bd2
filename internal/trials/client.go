// Package trials is the HTTP client for the clinical-trials backend.
//
// Every call is a single request/response exchange: no retries and no
// pagination loop. Failures are returned as *FetchError and never logged or
// swallowed here; callers decide how to report them.
package trials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"trialscope/internal/domain"
)

const (
	trialsPath       = "/trials"
	autocompletePath = "/trials/autocomplete"

	defaultDetailCacheSize = 128

	// RequestIDHeader carries a per-request UUID for log correlation
	RequestIDHeader = "X-Request-ID"
)

// Options configures a Client
type Options struct {
	BaseURL         string
	Timeout         time.Duration // zero means no timeout
	DetailCacheSize int
	HTTPClient      *http.Client
	Logger          *zap.Logger
}

// Client talks to the trials API rooted at a base URL
type Client struct {
	baseURL string
	http    *http.Client
	details *lru.Cache[string, domain.TrialDetail]
	flight  singleflight.Group
	logger  *zap.Logger
}

// New creates a client. The base URL must be absolute; a trailing slash is trimmed.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", opts.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host required", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	size := opts.DetailCacheSize
	if size <= 0 {
		size = defaultDetailCacheSize
	}
	cache, err := lru.New[string, domain.TrialDetail](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create detail cache: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		details: cache,
		logger:  logger.Named("trials"),
	}, nil
}

// BaseURL returns the normalized backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListURL returns the URL ListTrials requests for q
func (c *Client) ListURL(q domain.SearchQuery) string {
	u := c.baseURL + trialsPath
	if params := queryParams(q); len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// ListMethod is GET for plain listings and POST when q carries filters, the
// only route on which the backend applies them
func ListMethod(q domain.SearchQuery) string {
	for _, f := range q.Filters {
		if strings.TrimSpace(f) != "" {
			return http.MethodPost
		}
	}
	return http.MethodGet
}

// ListTrials requests {base}/trials with q encoded as query parameters and
// returns the decoded array unchanged. See ListMethod for the verb.
func (c *Client) ListTrials(ctx context.Context, q domain.SearchQuery) ([]domain.Trial, error) {
	method, op := ListMethod(q), "list"
	if method == http.MethodPost {
		op = "search"
	}
	var out []domain.Trial
	if err := c.do(ctx, op, method, c.ListURL(q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTrial fetches one trial by NCT id. Results are cached and concurrent
// calls for the same id share a single request. Cancelling ctx returns early
// without aborting the request other callers wait on.
func (c *Client) GetTrial(ctx context.Context, nctID string) (domain.TrialDetail, error) {
	nctID = strings.TrimSpace(nctID)
	if nctID == "" {
		return domain.TrialDetail{}, &FetchError{Op: "detail", URL: c.baseURL + trialsPath + "/", Err: ErrNotFound}
	}
	if d, ok := c.details.Get(nctID); ok {
		return d, nil
	}

	// The shared request outlives any one caller; only the http client
	// timeout bounds it
	target := c.baseURL + trialsPath + "/" + url.PathEscape(nctID)
	shared := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(nctID, func() (any, error) {
		var d domain.TrialDetail
		if err := c.do(shared, "detail", http.MethodGet, target, &d); err != nil {
			return domain.TrialDetail{}, err
		}
		c.details.Add(nctID, d)
		return d, nil
	})

	select {
	case <-ctx.Done():
		return domain.TrialDetail{}, &FetchError{Op: "detail", URL: target, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return domain.TrialDetail{}, res.Err
		}
		return res.Val.(domain.TrialDetail), nil
	}
}

// CachedTrial returns a previously fetched detail without a request
func (c *Client) CachedTrial(nctID string) (domain.TrialDetail, bool) {
	return c.details.Peek(nctID)
}

// Autocomplete asks the backend for title or NCT id completions of term.
// A blank term returns nil without a request.
func (c *Client) Autocomplete(ctx context.Context, term string, limit int) ([]domain.Suggestion, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("term", term)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var out []domain.Suggestion
	target := c.baseURL + autocompletePath + "?" + params.Encode()
	if err := c.do(ctx, "autocomplete", http.MethodPost, target, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return &FetchError{Op: op, URL: target, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	c.logger.Debug("request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID))

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Op: op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		cause := fmt.Errorf("unexpected status %s", resp.Status)
		if resp.StatusCode == http.StatusNotFound {
			cause = ErrNotFound
		}
		return &FetchError{Op: op, URL: target, StatusCode: resp.StatusCode, Err: cause}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &FetchError{Op: op, URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func queryParams(q domain.SearchQuery) url.Values {
	params := url.Values{}
	if term := strings.TrimSpace(q.Term); term != "" {
		params.Set("term", term)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
		if q.SortOrder != 0 {
			params.Set("sort_order", strconv.Itoa(q.SortOrder))
		}
	}
	for _, f := range q.Filters {
		if f = strings.TrimSpace(f); f != "" {
			params.Add("filters", f)
		}
	}
	return params
}
