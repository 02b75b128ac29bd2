package trials

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by FetchError when the backend answers 404
var ErrNotFound = errors.New("not found")

// FetchError is the single failure kind returned by the client. It covers
// transport failures, unexpected HTTP statuses and undecodable bodies.
type FetchError struct {
	Op         string // list, search, detail, autocomplete
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
