package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Trial represents one clinical-trial row as returned by the backend list endpoint
type Trial struct {
	NCTID        string     `json:"nct_id"`
	BriefTitle   string     `json:"brief_title"`
	Phase        string     `json:"phase"`
	Status       string     `json:"status"`
	Enrollment   *int       `json:"enrollment,omitempty"`
	Condition    StringList `json:"condition"`
	Intervention Text       `json:"intervention"`
}

// EnrollmentText returns the enrollment count for display, empty when absent
func (t Trial) EnrollmentText() string {
	if t.Enrollment == nil {
		return ""
	}
	return strconv.Itoa(*t.Enrollment)
}

// ConditionText joins the conditions for a single table cell
func (t Trial) ConditionText() string {
	return strings.Join(t.Condition, ", ")
}

// TrialDetail is the full record returned by GET /trials/{nct_id}
type TrialDetail struct {
	Trial
	OfficialTitle       string     `json:"official_title"`
	BriefSummary        string     `json:"brief_summary"`
	DetailedDescription string     `json:"detailed_description"`
	Gender              string     `json:"gender"`
	MinimumAge          *int       `json:"minimum_age,omitempty"`
	MaximumAge          *int       `json:"maximum_age,omitempty"`
	StartDate           string     `json:"start_date"`
	CompletionDate      string     `json:"completion_date"`
	Sponsors            StringList `json:"sponsors"`
	URL                 string     `json:"url"`
}

// Suggestion is an autocomplete hit for the search field
type Suggestion struct {
	NCTID      string `json:"nct_id"`
	BriefTitle string `json:"brief_title"`
	NCTTitle   string `json:"nct_title,omitempty"` // set when the term looked like an NCT id
}

// Label is the text offered to the search field
func (s Suggestion) Label() string {
	if s.NCTTitle != "" {
		return s.NCTTitle
	}
	return s.BriefTitle
}

// SearchQuery carries the parameters of a trial search
type SearchQuery struct {
	Term      string
	Limit     int
	Skip      int
	Sort      string
	SortOrder int
	Filters   []string // key:value expressions
}

// IsZero reports whether the query carries no parameters at all
func (q SearchQuery) IsZero() bool {
	return strings.TrimSpace(q.Term) == "" && q.Limit == 0 && q.Skip == 0 &&
		q.Sort == "" && q.SortOrder == 0 && len(q.Filters) == 0
}

// StringList decodes a JSON array of strings, a bare string, or null
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Text decodes a display string that the backend may also send as an array
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var list StringList
	if err := list.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Text(strings.Join(list, ", "))
	return nil
}

func (t Text) String() string { return string(t) }
