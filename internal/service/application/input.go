package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrValidation marks input that failed field checks. Use errors.As with
// *ValidationError to get the individual fields.
var ErrValidation = errors.New("validation failed")

// ValidationError lists field-level problems, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
	causes []error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrValidation}, e.causes...)
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) addCause(field, msg string, cause error) {
	e.add(field, msg)
	e.causes = append(e.causes, cause)
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// CreateInput is the payload for a new application. Dates accept RFC 3339 or
// YYYY-MM-DD; empty means absent.
type CreateInput struct {
	Company       string `json:"company"`
	Position      string `json:"position"`
	Location      string `json:"location"`
	Salary        string `json:"salary"`
	Status        string `json:"status"`
	JobType       string `json:"jobType"`
	Remote        string `json:"remote"`
	ContactPerson string `json:"contactPerson"`
	Notes         string `json:"notes"`
	URL           string `json:"url"`
	AppliedDate   string `json:"appliedDate"`
	Deadline      string `json:"deadline"`
	NextRoundDate string `json:"nextRoundDate"`
}

// UpdateInput is a partial update: nil fields are left alone. An empty string
// clears deadline or nextRoundDate.
type UpdateInput struct {
	Company       *string `json:"company"`
	Position      *string `json:"position"`
	Location      *string `json:"location"`
	Salary        *string `json:"salary"`
	Status        *string `json:"status"`
	JobType       *string `json:"jobType"`
	Remote        *string `json:"remote"`
	ContactPerson *string `json:"contactPerson"`
	Notes         *string `json:"notes"`
	URL           *string `json:"url"`
	AppliedDate   *string `json:"appliedDate"`
	Deadline      *string `json:"deadline"`
	NextRoundDate *string `json:"nextRoundDate"`
}

const calendarDate = "2006-01-02"

// parseDate reads an optional date; ok is false when raw is blank.
func parseDate(raw string) (t time.Time, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed.UTC(), true, nil
	}
	parsed, err := time.Parse(calendarDate, raw)
	if err != nil {
		return time.Time{}, false, errors.New("must be an RFC 3339 timestamp or YYYY-MM-DD")
	}
	return parsed.UTC(), true, nil
}

func optionalDate(verr *ValidationError, field, raw string) *time.Time {
	t, ok, err := parseDate(raw)
	if err != nil {
		verr.add(field, err.Error())
		return nil
	}
	if !ok {
		return nil
	}
	return &t
}

func valueOr(raw, fallback string) string {
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return fallback
}
