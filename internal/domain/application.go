package domain

import "time"

// Status is the pipeline stage of an application.
type Status string

const (
	StatusApplied    Status = "applied"
	StatusOnlineTest Status = "ot"
	StatusInterview  Status = "interview"
	StatusOffer      Status = "offer"
	StatusRejected   Status = "rejected"
)

const (
	DefaultJobType = "Full-time"
	DefaultRemote  = "On-site"
)

var statuses = []Status{StatusApplied, StatusOnlineTest, StatusInterview, StatusOffer, StatusRejected}

// Statuses lists every recognised status in display order.
func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

// Valid reports whether s is one of the recognised statuses.
func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the position of s in the typical progression, or -1 when unknown.
func (s Status) Rank() int {
	for i, candidate := range statuses {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Application is a single tracked job application owned by one account.
type Application struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	Company       string     `json:"company"`
	Position      string     `json:"position"`
	Location      string     `json:"location"`
	Salary        string     `json:"salary"`
	Status        Status     `json:"status"`
	JobType       string     `json:"jobType"`
	Remote        string     `json:"remote"`
	ContactPerson string     `json:"contactPerson"`
	Notes         string     `json:"notes"`
	URL           string     `json:"url"`
	AppliedDate   time.Time  `json:"appliedDate"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	NextRoundDate *time.Time `json:"nextRoundDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// LastActivity is the most recent point the record was touched.
func (a Application) LastActivity() time.Time {
	if !a.UpdatedAt.IsZero() {
		return a.UpdatedAt
	}
	return a.AppliedDate
}

// Touch advances UpdatedAt to now, truncated to microseconds to match
// Postgres precision. UpdatedAt strictly increases even when the clock does not.
func (a *Application) Touch(now time.Time) {
	next := now.UTC().Truncate(time.Microsecond)
	if !next.After(a.UpdatedAt) {
		next = a.UpdatedAt.Add(time.Microsecond)
	}
	a.UpdatedAt = next
}
