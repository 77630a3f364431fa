// Package status validates application status changes.
//
// The machine checks that a target status is one of the recognised values and
// then asks its Policy whether the move is allowed. The default policy allows
// every move: real pipelines get corrected by hand, e.g. a record marked
// rejected by mistake goes back to interview.
package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
)

var (
	// ErrInvalidStatus is returned for values outside the status enumeration.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrTransitionNotAllowed is returned when the configured policy refuses a move.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

const (
	PolicyPermissive = "permissive"
	PolicyForward    = "forward"
)

// Policy decides whether a record may move between two valid statuses.
type Policy interface {
	Allow(from, to domain.Status) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(from, to domain.Status) bool

func (f PolicyFunc) Allow(from, to domain.Status) bool { return f(from, to) }

// Permissive allows any status to follow any other.
var Permissive Policy = PolicyFunc(func(_, _ domain.Status) bool { return true })

// Forward allows staying put, moving later along applied → ot → interview →
// offer, or dropping to rejected. Rejected is terminal.
var Forward Policy = PolicyFunc(func(from, to domain.Status) bool {
	switch {
	case from == to:
		return true
	case from == domain.StatusRejected:
		return false
	case to == domain.StatusRejected:
		return true
	default:
		return to.Rank() > from.Rank()
	}
})

// PolicyByName resolves STATUS_POLICY values. Empty selects permissive.
func PolicyByName(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyPermissive:
		return Permissive, nil
	case PolicyForward:
		return Forward, nil
	default:
		return nil, fmt.Errorf("unknown status policy %q", name)
	}
}

// Machine validates status values and transitions.
type Machine struct {
	policy Policy
}

// New constructs a Machine. A nil policy means Permissive.
func New(policy Policy) Machine {
	if policy == nil {
		policy = Permissive
	}
	return Machine{policy: policy}
}

// Parse validates raw as a status. Surrounding whitespace is ignored; case is not.
func (m Machine) Parse(raw string) (domain.Status, error) {
	s := domain.Status(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Initial resolves the status for a new record: empty means applied.
func (m Machine) Initial(raw string) (domain.Status, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.StatusApplied, nil
	}
	return m.Parse(raw)
}

// Transition moves app to the raw target status and refreshes UpdatedAt.
func (m Machine) Transition(app *domain.Application, raw string, now time.Time) error {
	to, err := m.Parse(raw)
	if err != nil {
		return err
	}
	if !m.policy.Allow(app.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, app.Status, to)
	}
	app.Status = to
	app.Touch(now)
	return nil
}
