// Package application implements the owner-scoped record store operations.
package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
	"github.com/Jeevannn11/CareerFlow/internal/repository"
	"github.com/Jeevannn11/CareerFlow/internal/service/status"
)

var errMissingOwner = errors.New("owner id required")

const statusHint = "must be one of applied, ot, interview, offer, rejected"

// Service orchestrates application records for a single authenticated owner.
type Service struct {
	repo    repository.ApplicationRepository
	machine status.Machine
	logger  *slog.Logger
	now     func() time.Time
}

// New returns an application service.
func New(repo repository.ApplicationRepository, machine status.Machine, logger *slog.Logger) Service {
	return Service{repo: repo, machine: machine, logger: logger, now: time.Now}
}

// WithClock returns a copy of s reading time from now. Used by tests.
func (s Service) WithClock(now func() time.Time) Service {
	s.now = now
	return s
}

// Create validates input, fills defaults and stores a new record for ownerID.
func (s Service) Create(ctx context.Context, ownerID string, input CreateInput) (*domain.Application, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errMissingOwner
	}
	verr := &ValidationError{}
	company := strings.TrimSpace(input.Company)
	if company == "" {
		verr.add("company", "is required")
	}
	position := strings.TrimSpace(input.Position)
	if position == "" {
		verr.add("position", "is required")
	}
	st, err := s.machine.Initial(input.Status)
	if err != nil {
		verr.addCause("status", statusHint, err)
	}
	now := s.now().UTC().Truncate(time.Microsecond)
	applied := now
	if t := optionalDate(verr, "appliedDate", input.AppliedDate); t != nil {
		applied = *t
	}
	deadline := optionalDate(verr, "deadline", input.Deadline)
	nextRound := optionalDate(verr, "nextRoundDate", input.NextRoundDate)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	app := &domain.Application{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Company:       company,
		Position:      position,
		Location:      strings.TrimSpace(input.Location),
		Salary:        strings.TrimSpace(input.Salary),
		Status:        st,
		JobType:       valueOr(input.JobType, domain.DefaultJobType),
		Remote:        valueOr(input.Remote, domain.DefaultRemote),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Notes:         input.Notes,
		URL:           strings.TrimSpace(input.URL),
		AppliedDate:   applied,
		Deadline:      deadline,
		NextRoundDate: nextRound,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	s.logger.Info("application created", "owner_id", ownerID, "application_id", app.ID, "status", app.Status)
	return app, nil
}

// List returns ownerID's records, newest application first. A non-empty query
// keeps records whose company or position contains it, ignoring case.
func (s Service) List(ctx context.Context, ownerID, query string) ([]domain.Application, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errMissingOwner
	}
	apps, err := s.repo.ListApplications(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return apps, nil
	}
	filtered := apps[:0]
	for _, app := range apps {
		if strings.Contains(strings.ToLower(app.Company), needle) ||
			strings.Contains(strings.ToLower(app.Position), needle) {
			filtered = append(filtered, app)
		}
	}
	return filtered, nil
}

// Get returns one record owned by ownerID.
func (s Service) Get(ctx context.Context, ownerID, id string) (*domain.Application, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errMissingOwner
	}
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return s.repo.GetApplication(ctx, ownerID, id)
}

// Update applies the non-nil fields of input to the record and refreshes
// updatedAt. An empty patch still refreshes updatedAt.
func (s Service) Update(ctx context.Context, ownerID, id string, input UpdateInput) (*domain.Application, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, errMissingOwner
	}
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	verr := &ValidationError{}
	if input.Company != nil && strings.TrimSpace(*input.Company) == "" {
		verr.add("company", "cannot be empty")
	}
	if input.Position != nil && strings.TrimSpace(*input.Position) == "" {
		verr.add("position", "cannot be empty")
	}
	if input.Status != nil {
		if _, err := s.machine.Parse(*input.Status); err != nil {
			verr.addCause("status", statusHint, err)
		}
	}
	var applied *time.Time
	if input.AppliedDate != nil {
		t, ok, err := parseDate(*input.AppliedDate)
		switch {
		case err != nil:
			verr.add("appliedDate", err.Error())
		case !ok:
			verr.add("appliedDate", "cannot be cleared")
		default:
			applied = &t
		}
	}
	var deadline, nextRound *time.Time
	if input.Deadline != nil {
		deadline = optionalDate(verr, "deadline", *input.Deadline)
	}
	if input.NextRoundDate != nil {
		nextRound = optionalDate(verr, "nextRoundDate", *input.NextRoundDate)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	var from domain.Status
	updated, err := s.repo.UpdateApplication(ctx, ownerID, id, func(app *domain.Application) error {
		from = app.Status
		setTrimmed(&app.Company, input.Company)
		setTrimmed(&app.Position, input.Position)
		setTrimmed(&app.Location, input.Location)
		setTrimmed(&app.Salary, input.Salary)
		setTrimmed(&app.ContactPerson, input.ContactPerson)
		setTrimmed(&app.URL, input.URL)
		if input.JobType != nil {
			app.JobType = valueOr(*input.JobType, domain.DefaultJobType)
		}
		if input.Remote != nil {
			app.Remote = valueOr(*input.Remote, domain.DefaultRemote)
		}
		if input.Notes != nil {
			app.Notes = *input.Notes
		}
		if applied != nil {
			app.AppliedDate = *applied
		}
		if input.Deadline != nil {
			app.Deadline = deadline
		}
		if input.NextRoundDate != nil {
			app.NextRoundDate = nextRound
		}
		if input.Status != nil {
			return s.machine.Transition(app, *input.Status, s.now())
		}
		app.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	if from != updated.Status {
		s.logger.Info("application status changed", "owner_id", ownerID, "application_id", id, "from", from, "to", updated.Status)
	}
	return updated, nil
}

// Delete removes the record. A second delete of the same id reports NotFound.
func (s Service) Delete(ctx context.Context, ownerID, id string) error {
	if strings.TrimSpace(ownerID) == "" {
		return errMissingOwner
	}
	if !validID(id) {
		return repository.ErrNotFound
	}
	if err := s.repo.DeleteApplication(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("application deleted", "owner_id", ownerID, "application_id", id)
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
