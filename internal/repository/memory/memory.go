// Package memory is a process-local implementation of the repository
// interfaces. It backs STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
	"github.com/Jeevannn11/CareerFlow/internal/repository"
)

// Store keeps accounts and applications in maps guarded by one RWMutex.
type Store struct {
	mu         sync.RWMutex
	accounts   map[string]domain.Account
	byUsername map[string]string
	apps       map[string]domain.Application
}

var (
	_ repository.AccountRepository     = (*Store)(nil)
	_ repository.ApplicationRepository = (*Store)(nil)
	_ repository.Pinger                = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{
		accounts:   make(map[string]domain.Account),
		byUsername: make(map[string]string),
		apps:       make(map[string]domain.Application),
	}
}

// Ping always succeeds unless ctx is already done.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) CreateAccount(ctx context.Context, account *domain.Account) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[account.Username]; taken {
		return repository.ErrDuplicate
	}
	if _, taken := s.accounts[account.ID]; taken {
		return repository.ErrDuplicate
	}
	s.accounts[account.ID] = cloneAccount(*account)
	s.byUsername[account.Username] = account.ID
	return nil
}

func (s *Store) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	account := cloneAccount(s.accounts[id])
	return &account, nil
}

func (s *Store) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	account = cloneAccount(account)
	return &account, nil
}

func (s *Store) CreateApplication(ctx context.Context, app *domain.Application) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.apps[app.ID]; taken {
		return repository.ErrDuplicate
	}
	s.apps[app.ID] = cloneApplication(*app)
	return nil
}

func (s *Store) ListApplications(ctx context.Context, ownerID string) ([]domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	apps := make([]domain.Application, 0)
	for _, app := range s.apps {
		if app.OwnerID == ownerID {
			apps = append(apps, cloneApplication(app))
		}
	}
	s.mu.RUnlock()

	sort.Slice(apps, func(i, j int) bool {
		a, b := apps[i], apps[j]
		if !a.AppliedDate.Equal(b.AppliedDate) {
			return a.AppliedDate.After(b.AppliedDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return apps, nil
}

func (s *Store) GetApplication(ctx context.Context, ownerID, id string) (*domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[id]
	if !ok || app.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	app = cloneApplication(app)
	return &app, nil
}

func (s *Store) UpdateApplication(ctx context.Context, ownerID, id string, mutate func(*domain.Application) error) (*domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.apps[id]
	if !ok || current.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	working := cloneApplication(current)
	if err := mutate(&working); err != nil {
		return nil, err
	}
	// identity and ownership are not writable
	working.ID = current.ID
	working.OwnerID = current.OwnerID
	working.CreatedAt = current.CreatedAt
	s.apps[id] = cloneApplication(working)
	return &working, nil
}

func (s *Store) DeleteApplication(ctx context.Context, ownerID, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok || app.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.apps, id)
	return nil
}

func cloneAccount(a domain.Account) domain.Account {
	a.PasswordHash = append([]byte(nil), a.PasswordHash...)
	return a
}

func cloneApplication(a domain.Application) domain.Application {
	if a.Deadline != nil {
		d := *a.Deadline
		a.Deadline = &d
	}
	if a.NextRoundDate != nil {
		n := *a.NextRoundDate
		a.NextRoundDate = &n
	}
	return a
}
