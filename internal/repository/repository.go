package repository

import (
	"context"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
)

// AccountRepository persists accounts.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, id string) (*domain.Account, error)
}

// ApplicationRepository persists application records. Every method is scoped
// to ownerID; a record owned by someone else behaves exactly like a missing one.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *domain.Application) error
	ListApplications(ctx context.Context, ownerID string) ([]domain.Application, error)
	GetApplication(ctx context.Context, ownerID, id string) (*domain.Application, error)
	// UpdateApplication loads the record, hands it to mutate and stores the
	// result, all as one atomic step for that record. An error from mutate
	// aborts the write and is returned unchanged.
	UpdateApplication(ctx context.Context, ownerID, id string, mutate func(*domain.Application) error) (*domain.Application, error)
	DeleteApplication(ctx context.Context, ownerID, id string) error
}

// Pinger reports store liveness for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}
