package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
	"github.com/Jeevannn11/CareerFlow/internal/repository"
)

const defaultTimeout = 5 * time.Second

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// New constructs a Repository. Every call is bounded by timeout; a
// non-positive value selects five seconds.
func New(pool *pgxpool.Pool, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Repository{pool: pool, timeout: timeout}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.AccountRepository     = (*Repository)(nil)
	_ repository.ApplicationRepository = (*Repository)(nil)
	_ repository.Pinger                = (*Repository)(nil)
)

// Ping checks connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return mapError(r.pool.Ping(ctx))
}

// CreateAccount inserts an account. A taken username yields repository.ErrDuplicate.
func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	const query = `INSERT INTO accounts (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, query, account.ID, account.Username, account.PasswordHash, account.CreatedAt)
	return mapError(err)
}

// GetAccountByUsername fetches an account by its exact username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	const query = `SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, username))
}

// GetAccountByID retrieves an account by identifier.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	const query = `SELECT id, username, password_hash, created_at FROM accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

const applicationColumns = `id, owner_id, company, position, location, salary, status, job_type, remote,
	contact_person, notes, url, applied_date, deadline, next_round_date, created_at, updated_at`

// CreateApplication inserts an application record.
func (r *Repository) CreateApplication(ctx context.Context, app *domain.Application) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	const query = `INSERT INTO applications (` + applicationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.pool.Exec(ctx, query,
		app.ID,
		app.OwnerID,
		app.Company,
		app.Position,
		app.Location,
		app.Salary,
		string(app.Status),
		app.JobType,
		app.Remote,
		app.ContactPerson,
		app.Notes,
		app.URL,
		app.AppliedDate,
		app.Deadline,
		app.NextRoundDate,
		app.CreatedAt,
		app.UpdatedAt,
	)
	return mapError(err)
}

// ListApplications returns the owner's records, most recently applied first.
func (r *Repository) ListApplications(ctx context.Context, ownerID string) ([]domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	const query = `SELECT ` + applicationColumns + ` FROM applications
		WHERE owner_id = $1
		ORDER BY applied_date DESC, created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	apps := make([]domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return apps, nil
}

// GetApplication fetches one record owned by ownerID.
func (r *Repository) GetApplication(ctx context.Context, ownerID, id string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	const query = `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1 AND owner_id = $2`
	return scanApplication(r.pool.QueryRow(ctx, query, id, ownerID))
}

// UpdateApplication locks the owner's row, applies mutate and writes it back in one transaction.
func (r *Repository) UpdateApplication(ctx context.Context, ownerID, id string, mutate func(*domain.Application) error) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	defer tx.Rollback(ctx)

	const selectQuery = `SELECT ` + applicationColumns + ` FROM applications
		WHERE id = $1 AND owner_id = $2 FOR UPDATE`
	app, err := scanApplication(tx.QueryRow(ctx, selectQuery, id, ownerID))
	if err != nil {
		return nil, err
	}
	if err := mutate(app); err != nil {
		return nil, err
	}

	const updateQuery = `UPDATE applications SET
		company = $3, position = $4, location = $5, salary = $6, status = $7, job_type = $8,
		remote = $9, contact_person = $10, notes = $11, url = $12, applied_date = $13,
		deadline = $14, next_round_date = $15, updated_at = $16
		WHERE id = $1 AND owner_id = $2`
	tag, err := tx.Exec(ctx, updateQuery,
		id,
		ownerID,
		app.Company,
		app.Position,
		app.Location,
		app.Salary,
		string(app.Status),
		app.JobType,
		app.Remote,
		app.ContactPerson,
		app.Notes,
		app.URL,
		app.AppliedDate,
		app.Deadline,
		app.NextRoundDate,
		app.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return app, nil
}

// DeleteApplication removes the owner's record permanently.
func (r *Repository) DeleteApplication(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app    domain.Application
		status string
	)
	if err := row.Scan(
		&app.ID,
		&app.OwnerID,
		&app.Company,
		&app.Position,
		&app.Location,
		&app.Salary,
		&status,
		&app.JobType,
		&app.Remote,
		&app.ContactPerson,
		&app.Notes,
		&app.URL,
		&app.AppliedDate,
		&app.Deadline,
		&app.NextRoundDate,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	app.Status = domain.Status(status)
	return &app, nil
}

// mapError folds driver errors into repository sentinels, keeping the cause wrapped.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			// owning account no longer exists
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		case "22P02":
			// malformed uuid; indistinguishable from a missing row to callers
			return repository.ErrNotFound
		case "57014":
			return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
		}
		return err
	}
	var connectErr *pgconn.ConnectError
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || errors.As(err, &connectErr) {
		return fmt.Errorf("%w: %v", repository.ErrStoreUnavailable, err)
	}
	return err
}
