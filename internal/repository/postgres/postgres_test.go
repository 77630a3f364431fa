package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Jeevannn11/CareerFlow/internal/repository"
)

func TestMapError(t *testing.T) {
	boom := errors.New("boom")
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, repository.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), repository.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "accounts_username_key"}, repository.ErrDuplicate},
		{"missing owner", &pgconn.PgError{Code: "23503", ConstraintName: "applications_owner_id_fkey"}, repository.ErrNotFound},
		{"client gone", fmt.Errorf("query: %w", context.Canceled), context.Canceled},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, repository.ErrNotFound},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, repository.ErrStoreUnavailable},
		{"deadline", context.DeadlineExceeded, repository.ErrStoreUnavailable},
		{"other", boom, boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := mapError(tc.in)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestNewDefaultsTimeout(t *testing.T) {
	if repo := New(nil, 0); repo.timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %s", repo.timeout)
	}
}
