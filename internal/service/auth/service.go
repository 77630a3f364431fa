package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
	"github.com/Jeevannn11/CareerFlow/internal/repository"
	"github.com/Jeevannn11/CareerFlow/pkg/config"
	"github.com/Jeevannn11/CareerFlow/pkg/crypto"
	jwtpkg "github.com/Jeevannn11/CareerFlow/pkg/jwt"
)

var (
	// ErrValidation is returned when username or password is blank.
	ErrValidation = errors.New("username and password are required")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	errPasswordTooLong = fieldError(fmt.Sprintf("password must be at most %d bytes", crypto.MaxPasswordBytes))
)

// fieldError is a validation failure with its own message that still
// matches ErrValidation.
type fieldError string

func (e fieldError) Error() string { return string(e) }

func (e fieldError) Is(target error) bool { return target == ErrValidation }

// Service handles registration, login and token verification.
type Service struct {
	accounts repository.AccountRepository
	logger   *slog.Logger
	cfg      config.APIConfig
}

// New constructs a Service.
func New(accounts repository.AccountRepository, logger *slog.Logger, cfg config.APIConfig) Service {
	return Service{accounts: accounts, logger: logger, cfg: cfg}
}

// Session is the result of a successful register or login.
type Session struct {
	Token   string
	Account *domain.Account
}

// Register creates an account and issues a token for it. A taken username
// fails with repository.ErrDuplicate, also when two registrations race.
// The username is stored exactly as submitted.
func (s Service) Register(ctx context.Context, username, password string) (*Session, error) {
	if blank(username) || blank(password) {
		return nil, ErrValidation
	}
	if len(password) > crypto.MaxPasswordBytes {
		return nil, errPasswordTooLong
	}
	if _, err := s.accounts.GetAccountByUsername(ctx, username); err == nil {
		return nil, repository.ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return nil, errPasswordTooLong
	}
	if err != nil {
		return nil, err
	}
	account := &domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	token, err := s.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account registered", "account_id", account.ID)
	return &Session{Token: token, Account: account}, nil
}

// Login verifies credentials and issues a token. Unknown usernames fail with
// repository.ErrNotFound.
func (s Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if blank(username) || blank(password) {
		return nil, ErrValidation
	}
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := crypto.ComparePassword(account.PasswordHash, password); err != nil {
		if errors.Is(err, crypto.ErrMismatch) {
			s.logger.Warn("login rejected", "account_id", account.ID)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	token, err := s.Issue(account.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account logged in", "account_id", account.ID)
	return &Session{Token: token, Account: account}, nil
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// Issue signs a token for accountID valid for the configured TTL.
func (s Service) Issue(accountID string) (string, error) {
	return jwtpkg.GenerateToken(accountID, s.cfg.JWTSecret, s.cfg.TokenTTL)
}

// Authorize validates a bearer token and returns the account id it was issued
// for. Failures are the jwt package sentinels.
func (s Service) Authorize(token string) (string, error) {
	claims, err := jwtpkg.Parse(token, s.cfg.JWTSecret)
	if err != nil {
		return "", err
	}
	return claims.AccountID, nil
}
