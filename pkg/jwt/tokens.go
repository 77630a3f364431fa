package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const issuer = "careerflow"

var (
	// ErrMissingToken is returned when no token was supplied.
	ErrMissingToken = errors.New("token missing")
	// ErrInvalidToken covers malformed tokens, bad signatures and unexpected algorithms.
	ErrInvalidToken = errors.New("token invalid")
	// ErrExpiredToken is returned for well-formed, correctly signed tokens past their expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Claims defines JWT payload.
type Claims struct {
	AccountID string `json:"account_id"`
	jwtlib.RegisteredClaims
}

// GenerateToken issues a signed JWT for the account with provided secret and ttl.
func GenerateToken(accountID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates and extracts claims from token. Failures are reported as
// ErrMissingToken, ErrExpiredToken or ErrInvalidToken, wrapping the library error.
func Parse(token string, secret string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	parsed, err := jwtlib.ParseWithClaims(token, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, errors.Join(ErrExpiredToken, err)
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.AccountID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
