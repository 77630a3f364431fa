package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	token, err := GenerateToken("acct-1", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := Parse(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != "acct-1" {
		t.Fatalf("unexpected account id %q", claims.AccountID)
	}
	if ttl := time.Until(claims.ExpiresAt.Time); ttl <= 59*time.Minute || ttl > time.Hour {
		t.Fatalf("unexpected expiry window %s", ttl)
	}
}

func TestParseFailureKinds(t *testing.T) {
	valid, err := GenerateToken("acct-1", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, err := GenerateToken("acct-1", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	foreign := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, Claims{
		AccountID: "acct-1",
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongAlg, err := foreign.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign foreign: %v", err)
	}
	noAccount, err := GenerateToken("", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate empty account: %v", err)
	}
	other, err := GenerateToken("acct-2", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate other: %v", err)
	}
	// acct-1 payload with acct-2's signature.
	tampered := valid[:strings.LastIndex(valid, ".")] + other[strings.LastIndex(other, "."):]

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"blank", "   ", ErrMissingToken},
		{"garbage", "not.a.jwt", ErrInvalidToken},
		{"wrong secret", valid, ErrInvalidToken},
		{"tampered", tampered, ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
		{"wrong algorithm", wrongAlg, ErrInvalidToken},
		{"no account", noAccount, ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			secret := "secret"
			if tc.name == "wrong secret" {
				secret = "other"
			}
			_, err := Parse(tc.token, secret)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	token, err := GenerateToken("acct-2", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := Parse("  "+token+"\n", "secret"); err != nil {
		t.Fatalf("expected padded token to parse, got %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWS, got %q", token)
	}
}
