package httpx

import (
	"context"
	"net/http"
	"strings"

	jwtpkg "github.com/Jeevannn11/CareerFlow/pkg/jwt"
)

type authContextKey string

type authInfo struct {
	AccountID string
}

const (
	contextKeyAuth authContextKey = "careerflow-auth-info"
	// legacyTokenHeader is the header older dashboard clients send.
	legacyTokenHeader = "x-auth-token"
)

type contextSetter interface {
	SetContext(context.Context)
}

// requireAuth ensures the request has a valid token before invoking the handler.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, _, ok := r.ensureAuth(w, req)
		if !ok {
			return
		}
		if setter, ok := w.(contextSetter); ok {
			setter.SetContext(ctx)
		}
		next(w, req.WithContext(ctx))
	}
}

// ensureAuth validates the request token and enriches the context with the
// account it was issued for.
func (r *Router) ensureAuth(w http.ResponseWriter, req *http.Request) (context.Context, authInfo, bool) {
	token, err := requestToken(req)
	if err != nil {
		r.logger.Warn("authorization header invalid", "error", err, "path", req.URL.Path)
		r.writeServiceError(w, req, err)
		return req.Context(), authInfo{}, false
	}
	accountID, err := r.auth.Authorize(token)
	if err != nil {
		r.logger.Warn("token validation failed", "error", err, "path", req.URL.Path)
		r.writeServiceError(w, req, err)
		return req.Context(), authInfo{}, false
	}
	info := authInfo{AccountID: accountID}
	ctx := context.WithValue(req.Context(), contextKeyAuth, info)
	return ctx, info, true
}

// authInfoFromContext extracts auth metadata from context.
func authInfoFromContext(ctx context.Context) (authInfo, bool) {
	value := ctx.Value(contextKeyAuth)
	if value == nil {
		return authInfo{}, false
	}
	info, ok := value.(authInfo)
	return info, ok
}

// requestToken reads the bearer token, falling back to the legacy header.
func requestToken(req *http.Request) (string, error) {
	if header := strings.TrimSpace(req.Header.Get("Authorization")); header != "" {
		return bearerToken(header)
	}
	if token := strings.TrimSpace(req.Header.Get(legacyTokenHeader)); token != "" {
		return token, nil
	}
	return "", jwtpkg.ErrMissingToken
}

func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", jwtpkg.ErrInvalidToken
	}
	return parts[1], nil
}
