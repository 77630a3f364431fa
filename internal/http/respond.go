package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jeevannn11/CareerFlow/internal/repository"
	"github.com/Jeevannn11/CareerFlow/internal/service/application"
	"github.com/Jeevannn11/CareerFlow/internal/service/auth"
	"github.com/Jeevannn11/CareerFlow/internal/service/status"
	jwtpkg "github.com/Jeevannn11/CareerFlow/pkg/jwt"
)

// Error codes carried in the "code" field of error bodies.
const (
	codeValidation          = "ValidationError"
	codeDuplicateAccount    = "DuplicateAccount"
	codeNotFound            = "NotFound"
	codeInvalidCredentials  = "InvalidCredentials"
	codeMissingToken        = "MissingToken"
	codeInvalidToken        = "InvalidToken"
	codeExpiredToken        = "ExpiredToken"
	codeInvalidStatus       = "InvalidStatus"
	codeTransitionForbidden = "TransitionNotAllowed"
	codeStoreUnavailable    = "StoreUnavailable"
	codeRateLimited         = "RateLimited"
	codeMethodNotAllowed    = "MethodNotAllowed"
	codeInternal            = "Internal"
	codeCanceled            = "Canceled"
)

// statusClientClosedRequest marks requests whose caller disconnected before
// the store answered.
const statusClientClosedRequest = 499

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error message tagged with its kind.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// classify maps a service error to its HTTP status and error code. Unknown
// errors come back as 500.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, status.ErrInvalidStatus):
		return http.StatusBadRequest, codeInvalidStatus
	case errors.Is(err, status.ErrTransitionNotAllowed):
		return http.StatusBadRequest, codeTransitionForbidden
	case errors.Is(err, application.ErrValidation), errors.Is(err, auth.ErrValidation):
		return http.StatusBadRequest, codeValidation
	case errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest, codeDuplicateAccount
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest, codeInvalidCredentials
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, jwtpkg.ErrMissingToken):
		return http.StatusUnauthorized, codeMissingToken
	case errors.Is(err, jwtpkg.ErrExpiredToken):
		return http.StatusBadRequest, codeExpiredToken
	case errors.Is(err, jwtpkg.ErrInvalidToken):
		return http.StatusBadRequest, codeInvalidToken
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, codeCanceled
	case errors.Is(err, repository.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, codeStoreUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// writeServiceError translates err into a response. Internal errors are
// logged and replaced with a generic message.
func (r *Router) writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	code, kind := classify(err)
	body := errorBody{Error: publicMessage(kind, err), Code: kind}
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	switch {
	case kind == codeCanceled:
		r.logger.Debug("request canceled by client", "path", req.URL.Path)
	case code >= http.StatusInternalServerError:
		r.logger.Error("request failed", "error", err, "path", req.URL.Path, "code", kind)
	default:
		r.logger.Debug("request rejected", "error", err, "path", req.URL.Path, "code", kind)
	}
	writeJSON(w, code, body)
}

func publicMessage(kind string, err error) string {
	switch kind {
	case codeInternal:
		return "internal server error"
	case codeStoreUnavailable:
		return "store unavailable, try again later"
	case codeCanceled:
		return "request canceled"
	case codeNotFound:
		return "not found"
	case codeDuplicateAccount:
		return "username already taken"
	case codeInvalidCredentials:
		return "invalid credentials"
	case codeMissingToken:
		return "authentication required"
	case codeExpiredToken:
		return "token expired"
	case codeInvalidToken:
		return "token invalid"
	default:
		return err.Error()
	}
}
