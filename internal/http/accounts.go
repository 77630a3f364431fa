package httpx

import (
	"errors"
	"net/http"

	"github.com/Jeevannn11/CareerFlow/internal/repository"
	"github.com/Jeevannn11/CareerFlow/internal/service/auth"
)

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type sessionResponse struct {
	Token   string      `json:"token"`
	Account accountView `json:"account"`
}

func newSessionResponse(session *auth.Session) sessionResponse {
	return sessionResponse{
		Token:   session.Token,
		Account: accountView{ID: session.Account.ID, Username: session.Account.Username},
	}
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload credentialsPayload
	if err := decodeJSON(w, req, &payload); err != nil {
		r.invalidBody(w)
		return
	}
	session, err := r.auth.Register(req.Context(), payload.Username, payload.Password)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload credentialsPayload
	if err := decodeJSON(w, req, &payload); err != nil {
		r.invalidBody(w)
		return
	}
	session, err := r.auth.Login(req.Context(), payload.Username, payload.Password)
	if err != nil {
		// an unknown username is a bad login, not a missing resource
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusBadRequest, codeNotFound, "user not found")
			return
		}
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}
