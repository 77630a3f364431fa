package httpx

import (
	"net/http"
	"strings"

	"github.com/Jeevannn11/CareerFlow/internal/service/application"
)

func (r *Router) handleJobs(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for jobs", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, codeInternal, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodGet:
		apps, err := r.jobs.List(req.Context(), info.AccountID, req.URL.Query().Get("q"))
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, apps)
	case http.MethodPost:
		var payload application.CreateInput
		if err := decodeJSON(w, req, &payload); err != nil {
			r.invalidBody(w)
			return
		}
		app, err := r.jobs.Create(req.Context(), info.AccountID, payload)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleJob(w http.ResponseWriter, req *http.Request) {
	id := strings.TrimPrefix(req.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		r.notFound(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for job", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, codeInternal, "authorization context missing")
		return
	}
	switch req.Method {
	case http.MethodGet:
		app, err := r.jobs.Get(req.Context(), info.AccountID, id)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	case http.MethodPut:
		var payload application.UpdateInput
		if err := decodeJSON(w, req, &payload); err != nil {
			r.invalidBody(w)
			return
		}
		app, err := r.jobs.Update(req.Context(), info.AccountID, id, payload)
		if err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	case http.MethodDelete:
		if err := r.jobs.Delete(req.Context(), info.AccountID, id); err != nil {
			r.writeServiceError(w, req, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted", "id": id})
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleAnalytics(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for analytics", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, codeInternal, "authorization context missing")
		return
	}
	snap, err := r.analytics.Snapshot(req.Context(), info.AccountID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
