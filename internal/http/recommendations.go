package httpx

import (
	"net/http"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
)

// handleRecommendations proxies the remote listing feed. A failing feed
// yields an empty list, never an error status.
func (r *Router) handleRecommendations(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	listings, err := r.feed.Fetch(req.Context())
	if err != nil {
		r.logger.Warn("listing feed degraded", "error", err)
		r.recordFeedResult("degraded")
		writeJSON(w, http.StatusOK, []domain.Listing{})
		return
	}
	r.recordFeedResult("ok")
	writeJSON(w, http.StatusOK, listings)
}
