package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jeevannn11/CareerFlow/internal/repository"
)

func TestClassifyStoreErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing owner", fmt.Errorf("%w: applications_owner_id_fkey", repository.ErrNotFound), http.StatusNotFound, codeNotFound},
		{"client canceled", fmt.Errorf("list: %w", context.Canceled), statusClientClosedRequest, codeCanceled},
		{"store timeout", fmt.Errorf("%w: timeout", repository.ErrStoreUnavailable), http.StatusServiceUnavailable, codeStoreUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, codeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("expected %d/%s, got %d/%s", tc.status, tc.code, status, code)
			}
		})
	}
}

func TestCanceledRequestsAreNotLoggedAsErrors(t *testing.T) {
	var buf bytes.Buffer
	r := &Router{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	r.writeServiceError(rr, req, fmt.Errorf("list: %w", context.Canceled))
	if rr.Code != statusClientClosedRequest {
		t.Fatalf("expected %d, got %d", statusClientClosedRequest, rr.Code)
	}
	if buf.Len() != 0 {
		t.Fatalf("cancellation logged at error level: %s", buf.String())
	}

	r.writeServiceError(httptest.NewRecorder(), req, errors.New("boom"))
	if !strings.Contains(buf.String(), "request failed") {
		t.Fatalf("internal errors must still be logged, got %q", buf.String())
	}
}
