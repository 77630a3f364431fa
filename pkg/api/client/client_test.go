package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpx "github.com/Jeevannn11/CareerFlow/internal/http"
	"github.com/Jeevannn11/CareerFlow/internal/repository/memory"
	"github.com/Jeevannn11/CareerFlow/internal/service/analytics"
	"github.com/Jeevannn11/CareerFlow/internal/service/application"
	"github.com/Jeevannn11/CareerFlow/internal/service/auth"
	"github.com/Jeevannn11/CareerFlow/internal/service/discovery"
	"github.com/Jeevannn11/CareerFlow/internal/service/status"
	"github.com/Jeevannn11/CareerFlow/pkg/api/client"
	"github.com/Jeevannn11/CareerFlow/pkg/config"
)

func startServer(t *testing.T) *client.Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	cfg := config.APIConfig{JWTSecret: "client-test", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost}

	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(feed.Close)

	jobs := application.New(store, status.New(nil), logger)
	router := httpx.NewRouter(logger, httpx.Services{
		Auth:         auth.New(store, logger, cfg),
		Applications: jobs,
		Analytics:    analytics.New(jobs, logger),
		Discovery:    discovery.New(feed.URL, time.Second, logger),
	}, nil, "*", store.Ping)
	t.Cleanup(router.Close)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	cli, err := client.New(srv.URL, client.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return cli
}

func TestClientEndToEnd(t *testing.T) {
	cli := startServer(t)
	ctx := context.Background()

	alice, err := cli.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Account.Username)

	_, err = cli.Register(ctx, "alice", "pw2")
	assert.True(t, client.IsCode(err, "DuplicateAccount"), "got %v", err)

	_, err = cli.Login(ctx, "alice", "wrong")
	assert.True(t, client.IsCode(err, "InvalidCredentials"), "got %v", err)

	session, err := cli.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	token := session.Token

	acme, err := cli.CreateJob(ctx, token, client.JobInput{Company: "Acme", Position: "SWE", AppliedDate: "2025-02-01"})
	require.NoError(t, err)
	assert.Equal(t, "applied", acme.Status)

	_, err = cli.CreateJob(ctx, token, client.JobInput{Position: "SWE"})
	var apiErr client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Fields, "company")

	updated, err := cli.UpdateJob(ctx, token, acme.ID, map[string]string{"status": "offer", "nextRoundDate": "2099-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "offer", updated.Status)
	require.NotNil(t, updated.NextRoundDate)

	fetched, err := cli.GetJob(ctx, token, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.UpdatedAt, fetched.UpdatedAt)

	jobs, err := cli.ListJobs(ctx, token, "acm")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	snap, err := cli.Analytics(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalApplications)
	assert.Equal(t, 1, snap.OfferCount)
	assert.Equal(t, 100, snap.InterviewRate)
	require.Len(t, snap.UpcomingRounds, 1)

	listings, err := cli.Recommendations(ctx)
	require.NoError(t, err)
	assert.Empty(t, listings)

	require.NoError(t, cli.DeleteJob(ctx, token, acme.ID))
	err = cli.DeleteJob(ctx, token, acme.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClientRequiresToken(t *testing.T) {
	cli := startServer(t)

	_, err := cli.ListJobs(context.Background(), "", "")
	var apiErr client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "MissingToken", apiErr.Code)
}
