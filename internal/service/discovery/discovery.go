// Package discovery reads remote job postings from a public feed. Postings are
// passed through to the caller and never stored.
package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Jeevannn11/CareerFlow/internal/domain"
)

// ErrUpstreamUnavailable covers every way the feed can fail: timeouts,
// transport errors, non-2xx responses and undecodable bodies.
var ErrUpstreamUnavailable = errors.New("listing feed unavailable")

const (
	defaultLocation = "Remote"
	defaultTag      = "Dev"
	maxBodyBytes    = 4 << 20
)

// Service fetches listings from the configured feed URL.
type Service struct {
	feedURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithHTTPClient overrides the default HTTP client. Its timeout is replaced by
// the one passed to New.
func WithHTTPClient(h *http.Client) Option {
	return func(s *Service) {
		if h != nil {
			s.httpClient = h
		}
	}
}

// New returns a feed service. A non-positive timeout falls back to 5s.
func New(feedURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	svc := Service{
		feedURL:    strings.TrimSpace(feedURL),
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(&svc)
	}
	client := *svc.httpClient
	client.Timeout = timeout
	svc.httpClient = &client
	return svc
}

type feedResponse struct {
	Jobs []feedJob `json:"jobs"`
}

type feedJob struct {
	CompanyName string    `json:"companyName"`
	JobTitle    string    `json:"jobTitle"`
	JobGeo      string    `json:"jobGeo"`
	JobType     stringSet `json:"jobType"`
	URL         string    `json:"url"`
	PubDate     string    `json:"pubDate"`
	CompanyLogo string    `json:"companyLogo"`
}

// stringSet accepts either a single string or an array of strings.
type stringSet []string

func (s *stringSet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single != "" {
			*s = stringSet{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Fetch returns the current listings. Any failure is reported as
// ErrUpstreamUnavailable wrapping the cause.
func (s Service) Fetch(ctx context.Context) ([]domain.Listing, error) {
	if s.feedURL == "" {
		return nil, fmt.Errorf("%w: feed url not configured", ErrUpstreamUnavailable)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload feedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode feed: %v", ErrUpstreamUnavailable, err)
	}

	listings := make([]domain.Listing, 0, len(payload.Jobs))
	for i, job := range payload.Jobs {
		listings = append(listings, toListing(i, job))
	}
	s.logger.Debug("listing feed fetched", "count", len(listings))
	return listings, nil
}

func toListing(index int, job feedJob) domain.Listing {
	location := job.JobGeo
	if strings.TrimSpace(location) == "" {
		location = defaultLocation
	}
	tags := []string(job.JobType)
	if len(tags) == 0 {
		tags = []string{defaultTag}
	}
	return domain.Listing{
		ID:       index,
		Company:  job.CompanyName,
		Position: job.JobTitle,
		Location: location,
		Tags:     tags,
		URL:      job.URL,
		Date:     job.PubDate,
		Logo:     job.CompanyLogo,
	}
}
