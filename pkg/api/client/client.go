package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client provides typed access to the CareerFlow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:5000"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("api request failed (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code string) bool {
	var apiErr APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, resp.Body)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body io.Reader) APIError {
	apiErr := APIError{Status: status}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var payload struct {
		Error  string            `json:"error"`
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(payload.Error)
	apiErr.Code = payload.Code
	apiErr.Fields = payload.Fields
	return apiErr
}

// Account reflects API account payloads.
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Session is returned by Register and Login.
type Session struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, username, password string) (Session, error) {
	return c.credentials(ctx, "/register", username, password)
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	return c.credentials(ctx, "/login", username, password)
}

func (c *Client) credentials(ctx context.Context, path, username, password string) (Session, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var resp Session
	if err := c.do(ctx, http.MethodPost, path, body, "", &resp); err != nil {
		return Session{}, err
	}
	return resp, nil
}

// Job is a tracked application as returned by the API.
type Job struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	Company       string     `json:"company"`
	Position      string     `json:"position"`
	Location      string     `json:"location"`
	Salary        string     `json:"salary"`
	Status        string     `json:"status"`
	JobType       string     `json:"jobType"`
	Remote        string     `json:"remote"`
	ContactPerson string     `json:"contactPerson"`
	Notes         string     `json:"notes"`
	URL           string     `json:"url"`
	AppliedDate   time.Time  `json:"appliedDate"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	NextRoundDate *time.Time `json:"nextRoundDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// JobInput is the payload for creating a job. Dates are RFC 3339 or YYYY-MM-DD.
type JobInput struct {
	Company       string `json:"company"`
	Position      string `json:"position"`
	Location      string `json:"location,omitempty"`
	Salary        string `json:"salary,omitempty"`
	Status        string `json:"status,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	Remote        string `json:"remote,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Notes         string `json:"notes,omitempty"`
	URL           string `json:"url,omitempty"`
	AppliedDate   string `json:"appliedDate,omitempty"`
	Deadline      string `json:"deadline,omitempty"`
	NextRoundDate string `json:"nextRoundDate,omitempty"`
}

// ListJobs returns the caller's jobs. A non-empty query filters by company or position.
func (c *Client) ListJobs(ctx context.Context, token, query string) ([]Job, error) {
	path := "/jobs"
	if strings.TrimSpace(query) != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var jobs []Job
	if err := c.do(ctx, http.MethodGet, path, nil, token, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob fetches a single job.
func (c *Client) GetJob(ctx context.Context, token, id string) (Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, "/jobs/"+url.PathEscape(id), nil, token, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// CreateJob stores a new job.
func (c *Client) CreateJob(ctx context.Context, token string, input JobInput) (Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPost, "/jobs", input, token, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// UpdateJob applies a partial update. Only keys present in patch change.
func (c *Client) UpdateJob(ctx context.Context, token, id string, patch map[string]string) (Job, error) {
	if patch == nil {
		patch = map[string]string{}
	}
	var job Job
	if err := c.do(ctx, http.MethodPut, "/jobs/"+url.PathEscape(id), patch, token, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// DeleteJob removes a job.
func (c *Client) DeleteJob(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/jobs/"+url.PathEscape(id), nil, token, nil)
}

// StatusCount is one entry of the analytics distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Analytics mirrors the analytics snapshot.
type Analytics struct {
	TotalApplications int            `json:"totalApplications"`
	CountByStatus     map[string]int `json:"countByStatus"`
	InterviewRate     int            `json:"interviewRate"`
	OfferCount        int            `json:"offerCount"`
	RejectedCount     int            `json:"rejectedCount"`
	RecentActivity    []Job          `json:"recentActivity"`
	Distribution      []StatusCount  `json:"distribution"`
	UpcomingRounds    []Job          `json:"upcomingRounds"`
}

// Analytics returns the caller's pipeline metrics.
func (c *Client) Analytics(ctx context.Context, token string) (Analytics, error) {
	var snap Analytics
	if err := c.do(ctx, http.MethodGet, "/analytics", nil, token, &snap); err != nil {
		return Analytics{}, err
	}
	return snap, nil
}

// Listing is a remote job posting.
type Listing struct {
	ID       int      `json:"id"`
	Company  string   `json:"company"`
	Position string   `json:"position"`
	Location string   `json:"location"`
	Tags     []string `json:"tags"`
	URL      string   `json:"url"`
	Date     string   `json:"date"`
	Logo     string   `json:"logo"`
}

// Recommendations returns remote postings. An unavailable feed yields an empty list.
func (c *Client) Recommendations(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	if err := c.do(ctx, http.MethodGet, "/recommendations", nil, "", &listings); err != nil {
		return nil, err
	}
	return listings, nil
}
