package branches

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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/branchdesk/reservectl/internal/logging"
)

const (
	// DefaultBaseURL is the API root used when Config.BaseURL is empty
	DefaultBaseURL = "https://api.foodics.com/v5"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies the client to the API
	DefaultUserAgent = "reservectl"

	// hierarchyQuery asks the API to embed sections and their tables in each branch.
	hierarchyQuery = "include[0]=sections&include[1]=sections.tables"

	// maxErrorBody caps how much of a non-2xx body is read looking for {message}.
	maxErrorBody = 64 << 10
)

// Config is the explicit transport configuration. The client never reads
// credentials or endpoints from the environment itself.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.foodics.com/v5"
	BaseURL string

	// Token is sent as "Authorization: Bearer <token>"
	Token string

	// Timeout bounds each request (default: DefaultTimeout)
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests; 0 disables throttling
	RequestsPerSecond float64

	// UserAgent overrides DefaultUserAgent
	UserAgent string

	// HTTPClient replaces the default client; Timeout is ignored when set
	HTTPClient *http.Client
}

// Client talks to the reservations configuration API.
type Client struct {
	// BaseURL is the API root without a trailing slash
	BaseURL string

	// Token is the bearer token
	Token string

	// UserAgent is sent with every request
	UserAgent string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	limiter  *rate.Limiter
	validate *validator.Validate
}

// NewClient creates a client from an explicit configuration.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      cfg.Token,
		UserAgent:  userAgent,
		HTTPClient: httpClient,
		validate:   validator.New(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// FetchHierarchy reads every branch with its sections and tables in one request.
// Branches are returned in server order. Absent section or table lists come
// back as empty slices.
func (c *Client) FetchHierarchy(ctx context.Context) ([]Branch, error) {
	var resp hierarchyResponse
	if err := c.do(ctx, "fetch hierarchy", http.MethodGet, "/branches", hierarchyQuery, nil, &resp); err != nil {
		return nil, err
	}

	branches := resp.Data
	if branches == nil {
		branches = []Branch{}
	}
	for i := range branches {
		branches[i].normalize()
	}

	logging.Debug("Fetched branch hierarchy", zap.Int("branches", len(branches)))
	return branches, nil
}

// UpdateBranch sends a partial update for one branch. Fields left nil in the
// patch are not sent and keep their server-side values.
func (c *Client) UpdateBranch(ctx context.Context, branchID string, patch BranchPatch) error {
	if branchID == "" {
		return NewValidationError("branch id is required")
	}
	if patch.IsEmpty() {
		return NewValidationError("branch update has no fields to change")
	}
	if err := c.validate.Struct(patch); err != nil {
		return NewValidationError(fmt.Sprintf("invalid branch update: %v", err))
	}
	if patch.ReservationTimes != nil {
		if errs := ValidateReservationTimes(*patch.ReservationTimes); len(errs) > 0 {
			return NewValidationError(fmt.Sprintf("invalid schedule: %v", errors.Join(errs...)))
		}
	}

	path := "/branches/" + url.PathEscape(branchID)
	return c.do(ctx, "update branch", http.MethodPut, path, "", patch, nil)
}

// UpdateTable sets the reservation flag of one table.
func (c *Client) UpdateTable(ctx context.Context, tableID string, patch TablePatch) error {
	if tableID == "" {
		return NewValidationError("table id is required")
	}

	path := "/tables/" + url.PathEscape(tableID)
	return c.do(ctx, "update table", http.MethodPut, path, "", patch, nil)
}

// DisableAllBranches turns off reservations for every given branch concurrently.
// See Coordinator.DisableAllBranches.
func (c *Client) DisableAllBranches(ctx context.Context, branches []Branch) (*BatchResult, error) {
	return NewCoordinator(c).DisableAllBranches(ctx, branches)
}

// do performs one request. Every failure is returned as a *RequestError.
func (c *Client) do(ctx context.Context, op, method, path, rawQuery string, body, out any) error {
	endpoint := c.BaseURL + path
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			e := NewValidationError(fmt.Sprintf("failed to encode request body: %v", err))
			e.Op, e.Method, e.Path = op, method, path
			return e
		}
		reader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return NewTransportError(op, method, path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return NewTransportError(op, method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Request-ID", requestID)

	logging.LogRequest(method, path, requestID)
	start := time.Now()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		reqErr := NewTransportError(op, method, path, err)
		logging.Debug("Request failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return reqErr
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogResponse(method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr apiErrorBody
		if len(data) > 0 {
			_ = json.Unmarshal(data, &apiErr)
		}
		return NewRejectedError(op, method, path, resp.StatusCode, apiErr.Message)
	}

	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewTransportError(op, method, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError(op, method, path, err)
	}
	return nil
}
