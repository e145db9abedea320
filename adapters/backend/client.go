// Package backend provides the REST client for the repair shop backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"repairdesk/core/types"
	"repairdesk/internal/config"
	"repairdesk/internal/errors"
	"repairdesk/internal/logging"
)

// maxErrorBody bounds how much of an error response is kept
const maxErrorBody = 4096

// maxPages bounds pagination walks
const maxPages = 50

// Options configures a Client
type Options struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api
	BaseURL string

	// Token is the DRF auth token
	Token string

	// Timeout bounds every request
	Timeout time.Duration

	// RateLimit is the sustained requests per second (0 = unlimited)
	RateLimit float64

	// Burst is the limiter bucket size
	Burst int

	// HTTPClient overrides the transport (tests)
	HTTPClient *http.Client
}

// Client talks to the backend REST API
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// New creates a client
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Newf(errors.TypeConfig, "invalid backend base url %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL: base,
		token:   opts.Token,
		http:    httpClient,
		limiter: limiter,
		log:     logging.Named("backend"),
	}, nil
}

// FromConfig creates a client from the backend configuration section
func FromConfig(cfg config.BackendConfig) (*Client, error) {
	return New(Options{
		BaseURL:   cfg.BaseURL,
		Token:     cfg.Token,
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
	})
}

// endpoint joins the base url, a path and a query
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs a request against an absolute url and decodes the JSON response into out
func (c *Client) do(ctx context.Context, method, rawURL string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Network("rate limiter", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Internal("encoding request body", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return errors.Internal("building request", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("url", rawURL),
			zap.String("request_id", requestID),
			zap.Error(err))
		return errors.Wrapf(errors.TypeNetwork, err, "%s %s", method, rawURL)
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, rawURL, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Decode(fmt.Sprintf("decoding %s %s", method, rawURL), err)
	}
	return nil
}

func statusError(method, rawURL string, resp *http.Response) error {
	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	errType := errors.TypeNetwork
	switch resp.StatusCode {
	case http.StatusNotFound:
		errType = errors.TypeNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		errType = errors.TypeValidation
	}

	return errors.Newf(errType, "%s %s: %s", method, rawURL, resp.Status).
		WithContext("status", resp.StatusCode).
		WithContext("body", strings.TrimSpace(string(excerpt)))
}

// ValidationDetails returns the backend's field errors carried by a validation error
func ValidationDetails(err error) map[string]interface{} {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Type != errors.TypeValidation {
		return nil
	}
	body, _ := e.Context["body"].(string)
	var details map[string]interface{}
	if json.Unmarshal([]byte(body), &details) != nil {
		return nil
	}
	return details
}

// get decodes GET path?query into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.endpoint(path, query), nil, out)
}

// send encodes body as the request of method on path and decodes the response into out
func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	return c.do(ctx, method, c.endpoint(path, nil), body, out)
}

// listAll walks every page of a list endpoint, following next links
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var all []T
	next := c.endpoint(path, query)
	for page := 0; next != ""; page++ {
		if page == maxPages {
			return all, errors.Newf(errors.TypeDecode, "%s: more than %d pages", path, maxPages)
		}
		var p types.Page[T]
		if err := c.do(ctx, http.MethodGet, next, nil, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Results...)
		next = p.Next
	}
	return all, nil
}
