package apiclient

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

	"github.com/google/uuid"

	"sqrts/internal/logging"
)

var (
	// ErrFetchFailed is returned by Get and GetWithParams on any failure.
	ErrFetchFailed = errors.New("failed to fetch data")
	// ErrPostFailed is returned by Post when no response was received.
	ErrPostFailed = errors.New("failed to post data")
)

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Status, strings.TrimSpace(string(e.Body)))
}

// TokenSource supplies the bearer token attached to outgoing requests.
type TokenSource interface {
	AccessToken() string
}

// Client talks to the ticketing API rooted at a single base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *logging.Logger
	tokens  TokenSource

	deviceID string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }
func WithLogger(l *logging.Logger) Option    { return func(c *Client) { c.log = l } }
func WithTokenSource(ts TokenSource) Option  { return func(c *Client) { c.tokens = ts } }

// WithDeviceID sends id as X-Device-ID on every request.
func WithDeviceID(id string) Option { return func(c *Client) { c.deviceID = id } }

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// New returns a client for baseURL. Endpoint paths are resolved relative to it.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{baseURL: u, http: &http.Client{}, log: logging.Stderr()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// URL resolves an endpoint against the base URL.
func (c *Client) URL(ep Endpoint) string {
	return c.baseURL.ResolveReference(&url.URL{Path: string(ep)}).String()
}

// Response is a received HTTP response with its body fully read.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Field returns a top-level string field of a JSON object body, or "".
func (r *Response) Field(name string) string {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return ""
	}
	s, _ := m[name].(string)
	return s
}

// Register creates an account and returns the issued tokens.
func (c *Client) Register(ctx context.Context, data RegistrationData) (*AuthResponse, error) {
	return c.authCall(ctx, Register, data)
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, data LoginData) (*AuthResponse, error) {
	return c.authCall(ctx, Authenticate, data)
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	return c.authCall(ctx, RefreshToken, RefreshData{RefreshToken: refreshToken})
}

func (c *Client) authCall(ctx context.Context, ep Endpoint, body any) (*AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, ep, nil, body, nil)
	if err == nil && !resp.OK() {
		err = &HTTPError{Status: resp.Status, Body: resp.Body}
	}
	if err != nil {
		c.logFailure(err)
		return nil, fmt.Errorf("%s: %w", ep, err)
	}
	var out AuthResponse
	if err := resp.Decode(&out); err != nil {
		c.log.Errorf("Error message: decode %s response: %v", ep, err)
		return nil, fmt.Errorf("%s: decode response: %w", ep, err)
	}
	return &out, nil
}

// SendFeedback never fails: on any error it logs and reports status 500.
func (c *Client) SendFeedback(ctx context.Context, data FeedbackData) *Response {
	resp, err := c.do(ctx, http.MethodPost, Feedback, nil, data, nil)
	if err == nil && !resp.OK() {
		err = &HTTPError{Status: resp.Status, Body: resp.Body}
	}
	if err != nil {
		c.logFailure(err)
		return &Response{Status: http.StatusInternalServerError, Header: http.Header{}}
	}
	return resp
}

// Get fetches an endpoint without parameters.
func (c *Client) Get(ctx context.Context, ep Endpoint) (*Response, error) {
	return c.GetWithParams(ctx, ep, nil)
}

// GetWithParams fetches an endpoint with a query string. Any failure,
// including a non-2xx status, is logged and reported as ErrFetchFailed.
func (c *Client) GetWithParams(ctx context.Context, ep Endpoint, params url.Values) (*Response, error) {
	resp, err := c.do(ctx, http.MethodGet, ep, params, nil, nil)
	if err == nil && !resp.OK() {
		err = &HTTPError{Status: resp.Status, Body: resp.Body}
	}
	if err != nil {
		c.log.Errorf("Error fetching data: %v", err)
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, ep)
	}
	return resp, nil
}

// Post sends body as JSON. When the server answers, the response is returned
// whatever its status so callers can inspect it; only transport failures
// produce ErrPostFailed.
func (c *Client) Post(ctx context.Context, ep Endpoint, body any, headers http.Header) (*Response, error) {
	resp, err := c.do(ctx, http.MethodPost, ep, nil, body, headers)
	if err != nil {
		c.log.Errorf("Error posting data: %v", err)
		return nil, fmt.Errorf("%w: %s", ErrPostFailed, ep)
	}
	if !resp.OK() {
		c.log.Warnf("%s answered %d", ep, resp.Status)
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method string, ep Endpoint, params url.Values, body any, headers http.Header) (*Response, error) {
	target := c.baseURL.ResolveReference(&url.URL{Path: string(ep)})
	if len(params) > 0 {
		target.RawQuery = params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

// logFailure reports err on the branch matching how far the request got:
// the server answered, the request went out without an answer, or the
// request could not be built.
func (c *Client) logFailure(err error) {
	var he *HTTPError
	var ue *url.Error
	switch {
	case errors.As(err, &he):
		c.log.Errorf("Error data: %d %s", he.Status, strings.TrimSpace(string(he.Body)))
	case errors.As(err, &ue):
		c.log.Errorf("Error request: %s %s: %v", ue.Op, ue.URL, ue.Err)
	default:
		c.log.Errorf("Error message: %v", err)
	}
}
