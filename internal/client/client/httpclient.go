package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cre8tlystudio/adminctl/internal/client/models"
	"github.com/cre8tlystudio/adminctl/internal/client/session"
	"github.com/cre8tlystudio/adminctl/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 30 * time.Second

	// TwoFAVerifyPath never triggers a refresh: a 401 there means a wrong code.
	TwoFAVerifyPath = "/auth/admin/verify-login-2fa"
	RefreshPath     = "/admin/auth/refresh"

	RequestIDHeader = "X-Request-ID"
	// RefreshHeader marks the raw refresh call for the backend.
	RefreshHeader = "x-admin-refresh"

	maxBodySize = 16 << 20
)

// Session is what the client needs from the session manager.
type Session interface {
	AccessToken() string
	Refresh(ctx context.Context, failedToken string, exchange session.RefreshFunc) (string, error)
}

// HTTPClient talks JSON over HTTP to the admin API. It attaches the bearer
// token from the session and recovers from an expired access token by
// refreshing once and resending.
type HTTPClient struct {
	baseURL string
	session Session
	http    *http.Client
	logger  logging.Logger
	timeout time.Duration
}

type Option func(*HTTPClient)

func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

func NewHTTPClient(baseURL string, s Session, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: s,
		http:    &http.Client{},
		logger:  logging.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Do sends req. A 401 outside the 2FA verification path makes the client
// obtain a fresh token through the session and resend the request once.
func (c *HTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	r := *req
	body, err := r.encodeBody()
	if err != nil {
		return nil, err
	}

	token := c.session.AccessToken()
	resp, err := c.send(ctx, &r, body, token)
	if err == nil {
		return resp, nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil, err
	}
	if strings.Contains(r.Path, TwoFAVerifyPath) {
		return nil, err
	}
	if apiErr.Status != http.StatusUnauthorized || r.retried {
		return nil, err
	}

	r.retried = true
	fresh, rerr := c.session.Refresh(ctx, token, c.Refresh)
	if token == "" && errors.Is(rerr, session.ErrNotLoggedIn) {
		return nil, err
	}
	if rerr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", r.Method, r.Path, ctx.Err())
		}
		return nil, &SessionExpiredError{Original: apiErr, Cause: rerr}
	}

	logging.FromContext(ctx, c.logger).Debug(ctx, "resending with refreshed token", "method", r.Method, "path", r.Path)
	return c.send(ctx, &r, body, fresh)
}

// Refresh exchanges refreshToken for a new pair. It is a raw call outside the
// 401 protocol: a rejection here is a refresh failure, never another refresh.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (session.Credential, error) {
	req := &Request{
		Method: http.MethodPost,
		Path:   RefreshPath,
		Header: http.Header{},
		Body:   map[string]string{"token": refreshToken},
	}
	req.Header.Set(RefreshHeader, "true")

	body, err := req.encodeBody()
	if err != nil {
		return session.Credential{}, err
	}
	resp, err := c.send(ctx, req, body, "")
	if err != nil {
		return session.Credential{}, err
	}

	var pair models.TokenPair
	if err := resp.Decode(&pair); err != nil {
		return session.Credential{}, err
	}
	return session.Credential{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (c *HTTPClient) send(ctx context.Context, req *Request, body []byte, token string) (*Response, error) {
	reqID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, reqID)
	log := logging.FromContext(ctx, c.logger)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, c.url(req), rdr)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", req.Method, req.Path, err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	hr.Header.Set("Accept", "application/json")
	if body != nil {
		hr.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		hr.Header.Set("Authorization", "Bearer "+token)
	}
	hr.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(hr)
	if err != nil {
		log.Warn(ctx, "request failed", "method", req.Method, "path", req.Path, "error", err)
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %w", req.Method, req.Path, ErrUnavailable, err)
	}

	log.Debug(ctx, "request done",
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Method:  req.Method,
			Path:    req.Path,
			Message: errorMessage(raw),
			Body:    raw,
		}
	}

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

func (c *HTTPClient) url(req *Request) string {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

func (c *HTTPClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *HTTPClient) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, &Request{Method: http.MethodPost, Path: path, Body: in}, out)
}

func (c *HTTPClient) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, &Request{Method: http.MethodPut, Path: path, Body: in}, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

func (c *HTTPClient) call(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}
