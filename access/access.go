package access

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/muurk/freebox/internal/logging"
)

const (
	// AuthHeader carries the session token on every authenticated request
	AuthHeader = "X-Fbx-App-Auth"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxAttempts bounds a logical call to the original request plus one
	// retry after re-authenticating
	maxAttempts = 2
)

// Config holds everything needed to build an Access.
type Config struct {
	// BaseURL is the versioned API root, e.g. "https://mafreebox.freebox.fr:443/api/latest/"
	BaseURL string

	// AppID is the application identifier registered during pairing
	AppID string

	// AppToken is the long-lived secret granted by pairing
	AppToken string

	// HTTPClient is the underlying HTTP client (default: 10s timeout)
	HTTPClient *http.Client

	// Dialer opens websocket connections (default: websocket.DefaultDialer)
	Dialer *websocket.Dialer

	// Logger receives session and request logs (default: logging.GetLogger())
	Logger *zap.Logger

	// UserAgent is sent on every request when set
	UserAgent string
}

// Access owns the session with the device. It attaches the session token to
// every call, opens a session on demand and re-authenticates once when the
// device reports the token invalid.
//
// Access is safe for concurrent use.
type Access struct {
	baseURL   *url.URL
	appID     string
	appToken  string
	http      *http.Client
	dialer    *websocket.Dialer
	logger    *zap.Logger
	userAgent string

	// group coalesces concurrent session acquisitions
	group singleflight.Group

	mu           sync.Mutex
	sessionToken string
	permissions  Permissions
}

// New creates an Access for the given configuration. No network call is made
// until the first request.
func New(cfg Config) (*Access, error) {
	if cfg.AppID == "" {
		return nil, NewInvalidDescriptorError("app id is required")
	}
	if cfg.AppToken == "" {
		return nil, NewAuthorizationError("app token is required", nil)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, NewRequestError(fmt.Sprintf("invalid base URL %q", cfg.BaseURL), err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, NewRequestError(fmt.Sprintf("invalid base URL %q", cfg.BaseURL), nil)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	return &Access{
		baseURL:   base,
		appID:     cfg.AppID,
		appToken:  cfg.AppToken,
		http:      httpClient,
		dialer:    dialer,
		logger:    logger,
		userAgent: cfg.UserAgent,
	}, nil
}

// Logger returns the logger session and request logs are written to
func (a *Access) Logger() *zap.Logger {
	return a.logger
}

// BaseURL returns the API root this Access talks to
func (a *Access) BaseURL() string {
	return a.baseURL.String()
}

// Get sends a GET request and returns the decoded payload
func (a *Access) Get(ctx context.Context, path string) (*Response, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post sends a POST request with an optional JSON body
func (a *Access) Post(ctx context.Context, path string, body any) (*Response, error) {
	return a.do(ctx, http.MethodPost, path, body)
}

// Put sends a PUT request with an optional JSON body
func (a *Access) Put(ctx context.Context, path string, body any) (*Response, error) {
	return a.do(ctx, http.MethodPut, path, body)
}

// Delete sends a DELETE request with an optional JSON body
func (a *Access) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return a.do(ctx, http.MethodDelete, path, body)
}

// do runs one logical call: at most two attempts, the second only after the
// device rejected the session token and a new session was opened.
func (a *Access) do(ctx context.Context, method, path string, body any) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	target, err := a.resolve(path)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		token, err := a.ensureSession(ctx)
		if err != nil {
			return nil, err
		}

		resp, env, err := a.send(ctx, method, target, payload, token)
		if err != nil {
			return nil, err
		}
		logging.LogRequest(a.logger, method, path, resp.StatusCode, attempt)

		if env == nil {
			// Not JSON: hand the body back as-is
			return resp, nil
		}

		if env.AuthFailure() {
			a.invalidate(token)
			if attempt == maxAttempts {
				return nil, NewAuthorizationError("session rejected after re-authentication", env.Raw())
			}
			a.logger.Debug("Invalid session, re-authenticating",
				zap.String("path", path),
				zap.String("error_code", env.ErrorCode),
			)
			continue
		}

		return interpret(resp, env)
	}

	// unreachable: the loop always returns
	return nil, NewAuthorizationError("session rejected", nil)
}

// interpret maps a JSON envelope to a Response or a typed error
func interpret(resp *Response, env *Envelope) (*Response, error) {
	payload, partial, ok := env.Payload()
	if ok {
		resp.Payload = payload
		resp.Partial = partial
		return resp, nil
	}

	if env.PermissionDenied() {
		return nil, NewInsufficientPermissionsError("request failed", env.ErrorCode, env.Raw())
	}
	return nil, NewAPIError("request failed", env.ErrorCode, resp.StatusCode, env.Raw())
}

// send performs a single HTTP exchange. The returned envelope is nil when
// the response is not JSON.
func (a *Access) send(ctx context.Context, method string, target *url.URL, payload []byte, token string) (*Response, *Envelope, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, nil, NewRequestError("failed to create request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", jsonContentType)
	}
	if token != "" {
		req.Header.Set(AuthHeader, token)
	}
	req.Header.Set("Accept", jsonContentType)
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	httpResp, err := a.http.Do(req)
	if err != nil {
		return nil, nil, ClassifyNetworkError(fmt.Sprintf("%s %s failed", method, target.Path), err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, ClassifyNetworkError("failed to read response body", err)
	}

	resp := &Response{
		StatusCode:  httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Header:      httpResp.Header,
		Raw:         body,
	}
	if !resp.IsJSON() {
		return resp, nil, nil
	}

	env, err := DecodeEnvelope(body)
	if err != nil {
		return nil, nil, &Error{
			Type:       ErrTypeRequest,
			Message:    "failed to parse JSON response",
			StatusCode: httpResp.StatusCode,
			Envelope:   body,
			Err:        err,
		}
	}
	return resp, env, nil
}

func (a *Access) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, NewRequestError(fmt.Sprintf("invalid path %q", path), err)
	}
	return a.baseURL.ResolveReference(ref), nil
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, NewRequestError("failed to encode request body", err)
	}
	return data, nil
}
