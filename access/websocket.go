package access

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Dial opens an authenticated websocket to the given API path. It follows
// the same session contract as the HTTP calls: a handshake rejected for an
// invalid session is retried once with a fresh session.
func (a *Access) Dial(ctx context.Context, path string) (*websocket.Conn, error) {
	target, err := a.resolve(path)
	if err != nil {
		return nil, err
	}
	switch target.Scheme {
	case "https":
		target.Scheme = "wss"
	case "http":
		target.Scheme = "ws"
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		token, err := a.ensureSession(ctx)
		if err != nil {
			return nil, err
		}

		header := http.Header{}
		header.Set(AuthHeader, token)
		if a.userAgent != "" {
			header.Set("User-Agent", a.userAgent)
		}

		conn, resp, err := a.dialer.DialContext(ctx, target.String(), header)
		if err == nil {
			a.logger.Debug("Websocket opened", zap.String("path", path), zap.Int("attempt", attempt))
			return conn, nil
		}
		if resp == nil {
			return nil, ClassifyNetworkError(fmt.Sprintf("websocket %s failed", target.Path), err)
		}

		env := handshakeEnvelope(resp)
		if env == nil {
			return nil, NewAPIError(fmt.Sprintf("websocket handshake failed with status %d", resp.StatusCode), "", resp.StatusCode, nil)
		}
		if !env.AuthFailure() {
			if env.PermissionDenied() {
				return nil, NewInsufficientPermissionsError("websocket handshake refused", env.ErrorCode, env.Raw())
			}
			return nil, NewAPIError("websocket handshake failed", env.ErrorCode, resp.StatusCode, env.Raw())
		}

		a.invalidate(token)
		if attempt == maxAttempts {
			return nil, NewAuthorizationError("websocket session rejected after re-authentication", env.Raw())
		}
	}

	return nil, NewAuthorizationError("websocket session rejected", nil)
}

// handshakeEnvelope decodes the JSON error body of a failed handshake, if any
func handshakeEnvelope(resp *http.Response) *Envelope {
	if resp.Body == nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil
	}
	env, err := DecodeEnvelope(body)
	if err != nil {
		return nil
	}
	return env
}
