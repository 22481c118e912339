package access

import (
	"context"
	"maps"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/freebox/internal/logging"
)

// Permission identifiers reported by the device at session open
const (
	PermissionSettings   = "settings"
	PermissionContacts   = "contacts"
	PermissionCalls      = "calls"
	PermissionExplorer   = "explorer"
	PermissionDownloader = "downloader"
	PermissionParental   = "parental"
	PermissionPVR        = "pvr"
	PermissionTV         = "tv"
	PermissionPlayer     = "player"
	PermissionHome       = "home"
	PermissionCamera     = "camera"
	PermissionVM         = "vm"
	PermissionProfile    = "profile"
)

// Permissions maps a capability name to whether the application holds it.
// A capability missing from the map is not granted.
type Permissions map[string]bool

// Has reports whether the named permission is granted
func (p Permissions) Has(name string) bool {
	return p[name]
}

type sessionResult struct {
	token       string
	permissions Permissions
}

// OpenSession runs the challenge/response exchange and stores the new
// session token, replacing any token currently held.
func (a *Access) OpenSession(ctx context.Context) error {
	_, err := a.refreshSession(ctx)
	return err
}

// HasSession reports whether a session token is currently held
func (a *Access) HasSession() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionToken != ""
}

// Permissions returns the permission set snapshotted when the current
// session was opened, opening a session first if none was ever opened.
// The snapshot is not refreshed per call and may lag the device.
func (a *Access) Permissions(ctx context.Context) (Permissions, error) {
	a.mu.Lock()
	perms := a.permissions
	a.mu.Unlock()

	if perms == nil {
		if _, err := a.refreshSession(ctx); err != nil {
			return nil, err
		}
		a.mu.Lock()
		perms = a.permissions
		a.mu.Unlock()
	}
	return maps.Clone(perms), nil
}

// Logout closes the current session on the device. Without a session it is
// a no-op. The held token is dropped whatever the device answers.
func (a *Access) Logout(ctx context.Context) error {
	a.mu.Lock()
	token := a.sessionToken
	a.sessionToken = ""
	a.mu.Unlock()

	if token == "" {
		return nil
	}

	target, err := a.resolve("login/logout/")
	if err != nil {
		return err
	}
	if _, _, err := a.send(ctx, http.MethodPost, target, nil, token); err != nil {
		return err
	}

	logging.LogSession(a.logger, "session_closed")
	return nil
}

// ensureSession returns the held token, opening a session if none is held
func (a *Access) ensureSession(ctx context.Context) (string, error) {
	a.mu.Lock()
	token := a.sessionToken
	a.mu.Unlock()

	if token != "" {
		return token, nil
	}
	return a.refreshSession(ctx)
}

// refreshSession opens a new session. Concurrent callers share a single
// exchange; the result is published last-writer-wins. The exchange is
// detached from any one caller's cancellation and bounded by
// sessionTimeout; each caller stops waiting only when its own ctx is done.
func (a *Access) refreshSession(ctx context.Context) (string, error) {
	ch := a.group.DoChan("session", func() (any, error) {
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.sessionTimeout())
		defer cancel()

		token, perms, err := a.openSession(exchangeCtx)
		if err != nil {
			return nil, err
		}

		a.mu.Lock()
		a.sessionToken = token
		a.permissions = perms
		a.mu.Unlock()

		logging.LogSession(a.logger, "session_opened")
		a.logger.Debug("Session permissions", zap.Any("permissions", perms))
		return sessionResult{token: token, permissions: perms}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(sessionResult).token, nil
	case <-ctx.Done():
		return "", ClassifyNetworkError("opening session interrupted", ctx.Err())
	}
}

// sessionTimeout bounds the challenge and session-open requests together
func (a *Access) sessionTimeout() time.Duration {
	timeout := a.http.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return 2 * timeout
}

// invalidate drops the held token if it is still the one that failed.
// A token refreshed concurrently by another call is kept.
func (a *Access) invalidate(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sessionToken == token {
		a.sessionToken = ""
	}
}

// openSession performs the challenge/response exchange
func (a *Access) openSession(ctx context.Context) (string, Permissions, error) {
	challenge, err := a.challenge(ctx)
	if err != nil {
		return "", nil, err
	}

	target, err := a.resolve("login/session/")
	if err != nil {
		return "", nil, err
	}

	body, err := encodeBody(struct {
		AppID    string `json:"app_id"`
		Password string `json:"password"`
	}{
		AppID:    a.appID,
		Password: Password(a.appToken, challenge),
	})
	if err != nil {
		return "", nil, err
	}

	_, env, err := a.send(ctx, http.MethodPost, target, body, "")
	if err != nil {
		return "", nil, err
	}
	if env == nil || !env.OK() {
		return "", nil, NewAuthorizationError("starting session failed", envelopeBytes(env))
	}

	var result struct {
		SessionToken string      `json:"session_token"`
		Permissions  Permissions `json:"permissions"`
	}
	if err := decodeResult(env, &result); err != nil {
		return "", nil, err
	}
	if result.SessionToken == "" {
		return "", nil, NewAuthorizationError("session token missing from response", env.Raw())
	}
	if result.Permissions == nil {
		result.Permissions = Permissions{}
	}
	return result.SessionToken, result.Permissions, nil
}

// challenge fetches a one-time login challenge
func (a *Access) challenge(ctx context.Context) (string, error) {
	target, err := a.resolve("login/")
	if err != nil {
		return "", err
	}

	_, env, err := a.send(ctx, http.MethodGet, target, nil, "")
	if err != nil {
		return "", err
	}
	if env == nil || !env.OK() {
		return "", NewAuthorizationError("getting challenge failed", envelopeBytes(env))
	}

	var result struct {
		Challenge string `json:"challenge"`
	}
	if err := decodeResult(env, &result); err != nil {
		return "", err
	}
	if result.Challenge == "" {
		return "", NewAuthorizationError("challenge missing from response", env.Raw())
	}
	return result.Challenge, nil
}

func decodeResult(env *Envelope, v any) error {
	resp := &Response{ContentType: jsonContentType, Payload: env.Result}
	return resp.Decode(v)
}

func envelopeBytes(env *Envelope) []byte {
	if env == nil {
		return nil
	}
	return env.Raw()
}
