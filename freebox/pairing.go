package freebox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/internal/logging"
)

// PairingPrompt is shown once while the device waits for the user
const PairingPrompt = "Please confirm the authorization request on the Freebox front panel"

// Pairing statuses reported by login/authorize/{track_id}
const (
	PairingUnknown = "unknown"
	PairingPending = "pending"
	PairingTimeout = "timeout"
	PairingGranted = "granted"
	PairingDenied  = "denied"
)

// Registration is the device's answer to a pairing request. The token is
// usable only once the request identified by TrackID is granted.
type Registration struct {
	AppToken string `json:"app_token"`
	TrackID  int    `json:"track_id"`
}

// PairingStatus is one poll of a pending pairing request
type PairingStatus struct {
	Status    string `json:"status"`
	Challenge string `json:"challenge"`
}

// RegisterApp pairs the application with the Freebox and returns the app
// token once the user has granted it on the device. Persisting the token is
// left to the caller; passing it to Open on later runs skips pairing.
func (f *Freebox) RegisterApp(ctx context.Context) (string, error) {
	reg, err := f.Register(ctx)
	if err != nil {
		return "", err
	}
	if err := f.AwaitAuthorization(ctx, reg.TrackID); err != nil {
		return "", err
	}

	f.logger.Info("Application authorization granted")
	return reg.AppToken, nil
}

// Register submits the application descriptor for pairing
func (f *Freebox) Register(ctx context.Context) (*Registration, error) {
	baseURL, err := f.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	env, err := f.fetchEnvelope(ctx, http.MethodPost, baseURL+"login/authorize/", f.cfg.App)
	if err != nil {
		return nil, err
	}
	logging.LogEnvelope(f.logger, "Authorize response", env.Raw())

	if !env.OK() {
		return nil, access.NewAuthorizationError("authorization request refused", env.Raw())
	}

	var reg Registration
	if err := json.Unmarshal(env.Result, &reg); err != nil {
		return nil, &access.Error{
			Type:     access.ErrTypeAuthorization,
			Message:  "failed to parse authorization response",
			Envelope: env.Raw(),
			Err:      err,
		}
	}
	if reg.AppToken == "" {
		return nil, access.NewAuthorizationError("app token missing from authorization response", env.Raw())
	}
	return &reg, nil
}

// PairingStatus fetches the current status of a pairing request
func (f *Freebox) PairingStatus(ctx context.Context, trackID int) (*PairingStatus, error) {
	baseURL, err := f.baseURL(ctx)
	if err != nil {
		return nil, err
	}

	env, err := f.fetchEnvelope(ctx, http.MethodGet, baseURL+"login/authorize/"+strconv.Itoa(trackID), nil)
	if err != nil {
		return nil, err
	}
	if !env.OK() || len(env.Result) == 0 {
		return nil, access.NewAuthorizationError("response unknown", env.Raw())
	}

	var status PairingStatus
	if err := json.Unmarshal(env.Result, &status); err != nil || status.Status == "" {
		return nil, access.NewAuthorizationError("status not found", env.Raw())
	}
	return &status, nil
}

// AwaitAuthorization polls a pairing request until the device reaches a
// terminal status. Only "granted" succeeds. The prompt is shown on the first
// "pending" and the loop sleeps between polls.
func (f *Freebox) AwaitAuthorization(ctx context.Context, trackID int) error {
	prompted := false
	last := ""

	for {
		status, err := f.PairingStatus(ctx, trackID)
		if err != nil {
			return err
		}
		if status.Status != last {
			logging.LogPairing(f.logger, trackID, status.Status)
			last = status.Status
		}

		switch status.Status {
		case PairingGranted:
			return nil
		case PairingPending:
			if !prompted {
				prompted = true
				f.prompt(PairingPrompt)
			}
			if err := f.sleep(ctx, f.pollInterval); err != nil {
				return access.NewRequestError("pairing interrupted", err)
			}
		case PairingDenied, PairingUnknown:
			return access.NewAuthorizationError("the app token is invalid or has been revoked", nil)
		case PairingTimeout:
			return access.NewAuthorizationError("authorization timed out", nil)
		default:
			return access.NewAuthorizationError(fmt.Sprintf("unexpected pairing status %q", status.Status), nil)
		}
	}
}
