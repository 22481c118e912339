package access

import (
	"bytes"
	"encoding/json"
)

// Device error codes the session layer reacts to
const (
	CodeAuthRequired       = "auth_required"
	CodeInvalidSession     = "invalid_session"
	CodeInsufficientRights = "insufficient_rights"
	CodeAccessDenied       = "access_denied"
)

// Envelope is the JSON wrapper the device puts around every response.
type Envelope struct {
	Success   *bool           `json:"success"`
	Result    json.RawMessage `json:"result"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
	ErrorCode string          `json:"error_code"`
	Msg       string          `json:"msg"`

	raw []byte
}

// DecodeEnvelope parses a response body into an Envelope, keeping the raw bytes.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	env.raw = body
	return &env, nil
}

// Raw returns the body the envelope was decoded from
func (e *Envelope) Raw() []byte {
	return e.raw
}

// OK reports whether the envelope carries success: true
func (e *Envelope) OK() bool {
	return e.Success != nil && *e.Success
}

// AuthFailure reports whether the device rejected the session token
func (e *Envelope) AuthFailure() bool {
	return e.ErrorCode == CodeAuthRequired || e.ErrorCode == CodeInvalidSession
}

// PermissionDenied reports whether the device refused the call on permission grounds
func (e *Envelope) PermissionDenied() bool {
	return e.ErrorCode == CodeInsufficientRights || e.ErrorCode == CodeAccessDenied
}

// Payload applies the envelope decision rule. A success envelope yields its
// result. A non-success envelope that carries a data field and no truthy
// error field yields the data as a partial result. Anything else is a failure.
func (e *Envelope) Payload() (payload json.RawMessage, partial bool, ok bool) {
	if e.OK() {
		return e.Result, false, true
	}
	if e.Data != nil && !truthy(e.Error) {
		return e.Data, true, true
	}
	return nil, false, false
}

// truthy mirrors the loose truthiness the device uses for its error field:
// absent, null, false, 0, "" and empty containers are all false.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", "0", `""`, "{}", "[]":
		return false
	}
	return true
}
