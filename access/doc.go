// Package access implements the session layer of the Freebox OS API.
//
// An Access turns a long-lived application token into short-lived session
// tokens and presents a uniform Get/Post/Put/Delete contract over the
// device's JSON-over-HTTP API.
//
// # Session Acquisition
//
// Sessions are opened with a challenge/response exchange:
//  1. GET login/ returns a one-time challenge
//  2. the password is hex(HMAC-SHA1(app_token, challenge)), see Password
//  3. POST login/session/ with {app_id, password} returns the session token
//     and the permission set
//
// The session token is attached to every call in the X-Fbx-App-Auth header.
//
// # Retry Contract
//
// When the device answers auth_required or invalid_session, the token is
// dropped and the same call is sent once more after a new session is opened.
// A second rejection surfaces as an authorization error. No other condition
// is retried.
//
// # Response Envelope
//
// The device wraps every JSON payload in an envelope. A call succeeds when
// the envelope carries success: true (Response.Payload is the result field),
// or when it carries a data field and no truthy error field (Response.Payload
// is the data field and Response.Partial is set). Responses that are not
// JSON are passed through in Response.Raw.
//
// # Usage Example
//
//	a, err := access.New(access.Config{
//	    BaseURL:  "https://mafreebox.freebox.fr:443/api/latest/",
//	    AppID:    "fbxgo",
//	    AppToken: token,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp, err := a.Get(ctx, "system/")
//	if err != nil {
//	    log.Fatal(access.ShortMessage(err))
//	}
//
//	var system map[string]any
//	if err := resp.Decode(&system); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// Access instances are safe for concurrent use. Concurrent calls that need a
// session share one challenge/response exchange; discarding a rejected token
// never discards a newer one.
package access
