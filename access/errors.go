package access

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeAuthorization indicates pairing was denied or timed out, or the
	// application token was rejected while opening a session
	ErrTypeAuthorization ErrorType = iota
	// ErrTypeInsufficientPermissions indicates the device's permission model
	// rejected an otherwise valid authenticated call
	ErrTypeInsufficientPermissions
	// ErrTypeRequest indicates a network failure or any other failure envelope
	ErrTypeRequest
	// ErrTypeNotOpen indicates a resource call was made before Open
	ErrTypeNotOpen
	// ErrTypeInvalidDescriptor indicates an incomplete application descriptor
	ErrTypeInvalidDescriptor
)

// NetworkErrorSubtype gives a finer classification of transport failures
type NetworkErrorSubtype int

const (
	NetworkErrorNone NetworkErrorSubtype = iota
	NetworkErrorGeneral
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeAuthorization:
		return "Authorization Error"
	case ErrTypeInsufficientPermissions:
		return "Insufficient Permissions"
	case ErrTypeRequest:
		return "Request Error"
	case ErrTypeNotOpen:
		return "Not Open"
	case ErrTypeInvalidDescriptor:
		return "Invalid Application Descriptor"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is the single error type returned by this library.
type Error struct {
	Type       ErrorType           // Category of error
	Message    string              // Human-readable error message
	Code       string              // Device error_code, when the device sent one
	Envelope   []byte              // Raw JSON response, kept for diagnostics
	StatusCode int                 // HTTP status code, when a response was received
	Network    NetworkErrorSubtype // Transport failure subtype
	Err        error               // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Envelope) > 0 {
		fmt.Fprintf(&b, " (APIResponse: %s)", e.Envelope)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the error was caused by a network timeout
func (e *Error) Timeout() bool {
	return e.Network == NetworkErrorTimeout
}

// ClassifyNetworkError turns a transport error into a request error with a
// network subtype.
func ClassifyNetworkError(message string, err error) *Error {
	if err == nil {
		return nil
	}

	e := &Error{
		Type:    ErrTypeRequest,
		Message: message,
		Err:     err,
		Network: NetworkErrorGeneral,
	}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case os.IsTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded):
		e.Network = NetworkErrorTimeout
	case errors.As(err, &dnsErr):
		e.Network = NetworkErrorDNS
	case errors.As(err, &opErr):
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			e.Network = NetworkErrorConnectionRefused
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			e.Network = NetworkErrorHostUnreachable
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			e.Network = NetworkErrorNetworkUnreachable
		}
	}

	// url.Error wraps the real cause; a timeout there is reported by the wrapper
	var urlErr *url.Error
	if e.Network == NetworkErrorGeneral && errors.As(err, &urlErr) && urlErr.Timeout() {
		e.Network = NetworkErrorTimeout
	}

	return e
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string, envelope []byte) *Error {
	return &Error{
		Type:     ErrTypeAuthorization,
		Message:  message,
		Envelope: envelope,
	}
}

// NewInsufficientPermissionsError creates a permission-denied error
func NewInsufficientPermissionsError(message, code string, envelope []byte) *Error {
	return &Error{
		Type:     ErrTypeInsufficientPermissions,
		Message:  message,
		Code:     code,
		Envelope: envelope,
	}
}

// NewRequestError creates a generic request failure
func NewRequestError(message string, err error) *Error {
	return &Error{
		Type:    ErrTypeRequest,
		Message: message,
		Err:     err,
	}
}

// NewAPIError creates a request failure from a device failure envelope
func NewAPIError(message, code string, statusCode int, envelope []byte) *Error {
	return &Error{
		Type:       ErrTypeRequest,
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Envelope:   envelope,
	}
}

// NewNotOpenError creates a not-open error
func NewNotOpenError(message string) *Error {
	return &Error{
		Type:    ErrTypeNotOpen,
		Message: message,
	}
}

// NewInvalidDescriptorError creates an invalid application descriptor error
func NewInvalidDescriptorError(message string) *Error {
	return &Error{
		Type:    ErrTypeInvalidDescriptor,
		Message: message,
	}
}

func errorType(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return 0, false
}

// IsAuthorizationError checks if an error is an authorization error
func IsAuthorizationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuthorization
}

// IsInsufficientPermissionsError checks if an error is a permission-denied error
func IsInsufficientPermissionsError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeInsufficientPermissions
}

// IsRequestError checks if an error is a request error. Permission-denied
// errors are a kind of request failure and also match.
func IsRequestError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeRequest || t == ErrTypeInsufficientPermissions)
}

// IsNotOpenError checks if an error is a not-open error
func IsNotOpenError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNotOpen
}

// IsTimeout checks if an error was caused by a network timeout
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Timeout()
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}

	switch e.Type {
	case ErrTypeAuthorization:
		return "Authorization failed - the application token was refused"
	case ErrTypeInsufficientPermissions:
		return "Insufficient permissions for this call"
	case ErrTypeNotOpen:
		return "Freebox session is not open"
	case ErrTypeInvalidDescriptor:
		return e.Message
	case ErrTypeRequest:
		switch e.Network {
		case NetworkErrorTimeout:
			return "Freebox not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Freebox refused the connection"
		case NetworkErrorDNS:
			return "Cannot resolve Freebox hostname"
		case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
			return "Freebox unreachable - check network connection"
		case NetworkErrorGeneral:
			return "Network error - check connection"
		}
		if e.Code != "" {
			return fmt.Sprintf("Request failed (%s)", e.Code)
		}
		return "Request failed"
	default:
		return e.Message
	}
}

// TroubleshootingHint returns user-facing advice for an error, one tip per line
func TroubleshootingHint(err error) []string {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}

	switch e.Type {
	case ErrTypeAuthorization:
		return []string{
			"Check that the application is still listed in Freebox OS (Parameters > Access management)",
			"Run 'freebox register' again to pair a new application token",
			"Pairing must be confirmed on the Freebox front display within the device's window",
		}
	case ErrTypeInsufficientPermissions:
		return []string{
			"Grant the missing permission to the application in Freebox OS (Parameters > Access management)",
			"Permissions are snapshotted at session open; new grants apply to the next session",
		}
	case ErrTypeNotOpen:
		return []string{"Call Open with an application token before using resource modules"}
	case ErrTypeRequest:
		switch e.Network {
		case NetworkErrorTimeout:
			return []string{
				"Check that the Freebox is powered on and reachable",
				"Try increasing --timeout",
			}
		case NetworkErrorConnectionRefused:
			return []string{
				"Verify the port number (443 for HTTPS, 80 for HTTP)",
				"Remote access may be disabled; try from the local network",
			}
		case NetworkErrorDNS:
			return []string{
				"mafreebox.freebox.fr only resolves from behind the Freebox",
				"Use the Freebox IP address or its api_domain instead",
			}
		case NetworkErrorHostUnreachable, NetworkErrorNetworkUnreachable:
			return []string{
				"Verify the host address",
				"Check that you are on the same network as the Freebox",
			}
		}
	}
	return nil
}
