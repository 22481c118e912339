package api

import (
	"context"
	"encoding/base64"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/internal/logging"
)

// Caller is the authenticated transport resource modules are built on.
// *access.Access satisfies it.
type Caller interface {
	Get(ctx context.Context, path string) (*access.Response, error)
	Post(ctx context.Context, path string, body any) (*access.Response, error)
	Put(ctx context.Context, path string, body any) (*access.Response, error)
	Delete(ctx context.Context, path string, body any) (*access.Response, error)
	Dial(ctx context.Context, path string) (*websocket.Conn, error)
}

var _ Caller = (*access.Access)(nil)

// loggerSource is implemented by callers that carry their own logger
type loggerSource interface {
	Logger() *zap.Logger
}

var _ loggerSource = (*access.Access)(nil)

// callerLogger returns the caller's logger, or the global one
func callerLogger(c Caller) *zap.Logger {
	if ls, ok := c.(loggerSource); ok {
		if l := ls.Logger(); l != nil {
			return l
		}
	}
	return logging.GetLogger()
}

// decode unmarshals the payload of a call into a fresh T
func decode[T any](resp *access.Response, err error) (T, error) {
	var v T
	if err != nil {
		return v, err
	}
	if err := resp.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

// done drops the payload of a call that returns nothing useful
func done(_ *access.Response, err error) error {
	return err
}

// EncodePath encodes a filesystem path the way the fs/ endpoints expect it
func EncodePath(path string) string {
	return base64.StdEncoding.EncodeToString([]byte(path))
}

// DecodePath reverses EncodePath
func DecodePath(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
