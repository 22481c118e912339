package freebox

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Sleeper suspends the pairing loop between status checks. It must return
// early with ctx.Err() when ctx is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

// Prompter shows the user the one-time pairing instruction
type Prompter func(message string)

// Option customises a Freebox
type Option func(*Freebox)

// WithHTTPClient replaces the HTTP client built from Config
func WithHTTPClient(client *http.Client) Option {
	return func(f *Freebox) {
		f.http = client
	}
}

// WithDialer replaces the websocket dialer built from Config
func WithDialer(dialer *websocket.Dialer) Option {
	return func(f *Freebox) {
		f.dialer = dialer
	}
}

// WithLogger sets the logger (default: the package-wide silent logger)
func WithLogger(logger *zap.Logger) Option {
	return func(f *Freebox) {
		f.logger = logger
	}
}

// WithSleeper replaces the pause used while pairing
func WithSleeper(sleep Sleeper) Option {
	return func(f *Freebox) {
		f.sleep = sleep
	}
}

// WithPrompter replaces how the pairing instruction is shown
func WithPrompter(prompt Prompter) Option {
	return func(f *Freebox) {
		f.prompt = prompt
	}
}

// WithPollInterval changes the pause between pairing status checks
func WithPollInterval(d time.Duration) Option {
	return func(f *Freebox) {
		f.pollInterval = d
	}
}

// WithUserAgent sets the User-Agent header (default: version.UserAgent())
func WithUserAgent(ua string) Option {
	return func(f *Freebox) {
		f.userAgent = ua
	}
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stderrPrompt(message string) {
	fmt.Fprintln(os.Stderr, message)
}
