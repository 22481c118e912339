package freebox

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/api"
	"github.com/muurk/freebox/internal/logging"
	"github.com/muurk/freebox/internal/version"
)

// Freebox is a client for one Freebox Server. Create it with New, pair once
// with RegisterApp, then Open with the granted token to use the modules.
//
// The resource modules are usable from New onwards; until Open succeeds
// (and after Close) every call returns a not-open error.
type Freebox struct {
	cfg          Config
	http         *http.Client
	dialer       *websocket.Dialer
	logger       *zap.Logger
	sleep        Sleeper
	prompt       Prompter
	pollInterval time.Duration
	userAgent    string

	caller *switchCaller

	mu     sync.Mutex
	access *access.Access
	info   *APIInfo

	System     *api.System
	Connection *api.Connection
	LAN        *api.LAN
	WiFi       *api.WiFi
	DHCP       *api.DHCP
	Call       *api.Call
	Contact    *api.ContactBook
	FS         *api.FS
	Firewall   *api.Firewall
	FTP        *api.FTP
	LCD        *api.LCD
	Storage    *api.Storage
	Switch     *api.Switch
	VM         *api.VM
	Events     *api.Events
}

// New validates cfg and creates a closed Freebox. No network call is made.
func New(cfg Config, opts ...Option) (*Freebox, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Freebox{
		cfg:          cfg,
		sleep:        Sleep,
		prompt:       stderrPrompt,
		pollInterval: DefaultPollInterval,
		caller:       &switchCaller{},
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.http == nil || f.dialer == nil {
		client, dialer, err := cfg.newHTTPClient()
		if err != nil {
			return nil, err
		}
		if f.http == nil {
			f.http = client
		}
		if f.dialer == nil {
			f.dialer = dialer
		}
	}
	if f.logger == nil {
		f.logger = logging.GetLogger()
	}
	if f.userAgent == "" {
		f.userAgent = version.UserAgent()
	}
	f.caller.logger = f.logger

	f.System = api.NewSystem(f.caller)
	f.Connection = api.NewConnection(f.caller)
	f.LAN = api.NewLAN(f.caller)
	f.WiFi = api.NewWiFi(f.caller)
	f.DHCP = api.NewDHCP(f.caller)
	f.Call = api.NewCall(f.caller)
	f.Contact = api.NewContactBook(f.caller)
	f.FS = api.NewFS(f.caller)
	f.Firewall = api.NewFirewall(f.caller)
	f.FTP = api.NewFTP(f.caller)
	f.LCD = api.NewLCD(f.caller)
	f.Storage = api.NewStorage(f.caller)
	f.Switch = api.NewSwitch(f.caller)
	f.VM = api.NewVM(f.caller)
	f.Events = api.NewEvents(f.caller)

	return f, nil
}

// Config returns the configuration the client was built with
func (f *Freebox) Config() Config {
	return f.cfg
}

// Open binds the modules to a session authenticated with appToken. The
// session itself is opened by the first call. Opening an open Freebox
// replaces its session.
func (f *Freebox) Open(ctx context.Context, appToken string) error {
	if appToken == "" {
		return access.NewAuthorizationError("app token is required", nil)
	}

	baseURL, err := f.baseURL(ctx)
	if err != nil {
		return err
	}

	a, err := access.New(access.Config{
		BaseURL:    baseURL,
		AppID:      f.cfg.App.AppID,
		AppToken:   appToken,
		HTTPClient: f.http,
		Dialer:     f.dialer,
		Logger:     f.logger,
		UserAgent:  f.userAgent,
	})
	if err != nil {
		return err
	}

	f.mu.Lock()
	previous := f.access
	f.access = a
	f.caller.bind(a)
	f.mu.Unlock()

	if previous != nil {
		if err := previous.Logout(ctx); err != nil {
			f.logger.Warn("Logout of replaced session failed", zap.Error(err))
		}
	}

	f.logger.Info("Freebox opened", zap.String("base_url", baseURL))
	return nil
}

// IsOpen reports whether Open succeeded and Close was not called since
func (f *Freebox) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access != nil
}

// Access returns the session layer bound by Open, or nil when closed
func (f *Freebox) Access() *access.Access {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access
}

// Permissions returns the permissions granted to the application, as
// snapshotted when the session was opened.
func (f *Freebox) Permissions(ctx context.Context) (access.Permissions, error) {
	a := f.Access()
	if a == nil {
		return nil, access.NewNotOpenError("freebox is not open, call Open first")
	}
	return a.Permissions(ctx)
}

// Close logs out and unbinds the modules. Closing a Freebox that is not
// open is a no-op.
func (f *Freebox) Close(ctx context.Context) error {
	f.mu.Lock()
	a := f.access
	f.access = nil
	f.caller.bind(nil)
	f.mu.Unlock()

	if a == nil {
		return nil
	}

	f.logger.Info("Freebox closed")
	return a.Logout(ctx)
}

// baseURL returns the versioned API root, asking the device for its
// version when configured to
func (f *Freebox) baseURL(ctx context.Context) (string, error) {
	if f.cfg.APIVersion != ServerAPIVersion {
		return f.cfg.BaseURL(), nil
	}

	info, err := f.DiscoverAPI(ctx)
	if err != nil {
		return "", err
	}
	return info.BaseURL(f.cfg.RootURL())
}
