package freebox

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/freebox/access"
)

const (
	// DefaultHost resolves to the Freebox from behind it
	DefaultHost = "mafreebox.freebox.fr"

	// DefaultPort is the HTTPS port of the local API
	DefaultPort = 443

	// DefaultAPIVersion lets the device pick its newest API
	DefaultAPIVersion = "latest"

	// ServerAPIVersion asks Open to pin the version reported by /api_version
	ServerAPIVersion = "server"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = access.DefaultTimeout

	// DefaultAppID identifies this client when no descriptor is given
	DefaultAppID = "fbxgo"

	// DefaultAppName is shown on the Freebox during pairing
	DefaultAppName = "fbxgo"

	// DefaultAppVersion is sent with the descriptor
	DefaultAppVersion = "1.0"

	// DefaultPollInterval is the pause between pairing status checks
	DefaultPollInterval = time.Second
)

// AppDescriptor identifies the application to the Freebox. It is sent when
// pairing and its AppID is reused for every session.
type AppDescriptor struct {
	AppID      string `json:"app_id"`
	AppName    string `json:"app_name"`
	AppVersion string `json:"app_version"`
	DeviceName string `json:"device_name"`
}

// Validate checks that every field is set
func (d AppDescriptor) Validate() error {
	switch {
	case d.AppID == "":
		return access.NewInvalidDescriptorError("app_id is required")
	case d.AppName == "":
		return access.NewInvalidDescriptorError("app_name is required")
	case d.AppVersion == "":
		return access.NewInvalidDescriptorError("app_version is required")
	case d.DeviceName == "":
		return access.NewInvalidDescriptorError("device_name is required")
	}
	return nil
}

// Config describes how to reach a Freebox and who is asking.
type Config struct {
	// Host is the Freebox host name or address (default: mafreebox.freebox.fr)
	Host string

	// Port is the API port (default: 443)
	Port int

	// HTTPS selects https:// (default: true)
	HTTPS bool

	// APIVersion is the version path segment, e.g. "latest", "v8" or "server"
	APIVersion string

	// App is the application descriptor
	App AppDescriptor

	// Timeout bounds each HTTP request (default: 10s)
	Timeout time.Duration

	// InsecureSkipVerify disables certificate checks
	InsecureSkipVerify bool

	// CAFile is a PEM bundle trusted in addition to the system roots,
	// typically the Freebox root CA
	CAFile string
}

// DefaultConfig returns the configuration for the Freebox of the local network
func DefaultConfig() Config {
	return Config{
		Host:       DefaultHost,
		Port:       DefaultPort,
		HTTPS:      true,
		APIVersion: DefaultAPIVersion,
		App:        DefaultAppDescriptor(),
		Timeout:    DefaultTimeout,
	}
}

// DefaultAppDescriptor returns the descriptor used when none is configured.
// The device name is this machine's host name.
func DefaultAppDescriptor() AppDescriptor {
	deviceName, err := os.Hostname()
	if err != nil || deviceName == "" {
		deviceName = "unknown"
	}
	return AppDescriptor{
		AppID:      DefaultAppID,
		AppName:    DefaultAppName,
		AppVersion: DefaultAppVersion,
		DeviceName: deviceName,
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.Host == "" {
		return access.NewRequestError("host is required", nil)
	}
	if c.Port < 1 || c.Port > 65535 {
		return access.NewRequestError(fmt.Sprintf("invalid port %d", c.Port), nil)
	}
	if c.APIVersion == "" {
		return access.NewRequestError("api version is required", nil)
	}
	return c.App.Validate()
}

// RootURL returns scheme://host:port/
func (c Config) RootURL() string {
	scheme := "http"
	if c.HTTPS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/", scheme, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)))
}

// BaseURL returns the versioned API root, e.g. https://mafreebox.freebox.fr:443/api/latest/
func (c Config) BaseURL() string {
	return c.RootURL() + "api/" + c.APIVersion + "/"
}

// tlsConfig builds the client TLS settings
func (c Config) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: c.InsecureSkipVerify, //nolint:gosec // opt-in for lab devices
	}
	if c.CAFile == "" {
		return cfg, nil
	}

	pem, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, access.NewRequestError(fmt.Sprintf("failed to read CA file %s", c.CAFile), err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, access.NewRequestError(fmt.Sprintf("no certificate found in %s", c.CAFile), nil)
	}
	cfg.RootCAs = pool
	return cfg, nil
}

// newHTTPClient builds the HTTP client and websocket dialer for c
func (c Config) newHTTPClient() (*http.Client, *websocket.Dialer, error) {
	tlsCfg, err := c.tlsConfig()
	if err != nil {
		return nil, nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
		TLSClientConfig:  tlsCfg,
	}

	return &http.Client{Timeout: timeout, Transport: transport}, dialer, nil
}
