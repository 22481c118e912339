package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/freebox"
	"github.com/muurk/freebox/internal/config"
	"github.com/muurk/freebox/internal/logging"
)

// globalFlags holds the persistent flags shared by every command
type globalFlags struct {
	host       string
	port       int
	plainHTTP  bool
	apiVersion string
	timeout    time.Duration
	insecure   bool
	caFile     string
	logLevel   string
}

var flags globalFlags

// resolveConfig builds the client configuration: defaults, then stored
// preferences, then the stored descriptor for the host, then flags.
func resolveConfig(cmd *cobra.Command, reg *config.Registry) freebox.Config {
	cfg := freebox.DefaultConfig()

	if prefs := reg.Preferences; prefs != nil {
		if prefs.DefaultHost != "" {
			cfg.Host = prefs.DefaultHost
		}
		if prefs.APIVersion != "" {
			cfg.APIVersion = prefs.APIVersion
		}
		if prefs.Timeout > 0 {
			cfg.Timeout = time.Duration(prefs.Timeout) * time.Second
		}
	}

	pf := cmd.Flags()
	if flags.host != "" {
		cfg.Host = flags.host
	}
	if flags.plainHTTP {
		cfg.HTTPS = false
		cfg.Port = 80
	}
	if pf.Changed("port") {
		cfg.Port = flags.port
	}
	if flags.apiVersion != "" {
		cfg.APIVersion = flags.apiVersion
	}
	if flags.timeout > 0 {
		cfg.Timeout = flags.timeout
	}
	cfg.InsecureSkipVerify = flags.insecure
	cfg.CAFile = flags.caFile

	if device := reg.GetDevice(cfg.Host); device != nil && device.AppID != "" {
		cfg.App.AppID = device.AppID
		if device.AppName != "" {
			cfg.App.AppName = device.AppName
		}
		if device.AppVersion != "" {
			cfg.App.AppVersion = device.AppVersion
		}
		if device.DeviceName != "" {
			cfg.App.DeviceName = device.DeviceName
		}
	}

	return cfg
}

// newFreebox builds a closed client for the resolved configuration
func newFreebox(cmd *cobra.Command, opts ...freebox.Option) (*freebox.Freebox, *config.Registry, error) {
	reg, err := config.LoadRegistry()
	if err != nil {
		return nil, nil, err
	}

	cfg := resolveConfig(cmd, reg)
	opts = append([]freebox.Option{freebox.WithLogger(logging.GetLogger())}, opts...)

	fbx, err := freebox.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	return fbx, reg, nil
}

// openFreebox builds a client and opens it with the stored app token
func openFreebox(cmd *cobra.Command) (*freebox.Freebox, error) {
	fbx, reg, err := newFreebox(cmd)
	if err != nil {
		return nil, err
	}

	host := fbx.Config().Host
	device := reg.GetDevice(host)
	if device == nil || device.AppToken == "" {
		return nil, access.NewAuthorizationError(fmt.Sprintf("no app token stored for %s, run 'freebox register' first", host), nil)
	}

	if err := fbx.Open(cmd.Context(), device.AppToken); err != nil {
		return nil, err
	}
	return fbx, nil
}

// withFreebox opens a client, runs fn and closes the session
func withFreebox(cmd *cobra.Command, fn func(ctx context.Context, fbx *freebox.Freebox) error) error {
	fbx, err := openFreebox(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	runErr := fn(ctx, fbx)

	// the session is closed even when the command was interrupted
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fbx.Config().Timeout)
	defer cancel()
	if err := fbx.Close(closeCtx); err != nil {
		logging.Warn("Logout failed", zap.Error(err))
	}

	return runErr
}
