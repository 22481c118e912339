package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/freebox/freebox"
	"github.com/muurk/freebox/internal/config"
	"github.com/muurk/freebox/internal/logging"
	"github.com/muurk/freebox/internal/ui"
)

var registerFlags struct {
	appID      string
	appName    string
	appVersion string
	deviceName string
}

func init() {
	registerCmd.Flags().StringVar(&registerFlags.appID, "app-id", "", "Application identifier (default "+freebox.DefaultAppID+")")
	registerCmd.Flags().StringVar(&registerFlags.appName, "app-name", "", "Application name shown on the Freebox")
	registerCmd.Flags().StringVar(&registerFlags.appVersion, "app-version", "", "Application version")
	registerCmd.Flags().StringVar(&registerFlags.deviceName, "device-name", "", "Name of this machine (default: host name)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(permissionsCmd)
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Pair this application with the Freebox",
	Long: `Request an application token from the Freebox.

The Freebox shows the request on its front panel; press the right arrow to
accept it. The granted token is stored in the configuration file.`,
	Example: `  # Pair with the Freebox of the local network
  freebox register

  # Pair with a named application
  freebox register --app-id fr.example.backup --app-name "Backup"`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func runRegister(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	cfg := resolveConfig(cmd, reg)
	if registerFlags.appID != "" {
		cfg.App.AppID = registerFlags.appID
	}
	if registerFlags.appName != "" {
		cfg.App.AppName = registerFlags.appName
	}
	if registerFlags.appVersion != "" {
		cfg.App.AppVersion = registerFlags.appVersion
	}
	if registerFlags.deviceName != "" {
		cfg.App.DeviceName = registerFlags.deviceName
	}

	printer := ui.NewPrinter(os.Stdout)
	printer.PrintHeader("Pairing", "freebox register", map[string]string{
		"Host":   cfg.Host,
		"App ID": cfg.App.AppID,
		"Device": cfg.App.DeviceName,
	})

	var registration *freebox.Registration
	var info *freebox.APIInfo

	_, err = ui.RunPairing(cmd.Context(), os.Stdout, cfg.Host, func(ctx context.Context, prompt func(string)) (string, error) {
		fbx, err := freebox.New(cfg,
			freebox.WithLogger(logging.GetLogger()),
			freebox.WithPrompter(prompt),
		)
		if err != nil {
			return "", err
		}

		registration, err = fbx.Register(ctx)
		if err != nil {
			return "", err
		}
		if err := fbx.AwaitAuthorization(ctx, registration.TrackID); err != nil {
			return "", err
		}

		if info, err = fbx.DiscoverAPI(ctx); err != nil {
			logging.Debug("api_version unavailable", zap.Error(err))
		}
		return registration.AppToken, nil
	})
	if err != nil {
		printer.PrintError("Pairing failed", err)
		return err
	}

	reg.StorePairing(cfg.Host, config.Pairing{
		AppID:      cfg.App.AppID,
		AppName:    cfg.App.AppName,
		AppVersion: cfg.App.AppVersion,
		DeviceName: cfg.App.DeviceName,
		AppToken:   registration.AppToken,
		TrackID:    registration.TrackID,
	})
	if info != nil {
		reg.UpdateDeviceInfo(cfg.Host, info.UID, info.BoxModel)
	}
	if err := reg.Save(); err != nil {
		return fmt.Errorf("token granted but could not be saved: %w", err)
	}

	printer.PrintSuccess("Application registered",
		ui.Field{Key: "Host", Value: cfg.Host},
		ui.Field{Key: "Track ID", Value: strconv.Itoa(registration.TrackID)},
		ui.Field{Key: "App token", Value: logging.Redact(registration.AppToken)},
		ui.Field{Key: "Saved to", Value: reg.Path()},
	)
	return nil
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the stored app token for the Freebox",
	Long: `Remove the stored application token for the selected host.

The application stays registered on the Freebox; revoke it from Freebox OS
(Parameters > Access management) to invalidate the token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		host := resolveConfig(cmd, reg).Host
		if !reg.Forget(host) {
			fmt.Printf("No app token stored for %s\n", host)
			return nil
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Printf("Forgot app token for %s\n", host)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the Freebox reports about its API",
	Long:  `Query the unauthenticated api_version endpoint. No pairing is needed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fbx, reg, err := newFreebox(cmd)
		if err != nil {
			return err
		}

		info, err := fbx.DiscoverAPI(cmd.Context())
		if err != nil {
			return err
		}

		major, _ := info.MajorVersion()
		ui.NewPrinter(os.Stdout).PrintFields(
			ui.Field{Key: "Device", Value: info.DeviceName},
			ui.Field{Key: "Model", Value: info.BoxModelName},
			ui.Field{Key: "Device type", Value: info.DeviceType},
			ui.Field{Key: "UID", Value: info.UID},
			ui.Field{Key: "API version", Value: info.APIVersion + " (" + major + ")"},
			ui.Field{Key: "API base URL", Value: info.APIBaseURL},
			ui.Field{Key: "API domain", Value: info.APIDomain},
			ui.Field{Key: "HTTPS", Value: fmt.Sprintf("%t (port %d)", info.HTTPSAvailable, info.HTTPSPort)},
		)

		host := fbx.Config().Host
		if reg.GetDevice(host) != nil {
			reg.UpdateDeviceInfo(host, info.UID, info.BoxModel)
			if err := reg.Save(); err != nil {
				logging.Warn("Failed to save device info", zap.Error(err))
			}
		}
		return nil
	},
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "List the permissions granted to this application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			perms, err := fbx.Permissions(ctx)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(perms))
			for name := range perms {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				granted := ui.DeniedMarker + " no"
				if perms.Has(name) {
					granted = ui.GrantedMarker + " yes"
				}
				rows = append(rows, []string{name, granted})
			}
			ui.NewPrinter(os.Stdout).PrintTable([]string{"PERMISSION", "GRANTED"}, rows)
			return nil
		})
	},
}
