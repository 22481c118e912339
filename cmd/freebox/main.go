// Freebox is a command line client for the Freebox OS local API.
//
// It pairs with a Freebox once, stores the granted application token in
// the user configuration file, and then runs authenticated calls with it.
//
// Usage:
//
//	freebox register            # pair, confirm on the Freebox front panel
//	freebox system              # show hardware and firmware information
//	freebox get lan/browser/pub # raw authenticated call
//
// See 'freebox --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/internal/logging"
	"github.com/muurk/freebox/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", access.ShortMessage(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "freebox",
	Short: "Freebox OS local API client",
	Long: `A command line client for the Freebox OS local API.

Run 'freebox register' once to pair with the Freebox: the request must be
confirmed on the Freebox front panel. The granted application token is
stored in the configuration file and used by every other command.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(flags.logLevel)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.host, "host", "", "Freebox host name or address (default mafreebox.freebox.fr)")
	pf.IntVar(&flags.port, "port", 0, "API port (default 443, or 80 with --http)")
	pf.BoolVar(&flags.plainHTTP, "http", false, "Use plain HTTP instead of HTTPS")
	pf.StringVar(&flags.apiVersion, "api", "", "API version segment: latest, v8, ... or server to ask the box")
	pf.DurationVar(&flags.timeout, "timeout", 0, "HTTP request timeout (default 10s)")
	pf.BoolVar(&flags.insecure, "insecure", false, "Skip TLS certificate verification")
	pf.StringVar(&flags.caFile, "ca-file", "", "PEM bundle to trust in addition to the system roots")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("freebox %s\n", version.Full())
	},
}
