package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/freebox/access"
	"github.com/muurk/freebox/freebox"
	"github.com/muurk/freebox/internal/ui"
)

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(deleteCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Send an authenticated GET request",
	Long: `Send a GET request to a path relative to the API root and print the
result. JSON results are pretty-printed; anything else is written as-is.`,
	Example: `  freebox get system/
  freebox get lan/browser/pub/
  freebox get dl/L0Rpc3F1ZSBkdXIvZmlsZS50eHQ= > file.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return rawCall(cmd, func(ctx context.Context, a *access.Access) (*access.Response, error) {
			return a.Get(ctx, args[0])
		})
	},
}

var postCmd = &cobra.Command{
	Use:     "post <path> [json]",
	Short:   "Send an authenticated POST request",
	Example: `  freebox post lan/wol/pub/ '{"mac":"00:11:22:33:44:55"}'`,
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := jsonArg(args, 1)
		if err != nil {
			return err
		}
		return rawCall(cmd, func(ctx context.Context, a *access.Access) (*access.Response, error) {
			return a.Post(ctx, args[0], body)
		})
	},
}

var putCmd = &cobra.Command{
	Use:     "put <path> <json>",
	Short:   "Send an authenticated PUT request",
	Example: `  freebox put lcd/config/ '{"brightness":50}'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := jsonArg(args, 1)
		if err != nil {
			return err
		}
		return rawCall(cmd, func(ctx context.Context, a *access.Access) (*access.Response, error) {
			return a.Put(ctx, args[0], body)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <path> [json]",
	Short:   "Send an authenticated DELETE request",
	Example: `  freebox delete call/log/42`,
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := jsonArg(args, 1)
		if err != nil {
			return err
		}
		return rawCall(cmd, func(ctx context.Context, a *access.Access) (*access.Response, error) {
			return a.Delete(ctx, args[0], body)
		})
	},
}

// jsonArg returns args[i] as a JSON body, or nil when absent
func jsonArg(args []string, i int) (any, error) {
	if len(args) <= i {
		return nil, nil
	}
	raw := json.RawMessage(args[i])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("request body is not valid JSON: %s", args[i])
	}
	return raw, nil
}

func rawCall(cmd *cobra.Command, call func(ctx context.Context, a *access.Access) (*access.Response, error)) error {
	return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
		resp, err := call(ctx, fbx.Access())
		if err != nil {
			return err
		}

		if !resp.IsJSON() {
			_, err := os.Stdout.Write(resp.Raw)
			return err
		}

		if resp.Partial {
			fmt.Fprintln(os.Stderr, "warning: the Freebox returned partial data")
		}
		if len(resp.Payload) == 0 {
			return nil
		}
		ui.NewPrinter(os.Stdout).PrintJSON(resp.Payload)
		return nil
	})
}
