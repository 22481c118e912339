package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/freebox/freebox"
	"github.com/muurk/freebox/internal/ui"
)

// consoleEscape detaches from a VM console (Ctrl-])
const consoleEscape = 0x1d

func init() {
	vmCmd.AddCommand(vmListCmd)
	vmCmd.AddCommand(vmConsoleCmd)
	rootCmd.AddCommand(vmCmd)
	rootCmd.AddCommand(eventsCmd)
}

var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Manage virtual machines",
}

var vmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List virtual machines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			vms, err := fbx.VM.List(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(vms))
			for _, vm := range vms {
				rows = append(rows, []string{
					strconv.Itoa(vm.ID),
					vm.Name,
					vm.Status,
					strconv.Itoa(vm.VCPUs),
					strconv.Itoa(vm.Memory) + " MiB",
				})
			}
			ui.NewPrinter(os.Stdout).PrintTable([]string{"ID", "NAME", "STATUS", "VCPUS", "MEMORY"}, rows)
			return nil
		})
	},
}

var vmConsoleCmd = &cobra.Command{
	Use:   "console <id>",
	Short: "Attach to a virtual machine serial console",
	Long: `Attach the terminal to the serial console of a virtual machine.

Press Ctrl-] to detach.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid VM id %q", args[0])
		}

		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			console, err := fbx.VM.Console(ctx, id)
			if err != nil {
				return err
			}
			defer func() { _ = console.Close() }()

			fd := int(os.Stdin.Fd())
			if term.IsTerminal(fd) {
				state, err := term.MakeRaw(fd)
				if err != nil {
					return err
				}
				defer func() { _ = term.Restore(fd, state) }()
			}

			fmt.Fprintf(os.Stderr, "Connected to VM %d console, press Ctrl-] to detach\r\n", id)
			return attach(ctx, console, os.Stdin, os.Stdout)
		})
	},
}

// attach copies console output to out and in to the console until the
// console closes, in yields the escape byte, or ctx is done
func attach(ctx context.Context, console io.ReadWriter, in io.Reader, out io.Writer) error {
	done := make(chan error, 2)

	go func() {
		_, err := io.Copy(out, console)
		done <- err
	}()

	go func() {
		buf := make([]byte, 256)
		for {
			n, err := in.Read(buf)
			if n > 0 {
				chunk := buf[:n]
				if i := bytes.IndexByte(chunk, consoleEscape); i >= 0 {
					if i > 0 {
						_, _ = console.Write(chunk[:i])
					}
					done <- nil
					return
				}
				if _, werr := console.Write(chunk); werr != nil {
					done <- werr
					return
				}
			}
			if err != nil {
				if err == io.EOF {
					err = nil
				}
				done <- err
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-done:
		return err
	}
}

var eventsCmd = &cobra.Command{
	Use:   "events <name>...",
	Short: "Print Freebox notifications as they arrive",
	Long: `Subscribe to Freebox notifications and print one JSON object per line
until interrupted.`,
	Example: `  freebox events vm_state_changed
  freebox events lan_host_l3addr_reachable lan_host_l3addr_unreachable`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			sub, err := fbx.Events.Subscribe(ctx, args...)
			if err != nil {
				return err
			}
			defer func() { _ = sub.Close() }()

			enc := json.NewEncoder(os.Stdout)
			for ev := range sub.C() {
				if err := enc.Encode(ev); err != nil {
					return err
				}
			}
			if ctx.Err() != nil {
				return nil
			}
			return sub.Err()
		})
	},
}
