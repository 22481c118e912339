package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/freebox/api"
	"github.com/muurk/freebox/freebox"
	"github.com/muurk/freebox/internal/ui"
)

var (
	assumeYes bool
	lanIface  string
	fsListAll bool
)

func init() {
	systemRebootCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	systemCmd.AddCommand(systemRebootCmd)
	rootCmd.AddCommand(systemCmd)

	hostsCmd.Flags().StringVar(&lanIface, "iface", api.DefaultInterface, "LAN browser interface")
	rootCmd.AddCommand(hostsCmd)

	callsDeleteAllCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	callsCmd.AddCommand(callsMarkReadCmd)
	callsCmd.AddCommand(callsDeleteAllCmd)
	rootCmd.AddCommand(callsCmd)

	fsListCmd.Flags().BoolVarP(&fsListAll, "all", "a", false, "Include hidden files")
	fsCmd.AddCommand(fsListCmd)
	fsCmd.AddCommand(fsTasksCmd)
	rootCmd.AddCommand(fsCmd)
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show Freebox hardware and firmware information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			sys, err := fbx.System.Config(ctx)
			if err != nil {
				return err
			}

			fields := []ui.Field{
				{Key: "Firmware", Value: sys.FirmwareVersion},
				{Key: "Board", Value: sys.BoardName},
				{Key: "Serial", Value: sys.Serial},
				{Key: "MAC", Value: sys.MAC},
				{Key: "Uptime", Value: sys.Uptime},
				{Key: "Disk", Value: sys.DiskStatus},
			}
			if sys.ModelInfo != nil {
				fields = append([]ui.Field{{Key: "Model", Value: sys.ModelInfo.PrettyName}}, fields...)
			}
			for _, s := range sys.Sensors {
				fields = append(fields, ui.Field{Key: s.Name, Value: fmt.Sprintf("%d °C", s.Value)})
			}
			for _, f := range sys.Fans {
				fields = append(fields, ui.Field{Key: f.Name, Value: fmt.Sprintf("%d rpm", f.Value)})
			}

			ui.NewPrinter(os.Stdout).PrintFields(fields...)
			return nil
		})
	},
}

var systemRebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the Freebox",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes && !ui.Confirm(os.Stdin, os.Stdout, "REBOOT", []string{
			"The Freebox and every connected device will lose connectivity",
			"Calls in progress will be dropped",
		}, "reboot") {
			return nil
		}

		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			if err := fbx.System.Reboot(ctx); err != nil {
				return err
			}
			ui.NewPrinter(os.Stdout).PrintSuccess("Reboot requested")
			return nil
		})
	},
}

var hostsCmd = &cobra.Command{
	Use:   "hosts",
	Short: "List devices seen on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			hosts, err := fbx.LAN.Hosts(ctx, lanIface)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(hosts))
			for _, h := range hosts {
				rows = append(rows, []string{
					h.PrimaryName,
					h.L2Ident.ID,
					hostAddress(h),
					h.VendorName,
					activeMarker(h.Active),
				})
			}
			ui.NewPrinter(os.Stdout).PrintTable([]string{"NAME", "MAC", "ADDRESS", "VENDOR", "ACTIVE"}, rows)
			return nil
		})
	},
}

// hostAddress returns the first active IPv4 address of h, or any address
func hostAddress(h api.LANHost) string {
	fallback := ""
	for _, l3 := range h.L3Connectivities {
		if l3.Active && l3.AF == "ipv4" {
			return l3.Addr
		}
		if fallback == "" {
			fallback = l3.Addr
		}
	}
	return fallback
}

func activeMarker(active bool) string {
	if active {
		return ui.GrantedMarker
	}
	return ui.DeniedMarker
}

var callsCmd = &cobra.Command{
	Use:   "calls",
	Short: "List the call log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			calls, err := fbx.Call.Log(ctx)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(calls))
			for _, c := range calls {
				name := c.Name
				if name == "" {
					name = c.Number
				}
				unread := ""
				if c.New {
					unread = ui.GrantedMarker
				}
				rows = append(rows, []string{
					strconv.Itoa(c.ID),
					time.Unix(c.Datetime, 0).Format("2006-01-02 15:04"),
					c.Type,
					name,
					(time.Duration(c.Duration) * time.Second).String(),
					unread,
				})
			}
			ui.NewPrinter(os.Stdout).PrintTable([]string{"ID", "DATE", "TYPE", "CALLER", "DURATION", "NEW"}, rows)
			return nil
		})
	},
}

var callsMarkReadCmd = &cobra.Command{
	Use:   "mark-read",
	Short: "Mark every call as read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			return fbx.Call.MarkAllRead(ctx)
		})
	},
}

var callsDeleteAllCmd = &cobra.Command{
	Use:   "delete-all",
	Short: "Delete the whole call log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !assumeYes && !ui.Confirm(os.Stdin, os.Stdout, "DELETE CALL LOG", []string{
			"Every call log entry will be deleted from the Freebox",
		}, "delete") {
			return nil
		}
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			return fbx.Call.DeleteAll(ctx)
		})
	},
}

var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Browse the Freebox storage",
}

var fsListCmd = &cobra.Command{
	Use:     "ls [path]",
	Short:   "List a directory",
	Example: `  freebox fs ls /Disque\ dur/Vidéos`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}

		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			entries, err := fbx.FS.List(ctx, path, api.ListOptions{RemoveHidden: !fsListAll})
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				if e.Name == "." || e.Name == ".." {
					continue
				}
				size := strconv.FormatInt(e.Size, 10)
				name := e.Name
				if e.IsDir() {
					size = "-"
					name += "/"
				}
				rows = append(rows, []string{
					time.Unix(e.Modification, 0).Format("2006-01-02 15:04"),
					size,
					name,
				})
			}
			ui.NewPrinter(os.Stdout).PrintTable([]string{"MODIFIED", "SIZE", "NAME"}, rows)
			return nil
		})
	},
}

var fsTasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Show running file operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFreebox(cmd, func(ctx context.Context, fbx *freebox.Freebox) error {
			tasks, err := fbx.FS.Tasks(ctx)
			if err != nil {
				return err
			}

			printer := ui.NewPrinter(os.Stdout)
			if len(tasks) == 0 {
				printer.Println("No file tasks")
				return nil
			}

			bar := ui.NewProgressBar(ui.GetTerminalWidth())
			for _, t := range tasks {
				printer.Println(fmt.Sprintf("#%-4d %-8s %-8s %s", t.ID, t.Type, t.State, bar.Render(t.Progress)))
				if t.Error != "" && t.Error != "none" {
					printer.Println("      " + t.Error)
				}
			}
			return nil
		})
	},
}
