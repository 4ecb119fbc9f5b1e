package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/gridtile/internal/ipc"
)

// newClient is replaced in tests.
var newClient = func() daemonClient { return ipc.NewClient() }

type daemonClient interface {
	Reload() error
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	Tile(ipc.TilePayload) (*ipc.PlacementData, error)
	Nudge(ipc.NudgePayload) (*ipc.PlacementData, error)
	Desktop(ipc.DesktopPayload) error
}

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newClient().GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			printStatus(cmd.OutOrStdout(), status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func printStatus(w io.Writer, s *ipc.StatusData) {
	fmt.Fprintf(w, "daemon:    running (up %s)\n", time.Duration(s.UptimeSeconds)*time.Second)
	if s.ConfigPath != "" {
		fmt.Fprintf(w, "config:    %s\n", s.ConfigPath)
	}
	session := "idle"
	if s.Active {
		session = "active"
		if s.PendingCorner != nil {
			session = fmt.Sprintf("active, first corner %d,%d", s.PendingCorner.X, s.PendingCorner.Y)
		}
	}
	fmt.Fprintf(w, "session:   %s\n", session)
	fmt.Fprintf(w, "monitor:   %d\n", s.CurrentMonitor)

	c := s.Counters
	fmt.Fprintf(w, "placements %d  corrections %d  rejected %d  unreachable %d\n",
		c.Placements, c.Corrections, c.Rejected, c.Unreachable)
	fmt.Fprintf(w, "desktop requests %d  monitor changes %d  launches %d  errors %d\n",
		c.DesktopRequests, c.MonitorChanges, c.Launches, c.Errors)
}

func newMonitorsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "monitors",
		Short: "List monitors and their grids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := newClient().GetMonitors()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			printMonitors(cmd.OutOrStdout(), data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func printMonitors(w io.Writer, data *ipc.MonitorsData) {
	u := data.Usable
	fmt.Fprintf(w, "usable area %dx%d+%d+%d\n", u.Width, u.Height, u.X, u.Y)
	for _, m := range data.Monitors {
		primary := ""
		if m.Primary {
			primary = " primary"
		}
		wa := m.Workarea
		state := fmt.Sprintf("grid %dx%d slot %dx%d", m.Columns, m.Rows, m.SlotWidth, m.SlotHeight)
		if !m.Usable {
			state = "unusable"
		}
		fmt.Fprintf(w, "%d %s%s workarea %dx%d+%d+%d %s\n",
			m.ID, m.Name, primary, wa.Width, wa.Height, wa.X, wa.Y, state)
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config reloaded")
			return nil
		},
	}
}

func newTileCmd() *cobra.Command {
	var monitor int
	cmd := &cobra.Command{
		Use:   "tile X1 Y1 X2 Y2",
		Short: "Tile the active window onto a grid rectangle",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := parseInts(args)
			if err != nil {
				return err
			}
			placed, err := newClient().Tile(ipc.TilePayload{
				Monitor: monitor,
				From:    ipc.Cell{X: coords[0], Y: coords[1]},
				To:      ipc.Cell{X: coords[2], Y: coords[3]},
			})
			if err != nil {
				return err
			}
			printPlacement(cmd.OutOrStdout(), placed)
			return nil
		},
	}
	cmd.Flags().IntVarP(&monitor, "monitor", "m", 0, "Monitor id")
	return cmd
}

func newNudgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "nudge move|grow-tl|grow-br up|down|left|right",
		Short:     "Step the active window one grid slot",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"move", "grow-tl", "grow-br"},
		RunE: func(cmd *cobra.Command, args []string) error {
			placed, err := newClient().Nudge(ipc.NudgePayload{Mode: args[0], Direction: args[1]})
			if err != nil {
				return err
			}
			printPlacement(cmd.OutOrStdout(), placed)
			return nil
		},
	}
}

func newDesktopCmd() *cobra.Command {
	var move, send bool
	cmd := &cobra.Command{
		Use:   "desktop N",
		Short: "Switch desktops, or move the active window to one",
		Long: `Switch to desktop N (zero-based).

With --move the active window is sent to desktop N and the view follows it.
With --send the window is sent and the view stays.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid desktop %q", args[0])
			}
			mode := "switch"
			switch {
			case move:
				mode = "follow"
			case send:
				mode = "send"
			}
			return newClient().Desktop(ipc.DesktopPayload{Desktop: n, Mode: mode})
		},
	}
	cmd.Flags().BoolVar(&move, "move", false, "Move the active window and follow it")
	cmd.Flags().BoolVar(&send, "send", false, "Move the active window without switching")
	cmd.MarkFlagsMutuallyExclusive("move", "send")
	return cmd
}

func printPlacement(w io.Writer, p *ipc.PlacementData) {
	if p.Skipped {
		fmt.Fprintf(w, "window 0x%x unchanged\n", p.Window)
		return
	}
	t := p.Target
	fmt.Fprintf(w, "window 0x%x placed at %dx%d+%d+%d", p.Window, t.Width, t.Height, t.X, t.Y)
	if p.Corrected {
		fmt.Fprint(w, " (corrected)")
	}
	if p.Drift != (ipc.Rect{}) {
		d := p.Drift
		fmt.Fprintf(w, " drift %+d,%+d %+dx%+d", d.X, d.Y, d.Width, d.Height)
	}
	fmt.Fprintln(w)
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid grid coordinate %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
