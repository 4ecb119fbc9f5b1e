package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/gridtile/internal/ipc"
	"github.com/1broseidon/gridtile/internal/platform"
	"github.com/1broseidon/gridtile/internal/preview"
	"github.com/1broseidon/gridtile/internal/tiling"
)

func newGridCmd() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Render each monitor's grid",
		Long: `Render each monitor's grid with cell coordinates.

Monitors come from the running daemon. When no daemon is running the display
is probed directly using the grid sizes from the config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrid()
			if err != nil {
				return err
			}
			if width <= 0 {
				width = preview.TerminalWidth(os.Stdout)
			}
			fmt.Fprintln(cmd.OutOrStdout(), preview.Render(g, width))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Render width in columns (default: terminal width)")
	return cmd
}

func loadGrid() (*tiling.Grid, error) {
	if data, err := newClient().GetMonitors(); err == nil {
		return gridFromMonitors(data), nil
	}

	res, err := loadConfig()
	if err != nil {
		return nil, err
	}
	backend, err := platform.NewLinuxBackendFromDisplay(res.Config.Display)
	if err != nil {
		return nil, fmt.Errorf("daemon not running and display unavailable: %w", err)
	}
	defer backend.Disconnect()

	outputs, err := backend.Outputs()
	if err != nil {
		return nil, err
	}
	usable, err := backend.UsableArea()
	if err != nil {
		return nil, err
	}
	screen, err := backend.ScreenSize()
	if err != nil {
		return nil, err
	}
	return tiling.Build(outputs, usable, screen, res.Config.GridSpecs()), nil
}

func gridFromMonitors(data *ipc.MonitorsData) *tiling.Grid {
	g := &tiling.Grid{Usable: platformRect(data.Usable)}
	for _, m := range data.Monitors {
		g.Monitors = append(g.Monitors, tiling.Monitor{
			ID:       m.ID,
			Name:     m.Name,
			Primary:  m.Primary,
			Bounds:   platformRect(m.Bounds),
			Workarea: platformRect(m.Workarea),
			Lattice: tiling.Lattice{
				Columns:    m.Columns,
				Rows:       m.Rows,
				SlotWidth:  m.SlotWidth,
				SlotHeight: m.SlotHeight,
			},
		})
	}
	return g
}

func platformRect(r ipc.Rect) platform.Rect {
	return platform.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
