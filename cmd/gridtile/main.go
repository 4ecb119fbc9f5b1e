package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/gridtile/internal/config"
)

var version = "dev"

// configPath is the --config flag shared by every command that loads config.
var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridtile",
		Short: "Hotkey-driven grid tiling for X11",
		Long: `gridtile - grid window tiling for X11

While the trigger key is held, press two keys of the tile key block to pick
the corners of a rectangle on the current monitor's grid. The active window
is moved and resized to cover it. Cursor keys step the window one slot and
number-pad keys switch or move between desktops.`,
		Example: `  # Run the daemon
  gridtile daemon

  # Put the active window on the left half of a 6x4 grid
  gridtile tile 0 0 2 3

  # Show the grid of every monitor
  gridtile grid`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/gridtile/config.yaml)")

	rootCmd.AddCommand(
		newDaemonCmd(),
		newStatusCmd(),
		newMonitorsCmd(),
		newReloadCmd(),
		newTileCmd(),
		newNudgeCmd(),
		newDesktopCmd(),
		newConfigCmd(),
		newGridCmd(),
		newMCPCmd(),
	)

	return rootCmd
}

// loadConfig loads the --config path, or the default location when unset.
func loadConfig() (*config.LoadResult, error) {
	if configPath == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(configPath)
}
