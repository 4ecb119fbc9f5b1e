package mcp

import "github.com/1broseidon/gridtile/internal/ipc"

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// TileWindowInput is the input for the tile_window tool.
type TileWindowInput struct {
	Monitor int `json:"monitor,omitempty" jsonschema:"Monitor id (0 is the primary monitor)"`
	FromX   int `json:"from_x" jsonschema:"Grid column of the first corner"`
	FromY   int `json:"from_y" jsonschema:"Grid row of the first corner"`
	ToX     int `json:"to_x" jsonschema:"Grid column of the opposite corner"`
	ToY     int `json:"to_y" jsonschema:"Grid row of the opposite corner"`
}

// NudgeWindowInput is the input for the nudge_window tool.
type NudgeWindowInput struct {
	Mode      string `json:"mode,omitempty" jsonschema:"One of move, grow-tl, grow-br (default: move)"`
	Direction string `json:"direction" jsonschema:"One of up, down, left, right"`
}

// SwitchDesktopInput is the input for the switch_desktop tool.
type SwitchDesktopInput struct {
	Desktop int    `json:"desktop" jsonschema:"Zero-based desktop index"`
	Mode    string `json:"mode,omitempty" jsonschema:"switch (default), follow (move the active window and switch), or send (move the active window only)"`
}

// ReloadConfigInput is the input for the reload_config tool.
type ReloadConfigInput struct{}

// PlacementOutput is the output for tools that place the active window.
type PlacementOutput struct {
	Window    uint32   `json:"window"`
	Target    ipc.Rect `json:"target"`
	Corrected bool     `json:"corrected"`
	Drift     ipc.Rect `json:"drift"`
	Skipped   bool     `json:"skipped"`
}

// SwitchDesktopOutput is the output for the switch_desktop tool.
type SwitchDesktopOutput struct {
	Desktop int    `json:"desktop"`
	Mode    string `json:"mode"`
}

func placementOutput(p *ipc.PlacementData) PlacementOutput {
	if p == nil {
		return PlacementOutput{}
	}
	return PlacementOutput{
		Window:    p.Window,
		Target:    p.Target,
		Corrected: p.Corrected,
		Drift:     p.Drift,
		Skipped:   p.Skipped,
	}
}
