package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMonitorGrid struct {
	Columns *int `yaml:"columns"`
	Rows    *int `yaml:"rows"`
	Hotkey  *int `yaml:"hotkey"`
}

type RawCursorKeys struct {
	Up    *int `yaml:"up"`
	Down  *int `yaml:"down"`
	Left  *int `yaml:"left"`
	Right *int `yaml:"right"`
}

type RawLauncher struct {
	Key       *int     `yaml:"key"`
	Command   *string  `yaml:"command"`
	Args      []string `yaml:"args"`
	Modifiers *string  `yaml:"modifiers"`
}

type RawConfig struct {
	Include             IncludeList      `yaml:"include"`
	TriggerKey          *int             `yaml:"trigger_key"`
	AlternateTriggerKey *int             `yaml:"alternate_trigger_key"`
	Monitors            []RawMonitorGrid `yaml:"monitors"`
	TileRows            [][]int          `yaml:"tile_rows"`
	DesktopKeys         map[int]int      `yaml:"desktop_keys"`
	CursorKeys          *RawCursorKeys   `yaml:"cursor_keys"`
	Desktops            *int             `yaml:"desktops"`
	NudgePx             *int             `yaml:"nudge_px"`
	PollDelayMs         *int             `yaml:"poll_delay_ms"`
	Launchers           []RawLauncher    `yaml:"launchers"`
	Display             *string          `yaml:"display"`
	LogLevel            *string          `yaml:"log_level"`
	LogFile             *string          `yaml:"log_file"`
	LogOverwrite        *bool            `yaml:"log_overwrite"`
}

// merge overlays scalars and per-index monitor fields. Lists of keycodes and
// launchers are replaced whole; desktop_keys merges per keycode.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.TriggerKey != nil {
		out.TriggerKey = overlay.TriggerKey
	}
	if overlay.AlternateTriggerKey != nil {
		out.AlternateTriggerKey = overlay.AlternateTriggerKey
	}
	if overlay.Monitors != nil {
		merged := make([]RawMonitorGrid, max(len(out.Monitors), len(overlay.Monitors)))
		copy(merged, out.Monitors)
		for i, m := range overlay.Monitors {
			merged[i] = mergeRawMonitorGrid(merged[i], m)
		}
		out.Monitors = merged
	}
	if overlay.TileRows != nil {
		out.TileRows = overlay.TileRows
	}
	if overlay.DesktopKeys != nil {
		merged := make(map[int]int, len(out.DesktopKeys)+len(overlay.DesktopKeys))
		for code, desktop := range out.DesktopKeys {
			merged[code] = desktop
		}
		for code, desktop := range overlay.DesktopKeys {
			merged[code] = desktop
		}
		out.DesktopKeys = merged
	}
	if overlay.CursorKeys != nil {
		base := RawCursorKeys{}
		if out.CursorKeys != nil {
			base = *out.CursorKeys
		}
		ck := mergeRawCursorKeys(base, *overlay.CursorKeys)
		out.CursorKeys = &ck
	}
	if overlay.Desktops != nil {
		out.Desktops = overlay.Desktops
	}
	if overlay.NudgePx != nil {
		out.NudgePx = overlay.NudgePx
	}
	if overlay.PollDelayMs != nil {
		out.PollDelayMs = overlay.PollDelayMs
	}
	if overlay.Launchers != nil {
		out.Launchers = overlay.Launchers
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != nil {
		out.LogFile = overlay.LogFile
	}
	if overlay.LogOverwrite != nil {
		out.LogOverwrite = overlay.LogOverwrite
	}

	return out
}

func mergeRawMonitorGrid(base RawMonitorGrid, overlay RawMonitorGrid) RawMonitorGrid {
	out := base
	if overlay.Columns != nil {
		out.Columns = overlay.Columns
	}
	if overlay.Rows != nil {
		out.Rows = overlay.Rows
	}
	if overlay.Hotkey != nil {
		out.Hotkey = overlay.Hotkey
	}
	return out
}

func mergeRawCursorKeys(base RawCursorKeys, overlay RawCursorKeys) RawCursorKeys {
	out := base
	if overlay.Up != nil {
		out.Up = overlay.Up
	}
	if overlay.Down != nil {
		out.Down = overlay.Down
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return out
}
