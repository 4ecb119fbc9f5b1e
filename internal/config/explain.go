package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	trigger_key
//	alternate_trigger_key
//	monitors
//	monitors.<id>.columns
//	tile_rows
//	tile_rows.<y>
//	desktop_keys
//	desktop_keys.<keycode>
//	cursor_keys.up
//	desktops
//	nudge_px
//	poll_delay_ms
//	launchers.<n>.command
//	log_level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	unknown := fmt.Errorf("unknown path: %s", path)

	scalar := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, unknown
		}
		return v, nil
	}

	switch parts[0] {
	case "trigger_key":
		return scalar(cfg.TriggerKey)
	case "alternate_trigger_key":
		return scalar(cfg.AlternateTriggerKey)
	case "desktops":
		return scalar(cfg.Desktops)
	case "nudge_px":
		return scalar(cfg.NudgePx)
	case "poll_delay_ms":
		return scalar(cfg.PollDelayMs)
	case "display":
		return scalar(cfg.Display)
	case "log_level":
		return scalar(cfg.LogLevel)
	case "log_file":
		return scalar(cfg.LogFile)
	case "log_overwrite":
		return scalar(cfg.LogOverwrite)

	case "monitors":
		if len(parts) == 1 {
			return cfg.Monitors, nil
		}
		i, err := index(parts[1], len(cfg.Monitors))
		if err != nil {
			return nil, unknown
		}
		m := cfg.Monitors[i]
		if len(parts) == 2 {
			return m, nil
		}
		if len(parts) != 3 {
			return nil, unknown
		}
		switch parts[2] {
		case "columns":
			return m.Columns, nil
		case "rows":
			return m.Rows, nil
		case "hotkey":
			return m.Hotkey, nil
		}
		return nil, unknown

	case "tile_rows":
		if len(parts) == 1 {
			return cfg.TileRows, nil
		}
		y, err := index(parts[1], len(cfg.TileRows))
		if err != nil || len(parts) > 3 {
			return nil, unknown
		}
		if len(parts) == 2 {
			return cfg.TileRows[y], nil
		}
		x, err := index(parts[2], len(cfg.TileRows[y]))
		if err != nil {
			return nil, unknown
		}
		return cfg.TileRows[y][x], nil

	case "desktop_keys":
		if len(parts) == 1 {
			return cfg.DesktopKeys, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		code, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, unknown
		}
		desktop, ok := cfg.DesktopKeys[code]
		if !ok {
			return nil, unknown
		}
		return desktop, nil

	case "cursor_keys":
		if len(parts) == 1 {
			return cfg.CursorKeys, nil
		}
		if len(parts) != 2 {
			return nil, unknown
		}
		switch parts[1] {
		case "up":
			return cfg.CursorKeys.Up, nil
		case "down":
			return cfg.CursorKeys.Down, nil
		case "left":
			return cfg.CursorKeys.Left, nil
		case "right":
			return cfg.CursorKeys.Right, nil
		}
		return nil, unknown

	case "launchers":
		if len(parts) == 1 {
			return cfg.Launchers, nil
		}
		i, err := index(parts[1], len(cfg.Launchers))
		if err != nil {
			return nil, unknown
		}
		l := cfg.Launchers[i]
		if len(parts) == 2 {
			return l, nil
		}
		if len(parts) != 3 {
			return nil, unknown
		}
		switch parts[2] {
		case "key":
			return l.Key, nil
		case "command":
			return l.Command, nil
		case "args":
			return l.Args, nil
		case "modifiers":
			return l.Modifiers, nil
		}
		return nil, unknown
	}

	return nil, unknown
}

func index(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range", i)
	}
	return i, nil
}
