package config

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig overlays raw onto the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.TriggerKey != nil {
		cfg.TriggerKey = *raw.TriggerKey
	}
	if raw.AlternateTriggerKey != nil {
		cfg.AlternateTriggerKey = *raw.AlternateTriggerKey
	}

	if raw.Monitors != nil {
		monitors := make([]MonitorGrid, len(raw.Monitors))
		for i, m := range raw.Monitors {
			base := MonitorGrid{Columns: 1, Rows: 1}
			if i < len(cfg.Monitors) {
				base = cfg.Monitors[i]
			}
			monitors[i] = MonitorGrid{
				Columns: derefInt(m.Columns, base.Columns),
				Rows:    derefInt(m.Rows, base.Rows),
				Hotkey:  derefInt(m.Hotkey, base.Hotkey),
			}
		}
		cfg.Monitors = monitors
	}

	if raw.TileRows != nil {
		cfg.TileRows = raw.TileRows
	}
	if raw.DesktopKeys != nil {
		cfg.DesktopKeys = raw.DesktopKeys
	}
	if raw.CursorKeys != nil {
		cfg.CursorKeys = CursorKeys{
			Up:    derefInt(raw.CursorKeys.Up, cfg.CursorKeys.Up),
			Down:  derefInt(raw.CursorKeys.Down, cfg.CursorKeys.Down),
			Left:  derefInt(raw.CursorKeys.Left, cfg.CursorKeys.Left),
			Right: derefInt(raw.CursorKeys.Right, cfg.CursorKeys.Right),
		}
	}
	if raw.Desktops != nil {
		cfg.Desktops = *raw.Desktops
	}
	if raw.NudgePx != nil {
		cfg.NudgePx = *raw.NudgePx
	}
	if raw.PollDelayMs != nil {
		cfg.PollDelayMs = *raw.PollDelayMs
	}

	if raw.Launchers != nil {
		launchers := make([]Launcher, 0, len(raw.Launchers))
		for i, l := range raw.Launchers {
			if l.Key == nil {
				return nil, &ValidationError{Path: fmt.Sprintf("launchers.%d.key", i), Err: fmt.Errorf("key is required")}
			}
			launchers = append(launchers, Launcher{
				Key:       *l.Key,
				Command:   derefString(l.Command, ""),
				Args:      l.Args,
				Modifiers: derefString(l.Modifiers, "none"),
			})
		}
		cfg.Launchers = launchers
	}

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	if raw.LogOverwrite != nil {
		cfg.LogOverwrite = *raw.LogOverwrite
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
