package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/gridtile/internal/keys"
	"github.com/1broseidon/gridtile/internal/tiling"
	"gopkg.in/yaml.v3"
)

const (
	minKeycode = 8
	maxKeycode = 255
	maxDesktop = 36
	maxPollMs  = 1000
)

// MonitorGrid is the lattice and selection hotkey for one monitor slot.
type MonitorGrid struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
	Hotkey  int `yaml:"hotkey"`
}

// CursorKeys names the keycodes used for nudging.
type CursorKeys struct {
	Up    int `yaml:"up"`
	Down  int `yaml:"down"`
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
}

// Launcher starts a program while the trigger is held.
type Launcher struct {
	Key       int      `yaml:"key"`
	Command   string   `yaml:"command"`
	Args      []string `yaml:"args,omitempty"`
	Modifiers string   `yaml:"modifiers"`
}

type Config struct {
	TriggerKey          int           `yaml:"trigger_key"`
	AlternateTriggerKey int           `yaml:"alternate_trigger_key"`
	Monitors            []MonitorGrid `yaml:"monitors"`
	TileRows            [][]int       `yaml:"tile_rows"`
	DesktopKeys         map[int]int   `yaml:"desktop_keys"`
	CursorKeys          CursorKeys    `yaml:"cursor_keys"`
	Desktops            int           `yaml:"desktops"`
	NudgePx             int           `yaml:"nudge_px"`
	PollDelayMs         int           `yaml:"poll_delay_ms"`
	Launchers           []Launcher    `yaml:"launchers,omitempty"`
	Display             string        `yaml:"display,omitempty"`
	LogLevel            string        `yaml:"log_level"`
	LogFile             string        `yaml:"log_file,omitempty"`
	LogOverwrite        bool          `yaml:"log_overwrite"`
}

func DefaultConfig() *Config {
	monitors := make([]MonitorGrid, tiling.MaxMonitors)
	for i := range monitors {
		monitors[i] = MonitorGrid{Columns: 6, Rows: 4, Hotkey: 121 + i}
	}

	var tileRows [][]int
	for _, row := range keys.DefaultTileRows() {
		codes := make([]int, len(row))
		for x, code := range row {
			codes[x] = int(code)
		}
		tileRows = append(tileRows, codes)
	}

	desktopKeys := make(map[int]int)
	for code, desktop := range keys.DefaultDesktopKeys() {
		desktopKeys[int(code)] = desktop
	}

	return &Config{
		TriggerKey:   66, // Caps Lock
		Monitors:     monitors,
		TileRows:     tileRows,
		DesktopKeys:  desktopKeys,
		CursorKeys:   CursorKeys{Up: 111, Down: 116, Left: 113, Right: 114},
		Desktops:     9,
		NudgePx:      30,
		PollDelayMs:  50,
		LogLevel:     "debug",
		LogOverwrite: true,
	}
}

// PollDelay is the pause after each handled event.
func (c *Config) PollDelay() time.Duration {
	return time.Duration(c.PollDelayMs) * time.Millisecond
}

// GridSpecs returns the lattice size per monitor id.
func (c *Config) GridSpecs() []tiling.Spec {
	specs := make([]tiling.Spec, 0, len(c.Monitors))
	for _, m := range c.Monitors {
		specs = append(specs, tiling.Spec{Columns: m.Columns, Rows: m.Rows})
	}
	return specs
}

// Keymap builds the classifier's keycode tables.
func (c *Config) Keymap() keys.Keymap {
	km := keys.Keymap{
		Trigger:    keys.Keycode(c.TriggerKey),
		AltTrigger: keys.Keycode(c.AlternateTriggerKey),
		Monitors:   make(map[keys.Keycode]int),
		Desktops:   make(map[keys.Keycode]int),
		Cursors:    make(map[keys.Keycode]keys.Direction),
		Launchers:  make(map[keys.Keycode]keys.ModRule),
	}
	for id, m := range c.Monitors {
		if m.Hotkey != 0 {
			km.Monitors[keys.Keycode(m.Hotkey)] = id
		}
	}

	rows := make([][]keys.Keycode, len(c.TileRows))
	for y, row := range c.TileRows {
		for _, code := range row {
			rows[y] = append(rows[y], keys.Keycode(code))
		}
	}
	km.Tiles = keys.TilesFromRows(rows)

	for code, desktop := range c.DesktopKeys {
		km.Desktops[keys.Keycode(code)] = desktop
	}
	km.Cursors[keys.Keycode(c.CursorKeys.Up)] = keys.Up
	km.Cursors[keys.Keycode(c.CursorKeys.Down)] = keys.Down
	km.Cursors[keys.Keycode(c.CursorKeys.Left)] = keys.Left
	km.Cursors[keys.Keycode(c.CursorKeys.Right)] = keys.Right

	for _, l := range c.Launchers {
		km.Launchers[keys.Keycode(l.Key)] = launcherRule(l.Modifiers)
	}
	return km
}

func launcherRule(s string) keys.ModRule {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return keys.RuleNone
	}
	return keys.ModRule(s)
}

// Save writes the config to path as YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	roles := make(map[int]string)
	claim := func(path string, code int) error {
		if code < minKeycode || code > maxKeycode {
			return &ValidationError{Path: path, Err: fmt.Errorf("keycode %d must be between %d and %d", code, minKeycode, maxKeycode)}
		}
		if prev, ok := roles[code]; ok {
			return &ValidationError{Path: path, Err: fmt.Errorf("keycode %d is already used by %s", code, prev)}
		}
		roles[code] = path
		return nil
	}

	if err := claim("trigger_key", c.TriggerKey); err != nil {
		return err
	}
	if c.AlternateTriggerKey != 0 {
		if err := claim("alternate_trigger_key", c.AlternateTriggerKey); err != nil {
			return err
		}
	}

	if len(c.Monitors) == 0 {
		return &ValidationError{Path: "monitors", Err: fmt.Errorf("at least one monitor grid is required")}
	}
	if len(c.Monitors) > tiling.MaxMonitors {
		return &ValidationError{Path: "monitors", Err: fmt.Errorf("at most %d monitors are supported", tiling.MaxMonitors)}
	}
	for i, m := range c.Monitors {
		path := fmt.Sprintf("monitors.%d", i)
		if m.Columns < 1 {
			return &ValidationError{Path: path + ".columns", Err: fmt.Errorf("columns must be >= 1")}
		}
		if m.Rows < 1 {
			return &ValidationError{Path: path + ".rows", Err: fmt.Errorf("rows must be >= 1")}
		}
		if m.Hotkey != 0 {
			if err := claim(path+".hotkey", m.Hotkey); err != nil {
				return err
			}
		}
	}

	if len(c.TileRows) == 0 {
		return &ValidationError{Path: "tile_rows", Err: fmt.Errorf("tile_rows must not be empty")}
	}
	for y, row := range c.TileRows {
		for x, code := range row {
			if err := claim(fmt.Sprintf("tile_rows.%d.%d", y, x), code); err != nil {
				return err
			}
		}
	}

	for _, code := range sortedKeys(c.DesktopKeys) {
		path := fmt.Sprintf("desktop_keys.%d", code)
		desktop := c.DesktopKeys[code]
		if desktop < 0 || desktop >= maxDesktop {
			return &ValidationError{Path: path, Err: fmt.Errorf("desktop must be between 0 and %d", maxDesktop-1)}
		}
		if err := claim(path, code); err != nil {
			return err
		}
	}

	cursors := []struct {
		path string
		code int
	}{
		{"cursor_keys.up", c.CursorKeys.Up},
		{"cursor_keys.down", c.CursorKeys.Down},
		{"cursor_keys.left", c.CursorKeys.Left},
		{"cursor_keys.right", c.CursorKeys.Right},
	}
	for _, ck := range cursors {
		if err := claim(ck.path, ck.code); err != nil {
			return err
		}
	}

	if c.Desktops < 0 || c.Desktops > maxDesktop {
		return &ValidationError{Path: "desktops", Err: fmt.Errorf("desktops must be between 0 and %d", maxDesktop)}
	}
	if c.NudgePx < 0 {
		return &ValidationError{Path: "nudge_px", Err: fmt.Errorf("nudge_px must be >= 0")}
	}
	if c.PollDelayMs < 0 || c.PollDelayMs > maxPollMs {
		return &ValidationError{Path: "poll_delay_ms", Err: fmt.Errorf("poll_delay_ms must be between 0 and %d", maxPollMs)}
	}

	for i, l := range c.Launchers {
		path := fmt.Sprintf("launchers.%d", i)
		if strings.TrimSpace(l.Command) == "" {
			return &ValidationError{Path: path + ".command", Err: fmt.Errorf("command must not be empty")}
		}
		if !launcherRule(l.Modifiers).Valid() {
			return &ValidationError{Path: path + ".modifiers", Err: fmt.Errorf("modifiers must be one of: none, shift, control, alt, super, any")}
		}
		if err := claim(path+".key", l.Key); err != nil {
			return err
		}
	}

	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}
	return nil
}

func (c *Config) validationWarnings() []string {
	var warnings []string

	widest := 0
	for _, row := range c.TileRows {
		widest = max(widest, len(row))
	}
	for i, m := range c.Monitors {
		if m.Columns > widest*2 {
			warnings = append(warnings, fmt.Sprintf("monitors.%d has %d columns but tile_rows only reach %d (%d with shift)", i, m.Columns, widest, widest*2))
		}
		if m.Rows > len(c.TileRows) {
			warnings = append(warnings, fmt.Sprintf("monitors.%d has %d rows but tile_rows has %d", i, m.Rows, len(c.TileRows)))
		}
	}

	if c.Desktops > 0 {
		for _, code := range sortedKeys(c.DesktopKeys) {
			if c.DesktopKeys[code] >= c.Desktops {
				warnings = append(warnings, fmt.Sprintf("desktop_keys.%d targets desktop %d but only %d desktops are configured", code, c.DesktopKeys[code], c.Desktops))
			}
		}
	}
	return warnings
}
