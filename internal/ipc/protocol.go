package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandTile        CommandType = "TILE"
	CommandNudge       CommandType = "NUDGE"
	CommandDesktop     CommandType = "DESKTOP"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Counters are the daemon's running totals.
type Counters struct {
	Placements      int `json:"placements"`
	Corrections     int `json:"corrections"`
	Rejected        int `json:"rejected"`
	Unreachable     int `json:"unreachable"`
	DesktopRequests int `json:"desktop_requests"`
	MonitorChanges  int `json:"monitor_changes"`
	Launches        int `json:"launches"`
	Errors          int `json:"errors"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Active         bool     `json:"active"`
	PendingCorner  *Cell    `json:"pending_corner,omitempty"`
	CurrentMonitor int      `json:"current_monitor"`
	Counters       Counters `json:"counters"`
	UptimeSeconds  int64    `json:"uptime_seconds"`
	DaemonRunning  bool     `json:"daemon_running"`
	ConfigPath     string   `json:"config_path,omitempty"`
}

// Cell is a grid coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect is a pixel rectangle in root coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Primary    bool   `json:"primary"`
	Bounds     Rect   `json:"bounds"`
	Workarea   Rect   `json:"workarea"`
	Columns    int    `json:"columns"`
	Rows       int    `json:"rows"`
	SlotWidth  int    `json:"slot_width"`
	SlotHeight int    `json:"slot_height"`
	Usable     bool   `json:"usable"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
	Usable   Rect          `json:"usable"`
}

// TilePayload selects a grid rectangle on one monitor.
type TilePayload struct {
	Monitor int  `json:"monitor"`
	From    Cell `json:"from"`
	To      Cell `json:"to"`
}

// NudgePayload steps the active window one slot.
type NudgePayload struct {
	Mode      string `json:"mode"`      // move, grow-tl, grow-br
	Direction string `json:"direction"` // up, down, left, right
}

// DesktopPayload switches to or moves the active window to a desktop.
type DesktopPayload struct {
	Desktop int    `json:"desktop"`
	Mode    string `json:"mode,omitempty"` // switch (default), follow, send
}

// PlacementData reports a completed placement.
type PlacementData struct {
	Window    uint32 `json:"window"`
	Target    Rect   `json:"target"`
	Corrected bool   `json:"corrected"`
	Drift     Rect   `json:"drift"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
