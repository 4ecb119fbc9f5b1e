package x11

import (
	"errors"

	"github.com/BurntSushi/xgb"
)

// ErrConnectionClosed is returned once the X server connection has gone away.
var ErrConnectionClosed = errors.New("x11 connection closed")

// NextEvent blocks until the server delivers an event or an error.
func (c *Connection) NextEvent() (xgb.Event, error) {
	ev, xerr := c.XUtil.Conn().WaitForEvent()
	if ev == nil && xerr == nil {
		return nil, ErrConnectionClosed
	}
	if xerr != nil {
		return nil, xerr
	}
	return ev, nil
}
