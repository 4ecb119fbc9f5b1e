package x11

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// GrabKey grabs code on the root window under every modifier combination,
// so the key is delivered regardless of what else is held.
func (c *Connection) GrabKey(code uint8) error {
	err := xproto.GrabKeyChecked(
		c.XUtil.Conn(),
		true,
		c.Root,
		xproto.ModMaskAny,
		xproto.Keycode(code),
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Check()
	if err != nil {
		return fmt.Errorf("grab key %d: %w", code, err)
	}
	return nil
}

// UngrabKeys releases every passive key grab on the root window.
func (c *Connection) UngrabKeys() error {
	return xproto.UngrabKeyChecked(c.XUtil.Conn(), xproto.GrabAny, c.Root, xproto.ModMaskAny).Check()
}

// GrabKeyboard takes an active keyboard grab so the grid keys reach us while
// the trigger is held.
func (c *Connection) GrabKeyboard() error {
	grab := func() (*xproto.GrabKeyboardReply, error) {
		return xproto.GrabKeyboard(
			c.XUtil.Conn(),
			true,
			c.Root,
			xproto.TimeCurrentTime,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Reply()
	}

	reply, err := grab()
	if err != nil {
		return err
	}

	// The passive grab on the trigger may still be converting into an active
	// one; wait a moment and retry once.
	if reply.Status == xproto.GrabStatusAlreadyGrabbed {
		time.Sleep(10 * time.Millisecond)
		reply, err = grab()
		if err != nil {
			return err
		}
	}

	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
	}
	return nil
}

// UngrabKeyboard releases the active keyboard grab.
func (c *Connection) UngrabKeyboard() error {
	return xproto.UngrabKeyboardChecked(c.XUtil.Conn(), xproto.TimeCurrentTime).Check()
}

// RefreshKeymap reloads the cached keyboard and modifier maps after a
// MappingNotify.
func (c *Connection) RefreshKeymap() {
	km, mm := keybind.MapsGet(c.XUtil)
	keybind.KeyMapSet(c.XUtil, km)
	keybind.ModMapSet(c.XUtil, mm)
}
