package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
)

const sourceIndication = 2 // pager/direct action

// SetWindowDesktop moves a window to the specified virtual desktop by
// sending _NET_WM_DESKTOP to the root window.
func (c *Connection) SetWindowDesktop(windowID uint32, desktop int) error {
	return c.sendRootMessage("_NET_WM_DESKTOP", xproto.Window(windowID), uint32(desktop), sourceIndication)
}

// SetCurrentDesktop asks the window manager to switch to desktop.
func (c *Connection) SetCurrentDesktop(desktop int) error {
	return c.sendRootMessage("_NET_CURRENT_DESKTOP", c.Root, uint32(desktop), uint32(xproto.TimeCurrentTime))
}

// SetDesktopCount asks the window manager to keep count desktops.
func (c *Connection) SetDesktopCount(count int) error {
	return c.sendRootMessage("_NET_NUMBER_OF_DESKTOPS", c.Root, uint32(count))
}

// sendRootMessage builds an EWMH client message by hand. The xgbutil ewmh
// request helpers panic on this library version (uint vs int type
// assertion), so the message is packed directly.
func (c *Connection) sendRootMessage(atom string, window xproto.Window, data ...uint32) error {
	atomReply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(atom)), atom).Reply()
	if err != nil {
		return fmt.Errorf("failed to intern %s: %w", atom, err)
	}

	payload := make([]uint32, 5)
	copy(payload, data)
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: window,
		Type:   atomReply.Atom,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	err = xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
	if err != nil {
		return fmt.Errorf("send %s: %w", atom, err)
	}
	return nil
}
