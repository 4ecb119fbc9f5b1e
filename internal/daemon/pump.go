package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/gridtile/internal/action"
	"github.com/1broseidon/gridtile/internal/keys"
	"github.com/1broseidon/gridtile/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// EventSource yields raw X events. LinuxBackend implements it.
type EventSource interface {
	NextEvent() (xgb.Event, error)
}

// Pump blocks on src and forwards translated events to out until the
// connection closes or ctx is cancelled. out is closed on return. Pump does
// no processing of its own.
func Pump(ctx context.Context, src EventSource, out chan<- action.Event, logger *slog.Logger) error {
	defer close(out)
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for {
		ev, err := src.NextEvent()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, x11.ErrConnectionClosed) {
				return err
			}
			// Protocol errors (BadWindow for a window that just closed) are
			// not fatal.
			logger.Debug("x11 error", "error", err)
			continue
		}

		select {
		case out <- translate(ev):
		case <-ctx.Done():
			return nil
		}
	}
}

func translate(ev xgb.Event) action.Event {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return action.KeyPress{
			Keycode: keys.Keycode(e.Detail),
			State:   e.State,
			RootX:   int(e.RootX),
			RootY:   int(e.RootY),
		}
	case xproto.KeyReleaseEvent:
		return action.KeyRelease{
			Keycode: keys.Keycode(e.Detail),
			State:   e.State,
			RootX:   int(e.RootX),
			RootY:   int(e.RootY),
		}
	case xproto.MappingNotifyEvent:
		if e.Request == xproto.MappingPointer {
			return action.Other{Name: "MappingNotify(pointer)"}
		}
		return action.MappingChanged{}
	default:
		return action.Other{Name: fmt.Sprintf("%T", ev)}
	}
}
