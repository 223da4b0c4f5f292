package wayland

import (
	"bytes"
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"
	"golang.org/x/sys/unix"

	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/surface"
)

// seatMaxVersion is the highest wl_seat version bound; release requests on
// devices need 3 and pointer frames need 5.
const seatMaxVersion = 7

var _ handlers.DeviceBinder = (*Client)(nil)

func (c *Client) bindSeat(g Global) {
	seat := client.NewSeat(c.ctx)
	version := min(g.Version, seatMaxVersion)
	if err := c.registry.Bind(g.Name, g.Interface, version, seat); err != nil {
		logger.Errorf("Failed to bind seat: %v", err)
		return
	}
	c.seat = seat
	c.framed = version >= 5

	seat.SetCapabilitiesHandler(func(e client.SeatCapabilitiesEvent) {
		c.handlers.SeatCapabilities(e.Capabilities)
	})
	seat.SetNameHandler(func(e client.SeatNameEvent) {
		c.seatName = e.Name
	})
}

// BindKeyboard implements handlers.DeviceBinder.
func (c *Client) BindKeyboard() (handlers.Device, error) {
	if c.seat == nil {
		return nil, fmt.Errorf("%s: %w", seatInterface, surface.ErrGlobalMissing)
	}
	kb, err := c.seat.GetKeyboard()
	if err != nil {
		return nil, err
	}

	kb.SetKeymapHandler(func(e client.KeyboardKeymapEvent) {
		defer closeFd(e.Fd)
		if e.Format != uint32(client.KeyboardKeymapFormatXkbV1) {
			c.handlers.KeyboardKeymap(nil)
			return
		}
		text, err := readKeymap(e.Fd, e.Size)
		if err != nil {
			logger.Warnf("Failed to read compositor keymap: %v", err)
			c.handlers.KeyboardKeymap(nil)
			return
		}
		c.handlers.KeyboardKeymap(text)
	})
	kb.SetEnterHandler(func(e client.KeyboardEnterEvent) {
		if e.Surface == nil {
			return
		}
		c.handlers.KeyboardEnter(surface.ID(e.Surface.ID()))
	})
	kb.SetLeaveHandler(func(e client.KeyboardLeaveEvent) {
		if e.Surface == nil {
			return
		}
		c.handlers.KeyboardLeave(surface.ID(e.Surface.ID()))
	})
	kb.SetKeyHandler(func(e client.KeyboardKeyEvent) {
		c.handlers.KeyboardKey(e.Key, e.State)
	})
	kb.SetModifiersHandler(func(e client.KeyboardModifiersEvent) {
		c.handlers.KeyboardModifiers(e.ModsDepressed, e.ModsLatched, e.ModsLocked)
	})
	return kb, nil
}

// BindPointer implements handlers.DeviceBinder.
func (c *Client) BindPointer() (handlers.Device, error) {
	if c.seat == nil {
		return nil, fmt.Errorf("%s: %w", seatInterface, surface.ErrGlobalMissing)
	}
	p, err := c.seat.GetPointer()
	if err != nil {
		return nil, err
	}

	p.SetEnterHandler(func(e client.PointerEnterEvent) {
		if e.Surface == nil {
			return
		}
		c.pointerFocus = surface.ID(e.Surface.ID())
		c.queuePointer(handlers.PointerEvent{Kind: handlers.PointerEnter, X: e.SurfaceX, Y: e.SurfaceY})
	})
	p.SetLeaveHandler(func(e client.PointerLeaveEvent) {
		if e.Surface != nil {
			c.pointerFocus = surface.ID(e.Surface.ID())
		}
		c.queuePointer(handlers.PointerEvent{Kind: handlers.PointerLeave})
	})
	p.SetMotionHandler(func(e client.PointerMotionEvent) {
		c.queuePointer(handlers.PointerEvent{Kind: handlers.PointerMotion, X: e.SurfaceX, Y: e.SurfaceY})
	})
	p.SetButtonHandler(func(e client.PointerButtonEvent) {
		kind := handlers.PointerRelease
		if e.State == uint32(client.PointerButtonStatePressed) {
			kind = handlers.PointerPress
		}
		c.queuePointer(handlers.PointerEvent{Kind: kind, Button: e.Button})
	})
	p.SetAxisHandler(func(e client.PointerAxisEvent) {
		pe := handlers.PointerEvent{Kind: handlers.PointerAxis}
		if e.Axis == uint32(client.PointerAxisHorizontalScroll) {
			pe.AxisX = e.Value
		} else {
			pe.AxisY = e.Value
		}
		c.queuePointer(pe)
	})
	p.SetFrameHandler(func(client.PointerFrameEvent) {
		c.flushPointer()
	})
	return p, nil
}

// queuePointer appends to the current pointer frame. Seats older than
// version 5 send no frame events, so each event is its own frame there.
func (c *Client) queuePointer(pe handlers.PointerEvent) {
	pe.Surface = c.pointerFocus
	c.frame = append(c.frame, pe)
	if !c.framed {
		c.flushPointer()
	}
}

func (c *Client) flushPointer() {
	if len(c.frame) == 0 {
		return
	}
	batch := c.frame
	c.frame = nil
	c.handlers.PointerFrame(batch)
}

// BindTouch implements handlers.DeviceBinder.
func (c *Client) BindTouch() (handlers.Device, error) {
	if c.seat == nil {
		return nil, fmt.Errorf("%s: %w", seatInterface, surface.ErrGlobalMissing)
	}
	t, err := c.seat.GetTouch()
	if err != nil {
		return nil, err
	}

	t.SetDownHandler(func(e client.TouchDownEvent) {
		if e.Surface == nil {
			return
		}
		c.handlers.TouchDown(surface.ID(e.Surface.ID()), e.Id, e.X, e.Y)
	})
	t.SetMotionHandler(func(e client.TouchMotionEvent) {
		c.handlers.TouchMotion(e.Id, e.X, e.Y)
	})
	t.SetUpHandler(func(e client.TouchUpEvent) {
		c.handlers.TouchUp(e.Id)
	})
	t.SetCancelHandler(func(client.TouchCancelEvent) {
		c.handlers.TouchCancel()
	})
	return t, nil
}

// readKeymap maps the keymap fd sent with wl_keyboard.keymap and returns
// its text without the trailing NUL. The mapping must be private from
// wl_seat version 7 on.
func readKeymap(fd int, size uint32) ([]byte, error) {
	if size == 0 {
		return nil, fmt.Errorf("empty keymap")
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap keymap: %w", err)
	}
	defer func() {
		if err := unix.Munmap(data); err != nil {
			logger.Debugf("Failed to unmap keymap: %v", err)
		}
	}()
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return bytes.Clone(data), nil
}
