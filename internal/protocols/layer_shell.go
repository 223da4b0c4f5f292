// Package protocols holds client bindings for the Wayland protocol
// extensions go-wayland does not generate, written against its proxy API.
package protocols

import (
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// Interface names as advertised by the registry.
const (
	LayerShellInterfaceName   = "zwlr_layer_shell_v1"
	LayerSurfaceInterfaceName = "zwlr_layer_surface_v1"
)

// LayerShellMaxVersion is the highest zwlr_layer_shell_v1 version bound.
const LayerShellMaxVersion = 4

// Versions that introduced requests or enum values the bridge relies on.
const (
	LayerSurfaceSetLayerSinceVersion         = 2
	LayerShellDestroySinceVersion            = 3
	LayerSurfaceKeyboardOnDemandSinceVersion = 4

	layerSurfaceKeyboardInteractivityNone     = 0
	layerSurfaceKeyboardInteractivityOnDemand = 2
)

// LayerShell : create surfaces that are layers of the desktop
//
// Clients can use this interface to assign the surface_layer role to
// wl_surfaces. Such surfaces are assigned to a "layer" of the output and
// rendered with a defined z-depth respective to each other.
type LayerShell struct {
	client.BaseProxy
}

// NewLayerShell : create surfaces that are layers of the desktop
func NewLayerShell(ctx *client.Context) *LayerShell {
	zwlrLayerShellV1 := &LayerShell{}
	ctx.Register(zwlrLayerShellV1)
	return zwlrLayerShellV1
}

// GetLayerSurface : create a layer_surface from a surface
//
// A nil output lets the compositor pick one.
func (i *LayerShell) GetLayerSurface(surface *client.Surface, output *client.Output, layer uint32, namespace string) (*LayerSurface, error) {
	id := NewLayerSurface(i.Context())
	const opcode = 0
	namespaceLen := client.PaddedLen(len(namespace) + 1)
	_reqBufLen := 8 + 4 + 4 + 4 + 4 + (4 + namespaceLen)
	_reqBuf := make([]byte, _reqBufLen)
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	client.PutUint32(_reqBuf[l:l+4], id.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], surface.ID())
	l += 4
	if output == nil {
		client.PutUint32(_reqBuf[l:l+4], 0)
	} else {
		client.PutUint32(_reqBuf[l:l+4], output.ID())
	}
	l += 4
	client.PutUint32(_reqBuf[l:l+4], layer)
	l += 4
	client.PutString(_reqBuf[l:l+(4+namespaceLen)], namespace, len(namespace)+1)
	l += (4 + namespaceLen)
	if err := i.Context().WriteMsg(_reqBuf, nil); err != nil {
		i.Context().Unregister(id)
		return nil, err
	}
	return id, nil
}

// Destroy : destroy the layer_shell object
//
// Existing layer surfaces stay valid. Needs version 3.
func (i *LayerShell) Destroy() error {
	defer i.Context().Unregister(i)
	const opcode = 1
	const _reqBufLen = 8
	var _reqBuf [_reqBufLen]byte
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16|opcode&0x0000ffff))
	l += 4
	return i.Context().WriteMsg(_reqBuf[:], nil)
}

// Dispatch implements client.Dispatcher; the shell has no events.
func (i *LayerShell) Dispatch(opcode uint32, fd int, data []byte) {}

// LayerSurface : layer metadata interface
type LayerSurface struct {
	client.BaseProxy
	configureHandler LayerSurfaceConfigureHandlerFunc
	closedHandler    LayerSurfaceClosedHandlerFunc
}

// NewLayerSurface : layer metadata interface
func NewLayerSurface(ctx *client.Context) *LayerSurface {
	zwlrLayerSurfaceV1 := &LayerSurface{}
	ctx.Register(zwlrLayerSurfaceV1)
	return zwlrLayerSurfaceV1
}

// request sends a request whose arguments are all 32-bit words.
func (i *LayerSurface) request(opcode uint32, args ...uint32) error {
	_reqBufLen := 8 + 4*len(args)
	_reqBuf := make([]byte, _reqBufLen)
	l := 0
	client.PutUint32(_reqBuf[l:4], i.ID())
	l += 4
	client.PutUint32(_reqBuf[l:l+4], uint32(_reqBufLen<<16)|opcode&0x0000ffff)
	l += 4
	for _, a := range args {
		client.PutUint32(_reqBuf[l:l+4], a)
		l += 4
	}
	return i.Context().WriteMsg(_reqBuf, nil)
}

// SetSize : sets the size of the surface in surface-local coordinates
func (i *LayerSurface) SetSize(width, height uint32) error {
	return i.request(0, width, height)
}

// SetAnchor : configures the anchor point of the surface
func (i *LayerSurface) SetAnchor(anchor uint32) error {
	return i.request(1, anchor)
}

// SetExclusiveZone : configures the exclusive geometry of this surface
func (i *LayerSurface) SetExclusiveZone(zone int32) error {
	return i.request(2, uint32(zone))
}

// SetMargin : sets a margin from the anchor point
func (i *LayerSurface) SetMargin(top, right, bottom, left int32) error {
	return i.request(3, uint32(top), uint32(right), uint32(bottom), uint32(left))
}

// SetKeyboardInteractivity : requests keyboard events
func (i *LayerSurface) SetKeyboardInteractivity(keyboardInteractivity uint32) error {
	return i.request(4, keyboardInteractivity)
}

// AckConfigure : ack a configure event
func (i *LayerSurface) AckConfigure(serial uint32) error {
	return i.request(6, serial)
}

// Destroy : destroy the layer_surface
//
// The wl_surface must be destroyed separately.
func (i *LayerSurface) Destroy() error {
	defer i.Context().Unregister(i)
	return i.request(7)
}

// SetLayer : change the layer of the surface
//
// Needs version 2.
func (i *LayerSurface) SetLayer(layer uint32) error {
	return i.request(8, layer)
}

// LayerSurfaceConfigureEvent : suggest a surface change
//
// A zero dimension leaves that dimension to the client.
type LayerSurfaceConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}
type LayerSurfaceConfigureHandlerFunc func(LayerSurfaceConfigureEvent)

// SetConfigureHandler : sets handler for LayerSurfaceConfigureEvent
func (i *LayerSurface) SetConfigureHandler(f LayerSurfaceConfigureHandlerFunc) {
	i.configureHandler = f
}

// LayerSurfaceClosedEvent : surface should be closed
type LayerSurfaceClosedEvent struct{}
type LayerSurfaceClosedHandlerFunc func(LayerSurfaceClosedEvent)

// SetClosedHandler : sets handler for LayerSurfaceClosedEvent
func (i *LayerSurface) SetClosedHandler(f LayerSurfaceClosedHandlerFunc) {
	i.closedHandler = f
}

func (i *LayerSurface) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case 0:
		if i.configureHandler == nil || len(data) < 12 {
			return
		}
		var e LayerSurfaceConfigureEvent
		l := 0
		e.Serial = client.Uint32(data[l : l+4])
		l += 4
		e.Width = client.Uint32(data[l : l+4])
		l += 4
		e.Height = client.Uint32(data[l : l+4])
		l += 4

		i.configureHandler(e)
	case 1:
		if i.closedHandler == nil {
			return
		}
		var e LayerSurfaceClosedEvent

		i.closedHandler(e)
	}
}

// KeyboardInteractivityFor returns mode when the bound version supports it.
// On-demand focus only exists from version 4; older compositors get no
// keyboard focus, never exclusive focus. ok is false when mode was
// substituted.
func KeyboardInteractivityFor(mode, version uint32) (uint32, bool) {
	if mode == layerSurfaceKeyboardInteractivityOnDemand && version < LayerSurfaceKeyboardOnDemandSinceVersion {
		return layerSurfaceKeyboardInteractivityNone, false
	}
	return mode, true
}
