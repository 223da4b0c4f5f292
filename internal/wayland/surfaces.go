package wayland

import (
	"errors"
	"fmt"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/protocols"
	"github.com/bnema/wlscene/internal/surface"
)

// surfaceState tracks the outputs a surface is shown on.
type surfaceState struct {
	outputs map[uint32]bool // global names
	scale   int32
}

// LayerHandle is a wl_surface with the layer_surface role.
type LayerHandle struct {
	c        *Client
	surface  *client.Surface
	layer    *protocols.LayerSurface
	version  uint32
	settings surface.Settings
	// downgraded is set once on-demand keyboard focus was replaced.
	downgraded bool
}

// ChildHandle is a wl_surface with the subsurface role.
type ChildHandle struct {
	c          *Client
	surface    *client.Surface
	subsurface *client.Subsurface
	parent     *LayerHandle
}

var (
	_ surface.Backend = (*Client)(nil)
	_ surface.Handle  = (*LayerHandle)(nil)
	_ surface.Handle  = (*ChildHandle)(nil)
)

// CreateLayerSurface implements surface.Backend.
func (c *Client) CreateLayerSurface(s surface.Settings) (surface.Handle, error) {
	if c.ctx == nil {
		return nil, ErrNotConnected
	}
	shell, version, err := c.ensureLayerShell()
	if err != nil {
		return nil, err
	}
	comp, err := c.ensureCompositor()
	if err != nil {
		return nil, err
	}

	wlSurface, err := comp.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	layer, err := shell.GetLayerSurface(wlSurface, nil, uint32(s.Layer), c.namespace)
	if err != nil {
		_ = wlSurface.Destroy()
		return nil, fmt.Errorf("get layer surface: %w", err)
	}

	h := &LayerHandle{c: c, surface: wlSurface, layer: layer, version: version, settings: s}
	id := h.ID()
	c.track(wlSurface)

	layer.SetConfigureHandler(func(e protocols.LayerSurfaceConfigureEvent) {
		if c.handlers != nil {
			c.handlers.LayerConfigure(id, e.Serial, e.Width, e.Height, h)
		}
	})
	layer.SetClosedHandler(func(protocols.LayerSurfaceClosedEvent) {
		if c.handlers != nil {
			c.handlers.LayerClosed(id)
		}
	})

	s.KeyboardInteractivity = h.keyboardInteractivity(s.KeyboardInteractivity)
	if err := h.push(s, true); err != nil {
		_ = h.Destroy()
		return nil, err
	}
	logger.Debug("Layer surface created", "surface", id, "layer", s.Layer.String(), "anchor", s.Anchor.String())
	return h, nil
}

// CreateChildSurface implements surface.Backend.
func (c *Client) CreateChildSurface(parent surface.Handle, pos surface.Position) (surface.Handle, error) {
	if c.ctx == nil {
		return nil, ErrNotConnected
	}
	p, ok := parent.(*LayerHandle)
	if !ok {
		return nil, fmt.Errorf("parent surface %d: %w", parent.ID(), surface.ErrNestedChild)
	}
	sub, err := c.ensureSubcompositor()
	if err != nil {
		return nil, err
	}
	comp, err := c.ensureCompositor()
	if err != nil {
		return nil, err
	}

	wlSurface, err := comp.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	subsurface, err := sub.GetSubsurface(wlSurface, p.surface)
	if err != nil {
		_ = wlSurface.Destroy()
		return nil, fmt.Errorf("get subsurface: %w", err)
	}
	h := &ChildHandle{c: c, surface: wlSurface, subsurface: subsurface, parent: p}
	c.track(wlSurface)

	// Position and stacking are double-buffered on the parent.
	err = errors.Join(
		subsurface.SetPosition(pos.X, pos.Y),
		subsurface.PlaceAbove(p.surface),
		wlSurface.Commit(),
		p.surface.Commit(),
	)
	if err != nil {
		_ = h.Destroy()
		return nil, fmt.Errorf("place subsurface: %w", err)
	}
	logger.Debug("Child surface created", "surface", h.ID(), "parent", p.ID(), "x", pos.X, "y", pos.Y)
	return h, nil
}

// track starts following the outputs surface is shown on.
func (c *Client) track(wlSurface *client.Surface) {
	id := surface.ID(wlSurface.ID())
	c.surfaces[id] = &surfaceState{outputs: make(map[uint32]bool), scale: 1}
	wlSurface.SetEnterHandler(func(e client.SurfaceEnterEvent) {
		if e.Output == nil {
			return
		}
		c.surfaceOutput(id, e.Output.ID(), true)
	})
	wlSurface.SetLeaveHandler(func(e client.SurfaceLeaveEvent) {
		if e.Output == nil {
			return
		}
		c.surfaceOutput(id, e.Output.ID(), false)
	})
}

func (c *Client) untrack(id surface.ID) {
	delete(c.surfaces, id)
}

func (c *Client) surfaceOutput(id surface.ID, proxy uint32, entered bool) {
	st, ok := c.surfaces[id]
	if !ok {
		return
	}
	name, ok := c.byProxy[proxy]
	if !ok {
		return
	}
	if entered {
		st.outputs[name] = true
	} else {
		delete(st.outputs, name)
	}
	c.rescale(id, st)
}

// rescale recomputes the surface scale as the largest scale of the outputs
// it is shown on and reports a change to the handlers.
func (c *Client) rescale(id surface.ID, st *surfaceState) {
	scales := make([]int32, 0, len(st.outputs))
	for name := range st.outputs {
		if o, ok := c.outputs[name]; ok {
			scales = append(scales, o.info.Scale)
		}
	}
	scale := maxScale(scales)
	if scale == st.scale {
		return
	}
	st.scale = scale
	if c.handlers != nil {
		c.handlers.ScaleFactorChanged(id, float64(scale))
	}
}

// maxScale returns the largest scale, or 1 when there is none.
func maxScale(scales []int32) int32 {
	best := int32(1)
	for _, s := range scales {
		if s > best {
			best = s
		}
	}
	return best
}

// ID implements surface.Handle.
func (h *LayerHandle) ID() surface.ID { return surface.ID(h.surface.ID()) }

// IsChild implements surface.Handle.
func (h *LayerHandle) IsChild() bool { return false }

// DisplayHandle implements surface.Handle.
func (h *LayerHandle) DisplayHandle() surface.DisplayHandle {
	return surface.DisplayHandle{Display: h.c.name, Surface: h.ID()}
}

// Configure implements surface.Handle.
func (h *LayerHandle) Configure(s surface.Settings) error {
	s.KeyboardInteractivity = h.keyboardInteractivity(s.KeyboardInteractivity)
	return h.push(s, false)
}

// keyboardInteractivity downgrades modes the bound layer shell version
// does not know.
func (h *LayerHandle) keyboardInteractivity(k surface.KeyboardInteractivity) surface.KeyboardInteractivity {
	mode, ok := protocols.KeyboardInteractivityFor(uint32(k), h.version)
	if !ok && !h.downgraded {
		h.downgraded = true
		logger.Warn("Compositor does not support on-demand keyboard focus, disabling keyboard input",
			"surface", h.ID(), "layer_shell_version", h.version)
	}
	return surface.KeyboardInteractivity(mode)
}

// push sends every setting that differs from the last one pushed, or all
// of them on the initial commit, then commits.
func (h *LayerHandle) push(s surface.Settings, initial bool) error {
	prev := h.settings
	var errs []error
	if initial || s.Size != prev.Size {
		errs = append(errs, h.layer.SetSize(s.Size.Width, s.Size.Height))
	}
	if initial || s.Anchor != prev.Anchor {
		errs = append(errs, h.layer.SetAnchor(uint32(s.Anchor)))
	}
	if initial || s.ExclusiveZone != prev.ExclusiveZone {
		errs = append(errs, h.layer.SetExclusiveZone(s.ExclusiveZone))
	}
	if initial || s.Margin != prev.Margin {
		m := s.Margin
		errs = append(errs, h.layer.SetMargin(m.Top, m.Right, m.Bottom, m.Left))
	}
	if initial || s.KeyboardInteractivity != prev.KeyboardInteractivity {
		errs = append(errs, h.layer.SetKeyboardInteractivity(uint32(s.KeyboardInteractivity)))
	}
	if !initial && s.Layer != prev.Layer {
		if h.version >= protocols.LayerSurfaceSetLayerSinceVersion {
			errs = append(errs, h.layer.SetLayer(uint32(s.Layer)))
		} else {
			logger.Warn("Compositor cannot move layer surfaces between layers", "surface", h.ID())
		}
	}
	errs = append(errs, h.surface.Commit())
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("configure layer surface %d: %w", h.ID(), err)
	}
	h.settings = s
	return nil
}

// AckConfigure implements handlers.Acker.
func (h *LayerHandle) AckConfigure(serial uint32) error {
	if err := h.layer.AckConfigure(serial); err != nil {
		return err
	}
	return h.surface.Commit()
}

// Destroy implements surface.Handle. The role object goes before the
// surface.
func (h *LayerHandle) Destroy() error {
	h.c.untrack(h.ID())
	if h.c.ctx == nil {
		return nil
	}
	return errors.Join(h.layer.Destroy(), h.surface.Destroy())
}

// ID implements surface.Handle.
func (h *ChildHandle) ID() surface.ID { return surface.ID(h.surface.ID()) }

// IsChild implements surface.Handle.
func (h *ChildHandle) IsChild() bool { return true }

// DisplayHandle implements surface.Handle.
func (h *ChildHandle) DisplayHandle() surface.DisplayHandle {
	return surface.DisplayHandle{Display: h.c.name, Surface: h.ID()}
}

// Configure implements surface.Handle. Child surfaces follow their parent's
// configuration; only a commit is sent.
func (h *ChildHandle) Configure(surface.Settings) error {
	return h.surface.Commit()
}

// Destroy implements surface.Handle.
func (h *ChildHandle) Destroy() error {
	h.c.untrack(h.ID())
	if h.c.ctx == nil {
		return nil
	}
	return errors.Join(h.subsurface.Destroy(), h.surface.Destroy())
}
