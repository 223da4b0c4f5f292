package wayland

import (
	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/bnema/wlscene/internal/handlers"
	"github.com/bnema/wlscene/internal/logger"
)

// output pairs a bound wl_output with the state accumulated since its last
// done event.
type output struct {
	proxy   *client.Output
	version uint32
	info    handlers.Output
	pending handlers.Output
}

func (c *Client) bindOutput(g Global) {
	proxy := client.NewOutput(c.ctx)
	version := min(g.Version, 4)
	if err := c.registry.Bind(g.Name, g.Interface, version, proxy); err != nil {
		logger.Warnf("Failed to bind output %d: %v", g.Name, err)
		return
	}
	o := &output{
		proxy:   proxy,
		version: version,
		info:    handlers.Output{ID: g.Name, Scale: 1},
		pending: handlers.Output{ID: g.Name, Scale: 1},
	}
	c.outputs[g.Name] = o
	c.byProxy[proxy.ID()] = g.Name
	name := g.Name

	update := func(fn func(p *handlers.Output)) {
		if o, ok := c.outputs[name]; ok {
			fn(&o.pending)
		}
	}
	proxy.SetGeometryHandler(func(e client.OutputGeometryEvent) {
		mk, model := e.Make, e.Model
		update(func(p *handlers.Output) { p.Make, p.Model = mk, model })
	})
	proxy.SetModeHandler(func(e client.OutputModeEvent) {
		if e.Flags&uint32(client.OutputModeCurrent) == 0 {
			return
		}
		w, h, r := e.Width, e.Height, e.Refresh
		update(func(p *handlers.Output) { p.Width, p.Height, p.RefreshMHz = w, h, r })
	})
	proxy.SetScaleHandler(func(e client.OutputScaleEvent) {
		f := e.Factor
		update(func(p *handlers.Output) { p.Scale = f })
	})
	proxy.SetNameHandler(func(e client.OutputNameEvent) {
		n := e.Name
		update(func(p *handlers.Output) { p.Name = n })
	})
	proxy.SetDescriptionHandler(func(e client.OutputDescriptionEvent) {
		d := e.Description
		update(func(p *handlers.Output) { p.Description = d })
	})
	proxy.SetDoneHandler(func(client.OutputDoneEvent) {
		c.outputDone(name)
	})
}

// outputDone commits the pending state and rescales the surfaces shown on
// the output when its scale changed.
func (c *Client) outputDone(name uint32) {
	o, ok := c.outputs[name]
	if !ok {
		return
	}
	scaleChanged := o.info.Scale != o.pending.Scale
	o.info = o.pending
	if c.handlers != nil {
		c.handlers.OutputUpdated(o.info)
	}
	if !scaleChanged {
		return
	}
	for id, st := range c.surfaces {
		if st.outputs[name] {
			c.rescale(id, st)
		}
	}
}

func (c *Client) removeOutput(name uint32) {
	o, ok := c.outputs[name]
	if !ok {
		return
	}
	delete(c.outputs, name)
	delete(c.byProxy, o.proxy.ID())
	if o.version >= 3 {
		if err := o.proxy.Release(); err != nil {
			logger.Debugf("Failed to release output %d: %v", name, err)
		}
	}
	for id, st := range c.surfaces {
		if st.outputs[name] {
			delete(st.outputs, name)
			c.rescale(id, st)
		}
	}
	if c.handlers != nil {
		c.handlers.OutputRemoved(name)
	}
}

// Outputs returns the outputs as of their last done event.
func (c *Client) Outputs() []handlers.Output {
	if c.handlers != nil {
		return c.handlers.Outputs()
	}
	out := make([]handlers.Output, 0, len(c.outputs))
	for _, g := range c.Globals() {
		if o, ok := c.outputs[g.Name]; ok {
			out = append(out, o.info)
		}
	}
	return out
}
