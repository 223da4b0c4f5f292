// Package demo is a minimal host application for the bridge: it opens the
// configured windows, follows compositor resizes and close requests, and
// exits on Escape or when its last window is gone.
package demo

import (
	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

// Host owns the scene and reacts to bridge events between ticks.
type Host struct {
	world   *scene.World
	pending []event.Event
	exit    bool
	opened  bool

	Primary  scene.Entity
	Child    scene.Entity
	HasChild bool

	// Seen counts delivered events by kind, for the summary printed on exit.
	Seen map[string]int
}

// New spawns the primary window described by cfg, and its child surface
// when enabled.
func New(cfg *config.Config) (*Host, error) {
	settings, err := cfg.Window.Settings()
	if err != nil {
		return nil, err
	}
	h := &Host{world: scene.NewWorld(), Seen: make(map[string]int)}

	h.Primary = h.world.Spawn()
	scene.Insert(h.world, h.Primary, scene.NewWindow(cfg.Window.Title, settings.Size.Width, settings.Size.Height))
	scene.Insert(h.world, h.Primary, settings)
	scene.Insert(h.world, h.Primary, scene.Primary{})

	if cfg.Child.Enabled {
		h.Child = h.world.Spawn()
		h.HasChild = true
		scene.Insert(h.world, h.Child, scene.NewWindow(cfg.Window.Title+" (child)", cfg.Child.Width, cfg.Child.Height))
		scene.Insert(h.world, h.Child, surface.ChildSurface(h.Primary, cfg.Child.X, cfg.Child.Y))
	}
	return h, nil
}

// World implements runner.Host.
func (h *Host) World() *scene.World { return h.world }

// Ready implements runner.Host. The demo has no startup sequence.
func (h *Host) Ready() bool { return true }

// ExitRequested implements runner.Host.
func (h *Host) ExitRequested() bool { return h.exit }

// Send implements event.Sink. Events are acted on during the next Update.
func (h *Host) Send(e event.Event) {
	h.pending = append(h.pending, e)
}

// Update implements runner.Host.
func (h *Host) Update() error {
	events := h.pending
	h.pending = nil
	for _, e := range events {
		h.handle(e)
	}
	if h.opened && len(scene.Each[scene.Window](h.world)) == 0 {
		logger.Info("Last window closed")
		h.exit = true
	}
	return nil
}

func (h *Host) handle(e event.Event) {
	switch ev := e.(type) {
	case event.WindowCreated:
		h.opened = true
		h.count("created")
	case event.WindowCloseRequested:
		h.count("close_requested")
		h.despawn(ev.Window)
	case event.WindowClosed:
		h.count("closed")
	case event.WindowResized:
		h.count("resized")
		h.resize(ev.Window, ev.Width, ev.Height)
	case event.KeyboardInput:
		h.count("key")
		if ev.State == input.Pressed && isEscape(ev.LogicalKey) {
			logger.Info("Escape pressed, exiting")
			h.exit = true
		}
	case event.CursorMoved, event.MouseButtonInput, event.MouseWheel:
		h.count("pointer")
	case event.TouchInput:
		h.count("touch")
	default:
		h.count("other")
	}
	logger.Debug("Event", "event", e.String())
}

func (h *Host) count(kind string) {
	h.Seen[kind]++
}

// despawn removes a window; a closed primary takes its child with it.
func (h *Host) despawn(e scene.Entity) {
	if !h.world.Alive(e) {
		return
	}
	h.world.Despawn(e)
	if e == h.Primary && h.HasChild && h.world.Alive(h.Child) {
		h.world.Despawn(h.Child)
	}
}

// resize follows a compositor-chosen size. Layer surface sizes are sent
// back unchanged, so this settles after one round.
func (h *Host) resize(e scene.Entity, width, height float64) {
	w, ok := scene.Get[scene.Window](h.world, e)
	if !ok {
		return
	}
	nw, nh := uint32(width), uint32(height)
	if w.PhysicalWidth == nw && w.PhysicalHeight == nh {
		return
	}
	w, _ = scene.GetMut[scene.Window](h.world, e)
	w.PhysicalWidth, w.PhysicalHeight = nw, nh
}

func isEscape(k input.Key) bool {
	n, ok := k.(input.Named)
	return ok && n.Name == input.NamedEscape
}
