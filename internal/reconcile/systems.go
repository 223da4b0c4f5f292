// Package reconcile keeps native surfaces aligned with the scene's windows.
// The systems run once per host tick in the order Create, ApplySettings,
// Destroy.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

// Systems carries the registry, disposal queue and event buffer the
// reconciliation passes share, and the tick each pass last ran at.
type Systems struct {
	registry   *surface.Registry
	quarantine *surface.Quarantine
	events     *event.Buffer

	// applied is the last configuration pushed to each layer surface.
	applied map[scene.Entity]surface.Settings

	lastCreate  scene.Tick
	lastApply   scene.Tick
	lastDestroy scene.Tick
}

// New returns systems that have not run yet; the first pass of each sees
// every change since the world began.
func New(registry *surface.Registry, quarantine *surface.Quarantine, events *event.Buffer) *Systems {
	return &Systems{
		registry:   registry,
		quarantine: quarantine,
		events:     events,
		applied:    make(map[scene.Entity]surface.Settings),
	}
}

// Create allocates a surface for every window added since the last pass
// that is not registered yet. Layer surfaces are created before children so
// a parent spawned in the same tick is available.
//
// Each new window gets its DisplayHandle and, for layer surfaces, the
// resolved Settings written back. The first window created becomes Primary
// when no window is.
func (s *Systems) Create(w *scene.World) error {
	added := scene.AddedSince[scene.Window](w, s.lastCreate)
	s.lastCreate = w.Tick()

	var layers, children []scene.Entity
	for _, e := range added {
		if _, ok := s.registry.Surface(e); ok {
			continue
		}
		if k, ok := scene.Get[surface.Kind](w, e); ok && k.IsChild() {
			children = append(children, e)
			continue
		}
		layers = append(layers, e)
	}

	for _, e := range append(layers, children...) {
		if err := s.create(w, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Systems) create(w *scene.World, e scene.Entity) error {
	win, ok := scene.Get[scene.Window](w, e)
	if !ok {
		return nil
	}

	kind := surface.LayerSurface(surface.DefaultSettings())
	if k, ok := scene.Get[surface.Kind](w, e); ok && (k.Layer != nil || k.Child != nil) {
		kind = *k
	}

	var settings surface.Settings
	if !kind.IsChild() {
		settings = s.resolveSettings(w, e, kind.Layer.Settings, win)
		kind = surface.LayerSurface(settings)
	}

	if _, err := s.registry.Create(e, kind); err != nil {
		return fmt.Errorf("reconcile window %d: %w", e, err)
	}
	h, _ := s.registry.Handle(e)
	scene.Insert(w, e, h.DisplayHandle())
	if !kind.IsChild() {
		scene.Insert(w, e, settings)
		s.applied[e] = settings
	}

	if len(scene.Each[scene.Primary](w)) == 0 {
		scene.Insert(w, e, scene.Primary{})
	}

	logger.Info("Window created", "entity", e, "surface", h.ID(), "kind", kind.String())
	s.events.Push(event.WindowCreated{Window: e})
	return nil
}

// resolveSettings prefers an explicit Settings component over the kind's
// settings. The size always follows the window's physical size.
func (s *Systems) resolveSettings(w *scene.World, e scene.Entity, fallback surface.Settings, win *scene.Window) surface.Settings {
	settings := fallback
	if explicit, ok := scene.Get[surface.Settings](w, e); ok {
		settings = *explicit
	}
	settings.Size = surface.Size{Width: win.PhysicalWidth, Height: win.PhysicalHeight}
	return settings
}

// ApplySettings pushes settings to every registered layer surface whose
// Window or Settings changed since the last pass. A Window size change is
// copied into the Settings component first. Surfaces whose effective
// settings did not actually change are left alone.
func (s *Systems) ApplySettings(w *scene.World) error {
	since := s.lastApply
	s.lastApply = w.Tick()

	resized := scene.ChangedSince[scene.Window](w, since)
	candidates := union(resized, scene.ChangedSince[surface.Settings](w, since))
	resizedSet := make(map[scene.Entity]bool, len(resized))
	for _, e := range resized {
		resizedSet[e] = true
	}

	for _, e := range candidates {
		if _, ok := s.registry.Surface(e); !ok {
			// Not created yet; Create picks up the current state.
			continue
		}
		current, ok := scene.Get[surface.Settings](w, e)
		if !ok {
			continue
		}
		if resizedSet[e] {
			if win, ok := scene.Get[scene.Window](w, e); ok {
				current.Size = surface.Size{Width: win.PhysicalWidth, Height: win.PhysicalHeight}
			}
		}
		if prev, ok := s.applied[e]; ok && prev == *current {
			continue
		}
		if err := s.registry.ApplySettings(e, *current); err != nil {
			return err
		}
		s.applied[e] = *current
		logger.Debug("Settings applied", "entity", e, "width", current.Size.Width, "height", current.Size.Height)
	}
	return nil
}

// Destroy first disposes of the handles quarantined by the previous pass,
// then unregisters every window removed since the last pass and quarantines
// its handle, child surfaces ahead of layer surfaces. Removals of entities
// that never had a surface are ignored.
func (s *Systems) Destroy(w *scene.World) error {
	if err := s.quarantine.Drain(); err != nil {
		return fmt.Errorf("dispose surfaces: %w", err)
	}

	removed := scene.RemovedSince[scene.Window](w, s.lastDestroy)
	s.lastDestroy = w.Tick()

	var layers []surface.Handle
	for _, e := range removed {
		if w.Alive(e) && scene.Has[scene.Window](w, e) {
			// Removed and re-added within the window; still open.
			continue
		}
		h, ok := s.registry.Remove(e)
		if !ok {
			continue
		}
		delete(s.applied, e)
		if h.IsChild() {
			s.quarantine.Push(h)
		} else {
			layers = append(layers, h)
		}
		logger.Info("Window closed", "entity", e, "surface", h.ID())
		s.events.Push(event.WindowClosed{Window: e})
	}
	// Children go before the layer surfaces they are attached to.
	for _, h := range layers {
		s.quarantine.Push(h)
	}
	return nil
}

// NotifyClosing emits WindowClosing for every window still in the scene.
func (s *Systems) NotifyClosing(w *scene.World) {
	for _, e := range scene.Each[scene.Window](w) {
		s.events.Push(event.WindowClosing{Window: e})
	}
}

// Oldest returns the earliest tick any pass still reads removals from.
func (s *Systems) Oldest() scene.Tick {
	return s.lastDestroy
}

func union(a, b []scene.Entity) []scene.Entity {
	seen := make(map[scene.Entity]struct{}, len(a)+len(b))
	var out []scene.Entity
	for _, list := range [][]scene.Entity{a, b} {
		for _, e := range list {
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
