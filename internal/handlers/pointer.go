package handlers

import (
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

// PointerKind is the kind of one pointer sub-event.
type PointerKind int

const (
	PointerEnter PointerKind = iota
	PointerLeave
	PointerMotion
	PointerPress
	PointerRelease
	PointerAxis
)

// PointerEvent is one entry of a pointer frame. X and Y are the surface
// position in physical pixels for enter and motion; AxisX and AxisY are
// scroll amounts.
type PointerEvent struct {
	Surface surface.ID
	Kind    PointerKind
	X, Y    float64
	Button  uint32
	AxisX   float64
	AxisY   float64
}

// PointerFrame handles a batch of pointer sub-events. Each entry resolves
// its own surface; entries for unknown surfaces are skipped individually.
func (s *State) PointerFrame(events []PointerEvent) {
	for _, pe := range events {
		e, ok := s.entityFor(pe.Surface)
		if !ok {
			logger.Debug("Pointer event for unknown surface", "surface", pe.Surface)
			continue
		}
		if ev, ok := s.pointerEvent(e, pe); ok {
			s.events.Push(ev)
		}
	}
}

func (s *State) pointerEvent(e scene.Entity, pe PointerEvent) (event.Event, bool) {
	switch pe.Kind {
	case PointerEnter:
		// The entry position seeds the next motion's delta; no motion is
		// reported for it.
		p := scene.Vec2{X: pe.X, Y: pe.Y}
		scene.Insert(s.world, e, scene.Cursor{Physical: &p})
		return event.CursorEntered{Window: e}, true
	case PointerLeave:
		return event.CursorLeft{Window: e}, true
	case PointerPress:
		return event.MouseButtonInput{Window: e, Button: input.ButtonFor(pe.Button), State: input.Pressed}, true
	case PointerRelease:
		return event.MouseButtonInput{Window: e, Button: input.ButtonFor(pe.Button), State: input.Released}, true
	case PointerMotion:
		return s.cursorMoved(e, scene.Vec2{X: pe.X, Y: pe.Y})
	case PointerAxis:
		k := 1.0
		if w, ok := s.window(e); ok {
			k = w.Scale()
		}
		return event.MouseWheel{Window: e, X: pe.AxisX / k, Y: pe.AxisY / k}, true
	}
	logger.Debug("Skipping unknown pointer event", "kind", int(pe.Kind))
	return nil, false
}

// cursorMoved stores the new physical position on the window before
// computing the logical position and delta.
func (s *State) cursorMoved(e scene.Entity, physical scene.Vec2) (event.Event, bool) {
	w, ok := s.window(e)
	if !ok {
		logger.Warn("Pointer motion for entity without a window", "entity", e)
		return nil, false
	}
	k := w.Scale()

	var delta *scene.Vec2
	if c, ok := scene.Get[scene.Cursor](s.world, e); ok && c.Physical != nil {
		d := physical.Sub(*c.Physical).Scale(k)
		delta = &d
	}
	p := physical
	scene.Insert(s.world, e, scene.Cursor{Physical: &p})

	return event.CursorMoved{Window: e, Position: physical.Scale(k), Delta: delta}, true
}
