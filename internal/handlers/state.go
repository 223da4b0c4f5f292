// Package handlers receives raw display-server callbacks and turns them into
// normalized events. Every method runs on the run loop's goroutine during a
// dispatch; none of them is safe for concurrent use.
//
// Soft failures (unknown surfaces, missing focus, unknown touch ids) are
// logged and the offending event is dropped. No error leaves this package.
package handlers

import (
	"sort"

	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

// State is the mutable state shared by all capability handlers.
type State struct {
	registry *surface.Registry
	world    *scene.World
	events   *event.Buffer
	keymap   *input.Keymap
	binder   DeviceBinder

	keyboard Device
	pointer  Device
	touch    Device

	focus    surface.ID
	hasFocus bool

	touches    map[int32]touchPoint
	configured map[surface.ID]surface.Size
	outputs    map[uint32]Output
}

type touchPoint struct {
	window   scene.Entity
	position scene.Vec2
}

// Options configures a State.
type Options struct {
	Registry *surface.Registry
	World    *scene.World
	Events   *event.Buffer
	// Keymap resolves key codes; nil means a US layout.
	Keymap *input.Keymap
	// Binder binds seat devices; nil disables seat handling.
	Binder DeviceBinder
}

// New returns handler state wired to the given registry, world and buffer.
func New(opts Options) *State {
	km := opts.Keymap
	if km == nil {
		km, _ = input.NewKeymap("us")
	}
	return &State{
		registry:   opts.Registry,
		world:      opts.World,
		events:     opts.Events,
		keymap:     km,
		binder:     opts.Binder,
		touches:    make(map[int32]touchPoint),
		configured: make(map[surface.ID]surface.Size),
		outputs:    make(map[uint32]Output),
	}
}

// entityFor resolves a surface to its scene window.
func (s *State) entityFor(id surface.ID) (scene.Entity, bool) {
	return s.registry.Entity(id)
}

func (s *State) window(e scene.Entity) (*scene.Window, bool) {
	return scene.Get[scene.Window](s.world, e)
}

// ScaleFactorChanged records a new scale factor on the window owning the
// surface and emits WindowScaleFactorChanged. Unknown surfaces are ignored:
// the compositor may still talk about a surface being torn down.
func (s *State) ScaleFactorChanged(id surface.ID, factor float64) {
	e, ok := s.entityFor(id)
	if !ok {
		logger.Debug("Scale change for unknown surface", "surface", id, "factor", factor)
		return
	}
	if w, ok := s.window(e); ok {
		w.ScaleFactor = factor
	}
	s.events.Push(event.WindowScaleFactorChanged{Window: e, ScaleFactor: factor})
}

// Acker acknowledges a layer surface configure.
type Acker interface {
	AckConfigure(serial uint32) error
}

// LayerConfigure acks a configure and reports a resize when the accepted
// size differs from the last one. The proposed size is always accepted.
func (s *State) LayerConfigure(id surface.ID, serial, width, height uint32, ack Acker) {
	if err := ack.AckConfigure(serial); err != nil {
		logger.Warnf("Failed to ack configure %d for surface %d: %v", serial, id, err)
		return
	}
	e, ok := s.entityFor(id)
	if !ok {
		return
	}
	size := surface.Size{Width: width, Height: height}
	if width == 0 || height == 0 || s.configured[id] == size {
		return
	}
	s.configured[id] = size
	s.events.Push(event.WindowResized{Window: e, Width: float64(width), Height: float64(height)})
}

// LayerClosed turns a compositor-initiated close into a close request for
// the owning window.
func (s *State) LayerClosed(id surface.ID) {
	delete(s.configured, id)
	e, ok := s.entityFor(id)
	if !ok {
		logger.Debug("Closed event for unknown surface", "surface", id)
		return
	}
	logger.Info("Compositor closed surface", "entity", e, "surface", id)
	s.events.Push(event.WindowCloseRequested{Window: e})
}

// ActiveTouches returns the ids of the touch points currently down.
func (s *State) ActiveTouches() []int32 {
	ids := make([]int32, 0, len(s.touches))
	for id := range s.touches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
