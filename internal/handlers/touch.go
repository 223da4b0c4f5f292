package handlers

import (
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/scene"
	"github.com/bnema/wlscene/internal/surface"
)

// TouchDown starts tracking a touch point. x and y are physical.
func (s *State) TouchDown(id surface.ID, touchID int32, x, y float64) {
	e, ok := s.entityFor(id)
	if !ok {
		logger.Warn("Touch down on unknown surface", "surface", id, "touch", touchID)
		return
	}
	w, ok := s.window(e)
	if !ok {
		logger.Warn("Touch down for entity without a window", "entity", e)
		return
	}
	pos := scene.Vec2{X: x, Y: y}.Scale(w.Scale())
	s.touches[touchID] = touchPoint{window: e, position: pos}
	s.pushTouch(e, input.TouchStarted, pos, touchID)
}

// TouchMotion moves a tracked touch point.
func (s *State) TouchMotion(touchID int32, x, y float64) {
	tp, ok := s.touches[touchID]
	if !ok {
		logger.Warn("Touch motion for unknown touch id", "touch", touchID)
		return
	}
	w, ok := s.window(tp.window)
	if !ok {
		logger.Warn("Touch motion for entity without a window", "entity", tp.window)
		return
	}
	tp.position = scene.Vec2{X: x, Y: y}.Scale(w.Scale())
	s.touches[touchID] = tp
	s.pushTouch(tp.window, input.TouchMoved, tp.position, touchID)
}

// TouchUp ends a touch point at its last known position; up events carry
// no coordinates.
func (s *State) TouchUp(touchID int32) {
	tp, ok := s.touches[touchID]
	if !ok {
		logger.Warn("Touch up for unknown touch id", "touch", touchID)
		return
	}
	delete(s.touches, touchID)
	s.pushTouch(tp.window, input.TouchEnded, tp.position, touchID)
}

// TouchCancel cancels every active touch point, in ascending id order.
func (s *State) TouchCancel() {
	for _, touchID := range s.ActiveTouches() {
		tp := s.touches[touchID]
		delete(s.touches, touchID)
		s.pushTouch(tp.window, input.TouchCanceled, tp.position, touchID)
	}
}

func (s *State) pushTouch(e scene.Entity, phase input.TouchPhase, pos scene.Vec2, touchID int32) {
	s.events.Push(event.TouchInput{
		Window:   e,
		Phase:    phase,
		Position: pos,
		ID:       uint64(uint32(touchID)),
	})
}
