package handlers

import (
	"github.com/bnema/wlscene/internal/event"
	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/logger"
	"github.com/bnema/wlscene/internal/surface"
)

// KeyboardEnter gives keyboard focus to a surface.
func (s *State) KeyboardEnter(id surface.ID) {
	s.focus = id
	s.hasFocus = true
	if e, ok := s.entityFor(id); ok {
		s.events.Push(event.WindowFocused{Window: e, Focused: true})
	}
}

// KeyboardLeave clears focus only if id still holds it. Enter and leave for
// different surfaces can arrive out of order.
func (s *State) KeyboardLeave(id surface.ID) {
	if !s.hasFocus || s.focus != id {
		logger.Debug("Ignoring stale keyboard leave", "surface", id)
		return
	}
	s.hasFocus = false
	if e, ok := s.entityFor(id); ok {
		s.events.Push(event.WindowFocused{Window: e, Focused: false})
	}
}

// Focus returns the surface holding keyboard focus.
func (s *State) Focus() (surface.ID, bool) {
	return s.focus, s.hasFocus
}

// KeyboardKeymap installs the compositor's xkb keymap. Nil text, or text
// that cannot be parsed, leaves the configured layout table in use.
func (s *State) KeyboardKeymap(text []byte) {
	if err := s.keymap.LoadXKB(text); err != nil {
		logger.Warn("Falling back to built-in keyboard layout", "layout", s.keymap.Layout(), "error", err)
		_ = s.keymap.LoadXKB(nil)
	}
}

// KeyboardModifiers updates the keymap's modifier state.
func (s *State) KeyboardModifiers(depressed, latched, locked uint32) {
	s.keymap.SetModifiers(depressed, latched, locked)
}

// KeyboardKey translates a key press or release on the focused surface.
// code is a linux evdev key code, state is the wire key state.
func (s *State) KeyboardKey(code, state uint32) {
	if !s.hasFocus {
		logger.Warn("Key event without keyboard focus", "code", code)
		return
	}
	e, ok := s.entityFor(s.focus)
	if !ok {
		logger.Warn("Key event for unknown surface", "surface", s.focus, "code", code)
		return
	}

	sym, text := s.keymap.Lookup(code)
	logical := input.LogicalKey(sym, text)
	keyCode, mapped := input.KeyCodeFor(sym)
	if _, unknown := logical.(input.Unidentified); unknown || !mapped {
		logger.Debug("Unmapped key symbol", "code", code, "keysym", sym)
	}

	s.events.Push(event.KeyboardInput{
		Window:     e,
		KeyCode:    keyCode,
		LogicalKey: logical,
		Keysym:     sym,
		State:      input.StateFor(state),
	})
}
