// Package event defines the normalized window and input events delivered to
// the host, and the ordered buffer that carries them from protocol handlers
// to the host's event sink.
package event

import (
	"fmt"

	"github.com/bnema/wlscene/internal/input"
	"github.com/bnema/wlscene/internal/scene"
)

// Event is one normalized event. The concrete types below are the only
// implementations.
type Event interface {
	// Target is the window the event is directed at.
	Target() scene.Entity
	String() string
}

// CursorMoved reports a new logical pointer position. Delta is nil when no
// previous position was recorded for the window.
type CursorMoved struct {
	Window   scene.Entity
	Position scene.Vec2
	Delta    *scene.Vec2
}

type CursorEntered struct {
	Window scene.Entity
}

type CursorLeft struct {
	Window scene.Entity
}

type MouseButtonInput struct {
	Window scene.Entity
	Button input.MouseButton
	State  input.ButtonState
}

// MouseWheel carries scroll amounts in logical pixels.
type MouseWheel struct {
	Window scene.Entity
	X, Y   float64
}

type KeyboardInput struct {
	Window     scene.Entity
	KeyCode    input.KeyCode
	LogicalKey input.Key
	Keysym     input.Keysym
	State      input.ButtonState
}

// TouchInput is one phase of a touch point. Position is logical.
type TouchInput struct {
	Window   scene.Entity
	Phase    input.TouchPhase
	Position scene.Vec2
	ID       uint64
}

type WindowCreated struct {
	Window scene.Entity
}

// WindowClosing is sent to every open window when the process is asked to
// exit, before any teardown.
type WindowClosing struct {
	Window scene.Entity
}

// WindowClosed is sent once the window's surface has left the registry.
type WindowClosed struct {
	Window scene.Entity
}

// WindowCloseRequested is sent when the compositor closes a surface.
type WindowCloseRequested struct {
	Window scene.Entity
}

type WindowScaleFactorChanged struct {
	Window      scene.Entity
	ScaleFactor float64
}

// WindowResized carries the logical size accepted from a configure.
type WindowResized struct {
	Window        scene.Entity
	Width, Height float64
}

type WindowFocused struct {
	Window  scene.Entity
	Focused bool
}

func (e CursorMoved) Target() scene.Entity              { return e.Window }
func (e CursorEntered) Target() scene.Entity            { return e.Window }
func (e CursorLeft) Target() scene.Entity               { return e.Window }
func (e MouseButtonInput) Target() scene.Entity         { return e.Window }
func (e MouseWheel) Target() scene.Entity               { return e.Window }
func (e KeyboardInput) Target() scene.Entity            { return e.Window }
func (e TouchInput) Target() scene.Entity               { return e.Window }
func (e WindowCreated) Target() scene.Entity            { return e.Window }
func (e WindowClosing) Target() scene.Entity            { return e.Window }
func (e WindowClosed) Target() scene.Entity             { return e.Window }
func (e WindowCloseRequested) Target() scene.Entity     { return e.Window }
func (e WindowScaleFactorChanged) Target() scene.Entity { return e.Window }
func (e WindowResized) Target() scene.Entity            { return e.Window }
func (e WindowFocused) Target() scene.Entity            { return e.Window }

func (e CursorMoved) String() string {
	if e.Delta == nil {
		return fmt.Sprintf("CursorMoved(%d, %.1f,%.1f)", e.Window, e.Position.X, e.Position.Y)
	}
	return fmt.Sprintf("CursorMoved(%d, %.1f,%.1f, delta %.1f,%.1f)", e.Window, e.Position.X, e.Position.Y, e.Delta.X, e.Delta.Y)
}

func (e CursorEntered) String() string { return fmt.Sprintf("CursorEntered(%d)", e.Window) }
func (e CursorLeft) String() string    { return fmt.Sprintf("CursorLeft(%d)", e.Window) }

func (e MouseButtonInput) String() string {
	return fmt.Sprintf("MouseButtonInput(%d, %s %s)", e.Window, e.Button, e.State)
}

func (e MouseWheel) String() string {
	return fmt.Sprintf("MouseWheel(%d, %.1f,%.1f)", e.Window, e.X, e.Y)
}

func (e KeyboardInput) String() string {
	return fmt.Sprintf("KeyboardInput(%d, %s %s %s)", e.Window, e.KeyCode, e.LogicalKey, e.State)
}

func (e TouchInput) String() string {
	return fmt.Sprintf("TouchInput(%d, id %d %s %.1f,%.1f)", e.Window, e.ID, e.Phase, e.Position.X, e.Position.Y)
}

func (e WindowCreated) String() string { return fmt.Sprintf("WindowCreated(%d)", e.Window) }
func (e WindowClosing) String() string { return fmt.Sprintf("WindowClosing(%d)", e.Window) }
func (e WindowClosed) String() string  { return fmt.Sprintf("WindowClosed(%d)", e.Window) }
func (e WindowCloseRequested) String() string {
	return fmt.Sprintf("WindowCloseRequested(%d)", e.Window)
}

func (e WindowScaleFactorChanged) String() string {
	return fmt.Sprintf("WindowScaleFactorChanged(%d, %.2f)", e.Window, e.ScaleFactor)
}

func (e WindowResized) String() string {
	return fmt.Sprintf("WindowResized(%d, %.0fx%.0f)", e.Window, e.Width, e.Height)
}

func (e WindowFocused) String() string {
	return fmt.Sprintf("WindowFocused(%d, %t)", e.Window, e.Focused)
}
