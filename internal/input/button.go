package input

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
)

// MouseButton is a logical pointer button.
type MouseButton struct {
	Kind ButtonKind
	// Code holds the raw linux button code when Kind is ButtonOther.
	Code uint16
}

// ButtonKind enumerates the pointer buttons with a fixed meaning.
type ButtonKind int

const (
	ButtonLeft ButtonKind = iota
	ButtonRight
	ButtonMiddle
	ButtonForward
	ButtonBack
	ButtonOther
)

var (
	MouseLeft    = MouseButton{Kind: ButtonLeft}
	MouseRight   = MouseButton{Kind: ButtonRight}
	MouseMiddle  = MouseButton{Kind: ButtonMiddle}
	MouseForward = MouseButton{Kind: ButtonForward}
	MouseBack    = MouseButton{Kind: ButtonBack}
)

// MouseOther wraps a button code with no fixed meaning.
func MouseOther(code uint16) MouseButton {
	return MouseButton{Kind: ButtonOther, Code: code}
}

func (b MouseButton) String() string {
	switch b.Kind {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	case ButtonForward:
		return "Forward"
	case ButtonBack:
		return "Back"
	}
	return fmt.Sprintf("Other(%d)", b.Code)
}

// ButtonFor maps a linux input button code, as delivered by wl_pointer.button,
// to a logical button. It never fails.
func ButtonFor(code uint32) MouseButton {
	switch code {
	case evdev.BTN_LEFT:
		return MouseLeft
	case evdev.BTN_RIGHT:
		return MouseRight
	case evdev.BTN_MIDDLE:
		return MouseMiddle
	case evdev.BTN_FORWARD:
		return MouseForward
	case evdev.BTN_BACK:
		return MouseBack
	}
	return MouseOther(uint16(code))
}

// ButtonState is the pressed state of a key or button.
type ButtonState int

const (
	Released ButtonState = iota
	Pressed
)

func (s ButtonState) String() string {
	if s == Pressed {
		return "Pressed"
	}
	return "Released"
}

// StateFor converts a wire key or button state (0 released, 1 pressed).
func StateFor(wire uint32) ButtonState {
	if wire == 1 {
		return Pressed
	}
	return Released
}

// TouchPhase is the stage of a touch point's lifecycle.
type TouchPhase int

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCanceled
)

func (p TouchPhase) String() string {
	switch p {
	case TouchStarted:
		return "Started"
	case TouchMoved:
		return "Moved"
	case TouchEnded:
		return "Ended"
	case TouchCanceled:
		return "Canceled"
	}
	return "Unknown"
}
