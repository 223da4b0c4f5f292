package input

import "fmt"

// KeyCode identifies a physical key position independent of layout.
type KeyCode int

const (
	KeyCodeUnidentified KeyCode = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Digit0
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9

	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	F13
	F14
	F15
	F16
	F17
	F18
	F19
	F20
	F21
	F22
	F23
	F24

	ArrowLeft
	ArrowRight
	ArrowUp
	ArrowDown

	ShiftLeft
	ShiftRight
	ControlLeft
	ControlRight
	AltLeft
	AltRight
	SuperLeft
	SuperRight
	CapsLock
	NumLock
	ScrollLock

	Home
	End
	PageUp
	PageDown
	Insert
	Delete
	Backspace
	Enter
	Tab
	Space
	Escape
	PrintScreen
	Pause
	ContextMenu

	Numpad0
	Numpad1
	Numpad2
	Numpad3
	Numpad4
	Numpad5
	Numpad6
	Numpad7
	Numpad8
	Numpad9
	NumpadAdd
	NumpadSubtract
	NumpadMultiply
	NumpadDivide
	NumpadDecimal
	NumpadComma
	NumpadEnter
	NumpadEqual

	Minus
	Equal
	BracketLeft
	BracketRight
	Backslash
	Semicolon
	Quote
	Backquote
	Comma
	Period
	Slash
)

var keyCodeNames = map[KeyCode]string{
	KeyCodeUnidentified: "Unidentified",
	ArrowLeft:           "ArrowLeft",
	ArrowRight:          "ArrowRight",
	ArrowUp:             "ArrowUp",
	ArrowDown:           "ArrowDown",
	ShiftLeft:           "ShiftLeft",
	ShiftRight:          "ShiftRight",
	ControlLeft:         "ControlLeft",
	ControlRight:        "ControlRight",
	AltLeft:             "AltLeft",
	AltRight:            "AltRight",
	SuperLeft:           "SuperLeft",
	SuperRight:          "SuperRight",
	CapsLock:            "CapsLock",
	NumLock:             "NumLock",
	ScrollLock:          "ScrollLock",
	Home:                "Home",
	End:                 "End",
	PageUp:              "PageUp",
	PageDown:            "PageDown",
	Insert:              "Insert",
	Delete:              "Delete",
	Backspace:           "Backspace",
	Enter:               "Enter",
	Tab:                 "Tab",
	Space:               "Space",
	Escape:              "Escape",
	PrintScreen:         "PrintScreen",
	Pause:               "Pause",
	ContextMenu:         "ContextMenu",
	NumpadAdd:           "NumpadAdd",
	NumpadSubtract:      "NumpadSubtract",
	NumpadMultiply:      "NumpadMultiply",
	NumpadDivide:        "NumpadDivide",
	NumpadDecimal:       "NumpadDecimal",
	NumpadComma:         "NumpadComma",
	NumpadEnter:         "NumpadEnter",
	NumpadEqual:         "NumpadEqual",
	Minus:               "Minus",
	Equal:               "Equal",
	BracketLeft:         "BracketLeft",
	BracketRight:        "BracketRight",
	Backslash:           "Backslash",
	Semicolon:           "Semicolon",
	Quote:               "Quote",
	Backquote:           "Backquote",
	Comma:               "Comma",
	Period:              "Period",
	Slash:               "Slash",
}

func (c KeyCode) String() string {
	switch {
	case c >= KeyA && c <= KeyZ:
		return fmt.Sprintf("Key%c", 'A'+rune(c-KeyA))
	case c >= Digit0 && c <= Digit9:
		return fmt.Sprintf("Digit%d", int(c-Digit0))
	case c >= F1 && c <= F24:
		return fmt.Sprintf("F%d", int(c-F1)+1)
	case c >= Numpad0 && c <= Numpad9:
		return fmt.Sprintf("Numpad%d", int(c-Numpad0))
	}
	if s, ok := keyCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("KeyCode(%d)", int(c))
}

// Punctuation keysyms map to the unshifted physical key on a US layout, so
// both '-' and '_' resolve to Minus.
var keyCodes = map[Keysym]KeyCode{
	KeysymLeft:  ArrowLeft,
	KeysymRight: ArrowRight,
	KeysymUp:    ArrowUp,
	KeysymDown:  ArrowDown,

	KeysymShiftL:     ShiftLeft,
	KeysymShiftR:     ShiftRight,
	KeysymControlL:   ControlLeft,
	KeysymControlR:   ControlRight,
	KeysymAltL:       AltLeft,
	KeysymAltR:       AltRight,
	KeysymMetaL:      AltLeft,
	KeysymMetaR:      AltRight,
	KeysymSuperL:     SuperLeft,
	KeysymSuperR:     SuperRight,
	KeysymCapsLock:   CapsLock,
	KeysymNumLock:    NumLock,
	KeysymScrollLock: ScrollLock,

	KeysymHome:      Home,
	KeysymEnd:       End,
	KeysymPageUp:    PageUp,
	KeysymPageDown:  PageDown,
	KeysymInsert:    Insert,
	KeysymDelete:    Delete,
	KeysymBackSpace: Backspace,
	KeysymReturn:    Enter,
	KeysymTab:       Tab,
	KeysymSpace:     Space,
	KeysymEscape:    Escape,
	KeysymPrint:     PrintScreen,
	KeysymPause:     Pause,
	KeysymMenu:      ContextMenu,

	KeysymKPAdd:       NumpadAdd,
	KeysymKPSubtract:  NumpadSubtract,
	KeysymKPMultiply:  NumpadMultiply,
	KeysymKPDivide:    NumpadDivide,
	KeysymKPDecimal:   NumpadDecimal,
	KeysymKPSeparator: NumpadComma,
	KeysymKPEnter:     NumpadEnter,
	KeysymKPEqual:     NumpadEqual,

	KeysymMinus:        Minus,
	KeysymUnderscore:   Minus,
	KeysymEqual:        Equal,
	KeysymPlus:         Equal,
	KeysymBracketleft:  BracketLeft,
	KeysymBraceleft:    BracketLeft,
	KeysymBracketright: BracketRight,
	KeysymBraceright:   BracketRight,
	KeysymBackslash:    Backslash,
	KeysymBar:          Backslash,
	KeysymSemicolon:    Semicolon,
	KeysymColon:        Semicolon,
	KeysymApostrophe:   Quote,
	KeysymQuotedbl:     Quote,
	KeysymGrave:        Backquote,
	KeysymAsciitilde:   Backquote,
	KeysymComma:        Comma,
	KeysymLess:         Comma,
	KeysymPeriod:       Period,
	KeysymGreater:      Period,
	KeysymSlash:        Slash,
	KeysymQuestion:     Slash,

	// Shifted digits on a US layout.
	KeysymParenright:  Digit0,
	KeysymExclam:      Digit1,
	KeysymAt:          Digit2,
	KeysymNumbersign:  Digit3,
	KeysymDollar:      Digit4,
	KeysymPercent:     Digit5,
	KeysymAsciicircum: Digit6,
	KeysymAmpersand:   Digit7,
	KeysymAsterisk:    Digit8,
	KeysymParenleft:   Digit9,
}

// KeyCodeFor maps a keysym to its physical key code. Symbols outside every
// table yield KeyCodeUnidentified and false.
func KeyCodeFor(sym Keysym) (KeyCode, bool) {
	switch {
	case sym >= KeysymA && sym <= KeysymZ:
		return KeyA + KeyCode(sym-KeysymA), true
	case sym >= Keysyma && sym <= Keysymz:
		return KeyA + KeyCode(sym-Keysyma), true
	case sym >= Keysym0 && sym <= Keysym9:
		return Digit0 + KeyCode(sym-Keysym0), true
	case sym >= KeysymF1 && sym <= KeysymF24:
		return F1 + KeyCode(sym-KeysymF1), true
	case sym >= KeysymKP0 && sym <= KeysymKP9:
		return Numpad0 + KeyCode(sym-KeysymKP0), true
	}
	if c, ok := keyCodes[sym]; ok {
		return c, true
	}
	return KeyCodeUnidentified, false
}
