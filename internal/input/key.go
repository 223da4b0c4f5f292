package input

import "fmt"

// Key is the logical meaning of a key press: the character it produces under
// the active layout, a named non-printing key, or an unidentified symbol.
type Key interface {
	isKey()
	String() string
}

// Character is a key that produces text.
type Character struct {
	Text string
}

// Named is a non-printing key with a well known meaning.
type Named struct {
	Name NamedKey
}

// Unidentified carries a keysym that neither produced text nor matched a
// named key.
type Unidentified struct {
	Keysym Keysym
}

func (Character) isKey()    {}
func (Named) isKey()        {}
func (Unidentified) isKey() {}

func (c Character) String() string    { return fmt.Sprintf("Character(%q)", c.Text) }
func (n Named) String() string        { return n.Name.String() }
func (u Unidentified) String() string { return "Unidentified(" + u.Keysym.String() + ")" }

// NamedKey enumerates the non-printing keys.
type NamedKey int

const (
	NamedUnknown NamedKey = iota
	NamedEnter
	NamedTab
	NamedSpace
	NamedBackspace
	NamedEscape
	NamedDelete
	NamedInsert
	NamedHome
	NamedEnd
	NamedPageUp
	NamedPageDown
	NamedArrowLeft
	NamedArrowRight
	NamedArrowUp
	NamedArrowDown
	NamedShift
	NamedControl
	NamedAlt
	NamedSuper
	NamedMeta
	NamedCapsLock
	NamedNumLock
	NamedScrollLock
	NamedPrintScreen
	NamedPause
	NamedContextMenu
	NamedF1
	NamedF2
	NamedF3
	NamedF4
	NamedF5
	NamedF6
	NamedF7
	NamedF8
	NamedF9
	NamedF10
	NamedF11
	NamedF12
	NamedF13
	NamedF14
	NamedF15
	NamedF16
	NamedF17
	NamedF18
	NamedF19
	NamedF20
	NamedF21
	NamedF22
	NamedF23
	NamedF24
)

var namedKeyNames = map[NamedKey]string{
	NamedEnter:       "Enter",
	NamedTab:         "Tab",
	NamedSpace:       "Space",
	NamedBackspace:   "Backspace",
	NamedEscape:      "Escape",
	NamedDelete:      "Delete",
	NamedInsert:      "Insert",
	NamedHome:        "Home",
	NamedEnd:         "End",
	NamedPageUp:      "PageUp",
	NamedPageDown:    "PageDown",
	NamedArrowLeft:   "ArrowLeft",
	NamedArrowRight:  "ArrowRight",
	NamedArrowUp:     "ArrowUp",
	NamedArrowDown:   "ArrowDown",
	NamedShift:       "Shift",
	NamedControl:     "Control",
	NamedAlt:         "Alt",
	NamedSuper:       "Super",
	NamedMeta:        "Meta",
	NamedCapsLock:    "CapsLock",
	NamedNumLock:     "NumLock",
	NamedScrollLock:  "ScrollLock",
	NamedPrintScreen: "PrintScreen",
	NamedPause:       "Pause",
	NamedContextMenu: "ContextMenu",
}

func (n NamedKey) String() string {
	if n >= NamedF1 && n <= NamedF24 {
		return fmt.Sprintf("F%d", int(n-NamedF1)+1)
	}
	if s, ok := namedKeyNames[n]; ok {
		return s
	}
	return "Unknown"
}

var namedKeys = map[Keysym]NamedKey{
	KeysymReturn:     NamedEnter,
	KeysymKPEnter:    NamedEnter,
	KeysymTab:        NamedTab,
	KeysymBackSpace:  NamedBackspace,
	KeysymEscape:     NamedEscape,
	KeysymDelete:     NamedDelete,
	KeysymInsert:     NamedInsert,
	KeysymHome:       NamedHome,
	KeysymEnd:        NamedEnd,
	KeysymPageUp:     NamedPageUp,
	KeysymPageDown:   NamedPageDown,
	KeysymLeft:       NamedArrowLeft,
	KeysymRight:      NamedArrowRight,
	KeysymUp:         NamedArrowUp,
	KeysymDown:       NamedArrowDown,
	KeysymShiftL:     NamedShift,
	KeysymShiftR:     NamedShift,
	KeysymControlL:   NamedControl,
	KeysymControlR:   NamedControl,
	KeysymAltL:       NamedAlt,
	KeysymAltR:       NamedAlt,
	KeysymSuperL:     NamedSuper,
	KeysymSuperR:     NamedSuper,
	KeysymMetaL:      NamedMeta,
	KeysymMetaR:      NamedMeta,
	KeysymCapsLock:   NamedCapsLock,
	KeysymNumLock:    NamedNumLock,
	KeysymScrollLock: NamedScrollLock,
	KeysymPrint:      NamedPrintScreen,
	KeysymPause:      NamedPause,
	KeysymMenu:       NamedContextMenu,

	KeysymKPHome:         NamedHome,
	KeysymKPEnd:          NamedEnd,
	KeysymKPLeft:         NamedArrowLeft,
	KeysymKPRight:        NamedArrowRight,
	KeysymKPUp:           NamedArrowUp,
	KeysymKPDown:         NamedArrowDown,
	KeysymKPPageUp:       NamedPageUp,
	KeysymKPPageDown:     NamedPageDown,
	KeysymKPInsert:       NamedInsert,
	KeysymKPDelete:       NamedDelete,
	KeysymISOLeftTab:     NamedTab,
	KeysymISOLevel3Shift: NamedAlt,
}

// NamedKeyFor looks a keysym up in the named key table.
func NamedKeyFor(sym Keysym) (NamedKey, bool) {
	if sym >= KeysymF1 && sym <= KeysymF24 {
		return NamedF1 + NamedKey(sym-KeysymF1), true
	}
	n, ok := namedKeys[sym]
	return n, ok
}

// LogicalKey resolves the logical key for a keysym. text is the character
// produced by the layout, if any, and wins over the keysym's own character.
// Space resolves to the named key even though it produces text.
func LogicalKey(sym Keysym, text string) Key {
	if sym == KeysymSpace {
		return Named{Name: NamedSpace}
	}
	if text != "" && isPrintable(text) {
		return Character{Text: text}
	}
	if r, ok := sym.Rune(); ok {
		return Character{Text: string(r)}
	}
	if n, ok := NamedKeyFor(sym); ok {
		return Named{Name: n}
	}
	return Unidentified{Keysym: sym}
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
