package input

import (
	"fmt"
	"strings"

	"github.com/bnema/wlscene/internal/logger"
	evdev "github.com/gvalkov/golang-evdev"
)

// xkb modifier masks as sent by wl_keyboard.modifiers. NumLock and Level3
// are the real modifiers xkeyboard-config binds Num_Lock and AltGr to.
const (
	ModShift   uint32 = 1 << 0
	ModLock    uint32 = 1 << 1
	ModControl uint32 = 1 << 2
	ModAlt     uint32 = 1 << 3
	ModNumLock uint32 = 1 << 4
	ModLevel3  uint32 = 1 << 7
)

type keyPair struct {
	base, shifted Keysym
}

func same(k Keysym) keyPair { return keyPair{k, k} }

func letter(r rune) keyPair {
	return keyPair{Keysym(r), KeysymLetter(r)}
}

// usLayout maps linux evdev key codes to keysyms on a US QWERTY keyboard.
var usLayout = map[uint32]keyPair{
	evdev.KEY_ESC:       same(KeysymEscape),
	evdev.KEY_1:         {'1', KeysymExclam},
	evdev.KEY_2:         {'2', KeysymAt},
	evdev.KEY_3:         {'3', KeysymNumbersign},
	evdev.KEY_4:         {'4', KeysymDollar},
	evdev.KEY_5:         {'5', KeysymPercent},
	evdev.KEY_6:         {'6', KeysymAsciicircum},
	evdev.KEY_7:         {'7', KeysymAmpersand},
	evdev.KEY_8:         {'8', KeysymAsterisk},
	evdev.KEY_9:         {'9', KeysymParenleft},
	evdev.KEY_0:         {'0', KeysymParenright},
	evdev.KEY_MINUS:     {KeysymMinus, KeysymUnderscore},
	evdev.KEY_EQUAL:     {KeysymEqual, KeysymPlus},
	evdev.KEY_BACKSPACE: same(KeysymBackSpace),
	evdev.KEY_TAB:       same(KeysymTab),

	evdev.KEY_Q: letter('q'),
	evdev.KEY_W: letter('w'),
	evdev.KEY_E: letter('e'),
	evdev.KEY_R: letter('r'),
	evdev.KEY_T: letter('t'),
	evdev.KEY_Y: letter('y'),
	evdev.KEY_U: letter('u'),
	evdev.KEY_I: letter('i'),
	evdev.KEY_O: letter('o'),
	evdev.KEY_P: letter('p'),
	evdev.KEY_A: letter('a'),
	evdev.KEY_S: letter('s'),
	evdev.KEY_D: letter('d'),
	evdev.KEY_F: letter('f'),
	evdev.KEY_G: letter('g'),
	evdev.KEY_H: letter('h'),
	evdev.KEY_J: letter('j'),
	evdev.KEY_K: letter('k'),
	evdev.KEY_L: letter('l'),
	evdev.KEY_Z: letter('z'),
	evdev.KEY_X: letter('x'),
	evdev.KEY_C: letter('c'),
	evdev.KEY_V: letter('v'),
	evdev.KEY_B: letter('b'),
	evdev.KEY_N: letter('n'),
	evdev.KEY_M: letter('m'),

	evdev.KEY_LEFTBRACE:  {KeysymBracketleft, KeysymBraceleft},
	evdev.KEY_RIGHTBRACE: {KeysymBracketright, KeysymBraceright},
	evdev.KEY_ENTER:      same(KeysymReturn),
	evdev.KEY_SEMICOLON:  {KeysymSemicolon, KeysymColon},
	evdev.KEY_APOSTROPHE: {KeysymApostrophe, KeysymQuotedbl},
	evdev.KEY_GRAVE:      {KeysymGrave, KeysymAsciitilde},
	evdev.KEY_BACKSLASH:  {KeysymBackslash, KeysymBar},
	evdev.KEY_COMMA:      {KeysymComma, KeysymLess},
	evdev.KEY_DOT:        {KeysymPeriod, KeysymGreater},
	evdev.KEY_SLASH:      {KeysymSlash, KeysymQuestion},
	evdev.KEY_SPACE:      same(KeysymSpace),

	evdev.KEY_LEFTSHIFT:  same(KeysymShiftL),
	evdev.KEY_RIGHTSHIFT: same(KeysymShiftR),
	evdev.KEY_LEFTCTRL:   same(KeysymControlL),
	evdev.KEY_RIGHTCTRL:  same(KeysymControlR),
	evdev.KEY_LEFTALT:    same(KeysymAltL),
	evdev.KEY_RIGHTALT:   same(KeysymAltR),
	evdev.KEY_LEFTMETA:   same(KeysymSuperL),
	evdev.KEY_RIGHTMETA:  same(KeysymSuperR),
	evdev.KEY_CAPSLOCK:   same(KeysymCapsLock),
	evdev.KEY_NUMLOCK:    same(KeysymNumLock),
	evdev.KEY_SCROLLLOCK: same(KeysymScrollLock),
	evdev.KEY_COMPOSE:    same(KeysymMenu),

	evdev.KEY_SYSRQ:    same(KeysymPrint),
	evdev.KEY_PAUSE:    same(KeysymPause),
	evdev.KEY_HOME:     same(KeysymHome),
	evdev.KEY_END:      same(KeysymEnd),
	evdev.KEY_PAGEUP:   same(KeysymPageUp),
	evdev.KEY_PAGEDOWN: same(KeysymPageDown),
	evdev.KEY_INSERT:   same(KeysymInsert),
	evdev.KEY_DELETE:   same(KeysymDelete),
	evdev.KEY_LEFT:     same(KeysymLeft),
	evdev.KEY_RIGHT:    same(KeysymRight),
	evdev.KEY_UP:       same(KeysymUp),
	evdev.KEY_DOWN:     same(KeysymDown),

	evdev.KEY_KP0:        same(KeysymKP0),
	evdev.KEY_KP1:        same(KeysymKP0 + 1),
	evdev.KEY_KP2:        same(KeysymKP0 + 2),
	evdev.KEY_KP3:        same(KeysymKP0 + 3),
	evdev.KEY_KP4:        same(KeysymKP0 + 4),
	evdev.KEY_KP5:        same(KeysymKP0 + 5),
	evdev.KEY_KP6:        same(KeysymKP0 + 6),
	evdev.KEY_KP7:        same(KeysymKP0 + 7),
	evdev.KEY_KP8:        same(KeysymKP0 + 8),
	evdev.KEY_KP9:        same(KeysymKP9),
	evdev.KEY_KPPLUS:     same(KeysymKPAdd),
	evdev.KEY_KPMINUS:    same(KeysymKPSubtract),
	evdev.KEY_KPASTERISK: same(KeysymKPMultiply),
	evdev.KEY_KPSLASH:    same(KeysymKPDivide),
	evdev.KEY_KPDOT:      same(KeysymKPDecimal),
	evdev.KEY_KPCOMMA:    same(KeysymKPSeparator),
	evdev.KEY_KPENTER:    same(KeysymKPEnter),
	evdev.KEY_KPEQUAL:    same(KeysymKPEqual),
}

// functionKeys lists evdev F1..F24 in order; the codes are not contiguous.
var functionKeys = []uint32{
	evdev.KEY_F1, evdev.KEY_F2, evdev.KEY_F3, evdev.KEY_F4, evdev.KEY_F5, evdev.KEY_F6,
	evdev.KEY_F7, evdev.KEY_F8, evdev.KEY_F9, evdev.KEY_F10, evdev.KEY_F11, evdev.KEY_F12,
	evdev.KEY_F13, evdev.KEY_F14, evdev.KEY_F15, evdev.KEY_F16, evdev.KEY_F17, evdev.KEY_F18,
	evdev.KEY_F19, evdev.KEY_F20, evdev.KEY_F21, evdev.KEY_F22, evdev.KEY_F23, evdev.KEY_F24,
}

func init() {
	for i, code := range functionKeys {
		usLayout[code] = same(KeysymF(i + 1))
	}
}

// frOverrides are the AZERTY keys that differ from QWERTY.
var frOverrides = map[uint32]keyPair{
	evdev.KEY_Q:          letter('a'),
	evdev.KEY_A:          letter('q'),
	evdev.KEY_W:          letter('z'),
	evdev.KEY_Z:          letter('w'),
	evdev.KEY_SEMICOLON:  letter('m'),
	evdev.KEY_M:          {KeysymComma, KeysymQuestion},
	evdev.KEY_1:          {KeysymAmpersand, '1'},
	evdev.KEY_2:          {0xe9, '2'}, // eacute
	evdev.KEY_3:          {KeysymQuotedbl, '3'},
	evdev.KEY_4:          {KeysymApostrophe, '4'},
	evdev.KEY_5:          {KeysymParenleft, '5'},
	evdev.KEY_6:          {KeysymMinus, '6'},
	evdev.KEY_7:          {0xe8, '7'}, // egrave
	evdev.KEY_8:          {KeysymUnderscore, '8'},
	evdev.KEY_9:          {0xe7, '9'}, // ccedilla
	evdev.KEY_0:          {0xe0, '0'}, // agrave
	evdev.KEY_MINUS:      {KeysymParenright, 0xb0},
	evdev.KEY_COMMA:      {KeysymSemicolon, KeysymPeriod},
	evdev.KEY_DOT:        {KeysymColon, KeysymSlash},
	evdev.KEY_SLASH:      {KeysymExclam, 0xa7},
	evdev.KEY_APOSTROPHE: {0xf9, KeysymPercent}, // ugrave
}

var layouts = map[string]map[uint32]keyPair{
	"us": usLayout,
	"fr": frOverrides,
}

// Keymap resolves evdev key codes to keysyms and text. It uses the
// compositor's xkb keymap once one is loaded and the built-in layout table
// otherwise. Modifier state comes from wl_keyboard.modifiers.
type Keymap struct {
	layout    string
	overrides map[uint32]keyPair
	xkb       *XKBKeymap

	shift   bool
	caps    bool
	control bool
	altgr   bool
	numlock bool
}

// Layouts lists the supported layout names.
func Layouts() []string {
	return []string{"us", "fr"}
}

// NewKeymap returns a keymap for layout ("us" or "fr"; empty means "us").
func NewKeymap(layout string) (*Keymap, error) {
	layout = strings.ToLower(strings.TrimSpace(layout))
	if layout == "" {
		layout = "us"
	}
	table, ok := layouts[layout]
	if !ok {
		return nil, fmt.Errorf("unsupported keyboard layout %q (supported: %s)", layout, strings.Join(Layouts(), ", "))
	}
	km := &Keymap{layout: layout}
	if layout != "us" {
		km.overrides = table
	}
	logger.Debugf("Keymap layout: %s", layout)
	return km, nil
}

// Layout returns the fallback layout name.
func (k *Keymap) Layout() string { return k.layout }

// LoadXKB replaces the active keymap with a compositor keymap in xkb text
// format. Nil text reverts to the layout table. On error the previous
// keymap stays active.
func (k *Keymap) LoadXKB(text []byte) error {
	if text == nil {
		k.xkb = nil
		return nil
	}
	xkb, err := ParseXKB(text)
	if err != nil {
		return err
	}
	k.xkb = xkb
	logger.Debugf("Loaded compositor keymap with %d keys", xkb.Len())
	return nil
}

// UsesXKB reports whether a compositor keymap is active.
func (k *Keymap) UsesXKB() bool { return k.xkb != nil }

// SetModifiers updates the modifier state from a wl_keyboard.modifiers event.
func (k *Keymap) SetModifiers(depressed, latched, locked uint32) {
	active := depressed | latched
	k.shift = active&ModShift != 0
	k.control = active&ModControl != 0
	k.altgr = (active|locked)&ModLevel3 != 0
	k.caps = locked&ModLock != 0
	k.numlock = (active|locked)&ModNumLock != 0
}

// Lookup returns the keysym for an evdev key code under the current
// modifiers, plus the text it produces. Unknown codes return
// KeysymNoSymbol.
func (k *Keymap) Lookup(code uint32) (Keysym, string) {
	if k.xkb != nil {
		return k.text(k.xkb.Lookup(code, k.shift, k.caps, k.altgr, k.numlock))
	}

	pair, ok := k.overrides[code]
	if !ok {
		pair, ok = usLayout[code]
	}
	if !ok {
		return KeysymNoSymbol, ""
	}

	sym := pair.base
	isLetter := asciiLetter(pair.base)
	if k.shift != (isLetter && k.caps) {
		sym = pair.shifted
	}
	return k.text(sym)
}

func (k *Keymap) text(sym Keysym) (Keysym, string) {
	if k.control {
		return sym, ""
	}
	if r, ok := sym.Rune(); ok {
		return sym, string(r)
	}
	return sym, ""
}

func asciiLetter(sym Keysym) bool {
	return sym >= Keysyma && sym <= Keysymz
}
