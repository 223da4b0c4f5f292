package input

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// xkbEvdevOffset converts linux evdev key codes to xkb key codes.
const xkbEvdevOffset = 8

// ErrNoSymbols is returned for keymap text without an xkb_symbols section.
var ErrNoSymbols = errors.New("keymap has no xkb_symbols section")

// keyType is the subset of xkb key types that decides the shift level.
type keyType int

const (
	typeOneLevel keyType = iota
	typeTwoLevel
	typeAlphabetic
	typeKeypad
	typeFourLevel
	typeFourLevelAlphabetic
	typeFourLevelSemiAlphabetic
	typeFourLevelKeypad
)

var keyTypes = map[string]keyType{
	"ONE_LEVEL":                 typeOneLevel,
	"TWO_LEVEL":                 typeTwoLevel,
	"ALPHABETIC":                typeAlphabetic,
	"KEYPAD":                    typeKeypad,
	"FOUR_LEVEL":                typeFourLevel,
	"FOUR_LEVEL_ALPHABETIC":     typeFourLevelAlphabetic,
	"FOUR_LEVEL_SEMIALPHABETIC": typeFourLevelSemiAlphabetic,
	"FOUR_LEVEL_KEYPAD":         typeFourLevelKeypad,
}

type xkbKey struct {
	kind   keyType
	levels []Keysym
}

// level picks the shift level for the active modifiers.
func (k xkbKey) level(shift, caps, altgr, numlock bool) int {
	switch k.kind {
	case typeOneLevel:
		return 0
	case typeAlphabetic:
		return b2i(shift != caps)
	case typeKeypad:
		return b2i(shift != numlock)
	case typeFourLevel:
		return 2*b2i(altgr) + b2i(shift)
	case typeFourLevelAlphabetic:
		return 2*b2i(altgr) + b2i(shift != caps)
	case typeFourLevelSemiAlphabetic:
		if altgr {
			return 2 + b2i(shift)
		}
		return b2i(shift != caps)
	case typeFourLevelKeypad:
		if altgr {
			return 2 + b2i(shift)
		}
		return b2i(shift != numlock)
	}
	return b2i(shift)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// XKBKeymap is the first group of a compiled xkb_v1 keymap, as sent by the
// compositor with wl_keyboard.keymap, keyed by xkb key code.
type XKBKeymap struct {
	keys map[uint32]xkbKey
}

var (
	xkbComment   = regexp.MustCompile(`//[^\n]*`)
	xkbKeycode   = regexp.MustCompile(`<([^>]+)>\s*=\s*(\d+)\s*;`)
	xkbAlias     = regexp.MustCompile(`alias\s*<([^>]+)>\s*=\s*<([^>]+)>\s*;`)
	xkbKeyStart  = regexp.MustCompile(`key\s*<([^>]+)>\s*\{`)
	xkbType      = regexp.MustCompile(`type(?:\[[^\]]*\])?\s*=\s*"([^"]+)"`)
	xkbSymbols   = regexp.MustCompile(`symbols\[Group1\]\s*=\s*\[([^\]]*)\]`)
	xkbIndexed   = regexp.MustCompile(`\w+\[[^\]]*\]\s*=\s*\[[^\]]*\]`)
	xkbFirstList = regexp.MustCompile(`\[([^\]]*)\]`)
)

// ParseXKB reads the keycodes and the first symbol group of a keymap in
// xkb text format. Symbol names it does not know resolve to
// KeysymNoSymbol.
func ParseXKB(text []byte) (*XKBKeymap, error) {
	src := xkbComment.ReplaceAllString(string(text), "")

	keycodes, ok := xkbSection(src, "xkb_keycodes")
	if !ok {
		return nil, errors.New("keymap has no xkb_keycodes section")
	}
	codes := make(map[string]uint32)
	for _, m := range xkbKeycode.FindAllStringSubmatch(keycodes, -1) {
		n, err := strconv.ParseUint(m[2], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("keycode <%s>: %w", m[1], err)
		}
		codes[m[1]] = uint32(n)
	}
	for _, m := range xkbAlias.FindAllStringSubmatch(keycodes, -1) {
		if code, ok := codes[m[2]]; ok {
			codes[m[1]] = code
		}
	}

	symbols, ok := xkbSection(src, "xkb_symbols")
	if !ok {
		return nil, ErrNoSymbols
	}
	km := &XKBKeymap{keys: make(map[uint32]xkbKey)}
	for _, loc := range xkbKeyStart.FindAllStringSubmatchIndex(symbols, -1) {
		name := symbols[loc[2]:loc[3]]
		body, ok := xkbBlock(symbols, loc[1]-1)
		if !ok {
			return nil, fmt.Errorf("key <%s>: unterminated block", name)
		}
		code, ok := codes[name]
		if !ok {
			continue
		}
		if key, ok := parseXKBKey(body); ok {
			km.keys[code] = key
		}
	}
	if len(km.keys) == 0 {
		return nil, errors.New("keymap defines no key symbols")
	}
	return km, nil
}

func parseXKBKey(body string) (xkbKey, bool) {
	var list string
	if m := xkbSymbols.FindStringSubmatch(body); m != nil {
		list = m[1]
	} else {
		stripped := xkbIndexed.ReplaceAllString(body, "")
		m := xkbFirstList.FindStringSubmatch(stripped)
		if m == nil {
			return xkbKey{}, false
		}
		list = m[1]
	}

	var levels []Keysym
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		levels = append(levels, KeysymFromName(name))
	}
	if len(levels) == 0 {
		return xkbKey{}, false
	}

	key := xkbKey{levels: levels, kind: inferKeyType(levels)}
	if m := xkbType.FindStringSubmatch(body); m != nil {
		if kind, ok := keyTypes[m[1]]; ok {
			key.kind = kind
		}
	}
	return key, true
}

// inferKeyType applies xkbcomp's rules for keys declared without a type.
func inferKeyType(levels []Keysym) keyType {
	switch {
	case len(levels) == 1:
		return typeOneLevel
	case len(levels) == 2:
		switch {
		case casePair(levels[0], levels[1]):
			return typeAlphabetic
		case isKeypad(levels[0]) || isKeypad(levels[1]):
			return typeKeypad
		}
		return typeTwoLevel
	}
	switch {
	case isKeypad(levels[0]) || isKeypad(levels[1]):
		return typeFourLevelKeypad
	case !casePair(levels[0], levels[1]):
		return typeFourLevel
	case len(levels) >= 4 && casePair(levels[2], levels[3]):
		return typeFourLevelAlphabetic
	}
	return typeFourLevelSemiAlphabetic
}

// casePair reports whether upper is the upper-case form of lower.
func casePair(lower, upper Keysym) bool {
	l, ok := lower.Rune()
	if !ok || !unicode.IsLower(l) {
		return false
	}
	u, ok := upper.Rune()
	return ok && u != l && unicode.ToUpper(l) == u
}

func isKeypad(k Keysym) bool {
	return k >= 0xff80 && k <= 0xffbd
}

// Lookup returns the keysym for an evdev key code at the given level
// selectors. Codes the keymap does not define return KeysymNoSymbol.
func (m *XKBKeymap) Lookup(code uint32, shift, caps, altgr, numlock bool) Keysym {
	key, ok := m.keys[code+xkbEvdevOffset]
	if !ok {
		return KeysymNoSymbol
	}
	lvl := key.level(shift, caps, altgr, numlock)
	if lvl >= len(key.levels) {
		return KeysymNoSymbol
	}
	return key.levels[lvl]
}

// Len returns the number of keys with symbols.
func (m *XKBKeymap) Len() int { return len(m.keys) }

// xkbSection returns the body of the named top-level section.
func xkbSection(src, name string) (string, bool) {
	i := strings.Index(src, name)
	if i < 0 {
		return "", false
	}
	open := strings.IndexByte(src[i:], '{')
	if open < 0 {
		return "", false
	}
	return xkbBlock(src, i+open)
}

// xkbBlock returns the text between the brace at open and its match.
func xkbBlock(src string, open int) (string, bool) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[open+1 : i], true
			}
		}
	}
	return "", false
}
