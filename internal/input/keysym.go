// Package input translates protocol-native key symbols, pointer buttons and
// touch points into the host's input vocabulary. Everything here is pure.
package input

import "fmt"

// Keysym is an X11/xkb key symbol value.
type Keysym uint32

// Key symbols used by the translation tables. Values are from xkbcommon-keysyms.h.
const (
	KeysymNoSymbol Keysym = 0x0000

	KeysymSpace        Keysym = 0x0020
	KeysymExclam       Keysym = 0x0021
	KeysymQuotedbl     Keysym = 0x0022
	KeysymNumbersign   Keysym = 0x0023
	KeysymDollar       Keysym = 0x0024
	KeysymPercent      Keysym = 0x0025
	KeysymAmpersand    Keysym = 0x0026
	KeysymApostrophe   Keysym = 0x0027
	KeysymParenleft    Keysym = 0x0028
	KeysymParenright   Keysym = 0x0029
	KeysymAsterisk     Keysym = 0x002a
	KeysymPlus         Keysym = 0x002b
	KeysymComma        Keysym = 0x002c
	KeysymMinus        Keysym = 0x002d
	KeysymPeriod       Keysym = 0x002e
	KeysymSlash        Keysym = 0x002f
	Keysym0            Keysym = 0x0030
	Keysym9            Keysym = 0x0039
	KeysymColon        Keysym = 0x003a
	KeysymSemicolon    Keysym = 0x003b
	KeysymLess         Keysym = 0x003c
	KeysymEqual        Keysym = 0x003d
	KeysymGreater      Keysym = 0x003e
	KeysymQuestion     Keysym = 0x003f
	KeysymAt           Keysym = 0x0040
	KeysymA            Keysym = 0x0041
	KeysymZ            Keysym = 0x005a
	KeysymBracketleft  Keysym = 0x005b
	KeysymBackslash    Keysym = 0x005c
	KeysymBracketright Keysym = 0x005d
	KeysymAsciicircum  Keysym = 0x005e
	KeysymUnderscore   Keysym = 0x005f
	KeysymGrave        Keysym = 0x0060
	Keysyma            Keysym = 0x0061
	Keysymz            Keysym = 0x007a
	KeysymBraceleft    Keysym = 0x007b
	KeysymBar          Keysym = 0x007c
	KeysymBraceright   Keysym = 0x007d
	KeysymAsciitilde   Keysym = 0x007e

	KeysymBackSpace  Keysym = 0xff08
	KeysymTab        Keysym = 0xff09
	KeysymReturn     Keysym = 0xff0d
	KeysymPause      Keysym = 0xff13
	KeysymScrollLock Keysym = 0xff14
	KeysymEscape     Keysym = 0xff1b
	KeysymHome       Keysym = 0xff50
	KeysymLeft       Keysym = 0xff51
	KeysymUp         Keysym = 0xff52
	KeysymRight      Keysym = 0xff53
	KeysymDown       Keysym = 0xff54
	KeysymPageUp     Keysym = 0xff55
	KeysymPageDown   Keysym = 0xff56
	KeysymEnd        Keysym = 0xff57
	KeysymPrint      Keysym = 0xff61
	KeysymInsert     Keysym = 0xff63
	KeysymMenu       Keysym = 0xff67
	KeysymNumLock    Keysym = 0xff7f

	KeysymKPEnter     Keysym = 0xff8d
	KeysymKPHome      Keysym = 0xff95
	KeysymKPLeft      Keysym = 0xff96
	KeysymKPUp        Keysym = 0xff97
	KeysymKPRight     Keysym = 0xff98
	KeysymKPDown      Keysym = 0xff99
	KeysymKPPageUp    Keysym = 0xff9a
	KeysymKPPageDown  Keysym = 0xff9b
	KeysymKPEnd       Keysym = 0xff9c
	KeysymKPBegin     Keysym = 0xff9d
	KeysymKPInsert    Keysym = 0xff9e
	KeysymKPDelete    Keysym = 0xff9f
	KeysymKPMultiply  Keysym = 0xffaa
	KeysymKPAdd       Keysym = 0xffab
	KeysymKPSeparator Keysym = 0xffac
	KeysymKPSubtract  Keysym = 0xffad
	KeysymKPDecimal   Keysym = 0xffae
	KeysymKPDivide    Keysym = 0xffaf
	KeysymKP0         Keysym = 0xffb0
	KeysymKP9         Keysym = 0xffb9
	KeysymKPEqual     Keysym = 0xffbd

	KeysymF1  Keysym = 0xffbe
	KeysymF24 Keysym = 0xffd5

	KeysymShiftL   Keysym = 0xffe1
	KeysymShiftR   Keysym = 0xffe2
	KeysymControlL Keysym = 0xffe3
	KeysymControlR Keysym = 0xffe4
	KeysymCapsLock Keysym = 0xffe5
	KeysymMetaL    Keysym = 0xffe7
	KeysymMetaR    Keysym = 0xffe8
	KeysymAltL     Keysym = 0xffe9
	KeysymAltR     Keysym = 0xffea
	KeysymSuperL   Keysym = 0xffeb
	KeysymSuperR   Keysym = 0xffec

	KeysymDelete Keysym = 0xffff

	KeysymISOLevel3Shift Keysym = 0xfe03
	KeysymISOLeftTab     Keysym = 0xfe20

	KeysymEuroSign Keysym = 0x20ac
)

// KeysymF returns the keysym for function key Fn, 1 <= n <= 24.
func KeysymF(n int) Keysym {
	return KeysymF1 + Keysym(n-1)
}

// KeysymLetter returns the upper-case keysym for an ASCII letter.
func KeysymLetter(r rune) Keysym {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return Keysym(r)
}

// keypadChars are the characters xkb produces for keypad symbols.
var keypadChars = map[Keysym]rune{
	KeysymKPMultiply:  '*',
	KeysymKPAdd:       '+',
	KeysymKPSeparator: ',',
	KeysymKPSubtract:  '-',
	KeysymKPDecimal:   '.',
	KeysymKPDivide:    '/',
	KeysymKPEqual:     '=',
}

// Rune returns the printable character a keysym stands for. Control
// characters (Return, Tab, BackSpace, Escape, Delete) report false so that
// they resolve to named keys.
func (k Keysym) Rune() (rune, bool) {
	switch {
	case k >= 0x20 && k <= 0x7e:
		return rune(k), true
	case k >= 0xa0 && k <= 0xff:
		return rune(k), true
	case k >= KeysymKP0 && k <= KeysymKP9:
		return '0' + rune(k-KeysymKP0), true
	case k == KeysymEuroSign:
		return '€', true
	case k >= 0x01000100 && k <= 0x0110ffff:
		// Direct Unicode mapping.
		return rune(k & 0x00ffffff), true
	}
	if r, ok := keypadChars[k]; ok {
		return r, true
	}
	return 0, false
}

func (k Keysym) String() string {
	if r, ok := k.Rune(); ok {
		return fmt.Sprintf("%q(0x%04x)", r, uint32(k))
	}
	return fmt.Sprintf("0x%04x", uint32(k))
}
