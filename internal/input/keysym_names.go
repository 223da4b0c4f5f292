package input

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// asciiNames are the keysym names for 0x20..0x7e, excluding digits and
// letters, which are named by themselves.
var asciiNames = map[string]Keysym{
	"space": 0x20, "exclam": 0x21, "quotedbl": 0x22, "numbersign": 0x23,
	"dollar": 0x24, "percent": 0x25, "ampersand": 0x26, "apostrophe": 0x27,
	"quoteright": 0x27, "parenleft": 0x28, "parenright": 0x29, "asterisk": 0x2a,
	"plus": 0x2b, "comma": 0x2c, "minus": 0x2d, "period": 0x2e, "slash": 0x2f,
	"colon": 0x3a, "semicolon": 0x3b, "less": 0x3c, "equal": 0x3d,
	"greater": 0x3e, "question": 0x3f, "at": 0x40, "bracketleft": 0x5b,
	"backslash": 0x5c, "bracketright": 0x5d, "asciicircum": 0x5e,
	"underscore": 0x5f, "grave": 0x60, "quoteleft": 0x60, "braceleft": 0x7b,
	"bar": 0x7c, "braceright": 0x7d, "asciitilde": 0x7e,
}

// latin1Names lists the keysyms 0xa0..0xff in order.
var latin1Names = []string{
	"nobreakspace", "exclamdown", "cent", "sterling", "currency", "yen", "brokenbar", "section",
	"diaeresis", "copyright", "ordfeminine", "guillemotleft", "notsign", "hyphen", "registered", "macron",
	"degree", "plusminus", "twosuperior", "threesuperior", "acute", "mu", "paragraph", "periodcentered",
	"cedilla", "onesuperior", "masculine", "guillemotright", "onequarter", "onehalf", "threequarters", "questiondown",
	"Agrave", "Aacute", "Acircumflex", "Atilde", "Adiaeresis", "Aring", "AE", "Ccedilla",
	"Egrave", "Eacute", "Ecircumflex", "Ediaeresis", "Igrave", "Iacute", "Icircumflex", "Idiaeresis",
	"ETH", "Ntilde", "Ograve", "Oacute", "Ocircumflex", "Otilde", "Odiaeresis", "multiply",
	"Oslash", "Ugrave", "Uacute", "Ucircumflex", "Udiaeresis", "Yacute", "THORN", "ssharp",
	"agrave", "aacute", "acircumflex", "atilde", "adiaeresis", "aring", "ae", "ccedilla",
	"egrave", "eacute", "ecircumflex", "ediaeresis", "igrave", "iacute", "icircumflex", "idiaeresis",
	"eth", "ntilde", "ograve", "oacute", "ocircumflex", "otilde", "odiaeresis", "division",
	"oslash", "ugrave", "uacute", "ucircumflex", "udiaeresis", "yacute", "thorn", "ydiaeresis",
}

var functionNames = map[string]Keysym{
	"BackSpace": KeysymBackSpace, "Tab": KeysymTab, "Return": KeysymReturn,
	"Pause": KeysymPause, "Scroll_Lock": KeysymScrollLock, "Escape": KeysymEscape,
	"Home": KeysymHome, "Left": KeysymLeft, "Up": KeysymUp, "Right": KeysymRight,
	"Down": KeysymDown, "Prior": KeysymPageUp, "Page_Up": KeysymPageUp,
	"Next": KeysymPageDown, "Page_Down": KeysymPageDown, "End": KeysymEnd,
	"Print": KeysymPrint, "Insert": KeysymInsert, "Menu": KeysymMenu,
	"Num_Lock": KeysymNumLock, "Delete": KeysymDelete,

	"KP_Space": 0xff80, "KP_Tab": 0xff89, "KP_Enter": KeysymKPEnter,
	"KP_Home": KeysymKPHome, "KP_Left": KeysymKPLeft, "KP_Up": KeysymKPUp,
	"KP_Right": KeysymKPRight, "KP_Down": KeysymKPDown,
	"KP_Prior": KeysymKPPageUp, "KP_Page_Up": KeysymKPPageUp,
	"KP_Next": KeysymKPPageDown, "KP_Page_Down": KeysymKPPageDown,
	"KP_End": KeysymKPEnd, "KP_Begin": KeysymKPBegin, "KP_Insert": KeysymKPInsert,
	"KP_Delete": KeysymKPDelete, "KP_Equal": KeysymKPEqual,
	"KP_Multiply": KeysymKPMultiply, "KP_Add": KeysymKPAdd,
	"KP_Separator": KeysymKPSeparator, "KP_Subtract": KeysymKPSubtract,
	"KP_Decimal": KeysymKPDecimal, "KP_Divide": KeysymKPDivide,

	"Shift_L": KeysymShiftL, "Shift_R": KeysymShiftR,
	"Control_L": KeysymControlL, "Control_R": KeysymControlR,
	"Caps_Lock": KeysymCapsLock, "Meta_L": KeysymMetaL, "Meta_R": KeysymMetaR,
	"Alt_L": KeysymAltL, "Alt_R": KeysymAltR,
	"Super_L": KeysymSuperL, "Super_R": KeysymSuperR,

	"ISO_Level3_Shift": KeysymISOLevel3Shift, "ISO_Left_Tab": KeysymISOLeftTab,
	"EuroSign": KeysymEuroSign,

	"dead_grave": 0xfe50, "dead_acute": 0xfe51, "dead_circumflex": 0xfe52,
	"dead_tilde": 0xfe53, "dead_macron": 0xfe54, "dead_breve": 0xfe55,
	"dead_abovedot": 0xfe56, "dead_diaeresis": 0xfe57, "dead_abovering": 0xfe58,
	"dead_doubleacute": 0xfe59, "dead_caron": 0xfe5a, "dead_cedilla": 0xfe5b,
}

var keysymNames = func() map[string]Keysym {
	m := make(map[string]Keysym, len(asciiNames)+len(latin1Names)+len(functionNames)+16)
	for name, sym := range asciiNames {
		m[name] = sym
	}
	for i, name := range latin1Names {
		m[name] = Keysym(0xa0 + i)
	}
	m["guillemetleft"] = 0xab
	m["guillemetright"] = 0xbb
	m["ordmasculine"] = 0xba
	m["Ooblique"] = 0xd8
	m["ooblique"] = 0xf8
	m["Eth"] = 0xd0
	m["Thorn"] = 0xde
	for name, sym := range functionNames {
		m[name] = sym
	}
	for i := 0; i <= 9; i++ {
		m["KP_"+strconv.Itoa(i)] = KeysymKP0 + Keysym(i)
	}
	for i := 1; i <= 24; i++ {
		m["F"+strconv.Itoa(i)] = KeysymF(i)
	}
	return m
}()

// KeysymFromName resolves an xkb keysym name: a named symbol, a single
// character, a 0x-prefixed value or a U+ code point. Unknown names return
// KeysymNoSymbol.
func KeysymFromName(name string) Keysym {
	if sym, ok := keysymNames[name]; ok {
		return sym
	}
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r >= 0x20 && r != utf8.RuneError {
		return keysymForRune(r)
	}
	if hex, ok := strings.CutPrefix(name, "0x"); ok {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return Keysym(v)
		}
	}
	if hex, ok := strings.CutPrefix(name, "U"); ok && len(hex) >= 4 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return keysymForRune(rune(v))
		}
	}
	return KeysymNoSymbol
}

// keysymForRune maps a code point to its legacy keysym when one exists,
// otherwise to the direct Unicode range.
func keysymForRune(r rune) Keysym {
	switch {
	case r >= 0x20 && r <= 0x7e, r >= 0xa0 && r <= 0xff:
		return Keysym(r)
	case r == '€':
		return KeysymEuroSign
	}
	return Keysym(0x01000000 + r)
}
