// internal/keyboard/keymap.go
package keyboard

import (
	"strconv"
	"strings"

	"github.com/xkilldash9x/userevent/internal/keydef"
)

// Key locations as reported by KeyboardEvent.location.
const (
	LocationStandard = 0
	LocationLeft     = 1
	LocationRight    = 2
	LocationNumpad   = 3
)

// KeyDef describes one key of a layout.
type KeyDef struct {
	Key      string `json:"key" yaml:"key"`
	Code     string `json:"code" yaml:"code"`
	KeyCode  int    `json:"keyCode,omitempty" yaml:"keyCode,omitempty"`
	Location int    `json:"location,omitempty" yaml:"location,omitempty"`
	// ShiftKey marks entries produced only while Shift is held.
	ShiftKey bool `json:"shiftKey,omitempty" yaml:"shiftKey,omitempty"`
}

// Map is a keyboard layout. Lookups take the first matching entry.
type Map []KeyDef

// Find resolves a descriptor to a key. Keys and codes in brackets match
// exactly first and then case-insensitively; printable characters match the
// key exactly.
func (m Map) Find(d keydef.Descriptor) (KeyDef, bool) {
	field := func(k KeyDef) string { return k.Key }
	if d.Type == keydef.Code {
		field = func(k KeyDef) string { return k.Code }
	}
	for _, k := range m {
		if field(k) == d.Name {
			return k, true
		}
	}
	if d.Type == keydef.Printable {
		return KeyDef{}, false
	}
	for _, k := range m {
		if strings.EqualFold(field(k), d.Name) {
			return k, true
		}
	}
	return KeyDef{}, false
}

// unknownKey is the definition used for descriptors not in the layout.
func unknownKey(d keydef.Descriptor) KeyDef {
	k := KeyDef{Key: "Unknown", Code: "Unknown"}
	if d.Type == keydef.Code {
		k.Code = d.Name
	} else {
		k.Key = d.Name
	}
	return k
}

// DefaultMap returns a US keyboard layout.
func DefaultMap() Map {
	m := make(Map, 0, 160)

	digits := "0123456789"
	shiftedDigits := ")!@#$%^&*("
	for i := range digits {
		code := "Digit" + digits[i:i+1]
		m = append(m, KeyDef{Key: digits[i : i+1], Code: code, KeyCode: 48 + i})
		m = append(m, KeyDef{Key: shiftedDigits[i : i+1], Code: code, KeyCode: 48 + i, ShiftKey: true})
	}
	for c := 'a'; c <= 'z'; c++ {
		upper := strings.ToUpper(string(c))
		m = append(m, KeyDef{Key: string(c), Code: "Key" + upper, KeyCode: int(c - 'a' + 65)})
		m = append(m, KeyDef{Key: upper, Code: "Key" + upper, KeyCode: int(c - 'a' + 65), ShiftKey: true})
	}

	punctuation := []struct {
		code         string
		key, shifted string
		keyCode      int
	}{
		{"Backquote", "`", "~", 192},
		{"Minus", "-", "_", 189},
		{"Equal", "=", "+", 187},
		{"BracketLeft", "[", "{", 219},
		{"BracketRight", "]", "}", 221},
		{"Backslash", `\`, "|", 220},
		{"Semicolon", ";", ":", 186},
		{"Quote", "'", `"`, 222},
		{"Comma", ",", "<", 188},
		{"Period", ".", ">", 190},
		{"Slash", "/", "?", 191},
	}
	for _, p := range punctuation {
		m = append(m,
			KeyDef{Key: p.key, Code: p.code, KeyCode: p.keyCode},
			KeyDef{Key: p.shifted, Code: p.code, KeyCode: p.keyCode, ShiftKey: true})
	}

	m = append(m,
		KeyDef{Key: " ", Code: "Space", KeyCode: 32},

		KeyDef{Key: "Alt", Code: "AltLeft", KeyCode: 18, Location: LocationLeft},
		KeyDef{Key: "Alt", Code: "AltRight", KeyCode: 18, Location: LocationRight},
		KeyDef{Key: "Shift", Code: "ShiftLeft", KeyCode: 16, Location: LocationLeft},
		KeyDef{Key: "Shift", Code: "ShiftRight", KeyCode: 16, Location: LocationRight},
		KeyDef{Key: "Control", Code: "ControlLeft", KeyCode: 17, Location: LocationLeft},
		KeyDef{Key: "Control", Code: "ControlRight", KeyCode: 17, Location: LocationRight},
		KeyDef{Key: "Meta", Code: "MetaLeft", KeyCode: 91, Location: LocationLeft},
		KeyDef{Key: "Meta", Code: "MetaRight", KeyCode: 92, Location: LocationRight},
		KeyDef{Key: "AltGraph", Code: "AltGraph", KeyCode: 225},
		KeyDef{Key: "Fn", Code: "Fn"},
		KeyDef{Key: "Symbol", Code: "Symbol"},
		KeyDef{Key: "ContextMenu", Code: "ContextMenu", KeyCode: 93},

		KeyDef{Key: "CapsLock", Code: "CapsLock", KeyCode: 20},
		KeyDef{Key: "NumLock", Code: "NumLock", KeyCode: 144},
		KeyDef{Key: "ScrollLock", Code: "ScrollLock", KeyCode: 145},

		KeyDef{Key: "Tab", Code: "Tab", KeyCode: 9},
		KeyDef{Key: "Backspace", Code: "Backspace", KeyCode: 8},
		KeyDef{Key: "Enter", Code: "Enter", KeyCode: 13},
		KeyDef{Key: "Escape", Code: "Escape", KeyCode: 27},

		KeyDef{Key: "ArrowUp", Code: "ArrowUp", KeyCode: 38},
		KeyDef{Key: "ArrowDown", Code: "ArrowDown", KeyCode: 40},
		KeyDef{Key: "ArrowLeft", Code: "ArrowLeft", KeyCode: 37},
		KeyDef{Key: "ArrowRight", Code: "ArrowRight", KeyCode: 39},

		KeyDef{Key: "Home", Code: "Home", KeyCode: 36},
		KeyDef{Key: "End", Code: "End", KeyCode: 35},
		KeyDef{Key: "Delete", Code: "Delete", KeyCode: 46},
		KeyDef{Key: "Insert", Code: "Insert", KeyCode: 45},
		KeyDef{Key: "PageUp", Code: "PageUp", KeyCode: 33},
		KeyDef{Key: "PageDown", Code: "PageDown", KeyCode: 34},
	)

	for i := 1; i <= 12; i++ {
		name := "F" + strconv.Itoa(i)
		m = append(m, KeyDef{Key: name, Code: name, KeyCode: 111 + i})
	}
	return m
}
