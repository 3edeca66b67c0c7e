// internal/keydef/keydef.go
package keydef

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Context names the grammar user a descriptor is read for. It only affects
// error messages.
type Context string

const (
	Keyboard Context = "keyboard"
	Pointer  Context = "pointer"
)

// Type is the bracket a descriptor was written in.
type Type string

const (
	// Printable is a single literal character.
	Printable Type = ""
	// Key is a {Name} descriptor addressing a key by its key value.
	Key Type = "{"
	// Code is a [Code] descriptor addressing a key or button by its code.
	Code Type = "["
)

var closing = map[byte]byte{'{': '}', '[': ']'}

// Descriptor is one parsed unit of the descriptor mini-language.
type Descriptor struct {
	Type Type
	Name string
	// ConsumedLength is the number of bytes of the input the descriptor spans.
	ConsumedLength  int
	ReleasePrevious bool
	// ReleaseSelf is nil when the descriptor leaves the choice to the caller.
	ReleaseSelf *bool
	Repeat      int
}

// ParseError reports a malformed descriptor.
type ParseError struct {
	Expected string
	Found    string
	Text     string
	Position int
	Context  Context
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Expected %s but found %q in %q at position %d", e.Expected, e.Found, e.Text, e.Position)
}

// ReadNext reads the descriptor at the start of text.
//
//	a        literal character
//	{{ [[    literal bracket
//	{Name}   key by name, {\c} escapes a single character
//	[Code]   key or button by code
//	{/Name}  release only
//	{Name>}  press and hold
//	{Name>N} press N times and hold
//	{Name>N/} press N times and release
func ReadNext(text string, ctx Context) (Descriptor, error) {
	if text == "" {
		return Descriptor{}, newError("key descriptor", text, 0, ctx)
	}
	open := text[0]
	if _, ok := closing[open]; !ok {
		return readPrintable(text, 0, ctx)
	}
	repeated := 0
	for repeated < len(text) && text[repeated] == open {
		repeated++
	}
	if repeated == 2 || (open == '{' && repeated > 3) {
		return readPrintable(text, 1, ctx)
	}
	return readTag(text, 1, open, ctx)
}

func readPrintable(text string, pos int, ctx Context) (Descriptor, error) {
	r, size := utf8.DecodeRuneInString(text[pos:])
	if size == 0 {
		return Descriptor{}, newError("key descriptor", text, pos, ctx)
	}
	return Descriptor{
		Type:           Printable,
		Name:           string(r),
		ConsumedLength: pos + size,
		ReleaseSelf:    boolPtr(true),
		Repeat:         1,
	}, nil
}

func readTag(text string, pos int, open byte, ctx Context) (Descriptor, error) {
	d := Descriptor{Type: Type(open), Repeat: 1}

	if pos < len(text) && text[pos] == '/' {
		d.ReleasePrevious = true
		pos++
	}

	var name string
	if open == '{' && pos < len(text) && text[pos] == '\\' {
		pos++
		if r, size := utf8.DecodeRuneInString(text[pos:]); size > 0 {
			name = string(r)
		}
	} else {
		name = readName(text[pos:], open == '{')
	}
	if name == "" {
		return Descriptor{}, newError("key descriptor", text, pos, ctx)
	}
	d.Name = name
	pos += len(name)

	repeat := ""
	if pos < len(text) && text[pos] == '>' {
		end := pos + 1
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
		}
		if end > pos+1 {
			repeat = text[pos:end]
		}
	}
	if repeat != "" {
		n, err := strconv.Atoi(repeat[1:])
		if err != nil {
			return Descriptor{}, newError("repeat modifier", text, pos+1, ctx)
		}
		d.Repeat = max(n, 1)
		pos += len(repeat)
	}

	releaseSelf := ""
	if pos < len(text) && (text[pos] == '/' || (repeat == "" && text[pos] == '>')) {
		releaseSelf = text[pos : pos+1]
		pos++
	}
	switch {
	case releaseSelf != "":
		d.ReleaseSelf = boolPtr(releaseSelf == "/")
	case repeat != "":
		d.ReleaseSelf = boolPtr(false)
	}

	want := closing[open]
	if pos >= len(text) || text[pos] != want {
		var expected []string
		if repeat == "" {
			expected = append(expected, "repeat modifier")
		}
		if releaseSelf == "" {
			expected = append(expected, "release modifier")
		}
		expected = append(expected, strconv.Quote(string(want)))
		return Descriptor{}, newError(strings.Join(expected, " or "), text, pos, ctx)
	}
	d.ConsumedLength = pos + 1
	return d, nil
}

// readName matches a run of word characters or, inside braces, a single
// character other than '}', '>' and '/'.
func readName(s string, braces bool) string {
	end := 0
	for end < len(s) && isWordByte(s[end]) {
		end++
	}
	if end > 0 {
		return s[:end]
	}
	if !braces || s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == '}' || r == '>' || r == '/' {
		return ""
	}
	return s[:size]
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func newError(expected, text string, pos int, ctx Context) *ParseError {
	found := ""
	if pos < len(text) {
		r, _ := utf8.DecodeRuneInString(text[pos:])
		found = string(r)
	}
	return &ParseError{
		Expected: expected,
		Found:    found,
		Text:     text,
		Position: utf8.RuneCountInString(text[:min(pos, len(text))]),
		Context:  ctx,
	}
}

func boolPtr(b bool) *bool { return &b }

// ReadAll splits text into descriptors.
func ReadAll(text string, ctx Context) ([]Descriptor, error) {
	var out []Descriptor
	for len(text) > 0 {
		d, err := ReadNext(text, ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
		text = text[d.ConsumedLength:]
	}
	return out, nil
}
