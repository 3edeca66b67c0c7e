// internal/edit/value.go
package edit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// Input types used by the editing operations.
const (
	InsertText           = "insertText"
	InsertLineBreak      = "insertLineBreak"
	InsertParagraph      = "insertParagraph"
	InsertFromPaste      = "insertFromPaste"
	DeleteContentBack    = "deleteContentBackward"
	DeleteContentForward = "deleteContentForward"
	DeleteWordBackward   = "deleteWordBackward"
	DeleteByCut          = "deleteByCut"
)

var dateTimeTypes = map[string]bool{
	"date": true, "time": true, "month": true, "week": true, "datetime-local": true,
}

// IsDateOrTime reports whether el is an input whose value only accepts
// complete date or time strings.
func IsDateOrTime(el *dom.Node) bool {
	return el.Is("input") && dateTimeTypes[el.InputType()]
}

// CalculateNewValue applies an edit to value. start and end delimit the
// selection in characters. A collapsed selection with a deleting inputType
// removes the neighboring character (or word) instead. For time inputs the
// result is normalized to HH:MM when that yields a valid time.
func CalculateNewValue(el *dom.Node, value, data string, start, end int, inputType string) (newValue string, newOffset int) {
	runes := []rune(value)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	prologEnd := start
	epilogStart := end
	if start == end {
		switch inputType {
		case DeleteContentBack:
			prologEnd = max(0, start-1)
		case DeleteWordBackward:
			prologEnd = wordStartBefore(runes, start)
		case DeleteContentForward:
			epilogStart = min(len(runes), end+1)
		}
	}

	newValue = string(runes[:prologEnd]) + data + string(runes[epilogStart:])
	newOffset = prologEnd + len([]rune(data))

	if el != nil && el.IsInput("time") {
		if built := BuildTimeValue(newValue); built != "" && IsValidDateOrTimeValue(el, built) {
			newValue = built
			newOffset = len([]rune(built))
		}
	}
	return newValue, newOffset
}

// wordStartBefore returns the offset a word-wise backward delete stops at:
// trailing whitespace is skipped, then one run of word characters or a
// single other character.
func wordStartBefore(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	if i > 0 && !isWordRune(runes[i-1]) {
		return i - 1
	}
	for i > 0 && isWordRune(runes[i-1]) {
		i--
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// BuildTimeValue composes the digits typed so far into HH:MM. Hours above 23
// and minutes above 59 are clamped. A leading digit of 3 or more is read as a
// single-digit hour.
func BuildTimeValue(value string) string {
	var digits strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	only := digits.String()
	if len(only) < 2 {
		return value
	}
	first, second := only[0]-'0', only[1]-'0'
	if first >= 3 || (first == 2 && second >= 4) {
		if first >= 3 {
			return buildTime(only, 1)
		}
		return buildTime(only, 2)
	}
	if len([]rune(value)) == 2 {
		return value
	}
	return buildTime(only, 2)
}

func buildTime(digits string, index int) string {
	hours, _ := strconv.Atoi(digits[:index])
	minutes, err := strconv.Atoi(digits[index:])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", min(hours, 23), min(minutes, 59))
}

// IsValidDateOrTimeValue reports whether el would accept value unchanged.
func IsValidDateOrTimeValue(el *dom.Node, value string) bool {
	return value != "" && dom.SanitizeValue(el.InputType(), value) == value
}

// IsValidNumberInput reports whether value is something a number input lets
// the user keep typing: digits, at most one decimal point before an optional
// exponent, signs only at the start of the mantissa or exponent.
func IsValidNumberInput(value string) bool {
	mantissa, exponent, hasExp := strings.Cut(value, "e")
	if hasExp && strings.Contains(exponent, "e") {
		return false
	}
	if !validNumberPart(mantissa, true) {
		return false
	}
	return !hasExp || validNumberPart(exponent, false)
}

func validNumberPart(s string, allowDot bool) bool {
	dots := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '-':
			if i != 0 {
				return false
			}
		case r == '.':
			dots++
			if !allowDot || dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
