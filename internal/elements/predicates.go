// internal/elements/predicates.go
package elements

import (
	"strings"
	"unicode/utf8"

	"github.com/xkilldash9x/userevent/internal/css"
	"github.com/xkilldash9x/userevent/internal/dom"
)

// FocusableSelector matches elements that can receive focus from the user.
const FocusableSelector = `input:not([type=hidden]):not([disabled]), button:not([disabled]), ` +
	`select:not([disabled]), textarea:not([disabled]), [contenteditable=""], ` +
	`[contenteditable="true"], a[href], [tabindex]:not([disabled])`

var focusableGroup = css.MustParseSelector(FocusableSelector)

// FocusableGroup returns the parsed FocusableSelector.
func FocusableGroup() css.SelectorGroup { return focusableGroup }

var editableInputTypes = map[string]bool{
	"text": true, "search": true, "url": true, "tel": true, "password": true, "email": true,
	"number": true, "date": true, "time": true, "week": true, "month": true, "datetime-local": true,
}

var clickableInputTypes = map[string]bool{
	"button": true, "color": true, "file": true, "image": true, "reset": true,
	"submit": true, "checkbox": true, "radio": true,
}

var maxLengthInputTypes = map[string]bool{
	"email": true, "password": true, "search": true, "tel": true, "text": true, "url": true,
}

// IsFocusable reports whether the element matches the focusable selector.
func IsFocusable(el *dom.Node) bool {
	return el.IsElement() && el.MatchesGroup(focusableGroup)
}

// IsDisabled walks the ancestor chain: form controls, options and optgroups
// with a disabled attribute, disabled fieldsets unless el is inside their first
// legend, and form-associated custom elements with a disabled attribute.
func IsDisabled(el *dom.Node) bool {
	for e := el; e != nil; e = e.ParentElement() {
		if !e.IsElement() {
			continue
		}
		switch {
		case e.Is("button", "input", "select", "textarea", "optgroup", "option"):
			if e.HasAttribute("disabled") {
				return true
			}
		case e.Is("fieldset"):
			if e.HasAttribute("disabled") && !firstLegendContains(e, el) {
				return true
			}
		case strings.Contains(e.TagName(), "-"):
			if def, ok := e.Document().CustomElement(e.TagName()); ok && def.FormAssociated && e.HasAttribute("disabled") {
				return true
			}
		}
	}
	return false
}

func firstLegendContains(fieldset, el *dom.Node) bool {
	for _, c := range fieldset.Children() {
		if c.Is("legend") {
			return c.Contains(el)
		}
	}
	return false
}

// IsEditableInputOrTextArea reports whether the element is a textarea or an
// input of an editable type.
func IsEditableInputOrTextArea(el *dom.Node) bool {
	return el.Is("textarea") || (el.Is("input") && editableInputTypes[el.InputType()])
}

// IsEditableInput is IsEditableInputOrTextArea for inputs only.
func IsEditableInput(el *dom.Node) bool {
	return el.Is("input") && editableInputTypes[el.InputType()]
}

// IsContentEditable reports whether the element is a contenteditable host.
func IsContentEditable(el *dom.Node) bool {
	if !el.IsElement() {
		return false
	}
	v, ok := el.GetAttribute("contenteditable")
	return ok && (v == "" || strings.EqualFold(v, "true"))
}

// GetContentEditable returns the nearest contenteditable host of a node, or nil.
func GetContentEditable(n *dom.Node) *dom.Node {
	for e := elementOf(n); e != nil; e = e.ParentElement() {
		if IsContentEditable(e) {
			return e
		}
	}
	return nil
}

// IsEditable reports whether the user can change the element's content.
func IsEditable(el *dom.Node) bool {
	return (IsEditableInputOrTextArea(el) && !el.ReadOnly()) || IsContentEditable(el)
}

// HasOwnSelection reports whether the element keeps its selection apart
// from the document selection.
func HasOwnSelection(n *dom.Node) bool {
	return n.IsElement() && IsEditableInputOrTextArea(n)
}

// HasNoSelection reports whether the element has no text selection at all.
func HasNoSelection(n *dom.Node) bool {
	return n.IsElement() && n.Is("input") && !IsEditableInputOrTextArea(n)
}

// SupportsSelectionRange reports whether setSelectionRange is available.
func SupportsSelectionRange(el *dom.Node) bool {
	return el.SupportsSelection()
}

// IsClickableInput reports whether the element is a button or a button-like input.
func IsClickableInput(el *dom.Node) bool {
	return el.Is("button") || (el.Is("input") && clickableInputTypes[el.InputType()])
}

// IsVisible reports whether neither the element nor an ancestor is hidden by
// display or visibility, and no closed <details> hides it.
func IsVisible(el *dom.Node) bool {
	doc := el.Document()
	child := (*dom.Node)(nil)
	for e := el; e != nil && e.IsElement(); child, e = e, e.ParentElement() {
		st := doc.ComputedStyle(e)
		if st.Display() == "none" || st.Visibility() == "hidden" {
			return false
		}
		if child != nil && e.Is("details") && !e.HasAttribute("open") && !isFirstSummary(e, child) {
			return false
		}
	}
	return true
}

func isFirstSummary(details, child *dom.Node) bool {
	for _, c := range details.Children() {
		if c.Is("summary") {
			return c == child
		}
	}
	return false
}

// IsLabelWithInternallyDisabledControl reports whether el is a label wrapping
// its own disabled control. Browsers dispatch no events on such labels.
func IsLabelWithInternallyDisabledControl(el *dom.Node) bool {
	if !el.Is("label") {
		return false
	}
	control := el.Control()
	return control != nil && el.Contains(control) && IsDisabled(control)
}

// SupportsMaxLength reports whether the maxlength attribute applies.
func SupportsMaxLength(el *dom.Node) bool {
	return el.Is("textarea") || (el.Is("input") && maxLengthInputTypes[el.InputType()])
}

// GetSpaceUntilMaxLength returns how many characters fit before maxlength is
// reached given the current value. ok is false when no limit applies.
func GetSpaceUntilMaxLength(el *dom.Node, value string) (space int, ok bool) {
	if !SupportsMaxLength(el) {
		return 0, false
	}
	max := el.MaxLength()
	if max < 0 {
		return 0, false
	}
	return max - utf8.RuneCountInString(value), true
}

func elementOf(n *dom.Node) *dom.Node {
	if n == nil {
		return nil
	}
	if n.IsElement() {
		return n
	}
	return n.ParentElement()
}
