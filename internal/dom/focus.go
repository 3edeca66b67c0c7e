// internal/dom/focus.go
package dom

import (
	"strconv"
	"strings"
)

// IsFocusable reports whether the element is a focusable area.
func (n *Node) IsFocusable() bool {
	if !n.IsElement() || !n.IsConnected() {
		return false
	}
	switch n.TagName() {
	case "input":
		if n.InputType() == "hidden" {
			return false
		}
		return !n.Disabled()
	case "button", "select", "textarea":
		return !n.Disabled()
	case "a", "area":
		if n.HasAttribute("href") {
			return true
		}
	case "iframe":
		return true
	case "summary":
		if n.isDetailsSummary() {
			return true
		}
	}
	if _, ok := n.TabIndexAttr(); ok {
		return !n.Disabled()
	}
	if v, ok := n.GetAttribute("contenteditable"); ok && strings.ToLower(v) != "false" {
		return true
	}
	return false
}

// TabIndexAttr returns the parsed tabindex attribute.
func (n *Node) TabIndexAttr() (int, bool) {
	v, ok := n.GetAttribute("tabindex")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return i, true
}

// TabIndex returns the tabIndex property: the attribute, or 0 for elements
// focusable by default and -1 otherwise.
func (n *Node) TabIndex() int {
	if i, ok := n.TabIndexAttr(); ok {
		return i
	}
	switch n.TagName() {
	case "input", "button", "select", "textarea", "iframe":
		return 0
	case "a", "area":
		if n.HasAttribute("href") {
			return 0
		}
	case "summary":
		if n.isDetailsSummary() {
			return 0
		}
	}
	if n.IsContentEditable() {
		return 0
	}
	return -1
}

// Focus moves focus to the element, firing blur, focusout, focus and focusin.
func (n *Node) Focus() {
	d := n.doc
	if !n.IsFocusable() || d.active == n {
		return
	}
	previous := d.active
	if previous != nil && previous.IsConnected() {
		d.active = nil
		previous.DispatchEvent(focusEvent("blur", false, n))
		previous.DispatchEvent(focusEvent("focusout", true, n))
		if d.active != nil {
			// A blur handler moved focus elsewhere.
			return
		}
	}
	d.active = n
	n.DispatchEvent(focusEvent("focus", false, previous))
	if d.active == n {
		n.DispatchEvent(focusEvent("focusin", true, previous))
	}
}

// Blur removes focus from the element if it is focused.
func (n *Node) Blur() {
	d := n.doc
	if d.active != n {
		return
	}
	d.active = nil
	n.DispatchEvent(focusEvent("blur", false, nil))
	n.DispatchEvent(focusEvent("focusout", true, nil))
}

func focusEvent(typ string, bubbles bool, related *Node) *Event {
	ev := NewEvent(typ, bubbles, false)
	ev.Interface = InterfaceFocusEvent
	ev.Composed = true
	ev.RelatedTarget = related
	return ev
}
