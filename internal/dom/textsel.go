// internal/dom/textsel.go
package dom

import "unicode/utf8"

// SupportsSelection reports whether the element implements the text control
// selection APIs (selectionStart, setSelectionRange).
func (n *Node) SupportsSelection() bool {
	if n.Is("textarea") {
		return true
	}
	switch n.InputType() {
	case "text", "search", "url", "tel", "password":
		return true
	}
	return false
}

func (n *Node) ensureSelection() {
	if n.selInit {
		return
	}
	end := utf8.RuneCountInString(n.Value())
	n.selStart, n.selEnd, n.selDir, n.selInit = end, end, "none", true
}

// SelectionRange returns selectionStart and selectionEnd. ok is false for
// elements without text control selection.
func (n *Node) SelectionRange() (start, end int, ok bool) {
	if !n.SupportsSelection() {
		return 0, 0, false
	}
	n.ensureSelection()
	return n.selStart, n.selEnd, true
}

// SelectionDirection returns the selection direction: forward, backward or none.
func (n *Node) SelectionDirection() string {
	n.ensureSelection()
	return n.selDir
}

// SetSelectionRange selects the characters in [start, end) as application code would.
func (n *Node) SetSelectionRange(start, end int, direction ...string) error {
	dir := "none"
	if len(direction) > 0 {
		dir = direction[0]
	}
	return n.WriteSelectionRange(start, end, dir, SourceScript)
}

// WriteSelectionRange sets the text control selection and notifies the selection hooks.
// A non-collapsed change fires select.
func (n *Node) WriteSelectionRange(start, end int, dir string, src WriteSource) error {
	if !n.SupportsSelection() {
		return &InvalidStateError{Op: "setSelectionRange", Node: n}
	}
	n.ensureSelection()
	length := utf8.RuneCountInString(n.Value())
	end = clamp(end, 0, length)
	start = clamp(start, 0, end)
	switch dir {
	case "forward", "backward":
	default:
		dir = "none"
	}
	changed := start != n.selStart || end != n.selEnd
	n.selStart, n.selEnd, n.selDir = start, end, dir
	n.doc.notifySelection(n, start, end, src)
	if changed && start != end {
		n.DispatchEvent(NewEvent("select", true, false))
	}
	return nil
}

// Select selects the whole value of a text control.
func (n *Node) Select() {
	if !n.SupportsSelection() {
		return
	}
	_ = n.SetSelectionRange(0, utf8.RuneCountInString(n.Value()))
}
