// internal/focus/focus.go
package focus

import (
	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
)

// ActiveElement returns the focused element of the document, or its body.
func ActiveElement(doc *dom.Document) *dom.Node {
	return doc.ActiveElement()
}

// FocusElement focuses the closest focusable ancestor of el. When there is
// none, the active element is blurred so focus returns to the body.
func FocusElement(el *dom.Node) {
	doc := el.Document()
	target := closestFocusable(el)
	active := doc.ActiveElement()

	dest := target
	if dest == nil {
		dest = doc.Body()
	}
	if dest == active {
		return
	}
	if target != nil {
		target.Focus()
	} else if active != nil {
		active.Blur()
	}
	updateSelectionOnFocus(dest)
}

// BlurElement removes focus from el if it has it.
func BlurElement(el *dom.Node) {
	if !elements.IsFocusable(el) {
		return
	}
	if el.Document().ActiveElement() != el {
		return
	}
	el.Blur()
}

func closestFocusable(el *dom.Node) *dom.Node {
	for e := el; e != nil; e = e.ParentElement() {
		if e.IsElement() && elements.IsFocusable(e) {
			return e
		}
	}
	return nil
}

// updateSelectionOnFocus moves the document selection out of the way when a
// text control with its own selection receives focus.
func updateSelectionOnFocus(el *dom.Node) {
	if el == nil {
		return
	}
	sel := el.Document().GetSelection()
	if sel.FocusNode() == nil || !elements.HasOwnSelection(el) {
		return
	}
	if host := elements.GetContentEditable(sel.FocusNode()); host != nil {
		if sel.IsCollapsed() {
			return
		}
		node := host
		if first := host.FirstChild(); first != nil && first.IsText() {
			node = first
		}
		_ = sel.SetBaseAndExtent(node, 0, node, 0)
		return
	}
	_ = sel.SetBaseAndExtent(el, 0, el, 0)
}
