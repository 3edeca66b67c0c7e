// internal/edit/cursor.go
package edit

import (
	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
)

// Position is a boundary point in the document.
type Position struct {
	Node   *dom.Node
	Offset int
}

// GetNextCursorPosition returns the caret position one character away from
// (node, offset) in direction (-1 or 1), or false when the caret cannot move
// inside its editing host.
//
// Inside a text node the caret moves by one character. Crossing into another
// text node skips its boundary offset, inputs and textareas count as a
// single character, and a <br> moves the caret into the following text.
func GetNextCursorPosition(node *dom.Node, offset, direction int, inputType string) (Position, bool) {
	if node.IsText() && offset+direction >= 0 && offset+direction <= node.Length() {
		return Position{Node: node, Offset: offset + direction}, true
	}

	next := nextCharacterContentNode(node, offset, true, direction)
	if next == nil {
		return Position{}, false
	}
	if next.IsText() {
		if direction > 0 {
			return Position{Node: next, Offset: min(1, next.Length())}, true
		}
		return Position{Node: next, Offset: max(next.Length()-1, 0)}, true
	}
	if next.Is("br") {
		after := nextCharacterContentNode(next, 0, false, direction)
		switch {
		case after == nil:
			if direction < 0 && inputType == DeleteContentBack {
				return Position{Node: next.Parent(), Offset: next.Index()}, true
			}
			return Position{}, false
		case after.IsText():
			if direction > 0 {
				return Position{Node: after, Offset: 0}, true
			}
			return Position{Node: after, Offset: after.Length()}, true
		case direction < 0 && after.Is("br"):
			return Position{Node: next.Parent(), Offset: next.Index()}, true
		}
		if direction > 0 {
			return Position{Node: after.Parent(), Offset: after.Index()}, true
		}
		return Position{Node: after.Parent(), Offset: after.Index() + 1}, true
	}
	if direction > 0 {
		return Position{Node: next.Parent(), Offset: next.Index() + 1}, true
	}
	return Position{Node: next.Parent(), Offset: next.Index()}, true
}

func nextCharacterContentNode(node *dom.Node, offset int, hasOffset bool, direction int) *dom.Node {
	if hasOffset && node.IsElement() {
		i := offset
		if direction < 0 {
			i--
		}
		if i >= 0 && i < len(node.ChildNodes()) {
			node = node.ChildAt(i)
			if direction > 0 {
				// The child right after the caret is itself the next content.
				if leaf := descendant(node, true); isCharacterContent(leaf) {
					return leaf
				}
			} else if leaf := descendant(node, false); isCharacterContent(leaf) {
				return leaf
			}
		}
	}
	return walkNodes(node, direction > 0, isCharacterContent)
}

func isCharacterContent(n *dom.Node) bool {
	if n.IsText() {
		return true
	}
	if n.Is("input", "textarea") {
		return n.InputType() != "hidden"
	}
	return n.Is("br")
}

// walkNodes visits the nodes following (or preceding) node in tree order
// without leaving the editing host or the body.
func walkNodes(node *dom.Node, forward bool, match func(*dom.Node) bool) *dom.Node {
	for {
		var sibling *dom.Node
		if forward {
			sibling = node.NextSibling()
		} else {
			sibling = node.PreviousSibling()
		}
		if sibling != nil {
			node = descendant(sibling, forward)
			if match(node) {
				return node
			}
			continue
		}
		parent := node.Parent()
		if parent == nil || (parent.IsElement() && (elements.IsContentEditable(parent) || parent == node.Document().Body())) {
			return nil
		}
		node = parent
	}
}

func descendant(n *dom.Node, first bool) *dom.Node {
	for n.FirstChild() != nil {
		if first {
			n = n.FirstChild()
		} else {
			n = n.LastChild()
		}
	}
	return n
}
