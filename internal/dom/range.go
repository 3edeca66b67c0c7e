// internal/dom/range.go
package dom

import (
	"strings"
)

// Range is a live pair of boundary points in a document.
type Range struct {
	doc         *Document
	startNode   *Node
	startOffset int
	endNode     *Node
	endOffset   int
}

// StartContainer returns the start node.
func (r *Range) StartContainer() *Node { return r.startNode }

// StartOffset returns the start offset.
func (r *Range) StartOffset() int { return r.startOffset }

// EndContainer returns the end node.
func (r *Range) EndContainer() *Node { return r.endNode }

// EndOffset returns the end offset.
func (r *Range) EndOffset() int { return r.endOffset }

// Collapsed reports whether start equals end.
func (r *Range) Collapsed() bool {
	return r.startNode == r.endNode && r.startOffset == r.endOffset
}

// SetStart moves the start; an end before the new start is collapsed onto it.
func (r *Range) SetStart(node *Node, offset int) error {
	if offset < 0 || offset > node.Length() {
		return &IndexSizeError{Node: node, Offset: offset}
	}
	r.startNode, r.startOffset = node, offset
	if ComparePoints(r.endNode, r.endOffset, node, offset) < 0 || node.treeRoot() != r.endNode.treeRoot() {
		r.endNode, r.endOffset = node, offset
	}
	return nil
}

// SetEnd moves the end; a start after the new end is collapsed onto it.
func (r *Range) SetEnd(node *Node, offset int) error {
	if offset < 0 || offset > node.Length() {
		return &IndexSizeError{Node: node, Offset: offset}
	}
	r.endNode, r.endOffset = node, offset
	if ComparePoints(r.startNode, r.startOffset, node, offset) > 0 || node.treeRoot() != r.startNode.treeRoot() {
		r.startNode, r.startOffset = node, offset
	}
	return nil
}

// SelectNodeContents spans all children of node.
func (r *Range) SelectNodeContents(node *Node) {
	r.startNode, r.startOffset = node, 0
	r.endNode, r.endOffset = node, node.Length()
}

// SelectNode spans node itself.
func (r *Range) SelectNode(node *Node) {
	parent := node.Parent()
	if parent == nil {
		return
	}
	idx := node.Index()
	r.startNode, r.startOffset = parent, idx
	r.endNode, r.endOffset = parent, idx+1
}

// Collapse moves one boundary onto the other.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.endNode, r.endOffset = r.startNode, r.startOffset
	} else {
		r.startNode, r.startOffset = r.endNode, r.endOffset
	}
}

// CloneRange returns an independent copy.
func (r *Range) CloneRange() *Range {
	c := *r
	return &c
}

// ComparePoint returns -1, 0 or 1 depending on whether the point is before, inside or after the range.
func (r *Range) ComparePoint(node *Node, offset int) int {
	if ComparePoints(node, offset, r.startNode, r.startOffset) < 0 {
		return -1
	}
	if ComparePoints(node, offset, r.endNode, r.endOffset) > 0 {
		return 1
	}
	return 0
}

// IsPointInRange reports whether the point lies within the range.
func (r *Range) IsPointInRange(node *Node, offset int) bool {
	return r.ComparePoint(node, offset) == 0
}

// CommonAncestorContainer returns the deepest node containing both boundaries.
func (r *Range) CommonAncestorContainer() *Node {
	for c := r.startNode; c != nil; c = c.Parent() {
		if c.Contains(r.endNode) {
			return c
		}
	}
	return nil
}

// ComparePoints orders two boundary points: -1 before, 0 equal, 1 after.
func ComparePoints(nodeA *Node, offsetA int, nodeB *Node, offsetB int) int {
	if nodeA == nodeB {
		switch {
		case offsetA < offsetB:
			return -1
		case offsetA > offsetB:
			return 1
		}
		return 0
	}
	if nodeB.Precedes(nodeA) && !nodeB.Contains(nodeA) {
		return -ComparePoints(nodeB, offsetB, nodeA, offsetA)
	}
	if nodeA.Contains(nodeB) {
		child := nodeB
		for child.Parent() != nodeA {
			child = child.Parent()
		}
		if child.Index() < offsetA {
			return 1
		}
		return -1
	}
	if nodeB.Contains(nodeA) {
		return -ComparePoints(nodeB, offsetB, nodeA, offsetA)
	}
	return -1
}

func (r *Range) containsNode(n *Node) bool {
	parent := n.Parent()
	if parent == nil {
		return false
	}
	idx := n.Index()
	return ComparePoints(parent, idx, r.startNode, r.startOffset) >= 0 &&
		ComparePoints(parent, idx+1, r.endNode, r.endOffset) <= 0
}

func (r *Range) intersectsNode(n *Node) bool {
	parent := n.Parent()
	if parent == nil {
		return true
	}
	idx := n.Index()
	return ComparePoints(parent, idx, r.endNode, r.endOffset) < 0 &&
		ComparePoints(parent, idx+1, r.startNode, r.startOffset) > 0
}

// String returns the text contained in the range.
func (r *Range) String() string {
	if r.startNode == r.endNode && r.startNode.IsText() {
		runes := []rune(r.startNode.Data())
		return string(runes[r.startOffset:r.endOffset])
	}
	var sb strings.Builder
	if r.startNode.IsText() {
		sb.WriteString(string([]rune(r.startNode.Data())[r.startOffset:]))
	}
	root := r.CommonAncestorContainer()
	if root != nil {
		root.walk(func(n *Node) bool {
			if n.IsText() && n != r.startNode && n != r.endNode && r.containsNode(n) {
				sb.WriteString(n.Data())
			}
			return true
		})
	}
	if r.endNode.IsText() {
		sb.WriteString(string([]rune(r.endNode.Data())[:r.endOffset]))
	}
	return sb.String()
}

// DeleteContents removes the contents of the range and collapses it.
func (r *Range) DeleteContents() {
	if r.Collapsed() {
		return
	}
	startNode, startOffset := r.startNode, r.startOffset
	endNode, endOffset := r.endNode, r.endOffset

	if startNode == endNode && startNode.IsText() {
		startNode.DeleteData(startOffset, endOffset-startOffset)
		r.Collapse(true)
		return
	}

	var contained []*Node
	if root := r.CommonAncestorContainer(); root != nil {
		root.walk(func(n *Node) bool {
			if n != root && r.containsNode(n) {
				if p := n.Parent(); p == nil || !r.containsNode(p) {
					contained = append(contained, n)
				}
			}
			return true
		})
	}

	newNode, newOffset := startNode, startOffset
	if !startNode.Contains(endNode) {
		reference := startNode
		for reference.Parent() != nil && !reference.Parent().Contains(endNode) {
			reference = reference.Parent()
		}
		newNode, newOffset = reference.Parent(), reference.Index()+1
	}

	if startNode.IsText() {
		startNode.DeleteData(startOffset, startNode.Length()-startOffset)
	}
	for _, n := range contained {
		if n == newNode || n.Contains(newNode) {
			continue
		}
		parent := n.Parent()
		if parent == newNode && n.Index() < newOffset {
			newOffset--
		}
		parent.RemoveChild(n)
	}
	if endNode.IsText() {
		endNode.DeleteData(0, endOffset)
	}

	r.startNode, r.startOffset = newNode, newOffset
	r.endNode, r.endOffset = newNode, newOffset
}

// InsertNode inserts node at the start of the range, splitting a text node if needed.
func (r *Range) InsertNode(node *Node) {
	start, offset := r.startNode, r.startOffset
	if start.IsText() {
		parent := start.Parent()
		if parent == nil {
			return
		}
		runes := []rune(start.Data())
		tail := r.doc.CreateTextNode(string(runes[offset:]))
		start.SetData(string(runes[:offset]))
		parent.InsertBefore(tail, start.NextSibling())
		parent.InsertBefore(node, tail)
		if r.endNode == start && r.endOffset >= offset {
			r.endNode, r.endOffset = tail, r.endOffset-offset
		}
		return
	}
	parent := start
	parent.InsertBefore(node, parent.ChildAt(offset))
	if r.endNode == parent && r.endOffset >= offset {
		r.endOffset++
	}
}
