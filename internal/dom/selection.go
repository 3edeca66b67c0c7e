// internal/dom/selection.go
package dom

// Selection is the document selection. It holds at most one live range.
type Selection struct {
	doc      *Document
	rng      *Range
	backward bool
}

// RangeCount returns 0 or 1.
func (s *Selection) RangeCount() int {
	if s.rng == nil {
		return 0
	}
	return 1
}

// GetRangeAt returns the live range, or nil.
func (s *Selection) GetRangeAt(i int) *Range {
	if i != 0 {
		return nil
	}
	return s.rng
}

// AddRange sets the selection's range when it has none.
func (s *Selection) AddRange(r *Range) {
	if s.rng != nil {
		return
	}
	s.rng = r
	s.backward = false
}

// RemoveAllRanges empties the selection.
func (s *Selection) RemoveAllRanges() {
	s.rng = nil
	s.backward = false
}

// AnchorNode returns the anchor node.
func (s *Selection) AnchorNode() *Node {
	if s.rng == nil {
		return nil
	}
	if s.backward {
		return s.rng.endNode
	}
	return s.rng.startNode
}

// AnchorOffset returns the anchor offset.
func (s *Selection) AnchorOffset() int {
	if s.rng == nil {
		return 0
	}
	if s.backward {
		return s.rng.endOffset
	}
	return s.rng.startOffset
}

// FocusNode returns the focus node.
func (s *Selection) FocusNode() *Node {
	if s.rng == nil {
		return nil
	}
	if s.backward {
		return s.rng.startNode
	}
	return s.rng.endNode
}

// FocusOffset returns the focus offset.
func (s *Selection) FocusOffset() int {
	if s.rng == nil {
		return 0
	}
	if s.backward {
		return s.rng.startOffset
	}
	return s.rng.endOffset
}

// IsCollapsed reports whether the selection is empty or collapsed.
func (s *Selection) IsCollapsed() bool {
	return s.rng == nil || s.rng.Collapsed()
}

// Collapse places a collapsed selection at the point.
func (s *Selection) Collapse(node *Node, offset int) error {
	if node == nil {
		s.RemoveAllRanges()
		return nil
	}
	if offset < 0 || offset > node.Length() {
		return &IndexSizeError{Node: node, Offset: offset}
	}
	s.rng = &Range{doc: s.doc, startNode: node, startOffset: offset, endNode: node, endOffset: offset}
	s.backward = false
	return nil
}

// SetBaseAndExtent selects from the anchor point to the focus point.
func (s *Selection) SetBaseAndExtent(anchor *Node, anchorOffset int, focus *Node, focusOffset int) error {
	if anchorOffset < 0 || anchorOffset > anchor.Length() {
		return &IndexSizeError{Node: anchor, Offset: anchorOffset}
	}
	if focusOffset < 0 || focusOffset > focus.Length() {
		return &IndexSizeError{Node: focus, Offset: focusOffset}
	}
	r := &Range{doc: s.doc}
	if ComparePoints(anchor, anchorOffset, focus, focusOffset) <= 0 {
		r.startNode, r.startOffset, r.endNode, r.endOffset = anchor, anchorOffset, focus, focusOffset
		s.backward = false
	} else {
		r.startNode, r.startOffset, r.endNode, r.endOffset = focus, focusOffset, anchor, anchorOffset
		s.backward = true
	}
	s.rng = r
	return nil
}

// Extend moves the focus to the point, keeping the anchor.
func (s *Selection) Extend(node *Node, offset int) error {
	if s.rng == nil {
		return &InvalidStateError{Op: "extend", Node: node}
	}
	return s.SetBaseAndExtent(s.AnchorNode(), s.AnchorOffset(), node, offset)
}

// CollapseToStart collapses onto the start of the range.
func (s *Selection) CollapseToStart() {
	if s.rng != nil {
		_ = s.Collapse(s.rng.startNode, s.rng.startOffset)
	}
}

// CollapseToEnd collapses onto the end of the range.
func (s *Selection) CollapseToEnd() {
	if s.rng != nil {
		_ = s.Collapse(s.rng.endNode, s.rng.endOffset)
	}
}

// SelectAllChildren selects the contents of node.
func (s *Selection) SelectAllChildren(node *Node) {
	r := &Range{doc: s.doc}
	r.SelectNodeContents(node)
	s.rng = r
	s.backward = false
}

// ContainsNode reports whether the node is within the selection.
func (s *Selection) ContainsNode(n *Node, allowPartial bool) bool {
	if s.rng == nil {
		return false
	}
	if allowPartial {
		return s.rng.intersectsNode(n)
	}
	return s.rng.containsNode(n)
}

// String returns the selected text.
func (s *Selection) String() string {
	if s.rng == nil {
		return ""
	}
	return s.rng.String()
}
