// internal/edit/selection.go
package edit

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/uivalue"
)

// SetSelection selects from anchor to focus. Points inside a text control
// set its UI selection, anything else sets the document selection.
func (e *Editor) SetSelection(anchor, focus Position) {
	if elements.HasOwnSelection(focus.Node) {
		e.ui.SetUISelection(focus.Node, uivalue.Selection{AnchorOffset: anchor.Offset, FocusOffset: focus.Offset}, uivalue.Replace)
		return
	}
	if err := e.doc.GetSelection().SetBaseAndExtent(anchor.Node, anchor.Offset, focus.Node, focus.Offset); err != nil {
		e.logger.Debug("Failed to set document selection.", zap.Error(err))
	}
}

// SetSelectionRange selects characters of a text control or of the first
// text node of a contenteditable host.
func (e *Editor) SetSelectionRange(el *dom.Node, anchorOffset, focusOffset int) error {
	if elements.HasOwnSelection(el) {
		e.ui.SetUISelection(el, uivalue.Selection{AnchorOffset: anchorOffset, FocusOffset: focusOffset}, uivalue.Replace)
		return nil
	}
	if elements.IsContentEditable(el) {
		if first := el.FirstChild(); first != nil && first.IsText() {
			return e.doc.GetSelection().SetBaseAndExtent(first, anchorOffset, first, focusOffset)
		}
	}
	return fmt.Errorf("setting a selection range on %s is not supported", el)
}

// SelectAll selects the whole value of a text control, or the contents of
// the contenteditable host (or body) containing el.
func (e *Editor) SelectAll(el *dom.Node) {
	if elements.HasOwnSelection(el) {
		length := utf8.RuneCountInString(e.ui.GetUIValue(el))
		e.ui.SetUISelection(el, uivalue.Selection{AnchorOffset: 0, FocusOffset: length}, uivalue.Replace)
		return
	}
	host := elements.GetContentEditable(el)
	if host == nil {
		host = e.doc.Body()
	}
	e.doc.GetSelection().SelectAllChildren(host)
}

// IsAllSelected reports whether SelectAll would not change anything.
func (e *Editor) IsAllSelected(el *dom.Node) bool {
	if elements.HasOwnSelection(el) {
		sel := e.ui.GetUISelection(el)
		return sel.Start() == 0 && sel.End() == utf8.RuneCountInString(e.ui.GetUIValue(el))
	}
	host := elements.GetContentEditable(el)
	if host == nil {
		host = e.doc.Body()
	}
	sel := e.doc.GetSelection()
	return sel.AnchorNode() == host && sel.FocusNode() == host &&
		sel.AnchorOffset() == 0 && sel.FocusOffset() == len(host.ChildNodes())
}

// MoveSelection moves the caret one character in direction, or collapses a
// non-empty selection onto its start (direction < 0) or end.
func (e *Editor) MoveSelection(el *dom.Node, direction int) {
	if elements.HasOwnSelection(el) {
		sel := e.ui.GetUISelection(el)
		var offset int
		switch {
		case sel.Collapsed():
			offset = sel.FocusOffset + direction
		case direction < 0:
			offset = sel.Start()
		default:
			offset = sel.End()
		}
		e.SetSelection(Position{Node: el, Offset: offset}, Position{Node: el, Offset: offset})
		return
	}

	sel := e.doc.GetSelection()
	if sel.FocusNode() == nil {
		return
	}
	if !sel.IsCollapsed() {
		if direction < 0 {
			sel.CollapseToStart()
		} else {
			sel.CollapseToEnd()
		}
		return
	}
	if next, ok := GetNextCursorPosition(sel.FocusNode(), sel.FocusOffset(), direction, ""); ok {
		e.SetSelection(next, next)
	}
}

// MouseSelection is the selection started by a mousedown. Drags extend it.
type MouseSelection struct {
	// Element is the text control owning the selection; nil for document ranges.
	Element    *dom.Node
	Start, End int
	Range      *dom.Range
}

// Caret locates a press or drag inside its target. Without an explicit
// node the offset counts characters of the target's text; HasOffset false
// means the end of the text.
type Caret struct {
	Node      *dom.Node
	Offset    int
	HasOffset bool
}

// SetSelectionPerMouseDown selects the caret position for a single click,
// the word for a double click and the line for a triple click.
func (e *Editor) SetSelectionPerMouseDown(target *dom.Node, caret Caret, clickCount int) (*MouseSelection, error) {
	if elements.HasNoSelection(target) {
		return nil, nil
	}
	own := elements.HasOwnSelection(target)
	text := target.TextContent()
	if own {
		text = e.ui.GetUIValue(target)
	}

	start, end := caret.Offset, caret.Offset
	if caret.Node == nil {
		start, end = getTextRange(text, caret.Offset, caret.HasOffset, clickCount)
	} else if !caret.HasOffset {
		start, end = caret.Node.Length(), caret.Node.Length()
	}

	if own {
		e.ui.SetUISelection(target, uivalue.Selection{AnchorOffset: start, FocusOffset: end}, uivalue.Replace)
		return &MouseSelection{Element: target, Start: start, End: end}, nil
	}

	startPos, err := resolveCaretPosition(target, caret.Node, start, true)
	if err != nil {
		return nil, err
	}
	endPos, err := resolveCaretPosition(target, caret.Node, end, true)
	if err != nil {
		return nil, err
	}
	rng := e.doc.CreateRange()
	if err := rng.SetStart(startPos.Node, startPos.Offset); err != nil {
		return nil, errOutOfBounds
	}
	if err := rng.SetEnd(endPos.Node, endPos.Offset); err != nil {
		return nil, errOutOfBounds
	}
	sel := e.doc.GetSelection()
	sel.RemoveAllRanges()
	sel.AddRange(rng.CloneRange())
	return &MouseSelection{Range: rng}, nil
}

// ModifySelectionPerMouse extends a selection started by a mousedown to
// the caret position of a drag.
func (e *Editor) ModifySelectionPerMouse(selecting *MouseSelection, target *dom.Node, caret Caret) error {
	if selecting == nil || elements.HasNoSelection(target) {
		return nil
	}

	if selecting.Element != nil {
		el := selecting.Element
		length := utf8.RuneCountInString(e.ui.GetUIValue(el))
		focus := length
		if target == el && caret.HasOffset {
			focus = caret.Offset
		}
		anchor := selecting.Start
		if focus < selecting.Start {
			anchor = selecting.End
		}
		e.ui.SetUISelection(el, uivalue.Selection{AnchorOffset: anchor, FocusOffset: focus}, uivalue.Replace)
		return nil
	}

	pos, err := resolveCaretPosition(target, caret.Node, caret.Offset, caret.HasOffset)
	if err != nil {
		return err
	}
	rng := selecting.Range
	anchor := Position{Node: rng.StartContainer(), Offset: rng.StartOffset()}
	if rng.ComparePoint(pos.Node, pos.Offset) < 0 {
		anchor = Position{Node: rng.EndContainer(), Offset: rng.EndOffset()}
	}
	return e.doc.GetSelection().SetBaseAndExtent(anchor.Node, anchor.Offset, pos.Node, pos.Offset)
}

// getTextRange returns the characters a press at pos selects: the caret for
// a single click, the word (or whitespace run) for a double click and the
// line for a triple click.
func getTextRange(text string, pos int, hasPos bool, clickCount int) (int, int) {
	runes := []rune(text)
	if !hasPos {
		pos = len(runes)
	}
	if clickCount%3 == 1 || len(runes) == 0 {
		return pos, pos
	}
	pos = clamp(pos, 0, len(runes))

	if clickCount%3 == 2 {
		class := func(r rune) int {
			switch {
			case isWordRune(r):
				return 1
			case unicode.IsSpace(r):
				return 2
			}
			return 3
		}
		start, end := pos, pos
		if start > 0 {
			c := class(runes[start-1])
			start--
			for c != 3 && start > 0 && class(runes[start-1]) == c {
				start--
			}
		}
		if hasPos && end < len(runes) {
			c := class(runes[end])
			end++
			for c != 3 && end < len(runes) && class(runes[end]) == c {
				end++
			}
		}
		return start, end
	}

	isBreak := func(r rune) bool { return r == '\n' || r == '\r' }
	start, end := pos, pos
	for start > 0 && !isBreak(runes[start-1]) {
		start--
	}
	for hasPos && end < len(runes) && !isBreak(runes[end]) {
		end++
	}
	return start, end
}

// resolveCaretPosition maps a character offset of target (or a point in an
// explicit node) to a boundary point.
func resolveCaretPosition(target, node *dom.Node, offset int, hasOffset bool) (Position, error) {
	if node != nil {
		if !hasOffset {
			offset = node.Length()
		}
		return Position{Node: node, Offset: offset}, nil
	}
	if !hasOffset {
		return findNodeAtTextOffset(target, 0, false, true)
	}
	return findNodeAtTextOffset(target, offset, true, true)
}

var errOutOfBounds = fmt.Errorf("the given offset is out of bounds")

// findNodeAtTextOffset finds the text node containing the offset. Without
// an offset the caret goes to the end of the last non-empty text.
func findNodeAtTextOffset(node *dom.Node, offset int, hasOffset, isRoot bool) (Position, error) {
	children := node.ChildNodes()
	if !hasOffset {
		stop := 0
		if isRoot {
			stop = max(len(children)-1, 0)
		}
		for i := len(children) - 1; i >= stop; i-- {
			c := children[i]
			if c.TextContent() == "" {
				continue
			}
			if c.IsElement() {
				return findNodeAtTextOffset(c, 0, false, false)
			}
			if c.IsText() {
				return Position{Node: c, Offset: c.Length()}, nil
			}
		}
		return Position{Node: node, Offset: len(children)}, nil
	}

	for _, c := range children {
		length := utf8.RuneCountInString(c.TextContent())
		if length == 0 {
			continue
		}
		if length < offset {
			offset -= length
			continue
		}
		if c.IsElement() {
			return findNodeAtTextOffset(c, offset, true, false)
		}
		if c.IsText() {
			return Position{Node: c, Offset: offset}, nil
		}
	}
	if offset > 0 {
		return Position{}, errOutOfBounds
	}
	return Position{Node: node, Offset: len(children)}, nil
}
