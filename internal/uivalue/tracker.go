// internal/uivalue/tracker.go
package uivalue

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/event"
)

// Selection is the selection the user perceives in a text control.
type Selection struct {
	AnchorOffset int
	FocusOffset  int
}

// Start returns the smaller offset.
func (s Selection) Start() int { return min(s.AnchorOffset, s.FocusOffset) }

// End returns the larger offset.
func (s Selection) End() int { return max(s.AnchorOffset, s.FocusOffset) }

// Collapsed reports whether anchor and focus coincide.
func (s Selection) Collapsed() bool { return s.AnchorOffset == s.FocusOffset }

// Mode selects how SetUISelection treats the anchor.
type Mode int

const (
	// Replace sets both anchor and focus.
	Replace Mode = iota
	// Modify keeps an existing anchor and moves the focus.
	Modify
)

// Tracker holds the UI value and UI selection overlay of one document.
type Tracker struct {
	doc        *dom.Document
	values     map[*dom.Node]string
	initial    map[*dom.Node]string
	selections map[*dom.Node]Selection
	logger     *zap.Logger
}

type trackerKey struct{}

// Prepare installs the overlay on a document and returns its tracker.
// Repeated calls return the same tracker.
func Prepare(doc *dom.Document, logger *zap.Logger) *Tracker {
	if t, ok := doc.Extension(trackerKey{}).(*Tracker); ok {
		return t
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		doc:        doc,
		values:     make(map[*dom.Node]string),
		initial:    make(map[*dom.Node]string),
		selections: make(map[*dom.Node]Selection),
		logger:     logger.Named("uivalue"),
	}
	doc.SetExtension(trackerKey{}, t)

	doc.OnValueWrite(t.onValueWrite)
	doc.OnSelectionWrite(t.onSelectionWrite)
	doc.Node().AddEventListener("blur", t.onBlur, dom.ListenerOptions{Capture: true, Passive: true})
	return t
}

// onValueWrite drops the overlay when application code sets the value.
func (t *Tracker) onValueWrite(n *dom.Node, value string, src dom.WriteSource) {
	if src == dom.SourceUI {
		return
	}
	delete(t.values, n)
	end := utf8.RuneCountInString(n.Value())
	t.SetUISelection(n, Selection{AnchorOffset: end, FocusOffset: end}, Replace)
}

// onSelectionWrite drops the UI selection when application code sets the selection.
func (t *Tracker) onSelectionWrite(n *dom.Node, start, end int, src dom.WriteSource) {
	if src == dom.SourceUI {
		return
	}
	delete(t.selections, n)
}

// onBlur fires change when the value differs from the one recorded at the
// first user edit since the element gained focus.
func (t *Tracker) onBlur(ev *dom.Event) {
	el := ev.Target
	initial, ok := t.initial[el]
	if !ok {
		return
	}
	delete(t.initial, el)
	if el.Value() != initial {
		t.logger.Debug("Value changed while focused, firing change.", zap.Stringer("target", el))
		event.Fire(el, "change")
	}
}

// GetUIValue returns the overlay value, falling back to the DOM value.
func (t *Tracker) GetUIValue(el *dom.Node) string {
	if v, ok := t.values[el]; ok {
		return v
	}
	return el.Value()
}

// HasUIValue reports whether an overlay value is recorded.
func (t *Tracker) HasUIValue(el *dom.Node) bool {
	_, ok := t.values[el]
	return ok
}

// SetUIValue records the value the user sees and writes it to the DOM. The
// DOM may sanitize the write; the overlay keeps the attempted value.
func (t *Tracker) SetUIValue(el *dom.Node, value string) {
	if _, ok := t.initial[el]; !ok {
		t.initial[el] = el.Value()
	}
	t.values[el] = value
	el.WriteValue(value, dom.SourceUI)
}

// SetUIValueClean drops the overlay value.
func (t *Tracker) SetUIValueClean(el *dom.Node) { delete(t.values, el) }

// GetInitialValue returns the value recorded at the first user edit.
func (t *Tracker) GetInitialValue(el *dom.Node) (string, bool) {
	v, ok := t.initial[el]
	return v, ok
}

// ClearInitialValue forgets the recorded initial value.
func (t *Tracker) ClearInitialValue(el *dom.Node) { delete(t.initial, el) }

// GetUISelection returns the overlay selection, falling back to the DOM selection.
func (t *Tracker) GetUISelection(el *dom.Node) Selection {
	if sel, ok := t.selections[el]; ok {
		return sel
	}
	start, end, _ := el.SelectionRange()
	return Selection{AnchorOffset: start, FocusOffset: end}
}

// HasUISelection reports whether an overlay selection is recorded.
func (t *Tracker) HasUISelection(el *dom.Node) bool {
	_, ok := t.selections[el]
	return ok
}

// SetUISelection records the selection within the bounds of the UI value and
// mirrors it to setSelectionRange where the element supports it.
func (t *Tracker) SetUISelection(el *dom.Node, sel Selection, mode Mode) {
	length := utf8.RuneCountInString(t.GetUIValue(el))
	sanitize := func(o int) int { return max(0, min(length, o)) }

	anchor := sanitize(sel.AnchorOffset)
	if prev, ok := t.selections[el]; ok && mode == Modify {
		anchor = prev.AnchorOffset
	}
	focus := sanitize(sel.FocusOffset)
	t.selections[el] = Selection{AnchorOffset: anchor, FocusOffset: focus}

	start, end := min(anchor, focus), max(anchor, focus)
	if cur, curEnd, ok := el.SelectionRange(); !ok || (cur == start && curEnd == end) {
		return
	}
	dir := "forward"
	if focus < anchor {
		dir = "backward"
	}
	if err := el.WriteSelectionRange(start, end, dir, dom.SourceUI); err != nil {
		t.logger.Debug("Element rejected selection range.", zap.Error(err))
	}
}

// SetUISelectionClean drops the overlay selection.
func (t *Tracker) SetUISelectionClean(el *dom.Node) { delete(t.selections, el) }
