// internal/edit/editor.go
package edit

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/event"
	"github.com/xkilldash9x/userevent/internal/uivalue"
)

// Editor applies user edits to text controls and contenteditable hosts of
// one document.
type Editor struct {
	doc      *dom.Document
	ui       *uivalue.Tracker
	dispatch *event.Dispatcher
	logger   *zap.Logger
}

// New creates an editor. The UI value overlay is installed on doc if it is
// not already.
func New(doc *dom.Document, dispatch *event.Dispatcher, logger *zap.Logger) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dispatch == nil {
		dispatch = event.NewDispatcher(nil, logger)
	}
	return &Editor{
		doc:      doc,
		ui:       uivalue.Prepare(doc, logger),
		dispatch: dispatch,
		logger:   logger.Named("edit"),
	}
}

// UI returns the overlay tracker of the editor's document.
func (e *Editor) UI() *uivalue.Tracker { return e.ui }

// Document returns the edited document.
func (e *Editor) Document() *dom.Document { return e.doc }

// InputRange is where an edit applies: a selection inside a text control, or
// a document range inside a contenteditable host.
type InputRange struct {
	Element    *dom.Node
	Start, End int
	Range      *dom.Range
}

// Collapsed reports whether the range is empty.
func (r InputRange) Collapsed() bool {
	if r.Range != nil {
		return r.Range.Collapsed()
	}
	return r.Start == r.End
}

// GetInputRange returns the range an edit on el would replace. ok is false
// when el is neither a text control nor inside a contenteditable host with
// a selection.
func (e *Editor) GetInputRange(el *dom.Node) (InputRange, bool) {
	if elements.HasOwnSelection(el) {
		sel := e.ui.GetUISelection(el)
		return InputRange{Element: el, Start: sel.Start(), End: sel.End()}, true
	}
	if elements.GetContentEditable(el) == nil {
		return InputRange{}, false
	}
	rng := e.doc.GetSelection().GetRangeAt(0)
	if rng == nil {
		return InputRange{}, false
	}
	return InputRange{Element: el, Range: rng}, true
}

// Input replaces the current selection of el with data as the user would,
// firing input when the content changed. inputType names the InputEvent
// inputType; deleting types with an empty data remove the neighboring
// character on a collapsed selection.
func (e *Editor) Input(el *dom.Node, data, inputType string) {
	if !elements.IsEditable(el) && elements.GetContentEditable(el) == nil {
		return
	}
	rng, ok := e.GetInputRange(el)
	if !ok {
		return
	}
	if inputType == "" {
		inputType = InsertText
	}
	e.logger.Debug("Editing element.",
		zap.Stringer("target", el),
		zap.String("inputType", inputType),
		zap.Int("dataLength", utf8.RuneCountInString(data)))

	if rng.Range != nil {
		e.editContentEditable(el, rng.Range, data, inputType)
		return
	}
	e.editInputElement(el, rng, data, inputType)
}

func (e *Editor) editInputElement(el *dom.Node, rng InputRange, data, inputType string) {
	oldValue := e.ui.GetUIValue(el)
	insert := data
	if data != "" {
		runes := []rune(oldValue)
		remaining := string(runes[:clamp(rng.Start, 0, len(runes))]) + string(runes[clamp(rng.End, 0, len(runes)):])
		if space, limited := elements.GetSpaceUntilMaxLength(el, remaining); limited {
			if space <= 0 {
				return
			}
			if r := []rune(data); len(r) > space {
				insert = string(r[:space])
			}
		}
	}

	newValue, newOffset := CalculateNewValue(el, oldValue, insert, rng.Start, rng.End, inputType)
	if newValue == oldValue && newOffset == rng.Start && newOffset == rng.End {
		return
	}
	if el.IsInput("number") && !IsValidNumberInput(newValue) {
		return
	}

	e.ui.SetUIValue(el, newValue)
	sel := uivalue.Selection{AnchorOffset: newOffset, FocusOffset: newOffset}

	if IsDateOrTime(el) {
		if IsValidDateOrTimeValue(el, newValue) {
			e.commit(el, sel, "", "")
			e.dispatch.DispatchUI(el, "change")
			e.ui.ClearInitialValue(el)
			return
		}
		e.ui.SetUISelection(el, sel, uivalue.Replace)
		return
	}
	e.commit(el, sel, insert, inputType)
}

func (e *Editor) commit(el *dom.Node, sel uivalue.Selection, data, inputType string) {
	e.ui.SetUISelection(el, sel, uivalue.Replace)
	e.dispatch.DispatchUI(el, "input", event.InputData(inputType, data))
}

// ComposeDateTime sets the partially typed value of a date or time input.
// typed is everything typed into el since it became the key target. The value
// is committed with input and change once it is complete and valid; committed
// reports whether that happened. Once typing has started, an incomplete value
// does not replace a value committed earlier.
func (e *Editor) ComposeDateTime(el *dom.Node, typed string) (committed bool) {
	value := typed
	if el.IsInput("time") {
		if built := BuildTimeValue(typed); built != "" && IsValidDateOrTimeValue(el, built) {
			value = built
		}
	}
	if !IsValidDateOrTimeValue(el, value) {
		if el.Value() == "" || utf8.RuneCountInString(typed) == 1 {
			e.ui.SetUIValue(el, value)
		}
		return false
	}
	e.ui.SetUIValue(el, value)
	end := utf8.RuneCountInString(value)
	e.commit(el, uivalue.Selection{AnchorOffset: end, FocusOffset: end}, "", "")
	e.dispatch.DispatchUI(el, "change")
	e.ui.ClearInitialValue(el)
	return true
}

func (e *Editor) editContentEditable(el *dom.Node, rng *dom.Range, data, inputType string) {
	host := elements.GetContentEditable(el)
	deleted := false

	if !rng.Collapsed() {
		deleted = true
		rng.DeleteContents()
	} else if inputType == DeleteContentBack || inputType == DeleteContentForward || inputType == DeleteWordBackward {
		direction := 1
		if inputType != DeleteContentForward {
			direction = -1
		}
		if next, ok := GetNextCursorPosition(rng.StartContainer(), rng.StartOffset(), direction, inputType); ok && host.Contains(next.Node) {
			deleted = true
			del := rng.CloneRange()
			var err error
			if del.ComparePoint(next.Node, next.Offset) < 0 {
				err = del.SetStart(next.Node, next.Offset)
			} else {
				err = del.SetEnd(next.Node, next.Offset)
			}
			if err != nil {
				e.logger.Debug("Cursor position out of bounds.", zap.Error(err))
				return
			}
			del.DeleteContents()
			_ = rng.SetStart(del.StartContainer(), del.StartOffset())
			rng.Collapse(true)
		}
	}

	if data != "" {
		container, offset := rng.EndContainer(), rng.EndOffset()
		if container.IsText() {
			container.InsertData(offset, data)
			end := offset + utf8.RuneCountInString(data)
			_ = rng.SetStart(container, end)
			_ = rng.SetEnd(container, end)
		} else {
			text := e.doc.CreateTextNode(data)
			rng.InsertNode(text)
			end := utf8.RuneCountInString(data)
			_ = rng.SetStart(text, end)
			_ = rng.SetEnd(text, end)
		}
	}

	if deleted || data != "" {
		sel := e.doc.GetSelection()
		_ = sel.Collapse(rng.EndContainer(), rng.EndOffset())
		e.dispatch.DispatchUI(el, "input", event.InputData(inputType, data))
	}
}
