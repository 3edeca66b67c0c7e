// pkg/userevent/clipboard.go
package userevent

import (
	"context"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/event"
	"github.com/xkilldash9x/userevent/internal/focus"
)

// Copy copies the selection of the focused element, or the document
// selection, to the session clipboard. It returns nil when nothing is
// selected.
func (u *UserEvent) Copy(ctx context.Context) (*dom.DataTransfer, error) {
	return u.copyOrCut(ctx, "copy")
}

// Cut copies like Copy and removes the selected text from an editable
// element.
func (u *UserEvent) Cut(ctx context.Context) (*dom.DataTransfer, error) {
	return u.copyOrCut(ctx, "cut")
}

func (u *UserEvent) copyOrCut(ctx context.Context, typ string) (*dom.DataTransfer, error) {
	var data *dom.DataTransfer
	err := u.run(ctx, func(context.Context) error {
		b, err := u.document()
		if err != nil {
			return err
		}
		target := activeOrBody(b.doc)
		dt := u.copySelection(b, target)
		if len(dt.Items()) == 0 {
			return nil
		}
		data = dt
		if b.dispatch.DispatchUI(target, typ, event.WithClipboardData(dt)) {
			u.clipboard.Write(dt)
		}
		return nil
	})
	return data, err
}

func (u *UserEvent) copySelection(b *binding, target *dom.Node) *dom.DataTransfer {
	var text string
	if elements.HasOwnSelection(target) {
		sel := b.editor.UI().GetUISelection(target)
		runes := []rune(b.editor.UI().GetUIValue(target))
		start, end := min(sel.Start(), len(runes)), min(sel.End(), len(runes))
		text = string(runes[start:end])
	} else {
		text = b.doc.GetSelection().String()
	}
	dt := dom.NewDataTransfer()
	if text != "" {
		dt.SetData("text/plain", text)
	}
	return dt
}

// Paste focuses el and pastes text into it.
func (u *UserEvent) Paste(ctx context.Context, el *dom.Node, text string) error {
	return u.run(ctx, func(context.Context) error {
		if elements.IsDisabled(el) {
			return nil
		}
		if !isInputTarget(el) {
			return elementErrorf("paste", el, "The given %s element is currently unsupported.", upperTag(el))
		}
		focus.FocusElement(el)
		dt := dom.NewDataTransfer()
		dt.SetData("text/plain", text)
		u.bind(el.Document()).dispatch.DispatchUI(el, "paste", event.WithClipboardData(dt))
		return nil
	})
}

// PasteData pastes data into the focused element of the session's
// document. A nil data pastes the session clipboard.
func (u *UserEvent) PasteData(ctx context.Context, data *dom.DataTransfer) error {
	return u.run(ctx, func(context.Context) error {
		b, err := u.document()
		if err != nil {
			return err
		}
		if data == nil {
			data = u.clipboard.Read()
		}
		b.dispatch.DispatchUI(activeOrBody(b.doc), "paste", event.WithClipboardData(data))
		return nil
	})
}

func activeOrBody(doc *dom.Document) *dom.Node {
	if el := doc.ActiveElement(); el != nil {
		return el
	}
	return doc.Body()
}
