// internal/scenario/steps.go
package scenario

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/pkg/userevent"
)

const xpathPrefix = "xpath:"

// ElementNotFoundError is returned when a step or expectation selector
// matches nothing.
type ElementNotFoundError struct {
	Selector string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found matching selector '%s'", e.Selector)
}

// Resolve finds the first element matching a CSS selector, or an XPath
// expression prefixed with "xpath:".
func Resolve(doc *dom.Document, selector string) (*dom.Node, error) {
	var (
		n   *dom.Node
		err error
	)
	if expr, ok := strings.CutPrefix(selector, xpathPrefix); ok {
		n, err = doc.Node().QueryXPath(strings.TrimSpace(expr))
	} else {
		n, err = doc.QuerySelector(selector)
	}
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, &ElementNotFoundError{Selector: selector}
	}
	return n, nil
}

// perform runs one step against the session.
func perform(ctx context.Context, u *userevent.UserEvent, doc *dom.Document, st schemas.Step) error {
	var el *dom.Node
	if st.Target != "" {
		var err error
		if el, err = Resolve(doc, st.Target); err != nil {
			return err
		}
	}

	switch st.Action {
	case schemas.ActionClick:
		return u.Click(ctx, el)
	case schemas.ActionDblClick:
		return u.DblClick(ctx, el)
	case schemas.ActionTripleClick:
		return u.TripleClick(ctx, el)
	case schemas.ActionHover:
		return u.Hover(ctx, el)
	case schemas.ActionUnhover:
		return u.Unhover(ctx, el)
	case schemas.ActionClear:
		return u.Clear(ctx, el)
	case schemas.ActionType:
		return u.Type(ctx, el, st.Text, userevent.TypeOptions{
			SkipClick:             st.SkipClick,
			InitialSelectionStart: st.SelectionStart,
			InitialSelectionEnd:   st.SelectionEnd,
		})
	case schemas.ActionKeyboard:
		_, err := u.Keyboard(ctx, st.Text)
		return err
	case schemas.ActionPointer:
		actions, err := pointerActions(doc, st.Pointer)
		if err != nil {
			return err
		}
		_, err = u.Pointer(ctx, actions...)
		return err
	case schemas.ActionTab:
		opts := userevent.TabOptions{Shift: st.Shift}
		if st.FocusTrap != "" {
			trap, err := Resolve(doc, st.FocusTrap)
			if err != nil {
				return err
			}
			opts.FocusTrap = trap
		}
		return u.Tab(ctx, opts)
	case schemas.ActionCopy:
		_, err := u.Copy(ctx)
		return err
	case schemas.ActionCut:
		_, err := u.Cut(ctx)
		return err
	case schemas.ActionPaste:
		if el != nil {
			return u.Paste(ctx, el, st.Text)
		}
		var data *dom.DataTransfer
		if st.Text != "" {
			data = dom.NewDataTransfer()
			data.SetData("text/plain", st.Text)
		}
		return u.PasteData(ctx, data)
	case schemas.ActionUpload:
		files := make([]*dom.File, len(st.Files))
		for i, f := range st.Files {
			files[i] = dom.NewFile(f.Name, f.Type, []byte(f.Content))
		}
		return u.Upload(ctx, el, files...)
	case schemas.ActionSelect:
		return u.SelectOptions(ctx, el, st.Values...)
	case schemas.ActionDeselect:
		return u.DeselectOptions(ctx, el, st.Values...)
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

func pointerActions(doc *dom.Document, steps []schemas.PointerStep) ([]userevent.PointerAction, error) {
	actions := make([]userevent.PointerAction, 0, len(steps))
	for _, ps := range steps {
		a := userevent.PointerAction{Keys: ps.Keys, PointerName: ps.Pointer}
		if ps.Target != "" {
			el, err := Resolve(doc, ps.Target)
			if err != nil {
				return nil, err
			}
			a.Target = el
		}
		if ps.X != 0 || ps.Y != 0 {
			a.Coords = &userevent.Coords{X: ps.X, Y: ps.Y, ClientX: ps.X, ClientY: ps.Y}
		}
		if ps.Offset != nil {
			a.Offset, a.HasOffset = *ps.Offset, true
		}
		actions = append(actions, a)
	}
	return actions, nil
}
