// pkg/userevent/forms.go
package userevent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/focus"
)

// Clear selects the whole content of an editable element and deletes it.
func (u *UserEvent) Clear(ctx context.Context, el *dom.Node) error {
	return u.run(ctx, func(context.Context) error {
		if !elements.IsEditable(el) || elements.IsDisabled(el) {
			return elementErrorf("clear", el, "clear()` is only supported on editable elements.")
		}
		focus.FocusElement(el)
		if el.Document().ActiveElement() != el {
			return elementErrorf("clear", el, "The element to be cleared could not be focused.")
		}
		ed := u.bind(el.Document()).editor
		ed.SelectAll(el)
		if !ed.IsAllSelected(el) {
			return elementErrorf("clear", el, "The element content to be cleared could not be selected.")
		}
		ed.Input(el, "", edit.DeleteContentBack)
		return nil
	})
}

// Upload clicks a file input, or a label of one, and picks files in the
// resulting file dialog. Nothing is picked when the click was canceled.
func (u *UserEvent) Upload(ctx context.Context, el *dom.Node, files ...*dom.File) error {
	return u.run(ctx, func(ctx context.Context) error {
		return u.upload(ctx, el, files)
	})
}

func (u *UserEvent) upload(ctx context.Context, el *dom.Node, files []*dom.File) error {
	input := el
	if el.Is("label") {
		input = el.Control()
	}
	if input == nil || !input.IsInput("file") {
		which := "associated"
		if input == el {
			which = "given"
		}
		return elementErrorf("upload", el, "The %s %s element does not accept file uploads", which, upperTag(input))
	}
	if elements.IsDisabled(el) {
		return nil
	}

	var picked []*dom.File
	for _, f := range files {
		if u.opts.ApplyAccept && !isAcceptableFile(f, input.Attr("accept")) {
			continue
		}
		picked = append(picked, f)
	}
	if !input.Multiple() && len(picked) > 1 {
		picked = picked[:1]
	}

	var clickEv *dom.Event
	id := input.AddEventListener("click", func(ev *dom.Event) { clickEv = ev })
	err := u.click(ctx, el, "click", 1)
	input.RemoveEventListener(id)
	if err != nil {
		return err
	}
	if clickEv == nil || clickEv.DefaultPrevented() {
		return nil
	}
	if sameFiles(input.Files(), picked) {
		return nil
	}
	u.logger.Debug("Picking files.", zap.Stringer("target", input), zap.Int("count", len(picked)))
	input.SetFiles(picked)
	b := u.bind(input.Document())
	b.dispatch.DispatchUI(input, "input")
	b.dispatch.DispatchUI(input, "change")
	return nil
}

func sameFiles(a, b []*dom.File) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isAcceptableFile matches a file against an accept attribute of file
// extensions, MIME types and audio/image/video wildcards.
func isAcceptableFile(f *dom.File, accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return true
	}
	for _, token := range strings.Split(accept, ",") {
		token = strings.TrimSpace(token)
		switch {
		case token == "":
		case strings.HasPrefix(token, "."):
			if strings.HasSuffix(strings.ToLower(f.Name), strings.ToLower(token)) {
				return true
			}
		case token == "audio/*" || token == "image/*" || token == "video/*":
			if strings.HasPrefix(f.Type, strings.TrimSuffix(token, "*")) {
				return true
			}
		case f.Type == token:
			return true
		}
	}
	return false
}

// SelectOptions selects the options of a select or listbox whose value or
// content matches one of values.
func (u *UserEvent) SelectOptions(ctx context.Context, el *dom.Node, values ...string) error {
	return u.run(ctx, func(ctx context.Context) error {
		return u.selectOptions(ctx, el, values, true)
	})
}

// DeselectOptions deselects options of a multiple select or a listbox.
func (u *UserEvent) DeselectOptions(ctx context.Context, el *dom.Node, values ...string) error {
	return u.run(ctx, func(ctx context.Context) error {
		return u.selectOptions(ctx, el, values, false)
	})
}

func (u *UserEvent) selectOptions(ctx context.Context, el *dom.Node, values []string, selected bool) error {
	op := "selectOptions"
	if !selected {
		op = "deselectOptions"
	}
	if !selected && el.Is("select") && !el.Multiple() {
		return elementErrorf(op, el, "Unable to deselect an option in a non-multiple select. Use selectOptions to change the selection instead.")
	}

	all, err := el.QuerySelectorAll(`option, [role="option"]`)
	if err != nil {
		return err
	}
	var options []*dom.Node
	for _, v := range values {
		match := findOption(all, v)
		if match == nil {
			return elementErrorf(op, el, "Value %q not found in options", v)
		}
		options = append(options, match)
	}
	if elements.IsDisabled(el) {
		return nil
	}

	b := u.bind(el.Document())
	switch {
	case el.Is("select") && el.Multiple():
		for i, o := range options {
			if i > 0 {
				if err := u.runner.Wait(ctx); err != nil {
					return err
				}
			}
			u.toggleInMultiple(b, el, o, selected)
		}
		return nil
	case el.Is("select"):
		if len(options) != 1 {
			return elementErrorf(op, el, "Cannot select multiple options on a non-multiple select")
		}
		return u.selectInSingle(ctx, b, el, options[0])
	case el.Attr("role") == "listbox":
		for _, o := range options {
			if err := u.hover(ctx, o); err != nil {
				return err
			}
			if err := u.click(ctx, o, "click", 1); err != nil {
				return err
			}
			if err := u.unhover(ctx, o); err != nil {
				return err
			}
		}
		return nil
	}
	return elementErrorf(op, el, "Cannot select options on elements that are neither select nor listbox elements")
}

func findOption(options []*dom.Node, value string) *dom.Node {
	for _, o := range options {
		if o.Value() == value || o.InnerHTML() == value {
			return o
		}
	}
	return nil
}

func (u *UserEvent) withPointerEvents(el *dom.Node) bool {
	if u.opts.SkipPointerEventsCheck {
		return true
	}
	ok, _ := elements.CheckPointerEvents(el)
	return ok
}

// toggleInMultiple fires the events of a ctrl-click on an option of a
// multiple select. Mouse events target the option, enter events the select.
func (u *UserEvent) toggleInMultiple(b *binding, sel, option *dom.Node, selected bool) {
	pe := u.withPointerEvents(option)
	if pe {
		b.dispatch.DispatchUI(option, "pointerover")
		b.dispatch.DispatchUI(sel, "pointerenter")
		b.dispatch.DispatchUI(option, "mouseover")
		b.dispatch.DispatchUI(sel, "mouseenter")
		b.dispatch.DispatchUI(option, "pointermove")
		b.dispatch.DispatchUI(option, "mousemove")
		b.dispatch.DispatchUI(option, "pointerdown")
		b.dispatch.DispatchUI(option, "mousedown")
	}
	focus.FocusElement(sel)
	if pe {
		b.dispatch.DispatchUI(option, "pointerup")
		b.dispatch.DispatchUI(option, "mouseup")
	}
	u.commitOption(b, sel, option, selected)
	if pe {
		b.dispatch.DispatchUI(option, "click")
	}
}

// selectInSingle opens the select with a click and picks option. Picking
// fires a second click on the select without a down phase.
func (u *UserEvent) selectInSingle(ctx context.Context, b *binding, sel, option *dom.Node) error {
	pe := u.withPointerEvents(sel)
	if pe {
		if err := u.click(ctx, sel, "click", 1); err != nil {
			return err
		}
	} else {
		focus.FocusElement(sel)
	}
	u.commitOption(b, sel, option, true)
	if pe {
		for _, typ := range []string{"pointerover", "pointerenter", "mouseover", "mouseenter", "pointerup", "mouseup", "click"} {
			b.dispatch.DispatchUI(sel, typ)
		}
	}
	return u.runner.Wait(ctx)
}

func (u *UserEvent) commitOption(b *binding, sel, option *dom.Node, selected bool) {
	option.SetSelected(selected)
	b.dispatch.DispatchUI(sel, "input")
	b.dispatch.DispatchUI(sel, "change")
}
