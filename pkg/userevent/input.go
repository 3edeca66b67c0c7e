// pkg/userevent/input.go
package userevent

import (
	"context"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/keyboard"
	"github.com/xkilldash9x/userevent/internal/scheduler"
)

// Keyboard presses and releases keys as described by text on the focused
// element of the session's document.
func (u *UserEvent) Keyboard(ctx context.Context, text string) (*KeyboardState, error) {
	err := u.run(ctx, func(ctx context.Context) error {
		return u.keyboard(ctx, text)
	})
	return u.keyState, err
}

// KeyboardAsync starts Keyboard on another goroutine.
func (u *UserEvent) KeyboardAsync(ctx context.Context, text string) *Future[*KeyboardState] {
	return scheduler.Async(ctx, u.runner, func(ctx context.Context) (*KeyboardState, error) {
		return u.keyState, u.keyboard(ctx, text)
	})
}

func (u *UserEvent) keyboard(ctx context.Context, text string) error {
	b, err := u.document()
	if err != nil {
		return err
	}
	return u.keyboardOn(ctx, b, text)
}

func (u *UserEvent) keyboardOn(ctx context.Context, b *binding, text string) error {
	actions, err := keyboard.Parse(text, u.opts.KeyboardMap)
	if err != nil {
		return err
	}
	return b.keyboard.Run(ctx, actions)
}

// Pointer performs pointer actions. Elements named by the actions decide
// the document; otherwise the session's document is used.
func (u *UserEvent) Pointer(ctx context.Context, actions ...PointerAction) (*PointerState, error) {
	err := u.run(ctx, func(ctx context.Context) error {
		return u.pointer(ctx, actions)
	})
	return u.ptrState, err
}

// PointerAsync starts Pointer on another goroutine.
func (u *UserEvent) PointerAsync(ctx context.Context, actions ...PointerAction) *Future[*PointerState] {
	return scheduler.Async(ctx, u.runner, func(ctx context.Context) (*PointerState, error) {
		return u.ptrState, u.pointer(ctx, actions)
	})
}

func (u *UserEvent) pointer(ctx context.Context, actions []PointerAction) error {
	b, err := u.pointerBinding(actions)
	if err != nil {
		return err
	}
	return b.pointer.Run(ctx, actions)
}

func (u *UserEvent) pointerBinding(actions []PointerAction) (*binding, error) {
	for _, a := range actions {
		if a.Target != nil {
			return u.bind(a.Target.Document()), nil
		}
	}
	if u.opts.Document == nil && len(u.bindings) == 1 {
		for _, b := range u.bindings {
			return b, nil
		}
	}
	return u.document()
}

// Click moves the mouse onto el and clicks the primary button.
func (u *UserEvent) Click(ctx context.Context, el *dom.Node) error {
	return u.clickN(ctx, el, "click", 1)
}

// DblClick clicks el twice.
func (u *UserEvent) DblClick(ctx context.Context, el *dom.Node) error {
	return u.clickN(ctx, el, "double-click", 2)
}

// TripleClick clicks el three times.
func (u *UserEvent) TripleClick(ctx context.Context, el *dom.Node) error {
	return u.clickN(ctx, el, "triple-click", 3)
}

func (u *UserEvent) clickN(ctx context.Context, el *dom.Node, action string, n int) error {
	return u.run(ctx, func(ctx context.Context) error {
		return u.click(ctx, el, action, n)
	})
}

func (u *UserEvent) click(ctx context.Context, el *dom.Node, action string, n int) error {
	if err := u.assertPointerEvents(el, action); err != nil {
		return err
	}
	keys := ""
	for i := 0; i < n; i++ {
		keys += "[MouseLeft]"
	}
	var actions []PointerAction
	if !u.opts.SkipHover {
		actions = append(actions, PointerAction{Target: el})
	}
	actions = append(actions, PointerAction{Keys: keys, Target: el})
	return u.bind(el.Document()).pointer.Run(ctx, actions)
}

// Hover moves the mouse onto el.
func (u *UserEvent) Hover(ctx context.Context, el *dom.Node) error {
	return u.run(ctx, func(ctx context.Context) error {
		return u.hover(ctx, el)
	})
}

func (u *UserEvent) hover(ctx context.Context, el *dom.Node) error {
	if err := u.assertPointerEvents(el, "hover"); err != nil {
		return err
	}
	return u.bind(el.Document()).pointer.Run(ctx, []PointerAction{{Target: el}})
}

// Unhover moves the mouse from el onto the document body.
func (u *UserEvent) Unhover(ctx context.Context, el *dom.Node) error {
	return u.run(ctx, func(ctx context.Context) error {
		return u.unhover(ctx, el)
	})
}

func (u *UserEvent) unhover(ctx context.Context, el *dom.Node) error {
	if err := u.assertPointerEvents(el, "unhover"); err != nil {
		return err
	}
	doc := el.Document()
	return u.bind(doc).pointer.Run(ctx, []PointerAction{{Target: doc.Body()}})
}

// TypeOptions adjusts a single Type call. Unset pointers fall back to the
// session options.
type TypeOptions struct {
	SkipClick     *bool
	SkipAutoClose *bool
	// InitialSelectionStart and InitialSelectionEnd set the selection after
	// the click. End defaults to Start.
	InitialSelectionStart *int
	InitialSelectionEnd   *int
}

// Type clicks el and types text into it. Keys still pressed at the end are
// released.
func (u *UserEvent) Type(ctx context.Context, el *dom.Node, text string, opts ...TypeOptions) error {
	var o TypeOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return u.run(ctx, func(ctx context.Context) error {
		return u.typeText(ctx, el, text, o)
	})
}

func (u *UserEvent) typeText(ctx context.Context, el *dom.Node, text string, o TypeOptions) error {
	if el.Disabled() {
		return nil
	}
	skipClick, skipAutoClose := u.opts.SkipClick, u.opts.SkipAutoClose
	if o.SkipClick != nil {
		skipClick = *o.SkipClick
	}
	if o.SkipAutoClose != nil {
		skipAutoClose = *o.SkipAutoClose
	}

	b := u.bind(el.Document())
	if !skipClick {
		if err := u.click(ctx, el, "click", 1); err != nil {
			return err
		}
	}
	if o.InitialSelectionStart != nil {
		start := *o.InitialSelectionStart
		end := start
		if o.InitialSelectionEnd != nil {
			end = *o.InitialSelectionEnd
		}
		if err := b.editor.SetSelectionRange(el, start, end); err != nil {
			return err
		}
	}
	if err := u.keyboardOn(ctx, b, text); err != nil {
		return err
	}
	if !skipAutoClose {
		b.keyboard.ReleaseAll()
	}
	return nil
}

// TabOptions adjusts Tab.
type TabOptions struct {
	// Shift moves focus backwards.
	Shift bool
	// FocusTrap limits the tab order to the trap's descendants.
	FocusTrap *dom.Node
}

// Tab presses the tab key on the session's document.
func (u *UserEvent) Tab(ctx context.Context, opts ...TabOptions) error {
	var o TabOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	return u.run(ctx, func(ctx context.Context) error {
		b, err := u.document()
		if err != nil {
			return err
		}
		b.keyboard.SetFocusTrap(o.FocusTrap)
		defer b.keyboard.SetFocusTrap(nil)
		text := "{Tab}"
		if o.Shift {
			text = "{Shift>}{Tab}{/Shift}"
		}
		return u.keyboardOn(ctx, b, text)
	})
}
