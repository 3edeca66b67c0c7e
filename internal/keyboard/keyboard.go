// internal/keyboard/keyboard.go
package keyboard

import (
	"context"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/event"
)

// Pacer waits between the steps of a sequence.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Engine replays key actions against the focused element of a document.
// It is not safe for concurrent use.
type Engine struct {
	state    *State
	editor   *edit.Editor
	dispatch *event.Dispatcher
	registry *Registry
	pacer    Pacer
	trap     *dom.Node
	logger   *zap.Logger
}

// NewEngine creates an engine with the default behavior plugins. The
// dispatcher should report state's modifiers.
func NewEngine(state *State, editor *edit.Editor, dispatch *event.Dispatcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		state:    state,
		editor:   editor,
		dispatch: dispatch,
		registry: DefaultRegistry(),
		logger:   logger.Named("keyboard"),
	}
}

// SetPacer sets the pacer consulted between steps. nil runs steps back to back.
func (e *Engine) SetPacer(p Pacer) { e.pacer = p }

// SetRegistry replaces the behavior plugins.
func (e *Engine) SetRegistry(r *Registry) { e.registry = r }

// SetFocusTrap limits tab navigation to the descendants of trap. nil removes the limit.
func (e *Engine) SetFocusTrap(trap *dom.Node) { e.trap = trap }

// State returns the keyboard state.
func (e *Engine) State() *State { return e.state }

// Editor returns the editor applying key behavior.
func (e *Engine) Editor() *edit.Editor { return e.editor }

// Dispatcher returns the dispatcher firing key events.
func (e *Engine) Dispatcher() *event.Dispatcher { return e.dispatch }

// Document returns the document receiving key events.
func (e *Engine) Document() *dom.Document { return e.editor.Document() }

// Run performs actions in order. Between steps it waits on the pacer; a
// context error from the pacer aborts the sequence.
func (e *Engine) Run(ctx context.Context, actions []Action) error {
	first := true
	for _, a := range actions {
		repeat := max(a.Repeat, 1)
		for i := 1; i <= repeat; i++ {
			if !first {
				if err := e.wait(ctx); err != nil {
					return err
				}
			}
			first = false
			e.step(a, i > 1, i == repeat)
		}
	}
	return nil
}

func (e *Engine) wait(ctx context.Context) error {
	if e.pacer == nil {
		return ctx.Err()
	}
	return e.pacer.Wait(ctx)
}

func (e *Engine) step(a Action, repeating, last bool) {
	e.logger.Debug("Key action.",
		zap.String("key", a.Def.Key),
		zap.String("code", a.Def.Code),
		zap.Bool("releasePrevious", a.ReleasePrevious),
		zap.Bool("releaseSelf", a.ReleaseSelf))

	if p, held := e.state.get(a.Def); held && !repeating {
		e.keyup(a.Def, p.UnpreventedDefault)
	}
	if a.ReleasePrevious {
		return
	}
	unprevented := e.keydown(a.Def, repeating)
	if unprevented && e.hasKeyPress(a.Def) {
		e.keypress(a.Def)
	}
	if a.ReleaseSelf && last {
		e.keyup(a.Def, unprevented)
	}
}

// ReleaseAll releases every held key in the order the keys were pressed.
func (e *Engine) ReleaseAll() {
	for _, p := range e.state.Pressed() {
		e.keyup(p.Def, p.UnpreventedDefault)
	}
}

// target is the element keyboard events go to: the focused element or the body.
func (e *Engine) target() *dom.Node {
	doc := e.Document()
	if el := doc.ActiveElement(); el != nil {
		return el
	}
	return doc.DocumentElement()
}

func (e *Engine) keydown(def KeyDef, repeat bool) bool {
	el := e.target()
	if el != e.state.ActiveElement {
		e.state.CarryValue = ""
	}
	e.state.ActiveElement = el

	e.state.press(def)
	unprevented := e.dispatch.DispatchUI(el, "keydown", event.Key(keyInit(def, repeat)))
	e.state.setUnprevented(def, unprevented)
	if unprevented {
		e.registry.apply(Keydown, def, el, e)
	}
	return unprevented
}

func (e *Engine) keypress(def KeyDef) {
	el := e.target()
	init := keyInit(def, false)
	if def.Key == "Enter" {
		init.CharCode = 13
	} else {
		r, _ := utf8.DecodeRuneInString(def.Key)
		init.CharCode = int(r)
	}
	init.KeyCode = init.CharCode
	if e.dispatch.DispatchUI(el, "keypress", event.Key(init)) {
		e.registry.apply(Keypress, def, el, e)
	}
}

func (e *Engine) keyup(def KeyDef, unprevented bool) {
	el := e.target()
	e.state.release(def)
	allowed := e.dispatch.DispatchUI(el, "keyup", event.Key(keyInit(def, false)))
	if unprevented && allowed {
		e.registry.apply(Keyup, def, el, e)
	}
}

// hasKeyPress reports whether def produces a keypress: printable keys and
// Enter while neither Control nor Alt is held.
func (e *Engine) hasKeyPress(def KeyDef) bool {
	if utf8.RuneCountInString(def.Key) != 1 && def.Key != "Enter" {
		return false
	}
	return !e.state.Modifier("Control") && !e.state.Modifier("Alt")
}

func keyInit(def KeyDef, repeat bool) event.KeyInit {
	code := def.KeyCode
	if code == 0 && utf8.RuneCountInString(def.Key) == 1 {
		r, _ := utf8.DecodeRuneInString(def.Key)
		code = int(unicode.ToUpper(r))
	}
	return event.KeyInit{
		Key:      def.Key,
		Code:     def.Code,
		Location: def.Location,
		KeyCode:  code,
		Repeat:   repeat,
	}
}
