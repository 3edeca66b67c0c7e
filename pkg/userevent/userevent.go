// pkg/userevent/userevent.go
package userevent

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/event"
	"github.com/xkilldash9x/userevent/internal/keyboard"
	"github.com/xkilldash9x/userevent/internal/pointer"
	"github.com/xkilldash9x/userevent/internal/scheduler"
)

// Re-exported engine types.
type (
	KeyboardState = keyboard.State
	PointerState  = pointer.State
	KeyboardMap   = keyboard.Map
	PointerMap    = pointer.Map
	KeyDef        = keyboard.KeyDef
	PointerKey    = pointer.Key
	PointerAction = pointer.Action
	Coords        = pointer.Coords
	Future[T any] = scheduler.Future[T]
)

// ErrNoDocument is returned by operations that act on the focused element
// of a session created without a document.
var ErrNoDocument = errors.New("userevent: no document; set Options.Document")

// Options configures a session.
type Options struct {
	// Delay between the steps of a sequence. A positive delay switches the
	// session to delayed mode.
	Delay time.Duration
	// SkipClick makes Type skip the initial click.
	SkipClick bool
	// SkipHover makes the click helpers skip moving onto the element first.
	SkipHover bool
	// SkipAutoClose keeps keys pressed at the end of Type.
	SkipAutoClose bool
	// SkipPointerEventsCheck allows pointer actions on elements with
	// `pointer-events: none`.
	SkipPointerEventsCheck bool
	// ApplyAccept filters uploaded files by the input's accept attribute.
	ApplyAccept bool

	KeyboardMap KeyboardMap
	PointerMap  PointerMap

	// Document is the target of Keyboard, Tab, Copy, Cut and PasteData.
	// Element operations use the element's own document.
	Document *dom.Document
	// Clipboard backs Copy, Cut and PasteData. Each session gets its own
	// empty clipboard by default.
	Clipboard *dom.Clipboard
	Logger    *zap.Logger
	// ErrorHandler receives errors of synchronous calls. They are returned
	// as well.
	ErrorHandler func(error)
}

// UserEvent is a session of simulated user input. All operations share one
// keyboard and one pointer state. A session is not safe for concurrent use.
type UserEvent struct {
	opts      Options
	keyState  *keyboard.State
	ptrState  *pointer.State
	clipboard *dom.Clipboard
	runner    *scheduler.Runner
	bindings  map[*dom.Document]*binding
	logger    *zap.Logger
}

// binding holds the engines of one document.
type binding struct {
	doc      *dom.Document
	dispatch *event.Dispatcher
	editor   *edit.Editor
	keyboard *keyboard.Engine
	pointer  *pointer.Engine
}

// Setup creates a session.
func Setup(opts Options) *UserEvent {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.KeyboardMap == nil {
		opts.KeyboardMap = keyboard.DefaultMap()
	}
	if opts.PointerMap == nil {
		opts.PointerMap = pointer.DefaultMap()
	}
	clipboard := opts.Clipboard
	if clipboard == nil {
		clipboard = dom.NewClipboard()
	}
	u := &UserEvent{
		opts:      opts,
		keyState:  keyboard.NewState(),
		ptrState:  pointer.NewState(),
		clipboard: clipboard,
		bindings:  make(map[*dom.Document]*binding),
		logger:    logger.Named("userevent"),
	}
	u.runner = scheduler.New(opts.Delay, opts.ErrorHandler, u.logger)
	return u
}

// KeyboardState returns the session's keyboard state.
func (u *UserEvent) KeyboardState() *KeyboardState { return u.keyState }

// PointerState returns the session's pointer state.
func (u *UserEvent) PointerState() *PointerState { return u.ptrState }

// Clipboard returns the session's clipboard.
func (u *UserEvent) Clipboard() *dom.Clipboard { return u.clipboard }

// Delayed reports whether the session waits between steps.
func (u *UserEvent) Delayed() bool { return u.runner.Mode() == scheduler.Delayed }

func (u *UserEvent) bind(doc *dom.Document) *binding {
	if b, ok := u.bindings[doc]; ok {
		return b
	}
	logger := u.logger.With(zap.Int("document", len(u.bindings)))
	d := event.NewDispatcher(u.keyState.Modifiers, logger)
	ed := edit.New(doc, d, logger)
	b := &binding{doc: doc, dispatch: d, editor: ed}
	d.Register("paste", b.pasteBehavior)
	d.Register("cut", b.cutBehavior)

	b.keyboard = keyboard.NewEngine(u.keyState, ed, d, logger)
	b.keyboard.SetPacer(u.runner)
	b.pointer = pointer.NewEngine(u.ptrState, u.opts.PointerMap, ed, d, logger)
	b.pointer.SetPacer(u.runner)
	b.pointer.SkipPointerEventsCheck(u.opts.SkipPointerEventsCheck)
	u.bindings[doc] = b
	return b
}

func (u *UserEvent) document() (*binding, error) {
	if u.opts.Document == nil {
		return nil, ErrNoDocument
	}
	return u.bind(u.opts.Document), nil
}

// run performs one top-level operation through the scheduler.
func (u *UserEvent) run(ctx context.Context, fn func(ctx context.Context) error) error {
	return u.runner.Run(ctx, fn)
}

func (u *UserEvent) assertPointerEvents(el *dom.Node, action string) error {
	if u.opts.SkipPointerEventsCheck {
		return nil
	}
	err := elements.AssertPointerEvents(el)
	var pe *elements.PointerEventsError
	if errors.As(err, &pe) {
		pe.Action = action
	}
	return err
}

func (b *binding) pasteBehavior(ev *dom.Event, target *dom.Node) func() {
	if ev.ClipboardData == nil || !isInputTarget(target) {
		return nil
	}
	return func() {
		b.editor.Input(target, ev.ClipboardData.GetData("text"), edit.InsertFromPaste)
	}
}

func (b *binding) cutBehavior(_ *dom.Event, target *dom.Node) func() {
	if !isInputTarget(target) {
		return nil
	}
	return func() { b.editor.Input(target, "", edit.DeleteByCut) }
}

func isInputTarget(el *dom.Node) bool {
	return elements.IsEditable(el) || elements.GetContentEditable(el) != nil
}
