// internal/event/event.go
package event

import (
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// Init customizes an event before it is dispatched. Inits run after the
// defaults of the event map have been applied, so they may override them.
type Init func(ev *dom.Event)

// Create constructs an event of typ with the interface and flags of the event map.
func Create(typ string, inits ...Init) *dom.Event {
	def, _ := Lookup(typ)
	ev := &dom.Event{
		Type:       typ,
		Interface:  def.Interface,
		Bubbles:    def.Bubbles,
		Cancelable: def.Cancelable,
		Composed:   def.Composed,
		TimeStamp:  time.Now(),
	}
	if def.Interface == dom.InterfacePointerEvent {
		ev.Width, ev.Height = 1, 1
	}
	for _, init := range inits {
		if init != nil {
			init(ev)
		}
	}
	return ev
}

// Fire creates and dispatches an event on target. It returns true when the
// default action was not prevented. A nil target is a no-op that reports true.
func Fire(target *dom.Node, typ string, inits ...Init) bool {
	if target == nil {
		return true
	}
	return target.DispatchEvent(Create(typ, inits...))
}

// Behavior computes the default action a simulated user event triggers on
// target. Returning nil means the event has no default action.
type Behavior func(ev *dom.Event, target *dom.Node) func()

// ModifierSource reports the modifier and lock keys currently active.
type ModifierSource func() map[string]bool

// Dispatcher fires events on behalf of the simulated user. It attaches the
// session's modifier state to keyboard and mouse events and runs the default
// actions registered per event type when the event was not canceled.
type Dispatcher struct {
	modifiers ModifierSource
	behaviors map[string]Behavior
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher. modifiers may be nil.
func NewDispatcher(modifiers ModifierSource, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		modifiers: modifiers,
		behaviors: make(map[string]Behavior),
		logger:    logger.Named("dispatch"),
	}
}

// Register sets the behavior for an event type, replacing any previous one.
func (d *Dispatcher) Register(typ string, b Behavior) {
	d.behaviors[typ] = b
}

// DispatchUI fires a user event with modifier state and default action.
func (d *Dispatcher) DispatchUI(target *dom.Node, typ string, inits ...Init) bool {
	return d.dispatch(target, typ, false, inits)
}

// DispatchUIWithoutDefault fires a user event with modifier state but skips the registered default action.
func (d *Dispatcher) DispatchUIWithoutDefault(target *dom.Node, typ string, inits ...Init) bool {
	return d.dispatch(target, typ, true, inits)
}

func (d *Dispatcher) dispatch(target *dom.Node, typ string, skipDefault bool, inits []Init) bool {
	if target == nil {
		return true
	}
	ev := Create(typ, inits...)
	if d.modifiers != nil && (ev.IsMouseLike() || ev.Interface == dom.InterfaceKeyboardEvent) {
		applyModifiers(ev, d.modifiers())
	}

	var action func()
	if !skipDefault {
		if b := d.behaviors[typ]; b != nil {
			action = b(ev, target)
		}
	}

	d.logger.Debug("Dispatching event.",
		zap.String("type", typ),
		zap.Stringer("target", target),
		zap.String("key", ev.Key),
		zap.Int("detail", ev.Detail))

	allowed := target.DispatchEvent(ev)
	if allowed && action != nil {
		action()
	}
	return allowed
}

// Dispatch dispatches a prepared event on target.
func (d *Dispatcher) Dispatch(target *dom.Node, ev *dom.Event) bool {
	if target == nil {
		return true
	}
	return target.DispatchEvent(ev)
}

func applyModifiers(ev *dom.Event, mods map[string]bool) {
	ev.AltKey = mods["Alt"]
	ev.CtrlKey = mods["Control"]
	ev.MetaKey = mods["Meta"]
	ev.ShiftKey = mods["Shift"]
	ev.Modifiers = make(map[string]bool, len(mods))
	for k, v := range mods {
		ev.Modifiers[k] = v
	}
}
