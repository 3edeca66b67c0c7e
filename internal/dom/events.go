// internal/dom/events.go
package dom

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// EventInterface names the DOM interface an event was constructed with.
type EventInterface string

const (
	InterfaceEvent         EventInterface = "Event"
	InterfaceUIEvent       EventInterface = "UIEvent"
	InterfaceMouseEvent    EventInterface = "MouseEvent"
	InterfacePointerEvent  EventInterface = "PointerEvent"
	InterfaceKeyboardEvent EventInterface = "KeyboardEvent"
	InterfaceInputEvent    EventInterface = "InputEvent"
	InterfaceFocusEvent    EventInterface = "FocusEvent"
	InterfaceClipboardEvt  EventInterface = "ClipboardEvent"
	InterfaceDragEvent     EventInterface = "DragEvent"
)

// Phase is the event phase.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

// Event carries the init fields of every event interface the engine produces.
// Fields not belonging to Interface are left at their zero values.
type Event struct {
	Type       string
	Interface  EventInterface
	Bubbles    bool
	Cancelable bool
	Composed   bool
	IsTrusted  bool
	TimeStamp  time.Time

	Target        *Node
	CurrentTarget *Node
	EventPhase    Phase

	// UIEvent
	Detail int

	// modifier state shared by keyboard and mouse events
	AltKey, CtrlKey, MetaKey, ShiftKey bool
	Modifiers                          map[string]bool

	// KeyboardEvent
	Key         string
	Code        string
	Location    int
	Repeat      bool
	IsComposing bool
	CharCode    int
	KeyCode     int

	// MouseEvent
	Button        int
	Buttons       int
	ClientX       float64
	ClientY       float64
	ScreenX       float64
	ScreenY       float64
	PageX         float64
	PageY         float64
	OffsetX       float64
	OffsetY       float64
	RelatedTarget *Node

	// PointerEvent
	PointerID   int
	PointerType string
	IsPrimary   bool
	Width       float64
	Height      float64
	Pressure    float64

	// InputEvent
	Data      string
	InputType string

	// DataTransfer of InputEvent and DragEvent, ClipboardData of ClipboardEvent
	DataTransfer  *DataTransfer
	ClipboardData *DataTransfer

	defaultPrevented  bool
	stopPropagation   bool
	stopImmediate     bool
	inPassiveListener bool
	dispatching       bool
}

// NewEvent creates an untrusted event of the base interface.
func NewEvent(typ string, bubbles, cancelable bool) *Event {
	return &Event{Type: typ, Interface: InterfaceEvent, Bubbles: bubbles, Cancelable: cancelable, TimeStamp: time.Now()}
}

// PreventDefault cancels the event if it is cancelable and not inside a passive listener.
func (e *Event) PreventDefault() {
	if e.Cancelable && !e.inPassiveListener {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault took effect.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event after the current node.
func (e *Event) StopPropagation() { e.stopPropagation = true }

// StopImmediatePropagation stops the event after the current listener.
func (e *Event) StopImmediatePropagation() {
	e.stopPropagation = true
	e.stopImmediate = true
}

// GetModifierState reports a modifier or lock key state.
func (e *Event) GetModifierState(key string) bool {
	switch key {
	case "Alt":
		return e.AltKey
	case "Control":
		return e.CtrlKey
	case "Meta":
		return e.MetaKey
	case "Shift":
		return e.ShiftKey
	}
	return e.Modifiers[key]
}

// IsMouseLike reports whether the event carries the MouseEvent fields.
func (e *Event) IsMouseLike() bool {
	return e.Interface == InterfaceMouseEvent || e.Interface == InterfacePointerEvent || e.Interface == InterfaceDragEvent
}

// Clone copies the init fields of an event into a fresh, undispatched event.
func (e *Event) Clone() *Event {
	c := *e
	c.Target, c.CurrentTarget, c.EventPhase = nil, nil, PhaseNone
	c.defaultPrevented, c.stopPropagation, c.stopImmediate = false, false, false
	c.inPassiveListener, c.dispatching = false, false
	c.TimeStamp = time.Now()
	return &c
}

func (e *Event) String() string {
	return fmt.Sprintf("%s(%s)", e.Interface, e.Type)
}

// -- EventTarget --

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

// ListenerOptions mirror the addEventListener options.
type ListenerOptions struct {
	Capture bool
	Once    bool
	Passive bool
}

// Listener handles an event.
type Listener func(ev *Event)

type listener struct {
	id      ListenerID
	typ     string
	fn      Listener
	opts    ListenerOptions
	removed bool
}

// AddEventListener registers fn for events of typ on n.
func (n *Node) AddEventListener(typ string, fn Listener, opts ...ListenerOptions) ListenerID {
	var o ListenerOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	n.doc.nextListenerID++
	l := &listener{id: n.doc.nextListenerID, typ: typ, fn: fn, opts: o}
	n.listeners = append(n.listeners, l)
	return l.id
}

// RemoveEventListener unregisters a listener.
func (n *Node) RemoveEventListener(id ListenerID) {
	for i, l := range n.listeners {
		if l.id == id {
			l.removed = true
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

// DispatchObserver is notified before an event starts propagating.
type DispatchObserver func(ev *Event)

// OnDispatch registers an observer for every event dispatched in the document.
func (d *Document) OnDispatch(obs DispatchObserver) {
	d.observers = append(d.observers, obs)
}

// DispatchEvent dispatches ev on n and reports whether the default action
// was not prevented. Click events run activation behavior.
func (n *Node) DispatchEvent(ev *Event) bool {
	if ev.dispatching {
		n.doc.logger.Warn("Event is already being dispatched.", zap.String("type", ev.Type))
		return false
	}
	if ev.TimeStamp.IsZero() {
		ev.TimeStamp = time.Now()
	}
	ev.dispatching = true
	defer func() {
		ev.dispatching = false
		ev.CurrentTarget = nil
		ev.EventPhase = PhaseNone
	}()
	ev.Target = n

	for _, obs := range n.doc.observers {
		obs(ev)
	}

	var activation *activationRecord
	if ev.Type == "click" && ev.IsMouseLike() {
		activation = n.doc.findActivation(n, ev)
		if activation != nil {
			activation.preActivate()
		}
	}

	path := append([]*Node{n}, n.Ancestors()...)

	// capture
	for i := len(path) - 1; i > 0 && !ev.stopPropagation; i-- {
		ev.EventPhase = PhaseCapturing
		path[i].invoke(ev, true, false)
	}
	// target
	if !ev.stopPropagation {
		ev.EventPhase = PhaseAtTarget
		n.invoke(ev, true, true)
	}
	// bubble
	if ev.Bubbles {
		for i := 1; i < len(path) && !ev.stopPropagation; i++ {
			ev.EventPhase = PhaseBubbling
			path[i].invoke(ev, false, true)
		}
	}

	if activation != nil {
		if ev.defaultPrevented {
			activation.canceled()
		} else {
			activation.activate()
		}
	}
	return !ev.defaultPrevented
}

func (n *Node) invoke(ev *Event, capture, bubble bool) {
	ev.CurrentTarget = n
	snapshot := append([]*listener(nil), n.listeners...)
	for _, l := range snapshot {
		if l.removed || l.typ != ev.Type {
			continue
		}
		if l.opts.Capture && !capture || !l.opts.Capture && !bubble {
			continue
		}
		if l.opts.Once {
			n.RemoveEventListener(l.id)
		}
		n.call(l, ev)
		if ev.stopImmediate {
			return
		}
	}
}

func (n *Node) call(l *listener, ev *Event) {
	ev.inPassiveListener = l.opts.Passive
	defer func() {
		ev.inPassiveListener = false
		if r := recover(); r != nil {
			n.doc.logger.Error("Event listener panicked.",
				zap.String("type", ev.Type),
				zap.Stringer("target", ev.Target),
				zap.Any("panic", r))
		}
	}()
	l.fn(ev)
}

// HasListeners reports whether a listener for typ is registered on n.
func (n *Node) HasListeners(typ string) bool {
	for _, l := range n.listeners {
		if l.typ == typ {
			return true
		}
	}
	return false
}
