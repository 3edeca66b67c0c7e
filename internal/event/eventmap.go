// internal/event/eventmap.go
package event

import "github.com/xkilldash9x/userevent/internal/dom"

// Definition holds the interface and default flags of an event type.
type Definition struct {
	Interface  dom.EventInterface
	Bubbles    bool
	Cancelable bool
	Composed   bool
}

var (
	bubblingCancelable = func(i dom.EventInterface) Definition {
		return Definition{Interface: i, Bubbles: true, Cancelable: true, Composed: true}
	}
	nonBubbling = func(i dom.EventInterface) Definition {
		return Definition{Interface: i, Composed: true}
	}
)

// eventMap mirrors the defaults browsers apply to native events of each type.
var eventMap = map[string]Definition{
	// clipboard
	"copy":  bubblingCancelable(dom.InterfaceClipboardEvt),
	"cut":   bubblingCancelable(dom.InterfaceClipboardEvt),
	"paste": bubblingCancelable(dom.InterfaceClipboardEvt),

	// focus
	"blur":     nonBubbling(dom.InterfaceFocusEvent),
	"focus":    nonBubbling(dom.InterfaceFocusEvent),
	"focusin":  {Interface: dom.InterfaceFocusEvent, Bubbles: true, Composed: true},
	"focusout": {Interface: dom.InterfaceFocusEvent, Bubbles: true, Composed: true},

	// keyboard
	"keydown":  bubblingCancelable(dom.InterfaceKeyboardEvent),
	"keypress": bubblingCancelable(dom.InterfaceKeyboardEvent),
	"keyup":    bubblingCancelable(dom.InterfaceKeyboardEvent),

	// input
	"beforeinput": bubblingCancelable(dom.InterfaceInputEvent),
	"input":       {Interface: dom.InterfaceInputEvent, Bubbles: true, Composed: true},
	"change":      {Interface: dom.InterfaceEvent, Bubbles: true},
	"select":      {Interface: dom.InterfaceEvent, Bubbles: true},
	"submit":      {Interface: dom.InterfaceEvent, Bubbles: true, Cancelable: true},
	"reset":       {Interface: dom.InterfaceEvent, Bubbles: true, Cancelable: true},
	"invalid":     {Interface: dom.InterfaceEvent, Cancelable: true},
	"fileDialog":  {Interface: dom.InterfaceEvent},

	// mouse
	"auxclick":    bubblingCancelable(dom.InterfacePointerEvent),
	"click":       bubblingCancelable(dom.InterfacePointerEvent),
	"contextmenu": bubblingCancelable(dom.InterfacePointerEvent),
	"dblclick":    bubblingCancelable(dom.InterfaceMouseEvent),
	"mousedown":   bubblingCancelable(dom.InterfaceMouseEvent),
	"mouseenter":  nonBubbling(dom.InterfaceMouseEvent),
	"mouseleave":  nonBubbling(dom.InterfaceMouseEvent),
	"mousemove":   bubblingCancelable(dom.InterfaceMouseEvent),
	"mouseout":    bubblingCancelable(dom.InterfaceMouseEvent),
	"mouseover":   bubblingCancelable(dom.InterfaceMouseEvent),
	"mouseup":     bubblingCancelable(dom.InterfaceMouseEvent),

	// pointer
	"pointerover":   bubblingCancelable(dom.InterfacePointerEvent),
	"pointerenter":  nonBubbling(dom.InterfacePointerEvent),
	"pointerdown":   bubblingCancelable(dom.InterfacePointerEvent),
	"pointermove":   bubblingCancelable(dom.InterfacePointerEvent),
	"pointerup":     bubblingCancelable(dom.InterfacePointerEvent),
	"pointercancel": {Interface: dom.InterfacePointerEvent, Bubbles: true, Composed: true},
	"pointerout":    bubblingCancelable(dom.InterfacePointerEvent),
	"pointerleave":  nonBubbling(dom.InterfacePointerEvent),

	// drag
	"dragstart": bubblingCancelable(dom.InterfaceDragEvent),
	"drag":      bubblingCancelable(dom.InterfaceDragEvent),
	"dragenter": bubblingCancelable(dom.InterfaceDragEvent),
	"dragover":  bubblingCancelable(dom.InterfaceDragEvent),
	"dragleave": {Interface: dom.InterfaceDragEvent, Bubbles: true, Composed: true},
	"drop":      bubblingCancelable(dom.InterfaceDragEvent),
	"dragend":   {Interface: dom.InterfaceDragEvent, Bubbles: true, Composed: true},

	"toggle": {Interface: dom.InterfaceEvent},
}

// Lookup returns the definition of an event type. Unknown types get a plain
// non-bubbling, non-cancelable Event.
func Lookup(typ string) (Definition, bool) {
	def, ok := eventMap[typ]
	if !ok {
		return Definition{Interface: dom.InterfaceEvent}, false
	}
	return def, true
}

// IsMouseEvent reports whether events of typ carry the MouseEvent fields.
func IsMouseEvent(typ string) bool {
	def, _ := Lookup(typ)
	return def.Interface == dom.InterfaceMouseEvent || def.Interface == dom.InterfacePointerEvent || def.Interface == dom.InterfaceDragEvent
}

// IsKeyboardEvent reports whether events of typ are KeyboardEvents.
func IsKeyboardEvent(typ string) bool {
	def, _ := Lookup(typ)
	return def.Interface == dom.InterfaceKeyboardEvent
}
