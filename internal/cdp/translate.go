// internal/cdp/translate.go
package cdp

import (
	"maps"
	"slices"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/userevent/api/schemas"
)

// Command is one protocol call derived from a recorded event.
type Command struct {
	// Seq is the sequence number of the trace event the command replays.
	Seq    int
	Event  string
	Action chromedp.Action
}

// DOM key locations.
const locationNumpad = 3

var mouseTypes = map[string]input.MouseType{
	"mousedown": input.MousePressed,
	"mouseup":   input.MouseReleased,
	"mousemove": input.MouseMoved,
}

var touchTypes = map[string]input.TouchType{
	"pointerdown": input.TouchStart,
	"pointermove": input.TouchMove,
	"pointerup":   input.TouchEnd,
}

// Translate maps a trace to the input commands a browser needs to
// reproduce it. Only the events a user agent dispatches in response to raw
// input are translated: keydown, keyup, mouse presses and moves and touch
// pointer events. Derived events, including the mouse events emulated for
// touches, are left to the browser.
func Translate(events []schemas.TraceEvent) []Command {
	var (
		cmds    []Command
		touches = map[int]*input.TouchPoint{}
	)
	for i := 0; i < len(events); i++ {
		ev := events[i]
		switch {
		case ev.Type == "keydown":
			p := keyParams(input.KeyRawKeyDown, ev)
			if i+1 < len(events) && events[i+1].Type == "keypress" && events[i+1].Key == ev.Key {
				// keyDown with text makes the browser fire keypress itself.
				text := string(rune(events[i+1].CharCode))
				p = keyParams(input.KeyDown, ev).WithText(text).WithUnmodifiedText(text)
				i++
			}
			cmds = append(cmds, Command{Seq: ev.Seq, Event: ev.Type, Action: p})
		case ev.Type == "keyup":
			cmds = append(cmds, Command{Seq: ev.Seq, Event: ev.Type, Action: keyParams(input.KeyUp, ev)})
		case ev.Interface == "MouseEvent" && mouseTypes[ev.Type] != "" && ev.PointerType != "touch":
			cmds = append(cmds, Command{Seq: ev.Seq, Event: ev.Type, Action: mouseParams(mouseTypes[ev.Type], ev)})
		case ev.PointerType == "touch" && touchTypes[ev.Type] != "":
			cmds = append(cmds, Command{Seq: ev.Seq, Event: ev.Type, Action: touchParams(touchTypes[ev.Type], ev, touches)})
		}
	}
	return cmds
}

func modifiers(m schemas.KeyModifier) input.Modifier {
	return input.Modifier(m)
}

func keyParams(t input.KeyType, ev schemas.TraceEvent) *input.DispatchKeyEventParams {
	return input.DispatchKeyEvent(t).
		WithKey(ev.Key).
		WithCode(ev.Code).
		WithModifiers(modifiers(ev.Modifiers)).
		WithWindowsVirtualKeyCode(int64(ev.KeyCode)).
		WithNativeVirtualKeyCode(int64(ev.KeyCode)).
		WithAutoRepeat(ev.Repeat).
		WithIsKeypad(ev.Location == locationNumpad).
		WithLocation(int64(ev.Location))
}

// mouseButton maps a DOM MouseEvent.button to the protocol name.
func mouseButton(button int) input.MouseButton {
	switch button {
	case 0:
		return input.Left
	case 1:
		return input.Middle
	case 2:
		return input.Right
	case 3:
		return input.Back
	case 4:
		return input.Forward
	}
	return input.None
}

func mouseParams(t input.MouseType, ev schemas.TraceEvent) *input.DispatchMouseEventParams {
	p := input.DispatchMouseEvent(t, ev.ClientX, ev.ClientY).
		WithModifiers(modifiers(ev.Modifiers)).
		WithButtons(int64(ev.Buttons))
	if t == input.MouseMoved {
		return p.WithButton(input.None)
	}
	return p.WithButton(mouseButton(ev.Button)).WithClickCount(int64(max(ev.Detail, 1)))
}

// touchParams tracks the touch points currently down in active. Every
// touch command carries the full set of remaining points.
func touchParams(t input.TouchType, ev schemas.TraceEvent, active map[int]*input.TouchPoint) *input.DispatchTouchEventParams {
	pt := &input.TouchPoint{X: ev.ClientX, Y: ev.ClientY, ID: float64(ev.PointerID)}
	switch t {
	case input.TouchStart, input.TouchMove:
		active[ev.PointerID] = pt
	case input.TouchEnd:
		delete(active, ev.PointerID)
	}
	points := make([]*input.TouchPoint, 0, len(active))
	for _, id := range slices.Sorted(maps.Keys(active)) {
		points = append(points, active[id])
	}
	return input.DispatchTouchEvent(t, points).WithModifiers(modifiers(ev.Modifiers))
}
