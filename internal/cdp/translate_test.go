// internal/cdp/translate_test.go
package cdp

import (
	"testing"

	"github.com/chromedp/cdproto/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/userevent/api/schemas"
)

func TestTranslateKeys(t *testing.T) {
	events := []schemas.TraceEvent{
		{Seq: 1, Type: "keydown", Interface: "KeyboardEvent", Key: "Shift", Code: "ShiftLeft", KeyCode: 16, Location: 1, Modifiers: schemas.ModShift},
		{Seq: 2, Type: "keydown", Interface: "KeyboardEvent", Key: "A", Code: "KeyA", KeyCode: 65, Modifiers: schemas.ModShift},
		{Seq: 3, Type: "keypress", Interface: "KeyboardEvent", Key: "A", Code: "KeyA", KeyCode: 65, CharCode: 65, Modifiers: schemas.ModShift},
		{Seq: 4, Type: "input", Interface: "InputEvent", Data: "A", InputType: "insertText"},
		{Seq: 5, Type: "keyup", Interface: "KeyboardEvent", Key: "A", Code: "KeyA", KeyCode: 65, Modifiers: schemas.ModShift},
		{Seq: 6, Type: "keyup", Interface: "KeyboardEvent", Key: "Shift", Code: "ShiftLeft", KeyCode: 16, Location: 1},
		{Seq: 7, Type: "keydown", Interface: "KeyboardEvent", Key: "1", Code: "Numpad1", KeyCode: 97, Location: 3},
	}
	cmds := Translate(events)
	require.Len(t, cmds, 5)

	shift := cmds[0].Action.(*input.DispatchKeyEventParams)
	assert.Equal(t, input.KeyRawKeyDown, shift.Type, "keys without keypress carry no text")
	assert.Equal(t, int64(16), shift.WindowsVirtualKeyCode)
	assert.Equal(t, input.ModifierShift, shift.Modifiers)
	assert.Empty(t, shift.Text)

	a := cmds[1].Action.(*input.DispatchKeyEventParams)
	assert.Equal(t, 2, cmds[1].Seq)
	assert.Equal(t, input.KeyDown, a.Type)
	assert.Equal(t, "A", a.Text, "the keypress is folded into the keydown")
	assert.Equal(t, "KeyA", a.Code)

	assert.Equal(t, 5, cmds[2].Seq)
	assert.Equal(t, input.KeyUp, cmds[2].Action.(*input.DispatchKeyEventParams).Type)
	assert.Equal(t, input.ModifierNone, cmds[3].Action.(*input.DispatchKeyEventParams).Modifiers)

	numpad := cmds[4].Action.(*input.DispatchKeyEventParams)
	assert.True(t, numpad.IsKeypad)
	assert.Equal(t, int64(3), numpad.Location)
}

func TestTranslateEnterText(t *testing.T) {
	cmds := Translate([]schemas.TraceEvent{
		{Seq: 1, Type: "keydown", Key: "Enter", Code: "Enter", KeyCode: 13},
		{Seq: 2, Type: "keypress", Key: "Enter", Code: "Enter", KeyCode: 13, CharCode: 13},
	})
	require.Len(t, cmds, 1)
	assert.Equal(t, "\r", cmds[0].Action.(*input.DispatchKeyEventParams).Text)
}

func TestTranslateMouse(t *testing.T) {
	events := []schemas.TraceEvent{
		{Seq: 1, Type: "pointermove", Interface: "PointerEvent", PointerType: "mouse", ClientX: 10, ClientY: 20},
		{Seq: 2, Type: "mousemove", Interface: "MouseEvent", PointerType: "mouse", ClientX: 10, ClientY: 20},
		{Seq: 3, Type: "pointerdown", Interface: "PointerEvent", PointerType: "mouse", Button: 2, Buttons: 2},
		{Seq: 4, Type: "mousedown", Interface: "MouseEvent", PointerType: "mouse", Button: 2, Buttons: 2, Detail: 1, ClientX: 10, ClientY: 20, Modifiers: schemas.ModCtrl},
		{Seq: 5, Type: "mouseup", Interface: "MouseEvent", PointerType: "mouse", Button: 2, Detail: 1, ClientX: 10, ClientY: 20},
		{Seq: 6, Type: "contextmenu", Interface: "PointerEvent", PointerType: "mouse", Button: 2},
		{Seq: 7, Type: "mousedown", Interface: "MouseEvent", PointerType: "mouse", Button: 0, Buttons: 1},
	}
	cmds := Translate(events)
	require.Len(t, cmds, 4)

	move := cmds[0].Action.(*input.DispatchMouseEventParams)
	assert.Equal(t, input.MouseMoved, move.Type)
	assert.Equal(t, input.None, move.Button)
	assert.Equal(t, 10.0, move.X)
	assert.Equal(t, 20.0, move.Y)

	down := cmds[1].Action.(*input.DispatchMouseEventParams)
	assert.Equal(t, 4, cmds[1].Seq)
	assert.Equal(t, input.MousePressed, down.Type)
	assert.Equal(t, input.Right, down.Button)
	assert.Equal(t, int64(2), down.Buttons)
	assert.Equal(t, int64(1), down.ClickCount)
	assert.Equal(t, input.ModifierCtrl, down.Modifiers)

	assert.Equal(t, input.MouseReleased, cmds[2].Action.(*input.DispatchMouseEventParams).Type)

	left := cmds[3].Action.(*input.DispatchMouseEventParams)
	assert.Equal(t, input.Left, left.Button)
	assert.Equal(t, int64(1), left.ClickCount, "a missing detail still counts one click")
}

func TestTranslateTouch(t *testing.T) {
	events := []schemas.TraceEvent{
		{Seq: 1, Type: "pointerdown", Interface: "PointerEvent", PointerType: "touch", PointerID: 2, ClientX: 1},
		{Seq: 2, Type: "pointerdown", Interface: "PointerEvent", PointerType: "touch", PointerID: 3, ClientX: 5},
		{Seq: 3, Type: "mousedown", Interface: "MouseEvent", PointerType: "touch", PointerID: 2},
		{Seq: 4, Type: "pointermove", Interface: "PointerEvent", PointerType: "touch", PointerID: 3, ClientX: 7},
		{Seq: 5, Type: "pointerup", Interface: "PointerEvent", PointerType: "touch", PointerID: 2, ClientX: 1},
		{Seq: 6, Type: "pointerup", Interface: "PointerEvent", PointerType: "touch", PointerID: 3, ClientX: 7},
	}
	cmds := Translate(events)
	require.Len(t, cmds, 5, "emulated mouse events are left to the browser")

	points := func(i int) []float64 {
		var xs []float64
		for _, p := range cmds[i].Action.(*input.DispatchTouchEventParams).TouchPoints {
			xs = append(xs, p.X)
		}
		return xs
	}
	assert.Equal(t, input.TouchStart, cmds[0].Action.(*input.DispatchTouchEventParams).Type)
	assert.Equal(t, []float64{1}, points(0))
	assert.Equal(t, []float64{1, 5}, points(1))
	assert.Equal(t, input.TouchMove, cmds[2].Action.(*input.DispatchTouchEventParams).Type)
	assert.Equal(t, []float64{1, 7}, points(2))
	assert.Equal(t, []float64{7}, points(3), "released points leave the set")
	assert.Empty(t, points(4))
}

func TestTranslateSkipsDerivedEvents(t *testing.T) {
	events := []schemas.TraceEvent{
		{Seq: 1, Type: "focus", Interface: "FocusEvent"},
		{Seq: 2, Type: "click", Interface: "PointerEvent", PointerType: "mouse"},
		{Seq: 3, Type: "paste", Interface: "ClipboardEvent", Data: "x"},
		{Seq: 4, Type: "change", Interface: "Event"},
	}
	assert.Empty(t, Translate(events))
}
