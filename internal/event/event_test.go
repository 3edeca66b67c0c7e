// internal/event/event_test.go
package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/internal/dom"
)

func TestCreateAppliesEventMapDefaults(t *testing.T) {
	tests := []struct {
		typ        string
		iface      dom.EventInterface
		bubbles    bool
		cancelable bool
	}{
		{"click", dom.InterfacePointerEvent, true, true},
		{"dblclick", dom.InterfaceMouseEvent, true, true},
		{"focus", dom.InterfaceFocusEvent, false, false},
		{"focusin", dom.InterfaceFocusEvent, true, false},
		{"input", dom.InterfaceInputEvent, true, false},
		{"keydown", dom.InterfaceKeyboardEvent, true, true},
		{"mouseenter", dom.InterfaceMouseEvent, false, false},
		{"pointerleave", dom.InterfacePointerEvent, false, false},
		{"paste", dom.InterfaceClipboardEvt, true, true},
		{"change", dom.InterfaceEvent, true, false},
		{"submit", dom.InterfaceEvent, true, true},
		{"custom-thing", dom.InterfaceEvent, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			ev := Create(tt.typ)
			assert.Equal(t, tt.iface, ev.Interface)
			assert.Equal(t, tt.bubbles, ev.Bubbles)
			assert.Equal(t, tt.cancelable, ev.Cancelable)
		})
	}
}

func TestInitsOverrideDefaults(t *testing.T) {
	ev := Create("input", Cancelable(true), InputData("insertText", "a"))
	assert.True(t, ev.Cancelable)
	assert.Equal(t, "insertText", ev.InputType)
	assert.Equal(t, "a", ev.Data)

	ev = Create("pointerdown", Mouse(MouseInit{PointerID: 3, PointerType: "touch", IsPrimary: true, Buttons: 1}))
	assert.Equal(t, 3, ev.PointerID)
	assert.Equal(t, "touch", ev.PointerType)
	assert.Equal(t, 1.0, ev.Width)

	ev = Create("mousedown", Mouse(MouseInit{PointerID: 3}))
	assert.Zero(t, ev.PointerID, "pointer fields only apply to pointer events")
}

func TestFireReportsDefaultPrevented(t *testing.T) {
	doc, err := dom.ParseString(`<button id="b"></button>`, zaptest.NewLogger(t))
	require.NoError(t, err)
	b := doc.GetElementByID("b")

	assert.True(t, Fire(b, "keydown"))
	b.AddEventListener("keydown", func(ev *dom.Event) { ev.PreventDefault() })
	assert.False(t, Fire(b, "keydown"))
	assert.True(t, Fire(nil, "keydown"))
}

func TestDispatcherModifiersAndBehavior(t *testing.T) {
	doc, err := dom.ParseString(`<input id="i">`, zaptest.NewLogger(t))
	require.NoError(t, err)
	in := doc.GetElementByID("i")

	mods := map[string]bool{"Shift": true, "CapsLock": true}
	d := NewDispatcher(func() map[string]bool { return mods }, zaptest.NewLogger(t))

	var seen *dom.Event
	in.AddEventListener("keydown", func(ev *dom.Event) { seen = ev })
	in.AddEventListener("input", func(ev *dom.Event) { seen = ev })

	d.DispatchUI(in, "keydown", Key(KeyInit{Key: "A", Code: "KeyA"}))
	require.NotNil(t, seen)
	assert.True(t, seen.ShiftKey)
	assert.True(t, seen.GetModifierState("CapsLock"))
	assert.Equal(t, "KeyA", seen.Code)

	d.DispatchUI(in, "input")
	assert.False(t, seen.ShiftKey, "modifiers only apply to keyboard and mouse events")

	ran := 0
	d.Register("paste", func(ev *dom.Event, target *dom.Node) func() {
		return func() { ran++ }
	})
	d.DispatchUI(in, "paste")
	assert.Equal(t, 1, ran)

	d.DispatchUIWithoutDefault(in, "paste")
	assert.Equal(t, 1, ran)

	in.AddEventListener("paste", func(ev *dom.Event) { ev.PreventDefault() })
	assert.False(t, d.DispatchUI(in, "paste"))
	assert.Equal(t, 1, ran, "canceled events skip the default action")
}
