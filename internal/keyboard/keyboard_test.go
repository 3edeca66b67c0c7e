// internal/keyboard/keyboard_test.go
package keyboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/event"
	"github.com/xkilldash9x/userevent/internal/keydef"
)

type fixture struct {
	doc    *dom.Document
	engine *Engine
}

func setup(t *testing.T, markup string) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	doc, err := dom.ParseString(markup, logger)
	require.NoError(t, err)
	state := NewState()
	d := event.NewDispatcher(state.Modifiers, logger)
	ed := edit.New(doc, d, logger)
	return &fixture{doc: doc, engine: NewEngine(state, ed, d, logger)}
}

func (f *fixture) keyboard(t *testing.T, text string) {
	t.Helper()
	actions, err := Parse(text, DefaultMap())
	require.NoError(t, err)
	require.NoError(t, f.engine.Run(context.Background(), actions))
}

// record logs events of the given types, with the key for keyboard events.
func (f *fixture) record(types ...string) *[]string {
	var log []string
	for _, typ := range types {
		f.doc.Node().AddEventListener(typ, func(ev *dom.Event) {
			entry := ev.Type
			if ev.Key != "" {
				entry += ":" + ev.Key
			}
			log = append(log, entry)
		}, dom.ListenerOptions{Capture: true})
	}
	return &log
}

func (f *fixture) focus(id string) *dom.Node {
	el := f.doc.GetElementByID(id)
	el.Focus()
	return el
}

func TestParse(t *testing.T) {
	actions, err := Parse("a{Shift>}[KeyB]{/Shift}{Foo}{enter}", DefaultMap())
	require.NoError(t, err)
	require.Len(t, actions, 6)

	assert.Equal(t, KeyDef{Key: "a", Code: "KeyA", KeyCode: 65}, actions[0].Def)
	assert.True(t, actions[0].ReleaseSelf)
	assert.Equal(t, "Shift", actions[1].Def.Key)
	assert.Equal(t, LocationLeft, actions[1].Def.Location)
	assert.False(t, actions[1].ReleaseSelf)
	assert.Equal(t, "b", actions[2].Def.Key)
	assert.True(t, actions[3].ReleasePrevious)
	assert.Equal(t, KeyDef{Key: "Foo", Code: "Unknown"}, actions[4].Def)
	assert.Equal(t, "Enter", actions[5].Def.Key)

	_, err = Parse("{Shift", DefaultMap())
	var pe *keydef.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, keydef.Keyboard, pe.Context)
}

func TestTypeIntoInput(t *testing.T) {
	f := setup(t, `<input id="i">`)
	el := f.focus("i")
	log := f.record("keydown", "keypress", "input", "keyup")

	f.keyboard(t, "Hi")

	want := []string{
		"keydown:H", "keypress:H", "input", "keyup:H",
		"keydown:i", "keypress:i", "input", "keyup:i",
	}
	if diff := cmp.Diff(want, *log); diff != "" {
		t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Hi", el.Value())
	assert.Empty(t, f.engine.State().Pressed())
}

func TestModifiersOnEvents(t *testing.T) {
	f := setup(t, `<input id="i">`)
	f.focus("i")
	var shift []bool
	f.doc.Node().AddEventListener("keydown", func(ev *dom.Event) { shift = append(shift, ev.ShiftKey) })
	f.doc.Node().AddEventListener("keyup", func(ev *dom.Event) { shift = append(shift, ev.ShiftKey) })

	f.keyboard(t, "{Shift>}A{/Shift}")

	// keydown Shift, keydown A, keyup A, keyup Shift
	assert.Equal(t, []bool{true, true, true, false}, shift)
	assert.False(t, f.engine.State().Modifier("Shift"))
}

func TestHeldKeysReleaseInPressOrder(t *testing.T) {
	f := setup(t, `<div></div>`)
	log := f.record("keyup")

	f.keyboard(t, "{Control>}{Alt>}{Meta>}")
	require.Len(t, f.engine.State().Pressed(), 3)
	assert.True(t, f.engine.State().Modifiers()["Alt"])
	assert.Empty(t, *log)

	f.engine.ReleaseAll()
	assert.Equal(t, []string{"keyup:Control", "keyup:Alt", "keyup:Meta"}, *log)
	assert.Empty(t, f.engine.State().Pressed())
}

func TestPressingHeldKeyReleasesItFirst(t *testing.T) {
	f := setup(t, `<div></div>`)
	log := f.record("keydown", "keyup")

	f.keyboard(t, "{a>}{a}")
	assert.Equal(t, []string{"keydown:a", "keyup:a", "keydown:a", "keyup:a"}, *log)
}

func TestRepeat(t *testing.T) {
	f := setup(t, `<input id="i">`)
	el := f.focus("i")
	var repeats []bool
	f.doc.Node().AddEventListener("keydown", func(ev *dom.Event) { repeats = append(repeats, ev.Repeat) })
	log := f.record("keyup")

	f.keyboard(t, "{a>3/}")

	assert.Equal(t, []bool{false, true, true}, repeats)
	assert.Equal(t, []string{"keyup:a"}, *log)
	assert.Equal(t, "aaa", el.Value())
}

func TestPreventedKeydownSkipsKeypress(t *testing.T) {
	f := setup(t, `<input id="i">`)
	el := f.focus("i")
	el.AddEventListener("keydown", func(ev *dom.Event) { ev.PreventDefault() })
	log := f.record("keydown", "keypress", "input", "keyup")

	f.keyboard(t, "x")

	assert.Equal(t, []string{"keydown:x", "keyup:x"}, *log)
	assert.Equal(t, "", el.Value())
}

func TestNoKeypressWithControl(t *testing.T) {
	f := setup(t, `<input id="i" value="abc">`)
	el := f.focus("i")
	log := f.record("keypress")

	f.keyboard(t, "{Control>}a{/Control}")

	assert.Empty(t, *log)
	start, end, _ := el.SelectionRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestBackspaceDeletesSelection(t *testing.T) {
	f := setup(t, `<input id="i" value="Hi there">`)
	el := f.focus("i")
	require.NoError(t, el.SetSelectionRange(1, 5))

	f.keyboard(t, "{Backspace}")

	assert.Equal(t, "Here", el.Value())
	start, end, _ := el.SelectionRange()
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)
}

func TestDeleteAndArrows(t *testing.T) {
	f := setup(t, `<input id="i">`)
	el := f.focus("i")

	f.keyboard(t, "abc{ArrowLeft}{ArrowLeft}X{Delete}{End}Y{Home}Z")

	assert.Equal(t, "ZaXcY", el.Value())
}

func TestReadOnlyInput(t *testing.T) {
	f := setup(t, `<input id="i" readonly value="x">`)
	el := f.focus("i")
	log := f.record("keydown", "keypress", "input", "keyup")

	f.keyboard(t, "ab")

	assert.Equal(t, []string{
		"keydown:a", "keypress:a", "keyup:a",
		"keydown:b", "keypress:b", "keyup:b",
	}, *log)
	assert.Equal(t, "x", el.Value())
}

func TestMaxLength(t *testing.T) {
	f := setup(t, `<input id="i" maxlength="2">`)
	el := f.focus("i")
	log := f.record("keydown", "input")

	f.keyboard(t, "abcd")

	inputs, keydowns := 0, 0
	for _, e := range *log {
		if e == "input" {
			inputs++
		} else {
			keydowns++
		}
	}
	assert.Equal(t, 2, inputs)
	assert.Equal(t, 4, keydowns)
	assert.Equal(t, "ab", el.Value())
}

func TestFocusChangeRedirectsKeys(t *testing.T) {
	f := setup(t, `<input id="a"><input id="b">`)
	a := f.focus("a")
	b := f.doc.GetElementByID("b")
	a.AddEventListener("input", func(*dom.Event) { b.Focus() })

	f.keyboard(t, "xyz")

	assert.Equal(t, "x", a.Value())
	assert.Equal(t, "yz", b.Value())
	assert.Equal(t, b, f.engine.State().ActiveElement)
}

func TestTabAndShiftTab(t *testing.T) {
	f := setup(t, `<input id="a" value="one"><button id="b">b</button><input id="c">`)
	f.focus("a")

	f.keyboard(t, "{Tab}")
	assert.Equal(t, "b", f.doc.ActiveElement().ID())

	f.keyboard(t, "{Shift>}{Tab}{/Shift}")
	a := f.doc.ActiveElement()
	require.Equal(t, "a", a.ID())
	start, end, _ := a.SelectionRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestEnterClicksCheckbox(t *testing.T) {
	f := setup(t, `<input id="c" type="checkbox">`)
	el := f.focus("c")
	log := f.record("click", "change")

	f.keyboard(t, "{Enter}")

	assert.True(t, el.Checked())
	assert.Equal(t, []string{"click", "change"}, *log)
}

func TestSpaceKeyupClicksButton(t *testing.T) {
	f := setup(t, `<button id="b" type="button">b</button>`)
	f.focus("b")
	log := f.record("keyup", "click")

	f.keyboard(t, " ")

	assert.Equal(t, []string{"keyup: ", "click"}, *log)
}

func TestEnterSubmitsForm(t *testing.T) {
	t.Run("single input", func(t *testing.T) {
		f := setup(t, `<form id="f"><input id="i"></form>`)
		f.focus("i")
		submits := 0
		f.doc.GetElementByID("f").AddEventListener("submit", func(*dom.Event) { submits++ })

		f.keyboard(t, "{Enter}")
		assert.Equal(t, 1, submits)
	})

	t.Run("submit button", func(t *testing.T) {
		f := setup(t, `<form id="f"><input id="i"><input id="j"><button id="s">go</button></form>`)
		f.focus("i")
		var log []string
		f.doc.GetElementByID("s").AddEventListener("click", func(*dom.Event) { log = append(log, "click") })
		f.doc.GetElementByID("f").AddEventListener("submit", func(*dom.Event) { log = append(log, "submit") })

		f.keyboard(t, "{Enter}")
		assert.Equal(t, []string{"click", "submit"}, log)
	})

	t.Run("two inputs without submit", func(t *testing.T) {
		f := setup(t, `<form id="f"><input id="i"><input id="j"></form>`)
		f.focus("i")
		submits := 0
		f.doc.GetElementByID("f").AddEventListener("submit", func(*dom.Event) { submits++ })

		f.keyboard(t, "{Enter}")
		assert.Zero(t, submits)
	})
}

func TestEnterInTextarea(t *testing.T) {
	f := setup(t, `<textarea id="t"></textarea>`)
	el := f.focus("t")
	var types []string
	el.AddEventListener("input", func(ev *dom.Event) { types = append(types, ev.InputType) })

	f.keyboard(t, "a{Enter}b")

	assert.Equal(t, "a\nb", el.Value())
	assert.Equal(t, []string{"insertText", "insertLineBreak", "insertText"}, types)
}

func TestArrowWalksRadioGroup(t *testing.T) {
	f := setup(t, `<input type="radio" name="g" id="r1" checked><input type="radio" name="g" id="r2" disabled><input type="radio" name="g" id="r3">`)
	f.focus("r1")

	f.keyboard(t, "{ArrowDown}")

	r3 := f.doc.GetElementByID("r3")
	assert.True(t, r3.Checked())
	assert.Equal(t, r3, f.doc.ActiveElement())

	f.keyboard(t, "{ArrowRight}")
	assert.True(t, f.doc.GetElementByID("r1").Checked())
}

func TestDateCarry(t *testing.T) {
	f := setup(t, `<input id="d" type="date">`)
	el := f.focus("d")
	changes := 0
	el.AddEventListener("change", func(*dom.Event) { changes++ })

	f.keyboard(t, "2020-01-0")
	assert.Equal(t, "", el.Value())
	assert.Equal(t, "2020-01-0", f.engine.State().CarryValue)

	f.keyboard(t, "1")
	assert.Equal(t, "2020-01-01", el.Value())
	assert.Equal(t, 1, changes)
	assert.Equal(t, "2020-01-01", f.engine.State().CarryValue)

	f.keyboard(t, "9")
	assert.Equal(t, "2020-01-01", el.Value(), "an incomplete value keeps the committed one")
	assert.Equal(t, 1, changes)
}

func TestTimeCarryRebuildsFromAllDigits(t *testing.T) {
	f := setup(t, `<input id="t" type="time">`)
	el := f.focus("t")
	var changes []string
	el.AddEventListener("change", func(*dom.Event) { changes = append(changes, el.Value()) })

	f.keyboard(t, "123")
	assert.Equal(t, "12:03", el.Value())

	f.keyboard(t, "0")
	assert.Equal(t, "12:30", el.Value())
	assert.Equal(t, "12:30", f.engine.Editor().UI().GetUIValue(el))
	assert.Equal(t, []string{"12:03", "12:30"}, changes)
}

func TestLockToggle(t *testing.T) {
	f := setup(t, `<div></div>`)
	var seen []bool
	f.doc.Node().AddEventListener("keydown", func(ev *dom.Event) { seen = append(seen, ev.GetModifierState("CapsLock")) })
	f.doc.Node().AddEventListener("keyup", func(ev *dom.Event) { seen = append(seen, ev.GetModifierState("CapsLock")) })

	f.keyboard(t, "{CapsLock}")
	assert.True(t, f.engine.State().Modifier("CapsLock"))

	f.keyboard(t, "{CapsLock}")
	assert.False(t, f.engine.State().Modifier("CapsLock"))
	assert.Equal(t, []bool{true, true, true, false}, seen)
}

func TestUnknownKeyFiresEvents(t *testing.T) {
	f := setup(t, `<div></div>`)
	var codes []string
	f.doc.Node().AddEventListener("keydown", func(ev *dom.Event) { codes = append(codes, ev.Key+"/"+ev.Code) })

	f.keyboard(t, "{Foo}[Bar]")
	assert.Equal(t, []string{"Foo/Unknown", "Unknown/Bar"}, codes)
}

type countingPacer struct{ waits int }

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func TestPacerBetweenSteps(t *testing.T) {
	f := setup(t, `<input id="i">`)
	f.focus("i")
	pacer := &countingPacer{}
	f.engine.SetPacer(pacer)

	f.keyboard(t, "ab{c>2/}")
	assert.Equal(t, 3, pacer.waits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	actions, err := Parse("xy", DefaultMap())
	require.NoError(t, err)
	err = f.engine.Run(ctx, actions)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryOrder(t *testing.T) {
	r := DefaultRegistry()
	var names []string
	for _, p := range r.Plugins(Keydown) {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"radio-walk", "arrow-cursor", "home-end", "page-up-down", "delete", "select-all", "backspace", "tab"}, names)

	custom := NewRegistry()
	hits := 0
	var kinds []elements.Kind
	custom.Add(Keydown, Plugin{
		Name: "count",
		Matches: func(_ KeyDef, el elements.Info, _ *Engine) bool {
			kinds = append(kinds, el.Kind)
			return el.Has(elements.CapEditable | elements.CapFocusable)
		},
		Handle: func(KeyDef, *dom.Node, *Engine) { hits++ },
	})
	f := setup(t, `<input id="i">`)
	el := f.focus("i")
	f.engine.SetRegistry(custom)
	f.keyboard(t, "ab")
	assert.Equal(t, 2, hits)
	assert.Equal(t, []elements.Kind{elements.KindInputText, elements.KindInputText}, kinds)
	assert.Equal(t, "", el.Value())
}
