// internal/pointer/pointer_test.go
package pointer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/event"
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
	d := event.NewDispatcher(nil, logger)
	ed := edit.New(doc, d, logger)
	return &fixture{doc: doc, engine: NewEngine(NewState(), nil, ed, d, logger)}
}

func (f *fixture) byID(id string) *dom.Node { return f.doc.GetElementByID(id) }

func (f *fixture) run(t *testing.T, actions ...Action) {
	t.Helper()
	require.NoError(t, f.engine.Run(context.Background(), actions))
}

// record logs the given event types as they reach the document.
func (f *fixture) record(format func(ev *dom.Event) string, types ...string) *[]string {
	var log []string
	for _, typ := range types {
		f.doc.Node().AddEventListener(typ, func(ev *dom.Event) {
			log = append(log, format(ev))
		}, dom.ListenerOptions{Capture: true})
	}
	return &log
}

func typeOnly(ev *dom.Event) string { return ev.Type }

func withTarget(ev *dom.Event) string { return ev.Type + "@" + ev.Target.ID() }

func withDetail(ev *dom.Event) string {
	return fmt.Sprintf("%s(%d)%d", ev.Type, ev.Button, ev.Detail)
}

func TestParseSkipsUnknownButtons(t *testing.T) {
	keys, err := Parse("[Foo][MouseLeft>][/TouchB]", DefaultMap())
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "MouseLeft", keys[0].Key.Name)
	assert.False(t, keys[0].ReleaseSelf)
	assert.Equal(t, "TouchB", keys[1].Key.Name)
	assert.True(t, keys[1].ReleasePrevious)

	_, err = Parse("[MouseLeft", DefaultMap())
	assert.EqualError(t, err, `parsing pointer input: Expected repeat modifier or release modifier or "]" but found "" in "[MouseLeft" at position 10`)
}

func TestCheckboxClickOrder(t *testing.T) {
	f := setup(t, `<input id="c" type="checkbox">`)
	c := f.byID("c")
	log := f.record(typeOnly, "pointerdown", "mousedown", "focus", "focusin", "pointerup", "mouseup", "click", "input", "change")

	f.run(t, Action{Target: c}, Action{Keys: "[MouseLeft]"})

	want := []string{"pointerdown", "mousedown", "focus", "focusin", "pointerup", "mouseup", "click", "input", "change"}
	if diff := cmp.Diff(want, *log); diff != "" {
		t.Errorf("event order mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, c.Checked())
}

func TestClickCountQuirk(t *testing.T) {
	f := setup(t, `<div id="d">text</div>`)
	log := f.record(withDetail, "mousedown", "mouseup", "click", "dblclick", "contextmenu")

	f.run(t, Action{Keys: "[MouseLeft][MouseLeft>][MouseRight][MouseLeft]", Target: f.byID("d")})

	want := []string{
		"mousedown(0)1", "mouseup(0)1", "click(0)1",
		"mousedown(0)2",
		"mousedown(2)1", "mouseup(2)1", "contextmenu(2)1",
		"mouseup(0)2", "click(0)2", "dblclick(0)2",
		"mousedown(0)1", "mouseup(0)1", "click(0)1",
	}
	if diff := cmp.Diff(want, *log); diff != "" {
		t.Errorf("click count mismatch (-want +got):\n%s", diff)
	}
}

func TestDoubleClick(t *testing.T) {
	f := setup(t, `<button id="b">b</button>`)
	log := f.record(withDetail, "mousedown", "mouseup", "click", "dblclick")

	f.run(t, Action{Keys: "[MouseLeft][MouseLeft]", Target: f.byID("b")})

	assert.Equal(t, []string{
		"mousedown(0)1", "mouseup(0)1", "click(0)1",
		"mousedown(0)2", "mouseup(0)2", "click(0)2", "dblclick(0)2",
	}, *log)
}

func TestClickCountPerTargetAndCall(t *testing.T) {
	f := setup(t, `<div id="a">a</div><div id="b">b</div>`)
	log := f.record(func(ev *dom.Event) string {
		return fmt.Sprintf("%s@%s/%d", ev.Type, ev.Target.ID(), ev.Detail)
	}, "click", "dblclick")

	f.run(t,
		Action{Keys: "[MouseLeft]", Target: f.byID("a")},
		Action{Keys: "[MouseLeft]", Target: f.byID("b")},
	)
	f.run(t, Action{Keys: "[MouseLeft]", Target: f.byID("b")})

	assert.Equal(t, []string{"click@a/1", "click@b/1", "click@b/1"}, *log)
	assert.Equal(t, 1, f.engine.State().ActiveClickCount.Count)
}

func TestAuxiliaryButton(t *testing.T) {
	f := setup(t, `<div id="d"></div>`)
	log := f.record(typeOnly, "click", "auxclick", "contextmenu")

	f.run(t, Action{Keys: "[MouseMiddle]", Target: f.byID("d")})
	assert.Equal(t, []string{"auxclick"}, *log)
}

func TestReleaseOnOtherTargetSkipsClick(t *testing.T) {
	f := setup(t, `<div id="a">a</div><div id="b">b</div>`)
	log := f.record(withTarget, "mousedown", "mouseup", "click")

	f.run(t,
		Action{Keys: "[MouseLeft>]", Target: f.byID("a")},
		Action{Target: f.byID("b")},
		Action{Keys: "[/MouseLeft]"},
	)
	assert.Equal(t, []string{"mousedown@a", "mouseup@b"}, *log)
}

func TestPreventedMousedown(t *testing.T) {
	f := setup(t, `<input id="i">`)
	i := f.byID("i")
	i.AddEventListener("mousedown", func(ev *dom.Event) { ev.PreventDefault() })
	log := f.record(typeOnly, "focus", "mouseup", "click")

	f.run(t, Action{Keys: "[MouseLeft]", Target: i})

	assert.Equal(t, []string{"mouseup"}, *log)
	assert.NotEqual(t, i, f.doc.ActiveElement())
}

func TestPreventedPointerdownSuppressesMouseEvents(t *testing.T) {
	f := setup(t, `<button id="b">b</button>`)
	b := f.byID("b")
	b.AddEventListener("pointerdown", func(ev *dom.Event) { ev.PreventDefault() })
	log := f.record(typeOnly, "pointerdown", "mousedown", "pointerup", "mouseup", "click")

	f.run(t, Action{Keys: "[MouseLeft]", Target: b})
	assert.Equal(t, []string{"pointerdown", "pointerup"}, *log)
}

func TestInertTargetsFireNothing(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"disabled button", `<button id="t" disabled>b</button>`},
		{"disabled fieldset", `<fieldset disabled><input id="t"></fieldset>`},
		{"label wrapping disabled control", `<label id="t">x <input disabled></label>`},
	}
	all := []string{
		"pointerover", "pointerenter", "mouseover", "mouseenter", "pointermove", "mousemove",
		"pointerdown", "mousedown", "focus", "pointerup", "mouseup", "click",
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, tt.markup)
			log := f.record(typeOnly, all...)
			f.run(t, Action{Target: f.byID("t")}, Action{Keys: "[MouseLeft]"})
			assert.Empty(t, *log)
		})
	}
}

func TestLabelClickFocusesAndTogglesOnce(t *testing.T) {
	f := setup(t, `<label id="l">Accept <input id="c" type="checkbox"></label>`)
	c := f.byID("c")
	changes := 0
	c.AddEventListener("change", func(*dom.Event) { changes++ })

	f.run(t, Action{Keys: "[MouseLeft]", Target: f.byID("l")})

	assert.True(t, c.Checked())
	assert.Equal(t, 1, changes)
	assert.Equal(t, c, f.doc.ActiveElement())
}

func TestMissingPositionErrors(t *testing.T) {
	f := setup(t, `<div></div>`)

	err := f.engine.Run(context.Background(), []Action{{Keys: "[MouseLeft]"}})
	var noPos *NoPositionError
	require.True(t, errors.As(err, &noPos))
	assert.Equal(t, "This pointer has no previous position. Provide a target property!", err.Error())

	err = f.engine.Run(context.Background(), []Action{{PointerName: "TouchA", Target: f.doc.Body()}})
	var unknown *UnknownPointerError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, `Trying to access pointer "TouchA" which does not exist.`, err.Error())

	err = f.engine.Run(context.Background(), []Action{{}})
	assert.True(t, errors.As(err, &noPos))
}

func TestBoundaryEvents(t *testing.T) {
	f := setup(t, `<div id="outer"><span id="inner">x</span></div><div id="other">y</div>`)
	log := f.record(withTarget, "mouseover", "mouseenter", "mouseout", "mouseleave")

	f.run(t,
		Action{Target: f.byID("outer")},
		Action{Target: f.byID("inner")},
		Action{Target: f.byID("outer")},
		Action{Target: f.byID("other")},
	)

	want := []string{
		"mouseover@outer", "mouseenter@outer",
		"mouseover@inner", "mouseenter@inner",
		"mouseout@inner", "mouseleave@inner",
		"mouseout@outer", "mouseleave@outer", "mouseover@other", "mouseenter@other",
	}
	if diff := cmp.Diff(want, *log); diff != "" {
		t.Errorf("boundary events mismatch (-want +got):\n%s", diff)
	}
}

func TestButtonsMask(t *testing.T) {
	f := setup(t, `<div id="d"></div>`)
	var log []string
	for _, typ := range []string{"pointerdown", "mousedown", "pointerup", "mouseup"} {
		f.doc.Node().AddEventListener(typ, func(ev *dom.Event) {
			log = append(log, fmt.Sprintf("%s:%d", ev.Type, ev.Buttons))
		})
	}

	f.run(t,
		Action{Keys: "[MouseLeft>][MouseRight>]", Target: f.byID("d")},
		Action{Keys: "[/MouseLeft][/MouseRight]"},
	)

	assert.Equal(t, []string{
		"pointerdown:1", "mousedown:1", "mousedown:3",
		"mouseup:2", "pointerup:0", "mouseup:0",
	}, log)
	assert.Empty(t, f.engine.State().Pressed())
}

func TestTouchTapEmulatesMouse(t *testing.T) {
	f := setup(t, `<button id="b">b</button>`)
	var ids []int
	f.doc.Node().AddEventListener("pointerdown", func(ev *dom.Event) { ids = append(ids, ev.PointerID) })
	log := f.record(typeOnly,
		"pointerover", "pointerenter", "pointerdown", "pointerup", "pointerout", "pointerleave",
		"mouseover", "mouseenter", "mousemove", "mousedown", "mouseup", "click")

	f.run(t, Action{Keys: "[TouchA]", Target: f.byID("b")})

	assert.Equal(t, []string{
		"pointerover", "pointerenter", "pointerdown", "pointerup", "pointerout", "pointerleave",
		"mouseover", "mouseenter", "mousemove", "mousedown", "mouseup", "click",
	}, *log)
	assert.Equal(t, f.byID("b"), f.doc.ActiveElement())

	f.run(t, Action{Keys: "[TouchA]"})
	assert.Equal(t, []int{2, 3}, ids)
}

func TestMultiTouchHasNoMouseEvents(t *testing.T) {
	f := setup(t, `<div id="d"></div>`)
	var primaries []bool
	f.doc.Node().AddEventListener("pointerdown", func(ev *dom.Event) { primaries = append(primaries, ev.IsPrimary) })
	log := f.record(typeOnly, "mousedown", "mouseup", "click")

	f.run(t,
		Action{Keys: "[TouchA>][TouchB>]", Target: f.byID("d")},
		Action{Keys: "[/TouchA][/TouchB]", Target: f.byID("d")},
	)

	assert.Equal(t, []bool{true, false}, primaries)
	assert.Empty(t, *log)

	pos, ok := f.engine.State().Position("TouchB")
	require.True(t, ok)
	assert.Equal(t, TypeTouch, pos.PointerType)
}

func TestDragSelectInInput(t *testing.T) {
	f := setup(t, `<input id="i" value="hello world">`)
	i := f.byID("i")

	f.run(t,
		Action{Keys: "[MouseLeft>]", Target: i, Offset: 2, HasOffset: true},
		Action{Target: i, Offset: 7, HasOffset: true},
		Action{Keys: "[/MouseLeft]"},
	)

	start, end, _ := i.SelectionRange()
	assert.Equal(t, 2, start)
	assert.Equal(t, 7, end)
	assert.Equal(t, i, f.doc.ActiveElement())
}

func TestDoubleClickSelectsWord(t *testing.T) {
	f := setup(t, `<input id="i" value="hello world">`)
	i := f.byID("i")

	f.run(t, Action{Keys: "[MouseLeft][MouseLeft]", Target: i, Offset: 8, HasOffset: true})

	start, end, _ := i.SelectionRange()
	assert.Equal(t, 6, start)
	assert.Equal(t, 11, end)
}

func TestPointerEventsNone(t *testing.T) {
	f := setup(t, `<div style="pointer-events: none"><button id="b">b</button></div>`)
	b := f.byID("b")
	clicks := 0
	b.AddEventListener("click", func(*dom.Event) { clicks++ })

	err := f.engine.Run(context.Background(), []Action{{Keys: "[MouseLeft]", Target: b}})
	var pe *elements.PointerEventsError
	require.True(t, errors.As(err, &pe))
	assert.True(t, pe.Inherited())
	assert.Zero(t, clicks)

	f.engine.SkipPointerEventsCheck(true)
	f.run(t, Action{Keys: "[MouseLeft]", Target: b})
	assert.Equal(t, 1, clicks)
}

type countingPacer struct{ waits int }

func (p *countingPacer) Wait(ctx context.Context) error {
	p.waits++
	return ctx.Err()
}

func TestPacer(t *testing.T) {
	f := setup(t, `<div id="d"></div>`)
	pacer := &countingPacer{}
	f.engine.SetPacer(pacer)

	f.run(t, Action{Target: f.byID("d")}, Action{Keys: "[MouseLeft][MouseRight]"})
	assert.Equal(t, 2, pacer.waits)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := f.engine.Run(ctx, []Action{{Keys: "[MouseLeft][MouseLeft]"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReleaseAll(t *testing.T) {
	f := setup(t, `<div id="d"></div>`)
	log := f.record(typeOnly, "mouseup")

	f.run(t, Action{Keys: "[MouseLeft>][MouseMiddle>]", Target: f.byID("d")})
	require.NoError(t, f.engine.ReleaseAll())

	assert.Equal(t, []string{"mouseup", "mouseup"}, *log)
	assert.False(t, f.engine.State().IsPressed("MouseLeft"))
}
