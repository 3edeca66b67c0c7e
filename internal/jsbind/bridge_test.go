// internal/jsbind/bridge_test.go
package jsbind

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/internal/dom"
)

func setup(t *testing.T, markup string, opts ...Option) (*Bridge, *dom.Document) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	doc, err := dom.ParseString(markup, logger)
	require.NoError(t, err)
	return New(doc, logger, opts...), doc
}

func TestRunQueriesDocument(t *testing.T) {
	b, _ := setup(t, `<input id="name" value="Ada"/><p class="x">one</p><p class="x">two</p>`)

	v, err := b.Run(context.Background(), `document.getElementById("name").value`)
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)

	v, err = b.Run(context.Background(), `document.querySelectorAll("p.x").length`)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v)

	v, err = b.Run(context.Background(), `document.evaluate("//p[2]").textContent`)
	require.NoError(t, err)
	assert.Equal(t, "two", v)
}

func TestIdentityMap(t *testing.T) {
	b, _ := setup(t, `<button id="b">go</button>`)
	v, err := b.Run(context.Background(), `document.querySelector("#b") === document.getElementById("b")`)
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestListenersSeeLiveEvents(t *testing.T) {
	b, doc := setup(t, `<input id="i"/>`)
	_, err := b.Run(context.Background(), `
		var seen = [];
		var el = document.getElementById("i");
		el.addEventListener("click", function (e) {
			seen.push(e.type + ":" + (this === el) + ":" + e.target.id);
			e.preventDefault();
		});
		el.addEventListener("click", function (e) { seen.push("prevented:" + e.defaultPrevented); });
	`)
	require.NoError(t, err)

	el := doc.MustQuery("#i")
	ok := el.DispatchEvent(dom.NewEvent("click", true, true))
	assert.False(t, ok, "the listener canceled the event")

	v, err := b.Run(context.Background(), `seen.join(",")`)
	require.NoError(t, err)
	assert.Equal(t, "click:true:i,prevented:true", v)
}

func TestRemoveAndOnceListeners(t *testing.T) {
	b, doc := setup(t, `<div id="d"></div>`)
	_, err := b.Run(context.Background(), `
		var count = 0, once = 0;
		function inc() { count++; }
		var d = document.getElementById("d");
		d.addEventListener("ping", inc);
		d.addEventListener("ping", inc);
		d.addEventListener("ping", function () { once++; }, {once: true});
	`)
	require.NoError(t, err)
	d := doc.MustQuery("#d")

	d.DispatchEvent(dom.NewEvent("ping", false, false))
	d.DispatchEvent(dom.NewEvent("ping", false, false))
	_, err = b.Run(context.Background(), `d.removeEventListener("ping", inc)`)
	require.NoError(t, err)
	d.DispatchEvent(dom.NewEvent("ping", false, false))

	v, err := b.Run(context.Background(), `count + "/" + once`)
	require.NoError(t, err)
	assert.Equal(t, "2/1", v, "duplicates are ignored and once fires a single time")
}

func TestInlineHandlers(t *testing.T) {
	b, doc := setup(t, `<input id="i" onfocus="this.value = 'focused:' + event.type"/>`)
	require.NoError(t, b.CompileInlineHandlers())

	el := doc.MustQuery("#i")
	el.Focus()
	assert.Equal(t, "focused:focus", el.Value())
}

func TestInlineHandlerSyntaxError(t *testing.T) {
	b, _ := setup(t, `<button onclick="this.(">x</button>`)
	err := b.CompileInlineHandlers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling onclick handler")
}

func TestListenerExceptionsAreCollected(t *testing.T) {
	b, doc := setup(t, `<button id="b">x</button>`)
	_, err := b.Run(context.Background(), `
		var after = false;
		var btn = document.getElementById("b");
		btn.addEventListener("click", function () { throw new Error("boom"); });
		btn.addEventListener("click", function () { after = true; });
	`)
	require.NoError(t, err)

	doc.MustQuery("#b").Click()

	v, err := b.Run(context.Background(), `after`)
	require.NoError(t, err)
	assert.Equal(t, true, v, "a throwing listener does not stop the dispatch")
	require.Len(t, b.Errors(), 1)
	var se *ScriptError
	require.True(t, errors.As(b.Errors()[0], &se))
	assert.Contains(t, se.Message, "boom")
}

func TestScriptTimeout(t *testing.T) {
	b, _ := setup(t, `<p></p>`, WithTimeout(20*time.Millisecond))
	_, err := b.Run(context.Background(), `for (;;) {}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "javascript execution interrupted")

	v, err := b.Run(context.Background(), `1 + 1`)
	require.NoError(t, err, "the interrupt is cleared after a run")
	assert.EqualValues(t, 2, v)
}

func TestScriptException(t *testing.T) {
	b, _ := setup(t, `<p></p>`)
	_, err := b.Run(context.Background(), `document.querySelector("[")`)
	var se *ScriptError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Message, "TypeError")
}

func TestFormControls(t *testing.T) {
	b, doc := setup(t, `<input id="c" type="checkbox"/><input id="t" value="hello"/><input id="f" type="file"/>`)
	_, err := b.Run(context.Background(), `
		document.getElementById("c").checked = true;
		document.getElementById("t").setSelectionRange(1, 3);
	`)
	require.NoError(t, err)
	assert.True(t, doc.MustQuery("#c").Checked())

	v, err := b.Run(context.Background(), `var t = document.getElementById("t"); t.selectionStart + "-" + t.selectionEnd`)
	require.NoError(t, err)
	assert.Equal(t, "1-3", v)

	doc.MustQuery("#f").SetFiles([]*dom.File{dom.NewFile("a.png", "image/png", []byte("x"))})
	v, err = b.Run(context.Background(), `document.getElementById("f").files[0].name`)
	require.NoError(t, err)
	assert.Equal(t, "a.png", v)
}
