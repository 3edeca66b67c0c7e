// internal/focus/focus_test.go
package focus

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/internal/dom"
)

func setup(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup, zaptest.NewLogger(t))
	require.NoError(t, err)
	return doc
}

func ids(nodes ...*dom.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n.ID() != "" {
			out = append(out, n.ID())
		} else {
			out = append(out, n.TagName())
		}
	}
	return out
}

// walk presses Tab n times from the current active element.
func walk(doc *dom.Document, n int, shift bool, trap *dom.Node) []*dom.Node {
	var visited []*dom.Node
	for range n {
		next := TabDestination(doc.ActiveElement(), shift, trap)
		FocusElement(next)
		visited = append(visited, doc.ActiveElement())
	}
	return visited
}

func TestFocusElement(t *testing.T) {
	doc := setup(t, `<button id="btn"><span id="inner">x</span></button><div id="plain">y</div>`)
	var events []string
	btn := doc.GetElementByID("btn")
	btn.AddEventListener("focus", func(*dom.Event) { events = append(events, "focus") })
	btn.AddEventListener("blur", func(*dom.Event) { events = append(events, "blur") })

	FocusElement(doc.GetElementByID("inner"))
	assert.Equal(t, btn, doc.ActiveElement(), "closest focusable ancestor receives focus")

	FocusElement(btn)
	assert.Equal(t, []string{"focus"}, events, "focusing the active element is a no-op")

	FocusElement(doc.GetElementByID("plain"))
	assert.Equal(t, doc.Body(), doc.ActiveElement())
	assert.Equal(t, []string{"focus", "blur"}, events)
}

func TestFocusMovesDocumentSelection(t *testing.T) {
	doc := setup(t, `<p id="p">text</p><input id="i" value="abc">`)
	sel := doc.GetSelection()
	require.NoError(t, sel.SetBaseAndExtent(doc.GetElementByID("p").FirstChild(), 0, doc.GetElementByID("p").FirstChild(), 2))

	input := doc.GetElementByID("i")
	FocusElement(input)
	assert.Equal(t, input, sel.FocusNode())
	assert.True(t, sel.IsCollapsed())
}

func TestBlurElement(t *testing.T) {
	doc := setup(t, `<input id="a"><input id="b">`)
	a, b := doc.GetElementByID("a"), doc.GetElementByID("b")
	a.Focus()
	BlurElement(b)
	assert.Equal(t, a, doc.ActiveElement())
	BlurElement(a)
	assert.Equal(t, doc.Body(), doc.ActiveElement())
}

func TestTabOrder(t *testing.T) {
	doc := setup(t, `
		<input id="a" tabindex="2">
		<input id="b">
		<input id="c" tabindex="1">
		<input id="d" tabindex="-1">
		<input id="e" disabled>
		<div id="f" tabindex="0"></div>`)

	assert.Equal(t, []string{"c", "a", "b", "f", "body", "c"}, ids(walk(doc, 6, false, nil)...))

	FocusElement(doc.Body())
	assert.Equal(t, []string{"f", "b", "a", "c", "body"}, ids(walk(doc, 5, true, nil)...))
}

func TestTabOrderIgnoresTabIndexFromNegativeElement(t *testing.T) {
	doc := setup(t, `<input id="a" tabindex="2"><input id="b" tabindex="-1"><input id="c">`)
	doc.GetElementByID("b").Focus()
	assert.Equal(t, "c", TabDestination(doc.ActiveElement(), false, nil).ID(), "document order applies")
}

func TestTabOrderIsStable(t *testing.T) {
	var sb strings.Builder
	var want []string
	for i := range 15 {
		tabindex := "0"
		if i%4 == 3 {
			tabindex = "1"
		}
		fmt.Fprintf(&sb, `<input id="i%d" tabindex="%s">`, i, tabindex)
	}
	for _, i := range []int{3, 7, 11, 0, 1, 2, 4, 5, 6, 8, 9, 10, 12, 13, 14} {
		want = append(want, fmt.Sprintf("i%d", i))
	}
	doc := setup(t, sb.String())
	assert.Equal(t, want, ids(walk(doc, 15, false, nil)...))
}

func TestTabOrderRadioGroups(t *testing.T) {
	doc := setup(t, `
		<input type="radio" name="g" id="r1">
		<input type="radio" name="g" id="r2" checked>
		<input type="radio" name="g" id="r3">
		<input type="radio" name="h" id="h1">
		<input type="radio" name="h" id="h2">
		<input id="t">`)

	assert.Equal(t, []string{"r2", "h1", "t", "body", "r2"}, ids(walk(doc, 5, false, nil)...),
		"a focused radio hides the rest of its group")

	doc.GetElementByID("r3").Focus()
	assert.Equal(t, "h1", TabDestination(doc.ActiveElement(), false, nil).ID(), "active radio represents its group")
	assert.Equal(t, doc.Body(), TabDestination(doc.ActiveElement(), true, nil))
}

func TestTabOrderSkipsInvisible(t *testing.T) {
	doc := setup(t, `<input id="a"><input id="h" style="display: none"><div hidden><input id="x"></div><input id="b">`)
	doc.GetElementByID("a").Focus()
	assert.Equal(t, "b", TabDestination(doc.ActiveElement(), false, nil).ID())
}

func TestTabOrderFocusTrap(t *testing.T) {
	doc := setup(t, `<input id="before"><div id="trap"><input id="x"><input id="y"></div><input id="after">`)
	trap := doc.GetElementByID("trap")
	doc.GetElementByID("x").Focus()

	assert.Equal(t, []string{"y", "x", "y"}, ids(walk(doc, 3, false, trap)...))
	assert.Equal(t, []string{"x", "y"}, ids(walk(doc, 2, true, trap)...))
}

func TestTabCyclesThroughDocument(t *testing.T) {
	doc := setup(t, `<input id="a"><button id="b">b</button><a id="c" href="#">c</a>`)
	visited := walk(doc, 4, false, nil)
	assert.Equal(t, []string{"a", "b", "c", "body"}, ids(visited...))
	assert.Equal(t, "a", TabDestination(doc.ActiveElement(), false, nil).ID())
}
