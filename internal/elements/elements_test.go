// internal/elements/elements_test.go
package elements

import (
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

func TestIsFocusable(t *testing.T) {
	doc := setup(t, `<input id="text"><input id="hidden" type="hidden"><input id="dis" disabled>
		<a id="link" href="#">x</a><a id="anchor">y</a><div id="ce" contenteditable>z</div>
		<div id="ti" tabindex="-1"></div><div id="plain"></div>`)

	tests := map[string]bool{
		"text": true, "hidden": false, "dis": false, "link": true,
		"anchor": false, "ce": true, "ti": true, "plain": false,
	}
	for id, want := range tests {
		assert.Equal(t, want, IsFocusable(doc.GetElementByID(id)), id)
	}
}

func TestIsDisabled(t *testing.T) {
	doc := setup(t, `
		<fieldset disabled>
			<legend><input id="legendInput"></legend>
			<input id="fieldsetInput">
		</fieldset>
		<button disabled><span id="inButton">x</span></button>
		<x-control id="custom" disabled></x-control>
		<x-plain id="plain" disabled></x-plain>`)
	doc.DefineCustomElement("x-control", dom.CustomElementDefinition{FormAssociated: true})

	assert.False(t, IsDisabled(doc.GetElementByID("legendInput")))
	assert.True(t, IsDisabled(doc.GetElementByID("fieldsetInput")))
	assert.True(t, IsDisabled(doc.GetElementByID("inButton")), "descendants of disabled controls are disabled")
	assert.True(t, IsDisabled(doc.GetElementByID("custom")))
	assert.False(t, IsDisabled(doc.GetElementByID("plain")), "only form-associated custom elements")
}

func TestEditablePredicates(t *testing.T) {
	doc := setup(t, `<input id="num" type="number"><input id="ro" readonly><input id="cb" type="checkbox">
		<textarea id="ta"></textarea><div id="host" contenteditable="true"><p id="inner">x</p></div>`)

	num, ro, cb := doc.GetElementByID("num"), doc.GetElementByID("ro"), doc.GetElementByID("cb")
	ta, host, inner := doc.GetElementByID("ta"), doc.GetElementByID("host"), doc.GetElementByID("inner")

	assert.True(t, IsEditable(num))
	assert.False(t, IsEditable(ro))
	assert.True(t, IsEditableInputOrTextArea(ro))
	assert.False(t, IsEditable(cb))
	assert.True(t, IsEditable(ta))
	assert.True(t, IsEditable(host))
	assert.False(t, IsContentEditable(inner))
	assert.Equal(t, host, GetContentEditable(inner.FirstChild()))

	assert.True(t, HasOwnSelection(num))
	assert.False(t, SupportsSelectionRange(num))
	assert.True(t, HasNoSelection(cb))
	assert.True(t, IsClickableInput(cb))
}

func TestIsVisible(t *testing.T) {
	doc := setup(t, `
		<div style="display: none"><span id="none">x</span></div>
		<div style="visibility: hidden"><span id="hidden">x</span></div>
		<details><summary id="summary">s</summary><p id="content">c</p></details>
		<details open><p id="openContent">c</p></details>
		<span id="shown">x</span>`)

	assert.False(t, IsVisible(doc.GetElementByID("none")))
	assert.False(t, IsVisible(doc.GetElementByID("hidden")))
	assert.True(t, IsVisible(doc.GetElementByID("summary")))
	assert.False(t, IsVisible(doc.GetElementByID("content")))
	assert.True(t, IsVisible(doc.GetElementByID("openContent")))
	assert.True(t, IsVisible(doc.GetElementByID("shown")))
}

func TestIsLabelWithInternallyDisabledControl(t *testing.T) {
	doc := setup(t, `<label id="wrap"><input disabled></label><label id="for" for="x">x</label><input id="x" disabled>
		<label id="ok"><input></label>`)
	assert.True(t, IsLabelWithInternallyDisabledControl(doc.GetElementByID("wrap")))
	assert.False(t, IsLabelWithInternallyDisabledControl(doc.GetElementByID("for")), "control outside the label")
	assert.False(t, IsLabelWithInternallyDisabledControl(doc.GetElementByID("ok")))
}

func TestMaxLength(t *testing.T) {
	doc := setup(t, `<input id="a" maxlength="3"><input id="b" type="number" maxlength="3"><input id="c" maxlength="x">`)

	space, ok := GetSpaceUntilMaxLength(doc.GetElementByID("a"), "ab")
	assert.True(t, ok)
	assert.Equal(t, 1, space)

	_, ok = GetSpaceUntilMaxLength(doc.GetElementByID("b"), "")
	assert.False(t, ok, "number inputs ignore maxlength")

	_, ok = GetSpaceUntilMaxLength(doc.GetElementByID("c"), "")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	doc := setup(t, `<input id="t"><input id="c" type="radio"><input id="f" type="file"><select id="s"></select>
		<div contenteditable><b id="b">x</b></div><button id="btn">x</button>`)

	tests := map[string]Kind{
		"t": KindInputText, "c": KindInputCheckable, "f": KindInputFile,
		"s": KindSelect, "b": KindContentEditable, "btn": KindInputClickable,
	}
	for id, want := range tests {
		assert.Equal(t, want, Classify(doc.GetElementByID(id)).Kind, id)
	}

	info := Classify(doc.GetElementByID("t"))
	assert.True(t, info.Has(CapFocusable|CapEditable|CapOwnSelection|CapSelectionRange|CapMaxLength|CapVisible))
	assert.False(t, info.Has(CapDisabled))
}

func TestPointerEvents(t *testing.T) {
	doc := setup(t, `<div id="outer" style="pointer-events: none"><span id="inner">x</span>
		<a id="reenabled" style="pointer-events: auto">y</a></div><p id="free">z</p>`)

	outer, inner := doc.GetElementByID("outer"), doc.GetElementByID("inner")
	ok, tree := CheckPointerEvents(inner)
	assert.False(t, ok)
	assert.Equal(t, []*dom.Node{inner, outer}, tree)

	ok, _ = CheckPointerEvents(doc.GetElementByID("reenabled"))
	assert.True(t, ok)
	assert.NoError(t, AssertPointerEvents(doc.GetElementByID("free")))

	err := AssertPointerEvents(inner)
	var peErr *PointerEventsError
	require.ErrorAs(t, err, &peErr)
	assert.True(t, peErr.Inherited())
	assert.Equal(t, "Unable to perform pointer interaction as the element inherits `pointer-events: none`:\n\n"+
		"DIV#outer  <-- This element declared `pointer-events: none`\n"+
		" SPAN#inner  <-- Asserted pointer events here", err.Error())

	err = AssertPointerEvents(outer)
	assert.Equal(t, "Unable to perform pointer interaction as the element has `pointer-events: none`:\n\nDIV#outer", err.Error())

	peErr.Action = "click"
	assert.Equal(t, "unable to click element as it has or inherits pointer-events: none", peErr.Error())
}
