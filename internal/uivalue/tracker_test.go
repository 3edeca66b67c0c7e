// internal/uivalue/tracker_test.go
package uivalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/internal/dom"
)

func prepare(t *testing.T, markup string) (*dom.Document, *Tracker) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	doc, err := dom.ParseString(markup, logger)
	require.NoError(t, err)
	return doc, Prepare(doc, logger)
}

func TestPrepareIsIdempotent(t *testing.T) {
	doc, tr := prepare(t, `<input>`)
	assert.Same(t, tr, Prepare(doc, nil))
}

func TestUIValueSurvivesSanitization(t *testing.T) {
	doc, tr := prepare(t, `<input id="n" type="number">`)
	el := doc.GetElementByID("n")

	tr.SetUIValue(el, "1e")
	assert.Equal(t, "", el.Value(), "DOM sanitizes the incomplete number")
	assert.Equal(t, "1e", tr.GetUIValue(el))

	tr.SetUIValue(el, "1e5")
	assert.Equal(t, "1e5", el.Value())
	initial, ok := tr.GetInitialValue(el)
	assert.True(t, ok)
	assert.Equal(t, "", initial, "initial value is recorded at the first edit only")
}

func TestScriptWriteClearsOverlay(t *testing.T) {
	doc, tr := prepare(t, `<input id="i" value="abc">`)
	el := doc.GetElementByID("i")

	tr.SetUIValue(el, "abcd")
	tr.SetUISelection(el, Selection{AnchorOffset: 1, FocusOffset: 2}, Replace)
	require.True(t, tr.HasUIValue(el))

	el.SetValue("hello")
	assert.False(t, tr.HasUIValue(el))
	assert.Equal(t, "hello", tr.GetUIValue(el))
	assert.Equal(t, Selection{AnchorOffset: 5, FocusOffset: 5}, tr.GetUISelection(el))

	require.NoError(t, el.SetSelectionRange(1, 3))
	assert.False(t, tr.HasUISelection(el))
	assert.Equal(t, Selection{AnchorOffset: 1, FocusOffset: 3}, tr.GetUISelection(el))
}

func TestSetUISelection(t *testing.T) {
	doc, tr := prepare(t, `<input id="i" value="hello"><input id="n" type="number" value="12">`)
	el := doc.GetElementByID("i")

	tr.SetUISelection(el, Selection{AnchorOffset: 4, FocusOffset: 99}, Replace)
	assert.Equal(t, Selection{AnchorOffset: 4, FocusOffset: 5}, tr.GetUISelection(el))
	start, end, ok := el.SelectionRange()
	require.True(t, ok)
	assert.Equal(t, []int{4, 5}, []int{start, end})

	tr.SetUISelection(el, Selection{FocusOffset: 1}, Modify)
	sel := tr.GetUISelection(el)
	assert.Equal(t, 4, sel.AnchorOffset, "modify keeps the anchor")
	assert.Equal(t, 1, sel.Start())
	assert.Equal(t, 4, sel.End())
	assert.Equal(t, "backward", el.SelectionDirection())

	num := doc.GetElementByID("n")
	tr.SetUISelection(num, Selection{AnchorOffset: 0, FocusOffset: 1}, Replace)
	assert.Equal(t, Selection{AnchorOffset: 0, FocusOffset: 1}, tr.GetUISelection(num), "tracked without selection API")
}

func TestChangeOnBlur(t *testing.T) {
	doc, tr := prepare(t, `<input id="i" value="a"><input id="other">`)
	el := doc.GetElementByID("i")

	var events []string
	el.AddEventListener("change", func(*dom.Event) { events = append(events, "change") })
	el.AddEventListener("blur", func(*dom.Event) { events = append(events, "blur") })

	el.Focus()
	tr.SetUIValue(el, "ab")
	doc.GetElementByID("other").Focus()
	assert.Equal(t, []string{"change", "blur"}, events)

	_, ok := tr.GetInitialValue(el)
	assert.False(t, ok)

	events = nil
	el.Focus()
	tr.SetUIValue(el, "abc")
	tr.SetUIValue(el, "ab")
	el.Blur()
	assert.Equal(t, []string{"blur"}, events, "no change when the value is restored")
}
