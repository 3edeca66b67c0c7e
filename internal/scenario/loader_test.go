// internal/scenario/loader_test.go
package scenario

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/dom"
)

func TestParseValidation(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		err  string
	}{
		{"no markup", "steps:\n  - action: tab\n", "one of html or html_file is required"},
		{"both markups", "html: <p/>\nhtml_file: x.html\nsteps:\n  - action: tab\n", "mutually exclusive"},
		{"unknown action", "html: <p/>\nsteps:\n  - action: fly\n", `step 1: unknown action "fly"`},
		{"missing target", "html: <p/>\nsteps:\n  - action: click\n", "step 1: click needs a target"},
		{"empty pointer", "html: <p/>\nsteps:\n  - action: pointer\n", "pointer needs at least one action"},
		{"unknown field", "html: <p/>\nsteps:\n  - action: tab\n    speed: 3\n", "field speed not found"},
		{"expectation target", "html: <p/>\nsteps:\n  - action: tab\nexpect:\n  - value: x\n", "expectation 1: target is required"},
		{"missing html_file", "html_file: nope.html\nsteps:\n  - action: tab\n", "reading html_file"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestLoadFileExpandsHome(t *testing.T) {
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeScenario(t, home, "tab.yaml", "html: <a href=#>x</a>\nsteps:\n  - action: tab\n")

	l, err := LoadFile("~/tab.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tab.yaml"), l.Path)
	assert.Equal(t, "tab", l.Scenario.Name)
	assert.Equal(t, "<a href=#>x</a>", l.Markup)
	assert.Equal(t, schemas.ActionTab, l.Scenario.Steps[0].Action)
}

func TestResolve(t *testing.T) {
	doc, err := dom.ParseString(`<div><input id="a" name="q"><input class="big wide"></div>`, zaptest.NewLogger(t))
	require.NoError(t, err)

	el, err := Resolve(doc, "#a")
	require.NoError(t, err)
	assert.Equal(t, "input#a", Describe(el))

	el, err = Resolve(doc, "xpath: //input[2]")
	require.NoError(t, err)
	assert.Equal(t, "input.big", Describe(el))

	_, err = Resolve(doc, "#zzz")
	var nf *ElementNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "#zzz", nf.Selector)

	assert.Equal(t, "#document", Describe(doc.Node()))
	assert.Equal(t, "", Describe(nil))
}

func TestRecorder(t *testing.T) {
	doc, err := dom.ParseString(`<button id="b">x</button>`, zaptest.NewLogger(t))
	require.NoError(t, err)
	rec := Record(doc)
	b := doc.MustQuery("#b")
	b.AddEventListener("click", func(ev *dom.Event) { ev.PreventDefault() })

	b.Click()
	doc.Body().DispatchEvent(dom.NewEvent("ping", true, false))

	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, []string{"click"}, rec.TypesOn(b))
	events := rec.Events()
	assert.Equal(t, 1, events[0].Seq)
	assert.True(t, events[0].DefaultPrevented, "cancellation is read after dispatch")
	assert.Equal(t, "PointerEvent", events[0].Interface)
	assert.Equal(t, "body", events[1].Target)
}
