// internal/style/style_test.go
package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
)

func parse(t *testing.T, markup string) func(id string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return func(id string) *html.Node {
		var found *html.Node
		var walk func(n *html.Node)
		walk = func(n *html.Node) {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == id {
					found = n
				}
			}
			for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
		require.NotNil(t, found, "no element #%s", id)
		return found
	}
}

func TestUserAgentSheet(t *testing.T) {
	byID := parse(t, `<div id="d"><span id="s"></span><input id="h" type="hidden"><p id="p" hidden></p></div>`)
	se := NewEngine(nil, zaptest.NewLogger(t))

	assert.Equal(t, "block", se.ComputedStyle(byID("d")).Display())
	assert.Equal(t, "inline", se.ComputedStyle(byID("s")).Display())
	assert.Equal(t, "none", se.ComputedStyle(byID("h")).Display())
	assert.False(t, se.ComputedStyle(byID("p")).IsVisible())
	assert.Equal(t, "auto", se.ComputedStyle(byID("s")).PointerEvents())
}

func TestInheritance(t *testing.T) {
	byID := parse(t, `<div id="outer"><div id="mid"><span id="leaf"></span><b id="back"></b><i id="init"></i><u id="unset"></u></div></div>`)
	se := NewEngine(nil, nil)
	se.AddAuthorCSS(`
		#outer { pointer-events: none; visibility: hidden; opacity: 0.5 }
		#back { pointer-events: auto }
		#init { visibility: initial }
		#unset { visibility: unset; opacity: unset }
	`)

	leaf := se.ComputedStyle(byID("leaf"))
	assert.Equal(t, "none", leaf.PointerEvents(), "pointer-events is inherited")
	assert.Equal(t, "1", leaf.Lookup("opacity", "1"), "opacity is not inherited")
	_, declared := leaf.DeclaredValue("pointer-events")
	assert.False(t, declared)

	back := se.ComputedStyle(byID("back"))
	assert.Equal(t, "auto", back.PointerEvents())
	v, declared := back.DeclaredValue("pointer-events")
	assert.True(t, declared)
	assert.Equal(t, "auto", v)

	assert.Equal(t, "visible", se.ComputedStyle(byID("init")).Visibility())

	unset := se.ComputedStyle(byID("unset"))
	assert.Equal(t, "hidden", unset.Visibility(), "unset inherits inherited properties")
	assert.Equal(t, "1", unset.Lookup("opacity", ""), "unset resets the others")
	assert.False(t, unset.IsVisible())
}

func TestCascadeOrder(t *testing.T) {
	byID := parse(t, `
		<p id="a" class="c" style="display: none"></p>
		<p id="b" class="c" style="display: inline !important"></p>
		<p id="c" class="c"></p>`)
	se := NewEngine(nil, nil)
	se.AddAuthorCSS(`
		#a { display: flex !important }
		p.c { display: grid }
		.c { display: table }
		#b { display: flex !important }
	`)

	assert.Equal(t, "flex", se.ComputedStyle(byID("a")).Display(), "important author beats plain inline")
	assert.Equal(t, "inline", se.ComputedStyle(byID("b")).Display(), "important inline wins ties by order")
	assert.Equal(t, "grid", se.ComputedStyle(byID("c")).Display(), "higher specificity wins")
}

func TestNonElement(t *testing.T) {
	se := NewEngine(nil, nil)
	cs := se.ComputedStyle(&html.Node{Type: html.TextNode, Data: "x"})
	assert.Equal(t, "inline", cs.Display())
	assert.True(t, cs.IsVisible())
	assert.Equal(t, "fallback", cs.Lookup("color", "fallback"))
}
