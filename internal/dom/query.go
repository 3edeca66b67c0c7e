// internal/dom/query.go
package dom

import (
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/userevent/internal/css"
)

// docState answers dynamic pseudo-classes from live node state.
type docState struct{ d *Document }

func (s docState) Checked(h *html.Node) bool {
	n := s.d.wrap(h)
	if n.Is("option") {
		return n.Selected()
	}
	return n.Checked()
}
func (s docState) Disabled(h *html.Node) bool      { return s.d.wrap(h).Disabled() }
func (s docState) Focused(h *html.Node) bool       { return s.d.active != nil && s.d.active.h == h }
func (s docState) Indeterminate(h *html.Node) bool { return s.d.wrap(h).indeterminate }
func (s docState) Value(h *html.Node) string       { return s.d.wrap(h).Value() }
func (s docState) ReadOnly(h *html.Node) bool {
	n := s.d.wrap(h)
	if n.Is("input", "textarea") {
		return n.ReadOnly() || n.Disabled()
	}
	return !n.IsContentEditable()
}

func (d *Document) matcher(scope *Node) *css.Matcher {
	m := &css.Matcher{State: docState{d}}
	if scope != nil && scope.IsElement() {
		m.Scope = scope.h
	}
	return m
}

func parseSelector(selector string) (css.SelectorGroup, error) {
	group, err := css.ParseSelector(selector)
	if err != nil {
		return nil, &SelectorError{Selector: selector, Err: err}
	}
	return group, nil
}

// QuerySelector returns the first descendant matching a CSS selector.
func (n *Node) QuerySelector(selector string) (*Node, error) {
	group, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	return n.doc.wrap(n.doc.matcher(n).Query(n.h, group)), nil
}

// QuerySelectorAll returns the descendants matching a CSS selector in document order.
func (n *Node) QuerySelectorAll(selector string) ([]*Node, error) {
	group, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	return n.doc.wrapAll(n.doc.matcher(n).QueryAll(n.h, group)), nil
}

// QuerySelectorAllGroup is QuerySelectorAll for a parsed selector group.
func (n *Node) QuerySelectorAllGroup(group css.SelectorGroup) []*Node {
	return n.doc.wrapAll(n.doc.matcher(n).QueryAll(n.h, group))
}

// MatchesGroup reports whether the element matches a parsed selector group.
func (n *Node) MatchesGroup(group css.SelectorGroup) bool {
	return n.IsElement() && n.doc.matcher(nil).Matches(n.h, group)
}

// Matches reports whether the element matches a CSS selector.
func (n *Node) Matches(selector string) (bool, error) {
	group, err := parseSelector(selector)
	if err != nil {
		return false, err
	}
	return n.MatchesGroup(group), nil
}

// Closest returns the nearest inclusive ancestor matching a CSS selector.
func (n *Node) Closest(selector string) (*Node, error) {
	group, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	for e := n; e != nil; e = e.ParentElement() {
		if e.MatchesGroup(group) {
			return e, nil
		}
	}
	return nil, nil
}

// QueryXPath returns the first node matching an XPath expression.
func (n *Node) QueryXPath(expr string) (*Node, error) {
	h, err := htmlquery.Query(n.h, expr)
	if err != nil {
		return nil, &SelectorError{Selector: expr, Err: err}
	}
	return n.doc.wrap(h), nil
}

// QueryXPathAll returns every node matching an XPath expression.
func (n *Node) QueryXPathAll(expr string) ([]*Node, error) {
	hs, err := htmlquery.QueryAll(n.h, expr)
	if err != nil {
		return nil, &SelectorError{Selector: expr, Err: err}
	}
	return n.doc.wrapAll(hs), nil
}

// QuerySelector queries the whole document.
func (d *Document) QuerySelector(selector string) (*Node, error) {
	return d.Node().QuerySelector(selector)
}

// QuerySelectorAll queries the whole document.
func (d *Document) QuerySelectorAll(selector string) ([]*Node, error) {
	return d.Node().QuerySelectorAll(selector)
}

// MustQuery returns the first match of a CSS selector and panics when the
// selector is invalid or nothing matches. Intended for fixtures.
func (d *Document) MustQuery(selector string) *Node {
	n, err := d.QuerySelector(selector)
	if err != nil {
		panic(err)
	}
	if n == nil {
		panic("no element matches " + selector)
	}
	return n
}

func (d *Document) wrapAll(hs []*html.Node) []*Node {
	out := make([]*Node, 0, len(hs))
	for _, h := range hs {
		out = append(out, d.wrap(h))
	}
	return out
}
