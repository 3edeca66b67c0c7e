// internal/css/match.go
package css

import (
	"strings"

	"golang.org/x/net/html"
)

// State answers the dynamic pseudo-classes that depend on live element state
// rather than markup. A nil State falls back to attribute inspection.
type State interface {
	Checked(n *html.Node) bool
	Disabled(n *html.Node) bool
	Focused(n *html.Node) bool
	ReadOnly(n *html.Node) bool
	Indeterminate(n *html.Node) bool
	Value(n *html.Node) string
}

// Matcher evaluates selectors against html nodes.
type Matcher struct {
	State State
	// Scope is the element matched by :scope; nil means the document root element.
	Scope *html.Node
}

// Matches reports whether the node matches any selector in the group.
func (m *Matcher) Matches(node *html.Node, group SelectorGroup) bool {
	_, ok := m.Match(node, group)
	return ok
}

// Match returns the first complex selector of the group that matches the node.
func (m *Matcher) Match(node *html.Node, group SelectorGroup) (*ComplexSelector, bool) {
	if node == nil || node.Type != html.ElementNode {
		return nil, false
	}
	for i := range group {
		complexSelector := &group[i]
		last := len(complexSelector.Selectors) - 1
		if last < 0 {
			continue
		}
		if m.recursiveMatch(node, complexSelector, last) {
			return complexSelector, true
		}
	}
	return nil, false
}

func (m *Matcher) recursiveMatch(node *html.Node, complexSelector *ComplexSelector, index int) bool {
	if node == nil || index < 0 || node.Type != html.ElementNode {
		return false
	}
	current := complexSelector.Selectors[index]
	if !m.matchesSimple(node, current.SimpleSelector) {
		return false
	}
	if index == 0 {
		return true
	}
	next := index - 1
	switch current.Combinator {
	case CombinatorDescendant:
		for parent := parentElement(node); parent != nil; parent = parentElement(parent) {
			if m.recursiveMatch(parent, complexSelector, next) {
				return true
			}
		}
		return false
	case CombinatorChild:
		return m.recursiveMatch(parentElement(node), complexSelector, next)
	case CombinatorAdjacentSibling:
		return m.recursiveMatch(previousElementSibling(node), complexSelector, next)
	case CombinatorGeneralSibling:
		for sibling := previousElementSibling(node); sibling != nil; sibling = previousElementSibling(sibling) {
			if m.recursiveMatch(sibling, complexSelector, next) {
				return true
			}
		}
		return false
	case CombinatorNone:
		return true
	}
	return false
}

func (m *Matcher) matchesSimple(node *html.Node, selector SimpleSelector) bool {
	if selector.TagName != "" && selector.TagName != "*" && strings.ToLower(node.Data) != selector.TagName {
		return false
	}
	if selector.ID != "" {
		if id, ok := attr(node, "id"); !ok || id != selector.ID {
			return false
		}
	}
	if len(selector.Classes) > 0 {
		classAttr, _ := attr(node, "class")
		nodeClasses := strings.Fields(classAttr)
		for _, required := range selector.Classes {
			found := false
			for _, c := range nodeClasses {
				if c == required {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	for _, attrSel := range selector.Attributes {
		if !matchesAttribute(node, attrSel) {
			return false
		}
	}
	for _, pseudo := range selector.Pseudo {
		if !m.matchesPseudo(node, pseudo) {
			return false
		}
	}
	return true
}

func (m *Matcher) matchesPseudo(node *html.Node, pc PseudoClass) bool {
	switch pc.Name {
	case "not":
		return !m.Matches(node, pc.Arg)
	case "is", "where":
		return m.Matches(node, pc.Arg)
	case "has":
		found := false
		walkElements(node, func(d *html.Node) bool {
			if d != node && m.Matches(d, pc.Arg) {
				found = true
				return false
			}
			return true
		})
		return found
	case "checked":
		if m.State != nil {
			return m.State.Checked(node)
		}
		_, ok := attr(node, "checked")
		if node.Data == "option" {
			_, ok = attr(node, "selected")
		}
		return ok
	case "indeterminate":
		return m.State != nil && m.State.Indeterminate(node)
	case "disabled":
		if m.State != nil {
			return m.State.Disabled(node)
		}
		_, ok := attr(node, "disabled")
		return ok && isFormControl(node)
	case "enabled":
		if !isFormControl(node) {
			return false
		}
		if m.State != nil {
			return !m.State.Disabled(node)
		}
		_, ok := attr(node, "disabled")
		return !ok
	case "focus":
		return m.State != nil && m.State.Focused(node)
	case "focus-within":
		if m.State == nil {
			return false
		}
		found := false
		walkElements(node, func(d *html.Node) bool {
			if m.State.Focused(d) {
				found = true
				return false
			}
			return true
		})
		return found
	case "read-only":
		return m.readOnly(node)
	case "read-write":
		return !m.readOnly(node)
	case "required":
		_, ok := attr(node, "required")
		return ok && isFormControl(node)
	case "optional":
		_, ok := attr(node, "required")
		return !ok && isFormControl(node)
	case "placeholder-shown":
		_, ok := attr(node, "placeholder")
		if !ok || m.State == nil {
			return false
		}
		return m.State.Value(node) == ""
	case "link", "any-link":
		_, ok := attr(node, "href")
		return ok && (node.Data == "a" || node.Data == "area")
	case "first-child":
		return previousElementSibling(node) == nil && parentElement(node) != nil
	case "last-child":
		return nextElementSibling(node) == nil && parentElement(node) != nil
	case "only-child":
		return previousElementSibling(node) == nil && nextElementSibling(node) == nil && parentElement(node) != nil
	case "root":
		return node.Parent != nil && node.Parent.Type == html.DocumentNode
	case "scope":
		if m.Scope != nil {
			return node == m.Scope
		}
		return node.Parent != nil && node.Parent.Type == html.DocumentNode
	case "empty":
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode || (c.Type == html.TextNode && c.Data != "") {
				return false
			}
		}
		return true
	}
	return false
}

func (m *Matcher) readOnly(node *html.Node) bool {
	if m.State != nil {
		return m.State.ReadOnly(node)
	}
	switch node.Data {
	case "input", "textarea":
		_, ro := attr(node, "readonly")
		return ro
	}
	v, ok := attr(node, "contenteditable")
	return !(ok && (v == "" || strings.EqualFold(v, "true")))
}

func matchesAttribute(node *html.Node, sel AttributeSelector) bool {
	actual, found := attr(node, sel.Name)
	expected := sel.Value
	if sel.CaseInsensitive {
		actual = strings.ToLower(actual)
		expected = strings.ToLower(expected)
	}

	switch sel.Operator {
	case "":
		return found
	case "=":
		return found && actual == expected
	case "~=":
		if !found {
			return false
		}
		for _, word := range strings.Fields(actual) {
			if word == expected {
				return true
			}
		}
		return false
	case "|=":
		return found && (actual == expected || strings.HasPrefix(actual, expected+"-"))
	case "^=":
		return found && expected != "" && strings.HasPrefix(actual, expected)
	case "$=":
		return found && expected != "" && strings.HasSuffix(actual, expected)
	case "*=":
		return found && expected != "" && strings.Contains(actual, expected)
	default:
		return false
	}
}

func isFormControl(n *html.Node) bool {
	switch n.Data {
	case "input", "button", "select", "textarea", "option", "optgroup", "fieldset":
		return true
	}
	return false
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func parentElement(n *html.Node) *html.Node {
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		return n.Parent
	}
	return nil
}

func previousElementSibling(node *html.Node) *html.Node {
	for s := node.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func nextElementSibling(node *html.Node) *html.Node {
	for s := node.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// walkElements visits n and its element descendants in document order until fn returns false.
func walkElements(n *html.Node, fn func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkElements(c, fn) {
			return false
		}
	}
	return true
}

// QueryAll returns the element descendants of root (excluding root) matching the group, in document order.
func (m *Matcher) QueryAll(root *html.Node, group SelectorGroup) []*html.Node {
	var out []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, func(n *html.Node) bool {
			if m.Matches(n, group) {
				out = append(out, n)
			}
			return true
		})
	}
	return out
}

// Query returns the first element descendant of root matching the group.
func (m *Matcher) Query(root *html.Node, group SelectorGroup) *html.Node {
	var found *html.Node
	for c := root.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walkElements(c, func(n *html.Node) bool {
			if m.Matches(n, group) {
				found = n
				return false
			}
			return true
		})
	}
	return found
}
