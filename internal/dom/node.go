// internal/dom/node.go
package dom

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node wraps an html.Node with the live state a browser keeps outside the markup.
type Node struct {
	doc *Document
	h   *html.Node

	listeners []*listener

	// form control state
	value         string
	valueDirty    bool
	checked       bool
	checkedDirty  bool
	indeterminate bool
	selected      bool
	selectedDirty bool
	files         []*File

	// text control selection, in characters
	selStart, selEnd int
	selDir           string
	selInit          bool
}

// Document returns the owner document.
func (n *Node) Document() *Document { return n.doc }

// HTML returns the underlying html node.
func (n *Node) HTML() *html.Node { return n.h }

// Type returns the node type.
func (n *Node) Type() html.NodeType { return n.h.Type }

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool { return n != nil && n.h.Type == html.ElementNode }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n != nil && n.h.Type == html.TextNode }

// IsDocument reports whether the node is the document node.
func (n *Node) IsDocument() bool { return n != nil && n.h.Type == html.DocumentNode }

// TagName returns the lower-case local name of an element, or "" for other nodes.
func (n *Node) TagName() string {
	if !n.IsElement() {
		return ""
	}
	return strings.ToLower(n.h.Data)
}

// Is reports whether the node is an element with one of the given tag names.
func (n *Node) Is(tags ...string) bool {
	tag := n.TagName()
	if tag == "" {
		return false
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsInput reports whether the node is an <input> of one of the given types.
// Without types it matches every input.
func (n *Node) IsInput(types ...string) bool {
	if !n.Is("input") {
		return false
	}
	if len(types) == 0 {
		return true
	}
	t := n.InputType()
	for _, want := range types {
		if want == t {
			return true
		}
	}
	return false
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string {
	if n.h.Type == html.TextNode || n.h.Type == html.CommentNode {
		return n.h.Data
	}
	return ""
}

// Length returns the node length used by boundary points: characters for
// text nodes, children for the rest.
func (n *Node) Length() int {
	if n.h.Type == html.TextNode || n.h.Type == html.CommentNode {
		return utf8.RuneCountInString(n.h.Data)
	}
	count := 0
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// SetData replaces the data of a text node.
func (n *Node) SetData(data string) {
	if n.h.Type != html.TextNode && n.h.Type != html.CommentNode {
		return
	}
	n.h.Data = data
	n.doc.touch()
}

// InsertData inserts text at a character offset of a text node.
func (n *Node) InsertData(offset int, data string) {
	runes := []rune(n.h.Data)
	offset = clamp(offset, 0, len(runes))
	n.SetData(string(runes[:offset]) + data + string(runes[offset:]))
}

// DeleteData removes count characters at offset from a text node.
func (n *Node) DeleteData(offset, count int) {
	runes := []rune(n.h.Data)
	offset = clamp(offset, 0, len(runes))
	end := clamp(offset+count, offset, len(runes))
	n.SetData(string(runes[:offset]) + string(runes[end:]))
}

// -- Attributes --

// GetAttribute returns an attribute value.
func (n *Node) GetAttribute(name string) (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	name = strings.ToLower(name)
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// Attr returns an attribute value or "".
func (n *Node) Attr(name string) string {
	v, _ := n.GetAttribute(name)
	return v
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets an attribute.
func (n *Node) SetAttribute(name, value string) {
	if !n.IsElement() {
		return
	}
	name = strings.ToLower(name)
	defer n.doc.touch()
	for i, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			n.h.Attr[i].Val = value
			return
		}
	}
	n.h.Attr = append(n.h.Attr, html.Attribute{Key: name, Val: value})
}

// ToggleAttribute sets or removes a boolean attribute.
func (n *Node) ToggleAttribute(name string, on bool) {
	if on {
		if !n.HasAttribute(name) {
			n.SetAttribute(name, "")
		}
		return
	}
	n.RemoveAttribute(name)
}

// RemoveAttribute removes an attribute.
func (n *Node) RemoveAttribute(name string) {
	if !n.IsElement() {
		return
	}
	name = strings.ToLower(name)
	attrs := n.h.Attr[:0]
	for _, a := range n.h.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		attrs = append(attrs, a)
	}
	n.h.Attr = attrs
	n.doc.touch()
}

// ID returns the id attribute.
func (n *Node) ID() string { return n.Attr("id") }

// -- Tree --

// Parent returns the parent node.
func (n *Node) Parent() *Node { return n.doc.wrap(n.h.Parent) }

// ParentElement returns the parent if it is an element.
func (n *Node) ParentElement() *Node {
	if n.h.Parent != nil && n.h.Parent.Type == html.ElementNode {
		return n.doc.wrap(n.h.Parent)
	}
	return nil
}

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node { return n.doc.wrap(n.h.FirstChild) }

// LastChild returns the last child node.
func (n *Node) LastChild() *Node { return n.doc.wrap(n.h.LastChild) }

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node { return n.doc.wrap(n.h.NextSibling) }

// PreviousSibling returns the previous sibling node.
func (n *Node) PreviousSibling() *Node { return n.doc.wrap(n.h.PrevSibling) }

// ChildNodes returns the child nodes.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, n.doc.wrap(c))
	}
	return out
}

// Children returns the element children.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, n.doc.wrap(c))
		}
	}
	return out
}

// ChildAt returns the child at index i.
func (n *Node) ChildAt(i int) *Node {
	idx := 0
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		if idx == i {
			return n.doc.wrap(c)
		}
		idx++
	}
	return nil
}

// Index returns the position of the node among its siblings.
func (n *Node) Index() int {
	idx := 0
	for c := n.h.PrevSibling; c != nil; c = c.PrevSibling {
		idx++
	}
	return idx
}

// AppendChild appends child, detaching it from its current parent first.
func (n *Node) AppendChild(child *Node) *Node {
	if child.h.Parent != nil {
		child.Parent().RemoveChild(child)
	}
	n.h.AppendChild(child.h)
	n.doc.touch()
	return child
}

// InsertBefore inserts child before ref; a nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if ref == nil {
		return n.AppendChild(child)
	}
	if child.h.Parent != nil {
		child.Parent().RemoveChild(child)
	}
	n.h.InsertBefore(child.h, ref.h)
	n.doc.touch()
	return child
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) *Node {
	if child.h.Parent != n.h {
		return child
	}
	if n.doc.active != nil && child.Contains(n.doc.active) {
		n.doc.active = nil
	}
	n.h.RemoveChild(child.h)
	n.doc.touch()
	return child
}

// Remove detaches the node from its parent.
func (n *Node) Remove() {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	if n == nil || other == nil {
		return false
	}
	for h := other.h; h != nil; h = h.Parent {
		if h == n.h {
			return true
		}
	}
	return false
}

// IsConnected reports whether the node is attached to its document.
func (n *Node) IsConnected() bool {
	for h := n.h; h != nil; h = h.Parent {
		if h == n.doc.root {
			return true
		}
	}
	return false
}

// Ancestors returns the ancestors of n starting with its parent.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for h := n.h.Parent; h != nil; h = h.Parent {
		out = append(out, n.doc.wrap(h))
	}
	return out
}

func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		if !n.doc.wrap(c).walk(fn) {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) { n.walk(fn) }

// Descendants returns the element descendants of n in document order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	n.walk(func(d *Node) bool {
		if d != n && d.IsElement() {
			out = append(out, d)
		}
		return true
	})
	return out
}

// -- Text --

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.h.Data
	}
	var sb strings.Builder
	n.walk(func(d *Node) bool {
		if d.IsText() {
			sb.WriteString(d.h.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces all children with one text node.
func (n *Node) SetTextContent(text string) {
	if n.IsText() {
		n.SetData(text)
		return
	}
	for c := n.h.FirstChild; c != nil; c = n.h.FirstChild {
		n.RemoveChild(n.doc.wrap(c))
	}
	if text != "" {
		n.AppendChild(n.doc.CreateTextNode(text))
	}
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var sb strings.Builder
	for c := n.h.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	return sb.String()
}

// OuterHTML serializes n.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	_ = html.Render(&sb, n.h)
	return sb.String()
}

// SetInnerHTML replaces the children of n with parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	context := n.h
	if !n.IsElement() {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("failed to parse fragment: %w", err)
	}
	for c := n.h.FirstChild; c != nil; c = n.h.FirstChild {
		n.RemoveChild(n.doc.wrap(c))
	}
	for _, c := range nodes {
		n.AppendChild(n.doc.wrap(c))
	}
	return nil
}

// -- Position --

// Position flags returned by CompareDocumentPosition.
const (
	PositionDisconnected = 1 << iota
	PositionPreceding
	PositionFollowing
	PositionContains
	PositionContainedBy
)

// CompareDocumentPosition reports the position of other relative to n.
func (n *Node) CompareDocumentPosition(other *Node) int {
	if n == other {
		return 0
	}
	if n.Contains(other) {
		return PositionContainedBy | PositionFollowing
	}
	if other.Contains(n) {
		return PositionContains | PositionPreceding
	}
	a, b := pathFromRoot(n), pathFromRoot(other)
	if a[0] != b[0] {
		return PositionDisconnected
	}
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	if a[i].Index() < b[i].Index() {
		return PositionFollowing
	}
	return PositionPreceding
}

// Precedes reports whether n comes before other in document order.
func (n *Node) Precedes(other *Node) bool {
	return n.CompareDocumentPosition(other)&PositionFollowing != 0
}

func pathFromRoot(n *Node) []*Node {
	path := []*Node{n}
	for p := n.Parent(); p != nil; p = p.Parent() {
		path = append([]*Node{p}, path...)
	}
	return path
}

// String describes the node for logs and error messages.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.h.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return fmt.Sprintf("#text %q", n.h.Data)
	case html.ElementNode:
		var sb strings.Builder
		sb.WriteString(strings.ToUpper(n.TagName()))
		if id := n.ID(); id != "" {
			sb.WriteString("#" + id)
		}
		if tid, ok := n.GetAttribute("data-testid"); ok {
			sb.WriteString("(testId=" + tid + ")")
		}
		return sb.String()
	}
	return "#node"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
