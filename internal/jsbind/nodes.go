// internal/jsbind/nodes.go
package jsbind

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/userevent/internal/dom"
)

const nodeKey = "__userevent_node__"

// WrapNode returns the JS object of n. The same node always yields the same
// object, so scripts may compare elements with ===.
func (b *Bridge) WrapNode(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := b.nodes[n]; ok {
		return obj
	}
	obj := b.vm.NewObject()
	b.nodes[n] = obj
	_ = obj.DefineDataProperty(nodeKey, b.vm.ToValue(n), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)

	b.defineNode(obj, n)
	if n.IsElement() {
		b.defineElement(obj, n)
	}
	return obj
}

// Unwrap returns the DOM node behind a wrapped value.
func (b *Bridge) Unwrap(v goja.Value) (*dom.Node, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	n, ok := obj.Get(nodeKey).Export().(*dom.Node)
	return n, ok
}

func (b *Bridge) wrapList(nodes []*dom.Node) goja.Value {
	vals := make([]any, len(nodes))
	for i, n := range nodes {
		vals[i] = b.WrapNode(n)
	}
	return b.vm.NewArray(vals...)
}

// accessor defines a property with a getter and an optional setter.
func (b *Bridge) accessor(obj *goja.Object, name string, get func() any, set func(goja.Value)) {
	getter := b.vm.ToValue(func(goja.FunctionCall) goja.Value { return b.vm.ToValue(get()) })
	setter := goja.Undefined()
	if set != nil {
		setter = b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			set(call.Argument(0))
			return goja.Undefined()
		})
	}
	if err := obj.DefineAccessorProperty(name, getter, setter, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		b.logger.Error("Failed to define accessor", zap.String("property", name), zap.Error(err))
	}
}

func (b *Bridge) method(obj *goja.Object, name string, fn func(goja.FunctionCall) goja.Value) {
	if err := obj.Set(name, fn); err != nil {
		b.logger.Error("Failed to define method", zap.String("method", name), zap.Error(err))
	}
}

// defineNode adds the members every node has: tree navigation, text and
// the EventTarget methods.
func (b *Bridge) defineNode(obj *goja.Object, n *dom.Node) {
	_ = obj.Set("nodeType", nodeType(n))
	_ = obj.Set("nodeName", nodeName(n))

	b.accessor(obj, "parentNode", func() any { return b.WrapNode(n.Parent()) }, nil)
	b.accessor(obj, "parentElement", func() any { return b.WrapNode(n.ParentElement()) }, nil)
	b.accessor(obj, "childNodes", func() any { return b.wrapList(n.ChildNodes()) }, nil)
	b.accessor(obj, "children", func() any { return b.wrapList(n.Children()) }, nil)
	b.accessor(obj, "firstChild", func() any { return b.WrapNode(n.FirstChild()) }, nil)
	b.accessor(obj, "nextSibling", func() any { return b.WrapNode(n.NextSibling()) }, nil)
	b.accessor(obj, "textContent",
		func() any { return n.TextContent() },
		func(v goja.Value) { n.SetTextContent(v.String()) })

	b.method(obj, "contains", func(call goja.FunctionCall) goja.Value {
		other, ok := b.Unwrap(call.Argument(0))
		return b.vm.ToValue(ok && n.Contains(other))
	})
	b.method(obj, "appendChild", func(call goja.FunctionCall) goja.Value {
		child, ok := b.Unwrap(call.Argument(0))
		if !ok {
			b.throw("appendChild: argument is not a node")
		}
		return b.WrapNode(n.AppendChild(child))
	})
	b.method(obj, "querySelector", func(call goja.FunctionCall) goja.Value {
		found, err := n.QuerySelector(call.Argument(0).String())
		if err != nil {
			b.throw("%v", err)
		}
		return b.WrapNode(found)
	})
	b.method(obj, "querySelectorAll", func(call goja.FunctionCall) goja.Value {
		found, err := n.QuerySelectorAll(call.Argument(0).String())
		if err != nil {
			b.throw("%v", err)
		}
		return b.wrapList(found)
	})
	b.method(obj, "addEventListener", func(call goja.FunctionCall) goja.Value {
		fn := call.Argument(1)
		if _, ok := goja.AssertFunction(fn); !ok {
			return goja.Undefined()
		}
		b.addListener(n, call.Argument(0).String(), fn, listenerOptions(call.Argument(2)))
		return goja.Undefined()
	})
	b.method(obj, "removeEventListener", func(call goja.FunctionCall) goja.Value {
		b.removeListener(n, call.Argument(0).String(), call.Argument(1), listenerOptions(call.Argument(2)).Capture)
		return goja.Undefined()
	})
}

// defineElement adds the Element and form control members.
func (b *Bridge) defineElement(obj *goja.Object, n *dom.Node) {
	_ = obj.Set("tagName", strings.ToUpper(n.TagName()))

	b.accessor(obj, "id", func() any { return n.ID() }, func(v goja.Value) { n.SetAttribute("id", v.String()) })
	b.accessor(obj, "className", func() any { return n.Attr("class") }, func(v goja.Value) { n.SetAttribute("class", v.String()) })
	b.accessor(obj, "innerHTML",
		func() any { return n.InnerHTML() },
		func(v goja.Value) {
			if err := n.SetInnerHTML(v.String()); err != nil {
				b.throw("%v", err)
			}
		})
	b.accessor(obj, "outerHTML", func() any { return n.OuterHTML() }, nil)
	b.accessor(obj, "value",
		func() any { return n.Value() },
		func(v goja.Value) { n.SetValue(v.String()) })
	b.accessor(obj, "checked",
		func() any { return n.Checked() },
		func(v goja.Value) { n.SetChecked(v.ToBoolean()) })
	b.accessor(obj, "selected",
		func() any { return n.Selected() },
		func(v goja.Value) { n.SetSelected(v.ToBoolean()) })
	b.accessor(obj, "disabled",
		func() any { return n.Disabled() },
		func(v goja.Value) { n.ToggleAttribute("disabled", v.ToBoolean()) })
	b.accessor(obj, "selectionStart", func() any { return b.selectionEdge(n, true) }, nil)
	b.accessor(obj, "selectionEnd", func() any { return b.selectionEdge(n, false) }, nil)
	b.accessor(obj, "files", func() any { return b.files(n) }, nil)

	b.method(obj, "getAttribute", func(call goja.FunctionCall) goja.Value {
		if v, ok := n.GetAttribute(call.Argument(0).String()); ok {
			return b.vm.ToValue(v)
		}
		return goja.Null()
	})
	b.method(obj, "setAttribute", func(call goja.FunctionCall) goja.Value {
		n.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	b.method(obj, "removeAttribute", func(call goja.FunctionCall) goja.Value {
		n.RemoveAttribute(call.Argument(0).String())
		return goja.Undefined()
	})
	b.method(obj, "hasAttribute", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(n.HasAttribute(call.Argument(0).String()))
	})
	b.method(obj, "closest", func(call goja.FunctionCall) goja.Value {
		found, err := n.Closest(call.Argument(0).String())
		if err != nil {
			b.throw("%v", err)
		}
		return b.WrapNode(found)
	})
	b.method(obj, "focus", func(goja.FunctionCall) goja.Value {
		n.Focus()
		return goja.Undefined()
	})
	b.method(obj, "blur", func(goja.FunctionCall) goja.Value {
		n.Blur()
		return goja.Undefined()
	})
	b.method(obj, "click", func(goja.FunctionCall) goja.Value {
		n.Click()
		return goja.Undefined()
	})
	b.method(obj, "select", func(goja.FunctionCall) goja.Value {
		n.Select()
		return goja.Undefined()
	})
	b.method(obj, "setSelectionRange", func(call goja.FunctionCall) goja.Value {
		dir := "none"
		if d := call.Argument(2); !goja.IsUndefined(d) {
			dir = d.String()
		}
		if err := n.SetSelectionRange(int(call.Argument(0).ToInteger()), int(call.Argument(1).ToInteger()), dir); err != nil {
			b.throw("%v", err)
		}
		return goja.Undefined()
	})
}

func (b *Bridge) selectionEdge(n *dom.Node, start bool) any {
	s, e, ok := n.SelectionRange()
	if !ok {
		return nil
	}
	if start {
		return s
	}
	return e
}

func (b *Bridge) files(n *dom.Node) any {
	if !n.IsInput("file") {
		return nil
	}
	out := make([]any, 0, len(n.Files()))
	for _, f := range n.Files() {
		o := b.vm.NewObject()
		_ = o.Set("name", f.Name)
		_ = o.Set("type", f.Type)
		_ = o.Set("size", f.Size())
		out = append(out, o)
	}
	return b.vm.NewArray(out...)
}

// wrapDocument builds the document global on top of the document node.
func (b *Bridge) wrapDocument() goja.Value {
	v := b.WrapNode(b.doc.Node())
	obj := v.(*goja.Object)

	b.accessor(obj, "body", func() any { return b.WrapNode(b.doc.Body()) }, nil)
	b.accessor(obj, "documentElement", func() any { return b.WrapNode(b.doc.DocumentElement()) }, nil)
	b.accessor(obj, "activeElement", func() any { return b.WrapNode(b.doc.ActiveElement()) }, nil)

	b.method(obj, "getElementById", func(call goja.FunctionCall) goja.Value {
		return b.WrapNode(b.doc.GetElementByID(call.Argument(0).String()))
	})
	b.method(obj, "createElement", func(call goja.FunctionCall) goja.Value {
		return b.WrapNode(b.doc.CreateElement(call.Argument(0).String()))
	})
	b.method(obj, "createTextNode", func(call goja.FunctionCall) goja.Value {
		return b.WrapNode(b.doc.CreateTextNode(call.Argument(0).String()))
	})
	// evaluate returns the first node matching an XPath expression.
	b.method(obj, "evaluate", func(call goja.FunctionCall) goja.Value {
		found, err := b.doc.Node().QueryXPath(call.Argument(0).String())
		if err != nil {
			b.throw("%v", err)
		}
		return b.WrapNode(found)
	})
	return v
}

func nodeType(n *dom.Node) int {
	switch n.Type() {
	case html.ElementNode:
		return 1
	case html.TextNode:
		return 3
	case html.CommentNode:
		return 8
	case html.DocumentNode:
		return 9
	default:
		return 0
	}
}

func nodeName(n *dom.Node) string {
	switch n.Type() {
	case html.ElementNode:
		return strings.ToUpper(n.TagName())
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	default:
		return ""
	}
}
