// internal/dom/document.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/userevent/internal/style"
)

// CustomElementDefinition describes an autonomous custom element registered
// with a document.
type CustomElementDefinition struct {
	// FormAssociated elements take part in the disabled state of their
	// ancestors and honor their own disabled attribute.
	FormAssociated bool
}

// Document is an in-memory HTML document. It is not safe for concurrent use.
type Document struct {
	root   *html.Node
	nodes  map[*html.Node]*Node
	logger *zap.Logger

	active    *Node
	selection *Selection

	customElements map[string]CustomElementDefinition

	valueHooks     []ValueHook
	selectionHooks []SelectionHook
	observers      []DispatchObserver

	nextListenerID ListenerID

	// version increments on every tree or attribute mutation so the
	// style engine can be rebuilt lazily.
	version      uint64
	styleVersion uint64
	styles       *style.Engine
	extraCSS     []string

	extensions map[any]any
}

// Parse reads an HTML document.
func Parse(r io.Reader, logger *zap.Logger) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return newDocument(root, logger), nil
}

// ParseString parses an HTML string. Fragments are placed into the body of
// an otherwise empty document.
func ParseString(markup string, logger *zap.Logger) (*Document, error) {
	return Parse(strings.NewReader(markup), logger)
}

// MustParse is ParseString for fixtures; it panics on error.
func MustParse(markup string) *Document {
	doc, err := ParseString(markup, nil)
	if err != nil {
		panic(err)
	}
	return doc
}

// NewDocument returns an empty document with html, head and body elements.
func NewDocument(logger *zap.Logger) *Document {
	return MustParseWithLogger("", logger)
}

// MustParseWithLogger parses markup with a logger attached; it panics on error.
func MustParseWithLogger(markup string, logger *zap.Logger) *Document {
	doc, err := ParseString(markup, logger)
	if err != nil {
		panic(err)
	}
	return doc
}

func newDocument(root *html.Node, logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Document{
		root:           root,
		nodes:          make(map[*html.Node]*Node),
		logger:         logger.Named("dom"),
		customElements: make(map[string]CustomElementDefinition),
	}
	d.selection = &Selection{doc: d}
	return d
}

// Logger returns the document's logger.
func (d *Document) Logger() *zap.Logger { return d.logger }

// Node returns the document node.
func (d *Document) Node() *Node { return d.wrap(d.root) }

// Wrap returns the Node for an html node belonging to this document.
func (d *Document) Wrap(h *html.Node) *Node { return d.wrap(h) }

func (d *Document) wrap(h *html.Node) *Node {
	if h == nil {
		return nil
	}
	if n, ok := d.nodes[h]; ok {
		return n
	}
	n := &Node{doc: d, h: h}
	d.nodes[h] = n
	return n
}

// DocumentElement returns the root <html> element.
func (d *Document) DocumentElement() *Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.wrap(c)
		}
	}
	return nil
}

// Head returns the <head> element.
func (d *Document) Head() *Node {
	return d.childOfRoot(atom.Head)
}

// Body returns the <body> element.
func (d *Document) Body() *Node {
	return d.childOfRoot(atom.Body)
}

func (d *Document) childOfRoot(a atom.Atom) *Node {
	de := d.DocumentElement()
	if de == nil {
		return nil
	}
	for c := de.h.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return d.wrap(c)
		}
	}
	return nil
}

// ActiveElement returns the focused element, or the body when nothing is focused.
func (d *Document) ActiveElement() *Node {
	if d.active != nil && d.active.IsConnected() {
		return d.active
	}
	d.active = nil
	return d.Body()
}

// HasFocus reports whether an element other than the body is focused.
func (d *Document) HasFocus() bool {
	return d.active != nil && d.active.IsConnected()
}

// GetSelection returns the document selection.
func (d *Document) GetSelection() *Selection { return d.selection }

// CreateRange returns a range collapsed at the start of the document.
func (d *Document) CreateRange() *Range {
	root := d.Node()
	return &Range{doc: d, startNode: root, endNode: root}
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Node {
	tag = strings.ToLower(tag)
	h := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return d.wrap(h)
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) *Node {
	return d.wrap(&html.Node{Type: html.TextNode, Data: data})
}

// GetElementByID returns the first element with the given id.
func (d *Document) GetElementByID(id string) *Node {
	var found *Node
	d.Node().walk(func(n *Node) bool {
		if n.IsElement() && n.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// DefineCustomElement registers an autonomous custom element.
func (d *Document) DefineCustomElement(name string, def CustomElementDefinition) {
	d.customElements[strings.ToLower(name)] = def
}

// CustomElement returns the definition registered for a tag.
func (d *Document) CustomElement(name string) (CustomElementDefinition, bool) {
	def, ok := d.customElements[strings.ToLower(name)]
	return def, ok
}

// AddStyleSheet adds author CSS in addition to the <style> elements of the document.
func (d *Document) AddStyleSheet(cssText string) {
	d.extraCSS = append(d.extraCSS, cssText)
	d.touch()
}

// ComputedStyle resolves the computed style of an element.
func (d *Document) ComputedStyle(n *Node) style.ComputedStyle {
	return d.styleEngine().ComputedStyle(n.h)
}

func (d *Document) styleEngine() *style.Engine {
	if d.styles != nil && d.styleVersion == d.version {
		return d.styles
	}
	engine := style.NewEngine(docState{d}, d.logger)
	d.Node().walk(func(n *Node) bool {
		if n.IsElement() && n.TagName() == "style" {
			engine.AddAuthorCSS(n.TextContent())
		}
		return true
	})
	for _, text := range d.extraCSS {
		engine.AddAuthorCSS(text)
	}
	d.styles = engine
	d.styleVersion = d.version
	return engine
}

func (d *Document) touch() { d.version++ }

// Extension returns the value attached to the document under key.
func (d *Document) Extension(key any) any { return d.extensions[key] }

// SetExtension attaches a value to the document. Packages use it to keep
// per-document state, such as the UI value tracker, without globals.
func (d *Document) SetExtension(key, value any) {
	if d.extensions == nil {
		d.extensions = make(map[any]any)
	}
	d.extensions[key] = value
}

// Render serializes the document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String serializes the document.
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		d.logger.Warn("Failed to render document.", zap.Error(err))
	}
	return sb.String()
}
