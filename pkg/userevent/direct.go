// pkg/userevent/direct.go
package userevent

import (
	"context"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// The functions below run one operation in a fresh session bound to the
// document of their element. Errors are returned and not logged.

func direct(doc *dom.Document) *UserEvent {
	return Setup(Options{Document: doc, ErrorHandler: func(error) {}})
}

// Click clicks el.
func Click(ctx context.Context, el *dom.Node) error {
	return direct(el.Document()).Click(ctx, el)
}

// DblClick double-clicks el.
func DblClick(ctx context.Context, el *dom.Node) error {
	return direct(el.Document()).DblClick(ctx, el)
}

// TripleClick triple-clicks el.
func TripleClick(ctx context.Context, el *dom.Node) error {
	return direct(el.Document()).TripleClick(ctx, el)
}

// Hover moves the mouse onto el.
func Hover(ctx context.Context, el *dom.Node) error {
	return direct(el.Document()).Hover(ctx, el)
}

// Unhover moves the mouse off el.
func Unhover(ctx context.Context, el *dom.Node) error {
	return direct(el.Document()).Unhover(ctx, el)
}

// Type clicks el and types text.
func Type(ctx context.Context, el *dom.Node, text string, opts ...TypeOptions) error {
	return direct(el.Document()).Type(ctx, el, text, opts...)
}

// Clear deletes the content of el.
func Clear(ctx context.Context, el *dom.Node) error {
	return direct(el.Document()).Clear(ctx, el)
}

// Paste pastes text into el.
func Paste(ctx context.Context, el *dom.Node, text string) error {
	return direct(el.Document()).Paste(ctx, el, text)
}

// Upload picks files through el.
func Upload(ctx context.Context, el *dom.Node, files ...*dom.File) error {
	return direct(el.Document()).Upload(ctx, el, files...)
}

// SelectOptions selects options of el.
func SelectOptions(ctx context.Context, el *dom.Node, values ...string) error {
	return direct(el.Document()).SelectOptions(ctx, el, values...)
}

// DeselectOptions deselects options of el.
func DeselectOptions(ctx context.Context, el *dom.Node, values ...string) error {
	return direct(el.Document()).DeselectOptions(ctx, el, values...)
}

// Keyboard types text on the focused element of doc.
func Keyboard(ctx context.Context, doc *dom.Document, text string) (*KeyboardState, error) {
	return direct(doc).Keyboard(ctx, text)
}

// Pointer performs pointer actions on doc.
func Pointer(ctx context.Context, doc *dom.Document, actions ...PointerAction) (*PointerState, error) {
	return direct(doc).Pointer(ctx, actions...)
}

// Tab moves focus on doc.
func Tab(ctx context.Context, doc *dom.Document, opts ...TabOptions) error {
	return direct(doc).Tab(ctx, opts...)
}
