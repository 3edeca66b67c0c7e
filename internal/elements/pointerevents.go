// internal/elements/pointerevents.go
package elements

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// PointerEventsError reports a target that has or inherits `pointer-events: none`.
type PointerEventsError struct {
	Element *dom.Node
	// Tree runs from the element up to the ancestor declaring the value.
	Tree []*dom.Node
	// Action names the convenience API that asserted the check, if any.
	Action string
}

// Inherited reports whether the value was declared on an ancestor.
func (e *PointerEventsError) Inherited() bool { return len(e.Tree) > 1 }

func (e *PointerEventsError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("unable to %s element as it has or inherits pointer-events: none", e.Action)
	}
	verb := "has"
	if e.Inherited() {
		verb = "inherits"
	}
	return fmt.Sprintf("Unable to perform pointer interaction as the element %s `pointer-events: none`:\n\n%s", verb, printTree(e.Tree))
}

// CheckPointerEvents reports whether pointer events reach the element. When
// they do not, the returned tree runs from el to the declaring ancestor.
func CheckPointerEvents(el *dom.Node) (bool, []*dom.Node) {
	doc := el.Document()
	var tree []*dom.Node
	for e := el; e != nil && e.IsElement(); e = e.ParentElement() {
		tree = append(tree, e)
		v, ok := doc.ComputedStyle(e).DeclaredValue("pointer-events")
		if !ok {
			continue
		}
		switch v {
		case "inherit", "unset":
			continue
		case "none":
			return false, tree
		default:
			return true, nil
		}
	}
	return true, nil
}

// AssertPointerEvents returns a *PointerEventsError when pointer events do not reach el.
func AssertPointerEvents(el *dom.Node) error {
	if ok, tree := CheckPointerEvents(el); !ok {
		return &PointerEventsError{Element: el, Tree: tree}
	}
	return nil
}

// printTree renders the tree outermost first, one element per line.
func printTree(tree []*dom.Node) string {
	lines := make([]string, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		depth := len(tree) - 1 - i
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", depth))
		sb.WriteString(tree[i].String())
		if label := labelDescription(tree[i]); label != "" {
			sb.WriteString(label)
		}
		if len(tree) > 1 && depth == 0 {
			sb.WriteString("  <-- This element declared `pointer-events: none`")
		}
		if len(tree) > 1 && i == 0 {
			sb.WriteString("  <-- Asserted pointer events here")
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

func labelDescription(el *dom.Node) string {
	if v := el.Attr("aria-label"); v != "" {
		return fmt.Sprintf("(label=%s)", v)
	}
	for _, l := range el.Labels() {
		if text := strings.TrimSpace(l.TextContent()); text != "" {
			return fmt.Sprintf("(label=%s)", text)
		}
	}
	return ""
}
