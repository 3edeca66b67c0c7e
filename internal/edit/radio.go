// internal/edit/radio.go
package edit

import (
	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/focus"
)

// WalkRadio moves to the next enabled radio of el's group in direction,
// wrapping around, then focuses and clicks it.
func (e *Editor) WalkRadio(el *dom.Node, direction int) {
	group := radioGroup(el)
	current := -1
	for i, r := range group {
		if r == el {
			current = i
			break
		}
	}
	if current < 0 || len(group) < 2 {
		return
	}
	for i := current + direction; ; i += direction {
		if i >= len(group) {
			i = 0
		} else if i < 0 {
			i = len(group) - 1
		}
		next := group[i]
		if next == el {
			return
		}
		if elements.IsDisabled(next) {
			continue
		}
		focus.FocusElement(next)
		e.dispatch.DispatchUI(next, "click")
		return
	}
}

// radioGroup lists the radios sharing el's name in document order. Radios
// without a name form one group.
func radioGroup(el *dom.Node) []*dom.Node {
	name := el.Attr("name")
	all, _ := el.Document().QuerySelectorAll("input")
	var group []*dom.Node
	for _, r := range all {
		if r.IsInput("radio") && r.Attr("name") == name {
			group = append(group, r)
		}
	}
	return group
}
