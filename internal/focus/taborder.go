// internal/focus/taborder.go
package focus

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/elements"
)

// TabDestination returns the element that receives focus when the user
// presses Tab (or Shift+Tab) while active is focused.
//
// Candidates match the focusable selector and are neither disabled nor
// taken out of the sequence by a negative tabindex. Positive tabindex values
// come first in ascending order, followed by tabindex 0 and unset in document
// order. A radio group contributes the active radio, else its checked radio,
// else every member. Without a trap the body precedes the candidates, so
// tabbing past the last element lands on the body; with a trap the sequence
// cycles inside it.
func TabDestination(active *dom.Node, shift bool, trap *dom.Node) *dom.Node {
	doc := active.Document()
	root := doc.Node()
	if trap != nil {
		root = trap
	}

	var candidates []*dom.Node
	for _, el := range root.QuerySelectorAllGroup(elements.FocusableGroup()) {
		if el == active || (tabIndexOf(el) >= 0 && !elements.IsDisabled(el)) {
			candidates = append(candidates, el)
		}
	}

	// tabindex has no effect while the active element is out of the sequence.
	if tabIndexOf(active) >= 0 {
		sort.SliceStable(candidates, func(a, b int) bool {
			i, j := tabIndexOf(candidates[a]), tabIndexOf(candidates[b])
			switch {
			case i == j:
				return false
			case i == 0:
				return false
			case j == 0:
				return true
			}
			return i < j
		})
	}

	var pruned []*dom.Node
	if trap == nil {
		pruned = append(pruned, doc.Body())
	}
	pruned = pruneRadioGroups(pruned, candidates, active)

	index := -1
	for i, el := range pruned {
		if el == active {
			index = i
			break
		}
	}
	if len(pruned) == 0 {
		return doc.Body()
	}
	if index < 0 && shift {
		index = len(pruned)
	}

	for range len(pruned) + 1 {
		if shift {
			index--
		} else {
			index++
		}
		if index >= len(pruned) {
			index = 0
		} else if index < 0 {
			index = len(pruned) - 1
		}
		el := pruned[index]
		if el == active {
			return doc.Body()
		}
		if el == doc.Body() || elements.IsVisible(el) {
			return el
		}
	}
	return doc.Body()
}

func pruneRadioGroups(pruned, candidates []*dom.Node, active *dom.Node) []*dom.Node {
	activeGroup := ""
	if active.IsInput("radio") {
		activeGroup = active.Attr("name")
	}
	checked := make(map[string]bool)

	for _, el := range candidates {
		name := el.Attr("name")
		if !el.IsInput("radio") || name == "" {
			pruned = append(pruned, el)
			continue
		}
		switch {
		case el == active:
			pruned = append(pruned, el)
		case name == activeGroup:
		case el.Checked():
			kept := pruned[:0]
			for _, p := range pruned {
				if !p.IsInput("radio") || p.Attr("name") != name {
					kept = append(kept, p)
				}
			}
			pruned = append(kept, el)
			checked[name] = true
		case checked[name]:
		default:
			pruned = append(pruned, el)
		}
	}
	return pruned
}

// tabIndexOf reads the tabindex attribute the way Number() would: missing,
// empty and unparsable values count as 0.
func tabIndexOf(el *dom.Node) int {
	v, ok := el.GetAttribute("tabindex")
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return i
}
