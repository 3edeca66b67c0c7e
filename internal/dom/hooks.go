// internal/dom/hooks.go
package dom

// WriteSource tells hooks who changed a value or selection.
type WriteSource int

const (
	// SourceScript is a write by application code.
	SourceScript WriteSource = iota
	// SourceUI is a write performed on behalf of the simulated user.
	SourceUI
)

// ValueHook observes writes to the value of a form control.
type ValueHook func(n *Node, value string, src WriteSource)

// SelectionHook observes writes to the selection of a text control.
type SelectionHook func(n *Node, start, end int, src WriteSource)

// OnValueWrite registers a hook called after every value write.
func (d *Document) OnValueWrite(h ValueHook) {
	d.valueHooks = append(d.valueHooks, h)
}

// OnSelectionWrite registers a hook called after every text control selection write.
func (d *Document) OnSelectionWrite(h SelectionHook) {
	d.selectionHooks = append(d.selectionHooks, h)
}

func (d *Document) notifyValue(n *Node, value string, src WriteSource) {
	for _, h := range d.valueHooks {
		h(n, value, src)
	}
}

func (d *Document) notifySelection(n *Node, start, end int, src WriteSource) {
	for _, h := range d.selectionHooks {
		h(n, start, end, src)
	}
}
