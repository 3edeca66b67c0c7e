// internal/dom/errors.go
package dom

import "fmt"

// InvalidStateError is returned when an API is used on a node that does not support it.
type InvalidStateError struct {
	Op   string
	Node *Node
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("failed to execute '%s' on %s: the element does not support this operation", e.Op, e.Node)
}

// IndexSizeError is returned when a boundary point offset exceeds the node length.
type IndexSizeError struct {
	Node   *Node
	Offset int
}

func (e *IndexSizeError) Error() string {
	return fmt.Sprintf("offset %d is larger than the length of %s (%d)", e.Offset, e.Node, e.Node.Length())
}

// SelectorError wraps an invalid CSS or XPath selector.
type SelectorError struct {
	Selector string
	Err      error
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("invalid selector '%s': %v", e.Selector, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *SelectorError) Unwrap() error { return e.Err }
