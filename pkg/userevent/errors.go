// pkg/userevent/errors.go
package userevent

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// ElementError reports an element an operation cannot be performed on.
type ElementError struct {
	Op      string
	Element *dom.Node
	Reason  string
}

func (e *ElementError) Error() string { return e.Reason }

func elementErrorf(op string, el *dom.Node, format string, args ...any) *ElementError {
	return &ElementError{Op: op, Element: el, Reason: fmt.Sprintf(format, args...)}
}

func upperTag(el *dom.Node) string {
	if el == nil {
		return ""
	}
	return strings.ToUpper(el.TagName())
}
