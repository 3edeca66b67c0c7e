// internal/pointer/parse.go
package pointer

import (
	"fmt"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/keydef"
)

// Action is one step of a pointer sequence. Without Keys it moves the
// pointer; otherwise Keys holds button descriptors pressed and released at
// the action's position. Unset fields keep the pointer's last position.
type Action struct {
	Keys        string
	PointerName string
	Target      *dom.Node
	Coords      *Coords
	// Node and Offset place the caret for selection; Offset without Node
	// counts characters of the target's text.
	Node      *dom.Node
	Offset    int
	HasOffset bool
}

// KeyAction is a parsed button descriptor.
type KeyAction struct {
	Key             Key
	ReleasePrevious bool
	ReleaseSelf     bool
}

// Parse reads button descriptors. Names missing from m are skipped.
func Parse(text string, m Map) ([]KeyAction, error) {
	descriptors, err := keydef.ReadAll(text, keydef.Pointer)
	if err != nil {
		return nil, fmt.Errorf("parsing pointer input: %w", err)
	}
	actions := make([]KeyAction, 0, len(descriptors))
	for _, d := range descriptors {
		key, ok := m.Find(d.Name)
		if !ok {
			continue
		}
		actions = append(actions, KeyAction{
			Key:             key,
			ReleasePrevious: d.ReleasePrevious,
			ReleaseSelf:     d.ReleaseSelf == nil || *d.ReleaseSelf,
		})
	}
	return actions, nil
}
