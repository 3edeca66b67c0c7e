// internal/keyboard/parse.go
package keyboard

import (
	"fmt"

	"github.com/xkilldash9x/userevent/internal/keydef"
)

// Action is one key of a keyboard sequence.
type Action struct {
	Def             KeyDef
	ReleasePrevious bool
	ReleaseSelf     bool
	Repeat          int
}

// Parse reads a descriptor string into actions. Keys missing from m get an
// Unknown definition carrying the given name.
func Parse(text string, m Map) ([]Action, error) {
	descriptors, err := keydef.ReadAll(text, keydef.Keyboard)
	if err != nil {
		return nil, fmt.Errorf("parsing keyboard input: %w", err)
	}
	actions := make([]Action, 0, len(descriptors))
	for _, d := range descriptors {
		def, ok := m.Find(d)
		if !ok {
			def = unknownKey(d)
		}
		actions = append(actions, Action{
			Def:             def,
			ReleasePrevious: d.ReleasePrevious,
			ReleaseSelf:     d.ReleaseSelf == nil || *d.ReleaseSelf,
			Repeat:          max(d.Repeat, 1),
		})
	}
	return actions, nil
}
