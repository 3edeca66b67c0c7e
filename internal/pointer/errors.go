// internal/pointer/errors.go
package pointer

import "fmt"

// NoPositionError is returned when an action omits its target and the
// pointer was never placed.
type NoPositionError struct {
	PointerName string
}

func (e *NoPositionError) Error() string {
	return "This pointer has no previous position. Provide a target property!"
}

// UnknownPointerError is returned when a move names a pointer that was
// never pressed.
type UnknownPointerError struct {
	PointerName string
}

func (e *UnknownPointerError) Error() string {
	return fmt.Sprintf("Trying to access pointer %q which does not exist.", e.PointerName)
}
