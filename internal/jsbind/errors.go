// internal/jsbind/errors.go
package jsbind

// ScriptError is an exception thrown by page script. Listener exceptions
// are collected on the bridge instead of interrupting the dispatch.
type ScriptError struct {
	Message string
	Err     error
}

func (e *ScriptError) Error() string {
	return "javascript exception: " + e.Message
}

// Unwrap provides the underlying goja exception.
func (e *ScriptError) Unwrap() error {
	return e.Err
}
