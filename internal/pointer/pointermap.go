// internal/pointer/pointermap.go
package pointer

// Pointer types as reported by PointerEvent.pointerType.
const (
	TypeMouse = "mouse"
	TypeTouch = "touch"
	TypePen   = "pen"
)

// MouseButton is the MouseEvent.button value of a key.
type MouseButton int

const (
	ButtonPrimary   MouseButton = 0
	ButtonAuxiliary MouseButton = 1
	ButtonSecondary MouseButton = 2
	ButtonBack      MouseButton = 3
	ButtonForward   MouseButton = 4
)

// bit returns the MouseEvent.buttons flag of the button.
func (b MouseButton) bit() int {
	switch b {
	case ButtonPrimary:
		return 1
	case ButtonSecondary:
		return 2
	case ButtonAuxiliary:
		return 4
	case ButtonBack:
		return 8
	case ButtonForward:
		return 16
	}
	return 0
}

// Key is a button of a pointer device.
type Key struct {
	Name        string      `json:"name" yaml:"name"`
	PointerType string      `json:"pointerType" yaml:"pointerType"`
	Button      MouseButton `json:"button" yaml:"button"`
}

// Map lists the pointer keys of a session.
type Map []Key

// Find returns the key with the given name.
func (m Map) Find(name string) (Key, bool) {
	for _, k := range m {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// DefaultMap returns a three-button mouse and three touch points.
func DefaultMap() Map {
	return Map{
		{Name: "MouseLeft", PointerType: TypeMouse, Button: ButtonPrimary},
		{Name: "MouseRight", PointerType: TypeMouse, Button: ButtonSecondary},
		{Name: "MouseMiddle", PointerType: TypeMouse, Button: ButtonAuxiliary},
		{Name: "TouchA", PointerType: TypeTouch},
		{Name: "TouchB", PointerType: TypeTouch},
		{Name: "TouchC", PointerType: TypeTouch},
	}
}
