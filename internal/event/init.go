// internal/event/init.go
package event

import "github.com/xkilldash9x/userevent/internal/dom"

// Bubbles overrides the bubbles flag.
func Bubbles(b bool) Init { return func(ev *dom.Event) { ev.Bubbles = b } }

// Cancelable overrides the cancelable flag.
func Cancelable(b bool) Init { return func(ev *dom.Event) { ev.Cancelable = b } }

// Detail sets the UIEvent detail.
func Detail(n int) Init { return func(ev *dom.Event) { ev.Detail = n } }

// Related sets the relatedTarget.
func Related(n *dom.Node) Init { return func(ev *dom.Event) { ev.RelatedTarget = n } }

// InputData sets inputType and data of an InputEvent.
func InputData(inputType, data string) Init {
	return func(ev *dom.Event) {
		ev.InputType = inputType
		ev.Data = data
	}
}

// WithDataTransfer sets the dataTransfer of an InputEvent or DragEvent.
func WithDataTransfer(dt *dom.DataTransfer) Init {
	return func(ev *dom.Event) { ev.DataTransfer = dt }
}

// WithClipboardData sets the clipboardData of a ClipboardEvent.
func WithClipboardData(dt *dom.DataTransfer) Init {
	return func(ev *dom.Event) { ev.ClipboardData = dt }
}

// KeyInit carries the KeyboardEvent fields.
type KeyInit struct {
	Key      string
	Code     string
	Location int
	KeyCode  int
	CharCode int
	Repeat   bool
}

// Key sets the KeyboardEvent fields.
func Key(k KeyInit) Init {
	return func(ev *dom.Event) {
		ev.Key = k.Key
		ev.Code = k.Code
		ev.Location = k.Location
		ev.KeyCode = k.KeyCode
		ev.CharCode = k.CharCode
		ev.Repeat = k.Repeat
	}
}

// MouseInit carries the MouseEvent and PointerEvent fields.
type MouseInit struct {
	Button      int
	Buttons     int
	Detail      int
	ClientX     float64
	ClientY     float64
	OffsetX     float64
	OffsetY     float64
	PageX       float64
	PageY       float64
	ScreenX     float64
	ScreenY     float64
	PointerID   int
	PointerType string
	IsPrimary   bool
	Width       float64
	Height      float64
	Pressure    float64
}

// Mouse sets the MouseEvent fields and, for pointer events, the PointerEvent fields.
func Mouse(m MouseInit) Init {
	return func(ev *dom.Event) {
		ev.Button = m.Button
		ev.Buttons = m.Buttons
		ev.Detail = m.Detail
		ev.ClientX, ev.ClientY = m.ClientX, m.ClientY
		ev.OffsetX, ev.OffsetY = m.OffsetX, m.OffsetY
		ev.PageX, ev.PageY = m.PageX, m.PageY
		ev.ScreenX, ev.ScreenY = m.ScreenX, m.ScreenY
		if ev.Interface == dom.InterfacePointerEvent {
			ev.PointerID = m.PointerID
			ev.PointerType = m.PointerType
			ev.IsPrimary = m.IsPrimary
			if m.Width > 0 {
				ev.Width = m.Width
			}
			if m.Height > 0 {
				ev.Height = m.Height
			}
			ev.Pressure = m.Pressure
		}
	}
}
