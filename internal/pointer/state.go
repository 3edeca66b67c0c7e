// internal/pointer/state.go
package pointer

import (
	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
)

// MousePointer is the name of the session's mouse.
const MousePointer = "mouse"

const mousePointerID = 1

// Coords is a pointer location in the coordinate spaces of MouseEvent.
// X and Y stand in for the client coordinates when those are unset.
type Coords struct {
	X, Y             float64
	ClientX, ClientY float64
	OffsetX, OffsetY float64
	PageX, PageY     float64
	ScreenX, ScreenY float64
}

func (c Coords) client() (float64, float64) {
	x, y := c.ClientX, c.ClientY
	if x == 0 {
		x = c.X
	}
	if y == 0 {
		y = c.Y
	}
	return x, y
}

// Pressed is a button or touch point held down.
type Pressed struct {
	Key         Key
	PointerName string
	PointerID   int
	DownTarget  *dom.Node
	IsPrimary   bool
	// IsMultiTouch is set once another touch of the same device was down
	// at the same time.
	IsMultiTouch bool
	// ClickCount is the count at the time of the press.
	ClickCount         int
	UnpreventedDefault bool

	pointerPrevented bool
}

// Position is the last known location of a pointer.
type Position struct {
	PointerID   int
	PointerType string
	Target      *dom.Node
	Coords      Coords
	Caret       edit.Caret
	// Selecting is the selection a held press started, extended by moves.
	Selecting *edit.MouseSelection
}

// ClickCount counts consecutive presses of one key on one target.
type ClickCount struct {
	Name   string
	Target *dom.Node
	Count  int
}

// State is the pointer devices of one session. It is not safe for
// concurrent use.
type State struct {
	pressed          []*Pressed
	positions        map[string]*Position
	ActiveClickCount *ClickCount
	NextPointerID    int
}

// NewState returns a state with the mouse at no position.
func NewState() *State {
	return &State{
		positions: map[string]*Position{
			MousePointer: {PointerID: mousePointerID, PointerType: TypeMouse},
		},
		NextPointerID: mousePointerID + 1,
	}
}

// Pressed returns the held keys in press order.
func (s *State) Pressed() []Pressed {
	out := make([]Pressed, len(s.pressed))
	for i, p := range s.pressed {
		out[i] = *p
	}
	return out
}

// IsPressed reports whether the key is held.
func (s *State) IsPressed(name string) bool { return s.find(name) != nil }

// Position returns the last known position of a pointer.
func (s *State) Position(name string) (Position, bool) {
	p, ok := s.positions[name]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

func (s *State) find(name string) *Pressed {
	for _, p := range s.pressed {
		if p.Key.Name == name {
			return p
		}
	}
	return nil
}

func (s *State) remove(p *Pressed) {
	for i, q := range s.pressed {
		if q == p {
			s.pressed = append(s.pressed[:i], s.pressed[i+1:]...)
			return
		}
	}
}

// othersOfType reports whether a key other than except is held on a
// pointer of the given type.
func (s *State) othersOfType(pointerType string, except *Pressed) bool {
	for _, p := range s.pressed {
		if p != except && p.Key.PointerType == pointerType {
			return true
		}
	}
	return false
}

// resetClickCount forgets the previous presses. Keys still held keep the
// count of their press.
func (s *State) resetClickCount() { s.ActiveClickCount = nil }

// buttons is the MouseEvent.buttons mask of the held keys of a pointer type.
func (s *State) buttons(pointerType string) int {
	mask := 0
	for _, p := range s.pressed {
		if p.Key.PointerType == pointerType {
			mask |= p.Key.Button.bit()
		}
	}
	return mask
}

// nextClickCount advances the click count for a press of name on target. A
// press of another key or on another target starts counting anew.
func (s *State) nextClickCount(name string, target *dom.Node) int {
	c := s.ActiveClickCount
	if c == nil || c.Name != name || c.Target != target {
		s.ActiveClickCount = &ClickCount{Name: name, Target: target}
	}
	s.ActiveClickCount.Count++
	return s.ActiveClickCount.Count
}
