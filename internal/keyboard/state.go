// internal/keyboard/state.go
package keyboard

import "github.com/xkilldash9x/userevent/internal/dom"

var modifierKeys = []string{"Alt", "AltGraph", "Control", "Fn", "Meta", "Shift", "Symbol"}

var lockKeys = []string{"CapsLock", "FnLock", "NumLock", "ScrollLock", "SymbolLock"}

func isModifier(key string) bool {
	for _, m := range modifierKeys {
		if m == key {
			return true
		}
	}
	return false
}

func isLock(key string) bool {
	for _, l := range lockKeys {
		if l == key {
			return true
		}
	}
	return false
}

// PressedKey is a key held down by the simulated user.
type PressedKey struct {
	Def KeyDef
	// UnpreventedDefault records whether the key's keydown was not canceled.
	UnpreventedDefault bool
}

// State is the keyboard of one session. It is not safe for concurrent use.
type State struct {
	pressed []PressedKey
	locks   map[string]bool
	// lockPhase marks locks switched on by the current press, so the
	// matching keyup leaves them on.
	lockPhase map[string]bool

	// ActiveElement is the element that received the last keydown.
	ActiveElement *dom.Node
	// CarryValue is the partially typed value of a date or time input.
	CarryValue string
}

// NewState returns a keyboard with no keys held and all locks off.
func NewState() *State {
	return &State{
		locks:     make(map[string]bool),
		lockPhase: make(map[string]bool),
	}
}

// Pressed returns the held keys in the order they were pressed.
func (s *State) Pressed() []PressedKey {
	return append([]PressedKey(nil), s.pressed...)
}

// IsPressed reports whether def is held.
func (s *State) IsPressed(def KeyDef) bool { return s.index(def) >= 0 }

func (s *State) index(def KeyDef) int {
	for i, p := range s.pressed {
		if p.Def.Key == def.Key && p.Def.Code == def.Code {
			return i
		}
	}
	return -1
}

func (s *State) get(def KeyDef) (PressedKey, bool) {
	if i := s.index(def); i >= 0 {
		return s.pressed[i], true
	}
	return PressedKey{}, false
}

// press adds def to the held keys, keeping its position when it is held already.
func (s *State) press(def KeyDef) {
	if s.index(def) < 0 {
		s.pressed = append(s.pressed, PressedKey{Def: def, UnpreventedDefault: true})
	}
	if isLock(def.Key) && !s.locks[def.Key] {
		s.locks[def.Key] = true
		s.lockPhase[def.Key] = true
	}
}

func (s *State) setUnprevented(def KeyDef, unprevented bool) {
	if i := s.index(def); i >= 0 {
		s.pressed[i].UnpreventedDefault = unprevented
	}
}

func (s *State) release(def KeyDef) {
	if i := s.index(def); i >= 0 {
		s.pressed = append(s.pressed[:i], s.pressed[i+1:]...)
	}
	if isLock(def.Key) {
		if !s.lockPhase[def.Key] {
			s.locks[def.Key] = false
		}
		s.lockPhase[def.Key] = false
	}
}

// Modifier reports whether a modifier key is held or a lock is on.
func (s *State) Modifier(name string) bool {
	if isLock(name) {
		return s.locks[name]
	}
	for _, p := range s.pressed {
		if p.Def.Key == name {
			return true
		}
	}
	return false
}

// Modifiers returns the state of every modifier and lock key.
func (s *State) Modifiers() map[string]bool {
	mods := make(map[string]bool, len(modifierKeys)+len(lockKeys))
	for _, m := range modifierKeys {
		mods[m] = false
	}
	for _, p := range s.pressed {
		if isModifier(p.Def.Key) {
			mods[p.Def.Key] = true
		}
	}
	for _, l := range lockKeys {
		mods[l] = s.locks[l]
	}
	return mods
}
