package schemas

// -- Common Schemas --

// KeyModifier represents keyboard modifiers (Ctrl, Alt, Shift, Meta).
// These values correspond directly to the CDP input.DispatchKeyEvent modifiers bitfield.
type KeyModifier int

const (
	ModNone  KeyModifier = 0
	ModAlt   KeyModifier = 1 // Corresponds to CDP modifier 1
	ModCtrl  KeyModifier = 2 // Corresponds to CDP modifier 2
	ModMeta  KeyModifier = 4 // Corresponds to CDP modifier 4
	ModShift KeyModifier = 8 // Corresponds to CDP modifier 8
)

// ModifiersOf builds the bitfield from the modifier flags of an event.
func ModifiersOf(alt, ctrl, meta, shift bool) KeyModifier {
	m := ModNone
	if alt {
		m |= ModAlt
	}
	if ctrl {
		m |= ModCtrl
	}
	if meta {
		m |= ModMeta
	}
	if shift {
		m |= ModShift
	}
	return m
}

// Has reports whether all bits of o are set.
func (m KeyModifier) Has(o KeyModifier) bool { return m&o == o }

// RunStatus is the outcome of a scenario run.
type RunStatus string

const (
	StatusPassed RunStatus = "passed"
	StatusFailed RunStatus = "failed"
	StatusError  RunStatus = "error"
)
