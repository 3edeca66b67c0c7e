// internal/elements/kind.go
package elements

import "github.com/xkilldash9x/userevent/internal/dom"

// Kind is the closed set of element categories the engines distinguish.
type Kind int

const (
	KindOther Kind = iota
	KindInputText
	KindInputCheckable
	KindInputClickable
	KindInputFile
	KindTextarea
	KindContentEditable
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindInputText:
		return "input-text"
	case KindInputCheckable:
		return "input-checkable"
	case KindInputClickable:
		return "input-clickable"
	case KindInputFile:
		return "input-file"
	case KindTextarea:
		return "textarea"
	case KindContentEditable:
		return "contenteditable"
	case KindSelect:
		return "select"
	}
	return "other"
}

// Capabilities is a set of flags describing what an element supports.
type Capabilities uint16

const (
	CapFocusable Capabilities = 1 << iota
	CapDisabled
	CapEditable
	CapReadOnly
	CapOwnSelection
	CapSelectionRange
	CapClickable
	CapMaxLength
	CapVisible
)

// Info is an element classified once per interaction.
type Info struct {
	Node *dom.Node
	Kind Kind
	Caps Capabilities
}

// Has reports whether all given capabilities are present.
func (i Info) Has(c Capabilities) bool { return i.Caps&c == c }

// Classify resolves the kind and capabilities of an element.
func Classify(el *dom.Node) Info {
	info := Info{Node: el, Kind: kindOf(el)}
	flag := func(c Capabilities, on bool) {
		if on {
			info.Caps |= c
		}
	}
	flag(CapFocusable, IsFocusable(el))
	flag(CapDisabled, IsDisabled(el))
	flag(CapEditable, IsEditable(el))
	flag(CapReadOnly, el.ReadOnly())
	flag(CapOwnSelection, HasOwnSelection(el))
	flag(CapSelectionRange, SupportsSelectionRange(el))
	flag(CapClickable, IsClickableInput(el))
	flag(CapMaxLength, SupportsMaxLength(el))
	flag(CapVisible, IsVisible(el))
	return info
}

func kindOf(el *dom.Node) Kind {
	switch el.TagName() {
	case "input":
		switch t := el.InputType(); {
		case t == "checkbox" || t == "radio":
			return KindInputCheckable
		case t == "file":
			return KindInputFile
		case clickableInputTypes[t]:
			return KindInputClickable
		case editableInputTypes[t]:
			return KindInputText
		}
		return KindOther
	case "textarea":
		return KindTextarea
	case "select":
		return KindSelect
	case "button":
		return KindInputClickable
	}
	if GetContentEditable(el) != nil {
		return KindContentEditable
	}
	return KindOther
}
