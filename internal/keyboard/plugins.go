// internal/keyboard/plugins.go
package keyboard

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/focus"
	"github.com/xkilldash9x/userevent/internal/uivalue"
)

// Phase is the key event a plugin reacts to.
type Phase int

const (
	Keydown Phase = iota
	Keypress
	Keyup
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case Keydown:
		return "keydown"
	case Keypress:
		return "keypress"
	case Keyup:
		return "keyup"
	}
	return "unknown"
}

// Plugin is the default action of a key on a kind of element. Matches sees
// the target classified once for the whole table.
type Plugin struct {
	Name    string
	Matches func(k KeyDef, el elements.Info, e *Engine) bool
	Handle  func(k KeyDef, el *dom.Node, e *Engine)
}

// Registry holds ordered plugin tables per phase. The first matching
// plugin of a phase handles the key.
type Registry struct {
	phases [phaseCount][]Plugin
}

// NewRegistry returns a registry without plugins.
func NewRegistry() *Registry { return &Registry{} }

// Add appends plugins to the table of a phase.
func (r *Registry) Add(p Phase, plugins ...Plugin) {
	r.phases[p] = append(r.phases[p], plugins...)
}

// Plugins returns the table of a phase in match order.
func (r *Registry) Plugins(p Phase) []Plugin {
	return append([]Plugin(nil), r.phases[p]...)
}

func (r *Registry) apply(p Phase, k KeyDef, el *dom.Node, e *Engine) bool {
	if len(r.phases[p]) == 0 {
		return false
	}
	info := elements.Classify(el)
	for _, plugin := range r.phases[p] {
		if plugin.Matches(k, info, e) {
			e.logger.Debug("Applying key behavior.",
				zap.String("plugin", plugin.Name),
				zap.Stringer("phase", p),
				zap.Stringer("target", el))
			plugin.Handle(k, el, e)
			return true
		}
	}
	return false
}

// group is a set of plugins for each phase.
type group struct {
	keydown, keypress, keyup []Plugin
}

// DefaultRegistry returns the browser default actions, grouped in the
// order arrow, control, functional, character.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, g := range []group{arrowPlugins, controlPlugins, functionalPlugins, characterPlugins} {
		r.Add(Keydown, g.keydown...)
		r.Add(Keypress, g.keypress...)
		r.Add(Keyup, g.keyup...)
	}
	return r
}

func keyIs(keys ...string) func(KeyDef) bool {
	return func(k KeyDef) bool {
		for _, key := range keys {
			if k.Key == key {
				return true
			}
		}
		return false
	}
}

func isPrintable(k KeyDef) bool { return utf8.RuneCountInString(k.Key) == 1 }

func hasTextSelection(el *dom.Node) bool {
	return elements.HasOwnSelection(el) || elements.GetContentEditable(el) != nil
}

func direction(k KeyDef) int {
	if k.Key == "ArrowLeft" || k.Key == "ArrowUp" {
		return -1
	}
	return 1
}

var arrowPlugins = group{
	keydown: []Plugin{
		{
			Name: "radio-walk",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return keyIs("ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight")(k) &&
					el.Kind == elements.KindInputCheckable && el.Node.IsInput("radio")
			},
			Handle: func(k KeyDef, el *dom.Node, e *Engine) {
				e.editor.WalkRadio(el, direction(k))
			},
		},
		{
			Name: "arrow-cursor",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return keyIs("ArrowLeft", "ArrowRight")(k) && hasTextSelection(el.Node)
			},
			Handle: func(k KeyDef, el *dom.Node, e *Engine) {
				e.editor.MoveSelection(el, direction(k))
			},
		},
	},
}

var controlPlugins = group{
	keydown: []Plugin{
		{
			Name: "home-end",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return keyIs("Home", "End")(k) && hasTextSelection(el.Node)
			},
			Handle: func(k KeyDef, el *dom.Node, e *Engine) {
				setCaretToEdge(e, el, k.Key == "End")
			},
		},
		{
			Name: "page-up-down",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return keyIs("PageUp", "PageDown")(k) && el.Node.Is("input") && el.Has(elements.CapOwnSelection)
			},
			Handle: func(k KeyDef, el *dom.Node, e *Engine) {
				setCaretToEdge(e, el, k.Key == "PageDown")
			},
		},
		{
			Name: "delete",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return k.Key == "Delete" && el.Has(elements.CapEditable)
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				e.editor.Input(el, "", edit.DeleteContentForward)
			},
		},
		{
			Name: "select-all",
			Matches: func(k KeyDef, _ elements.Info, e *Engine) bool {
				return k.Code == "KeyA" && e.state.Modifier("Control")
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				e.editor.SelectAll(el)
			},
		},
	},
}

// setCaretToEdge collapses the selection at the start or end of el's text.
func setCaretToEdge(e *Engine, el *dom.Node, end bool) {
	if elements.HasOwnSelection(el) {
		offset := 0
		if end {
			offset = utf8.RuneCountInString(e.editor.UI().GetUIValue(el))
		}
		e.editor.UI().SetUISelection(el, uivalue.Selection{AnchorOffset: offset, FocusOffset: offset}, uivalue.Replace)
		return
	}
	host := elements.GetContentEditable(el)
	pos := edit.Position{Node: host}
	if end {
		pos.Offset = len(host.ChildNodes())
	}
	e.editor.SetSelection(pos, pos)
}

var functionalPlugins = group{
	keydown: []Plugin{
		{
			Name: "backspace",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return k.Key == "Backspace" && el.Has(elements.CapEditable)
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				inputType := edit.DeleteContentBack
				if e.state.Modifier("Control") {
					inputType = edit.DeleteWordBackward
				}
				e.editor.Input(el, "", inputType)
			},
		},
		{
			Name:    "tab",
			Matches: func(k KeyDef, _ elements.Info, _ *Engine) bool { return k.Key == "Tab" },
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				dest := focus.TabDestination(el, e.state.Modifier("Shift"), e.trap)
				if dest == nil {
					return
				}
				focus.FocusElement(dest)
				if elements.HasOwnSelection(dest) {
					length := utf8.RuneCountInString(e.editor.UI().GetUIValue(dest))
					e.editor.UI().SetUISelection(dest, uivalue.Selection{AnchorOffset: 0, FocusOffset: length}, uivalue.Replace)
				}
			},
		},
	},
	keypress: []Plugin{
		{
			Name: "enter-click",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return k.Key == "Enter" &&
					(el.Has(elements.CapClickable) || (el.Node.Is("a") && el.Node.HasAttribute("href")))
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				e.dispatch.DispatchUI(el, "click")
			},
		},
		{
			Name: "enter-submit",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return k.Key == "Enter" && el.Node.Is("input") && el.Node.Form() != nil
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				form := el.Form()
				if submit, _ := form.QuerySelector(`input[type="submit"], button:not([type]), button[type="submit"]`); submit != nil {
					e.dispatch.DispatchUI(submit, "click")
					return
				}
				if !implicitSubmissionTypes[el.InputType()] {
					return
				}
				inputs, _ := form.QuerySelectorAll("input")
				if len(inputs) == 1 {
					e.dispatch.DispatchUI(form, "submit")
				}
			},
		},
	},
	keyup: []Plugin{
		{
			Name: "space-click",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return k.Key == " " && el.Has(elements.CapClickable)
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				e.dispatch.DispatchUI(el, "click")
			},
		},
	},
}

// implicitSubmissionTypes are the input types whose Enter submits a form
// with a single input.
var implicitSubmissionTypes = map[string]bool{
	"email": true, "month": true, "password": true, "search": true,
	"tel": true, "text": true, "url": true, "week": true,
}

var characterPlugins = group{
	keypress: []Plugin{
		{
			Name: "datetime-carry",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return isPrintable(k) && el.Has(elements.CapEditable) && edit.IsDateOrTime(el.Node)
			},
			Handle: func(k KeyDef, el *dom.Node, e *Engine) {
				if e.editor.UI().GetUIValue(el) == "" {
					e.state.CarryValue = ""
				}
				e.state.CarryValue += k.Key
				e.editor.ComposeDateTime(el, e.state.CarryValue)
			},
		},
		{
			Name: "enter-newline",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return k.Key == "Enter" && el.Has(elements.CapEditable) &&
					(el.Kind == elements.KindTextarea || elements.GetContentEditable(el.Node) != nil)
			},
			Handle: func(_ KeyDef, el *dom.Node, e *Engine) {
				inputType := edit.InsertLineBreak
				if elements.GetContentEditable(el) != nil && !e.state.Modifier("Shift") {
					inputType = edit.InsertParagraph
				}
				e.editor.Input(el, "\n", inputType)
			},
		},
		{
			Name: "text",
			Matches: func(k KeyDef, el elements.Info, _ *Engine) bool {
				return isPrintable(k) && el.Has(elements.CapEditable)
			},
			Handle: func(k KeyDef, el *dom.Node, e *Engine) {
				e.editor.Input(el, k.Key, edit.InsertText)
			},
		},
	},
}
