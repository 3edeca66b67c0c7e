package schemas

import "time"

// -- Scenario Schemas --

// Scenario is a replayable interaction script: a document, the steps a user
// performs on it and the state expected afterwards.
type Scenario struct {
	Name string `json:"name" yaml:"name"`
	// HTML is the inline markup. HTMLFile is read relative to the scenario
	// file when HTML is empty.
	HTML     string   `json:"html,omitempty" yaml:"html"`
	HTMLFile string   `json:"html_file,omitempty" yaml:"html_file"`
	Styles   []string `json:"styles,omitempty" yaml:"styles"`
	// Scripts run in order before the first step, with the document bound.
	Scripts []string        `json:"scripts,omitempty" yaml:"scripts"`
	Options ScenarioOptions `json:"options" yaml:"options"`
	Steps   []Step          `json:"steps" yaml:"steps"`
	Expect  []Expectation   `json:"expect,omitempty" yaml:"expect"`
}

// ScenarioOptions override the engine defaults of the configuration.
type ScenarioOptions struct {
	Delay                  *time.Duration `json:"delay,omitempty" yaml:"delay"`
	SkipClick              *bool          `json:"skip_click,omitempty" yaml:"skip_click"`
	SkipHover              *bool          `json:"skip_hover,omitempty" yaml:"skip_hover"`
	SkipAutoClose          *bool          `json:"skip_auto_close,omitempty" yaml:"skip_auto_close"`
	SkipPointerEventsCheck *bool          `json:"skip_pointer_events_check,omitempty" yaml:"skip_pointer_events_check"`
	ApplyAccept            *bool          `json:"apply_accept,omitempty" yaml:"apply_accept"`
}

// Step actions.
const (
	ActionClick       = "click"
	ActionDblClick    = "dblclick"
	ActionTripleClick = "tripleclick"
	ActionHover       = "hover"
	ActionUnhover     = "unhover"
	ActionType        = "type"
	ActionClear       = "clear"
	ActionKeyboard    = "keyboard"
	ActionPointer     = "pointer"
	ActionTab         = "tab"
	ActionCopy        = "copy"
	ActionCut         = "cut"
	ActionPaste       = "paste"
	ActionUpload      = "upload"
	ActionSelect      = "select"
	ActionDeselect    = "deselect"
)

// Step is one API call. Target selects the element with CSS, or with XPath
// when prefixed by "xpath:".
type Step struct {
	Action string `json:"action" yaml:"action"`
	Target string `json:"target,omitempty" yaml:"target"`
	// Text is typed, pressed or pasted.
	Text    string        `json:"text,omitempty" yaml:"text"`
	Values  []string      `json:"values,omitempty" yaml:"values"`
	Files   []FileSpec    `json:"files,omitempty" yaml:"files"`
	Pointer []PointerStep `json:"pointer,omitempty" yaml:"pointer"`
	// Shift and FocusTrap apply to tab.
	Shift     bool   `json:"shift,omitempty" yaml:"shift"`
	FocusTrap string `json:"focus_trap,omitempty" yaml:"focus_trap"`
	// SkipClick, SelectionStart and SelectionEnd apply to type.
	SkipClick      *bool `json:"skip_click,omitempty" yaml:"skip_click"`
	SelectionStart *int  `json:"selection_start,omitempty" yaml:"selection_start"`
	SelectionEnd   *int  `json:"selection_end,omitempty" yaml:"selection_end"`
	// ExpectError is a substring of the error the step must fail with.
	ExpectError string `json:"expect_error,omitempty" yaml:"expect_error"`
}

// PointerStep is one pointer action of a pointer step.
type PointerStep struct {
	Keys    string  `json:"keys,omitempty" yaml:"keys"`
	Pointer string  `json:"pointer_name,omitempty" yaml:"pointer_name"`
	Target  string  `json:"target,omitempty" yaml:"target"`
	Offset  *int    `json:"offset,omitempty" yaml:"offset"`
	X       float64 `json:"x,omitempty" yaml:"x"`
	Y       float64 `json:"y,omitempty" yaml:"y"`
}

// FileSpec describes a file handed to upload.
type FileSpec struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type,omitempty" yaml:"type"`
	Content string `json:"content,omitempty" yaml:"content"`
}

// Expectation asserts the final state of one element. Unset fields are not
// checked.
type Expectation struct {
	Target   string   `json:"target" yaml:"target"`
	Value    *string  `json:"value,omitempty" yaml:"value"`
	Text     *string  `json:"text,omitempty" yaml:"text"`
	Checked  *bool    `json:"checked,omitempty" yaml:"checked"`
	Focused  *bool    `json:"focused,omitempty" yaml:"focused"`
	Selected []string `json:"selected,omitempty" yaml:"selected"`
	Files    []string `json:"files,omitempty" yaml:"files"`
	// Events lists the types of all events dispatched on the target, in
	// order.
	Events []string `json:"events,omitempty" yaml:"events"`
	// Clipboard is compared with the text on the session clipboard.
	Clipboard *string `json:"clipboard,omitempty" yaml:"clipboard"`
}
