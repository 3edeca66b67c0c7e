// internal/dom/forms.go
package dom

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var knownInputTypes = map[string]bool{
	"hidden": true, "text": true, "search": true, "tel": true, "url": true, "email": true,
	"password": true, "date": true, "month": true, "week": true, "time": true,
	"datetime-local": true, "number": true, "range": true, "color": true, "checkbox": true,
	"radio": true, "file": true, "submit": true, "image": true, "reset": true, "button": true,
}

// InputType returns the state of the type attribute of an <input>, "text" when missing or invalid.
func (n *Node) InputType() string {
	if !n.Is("input") {
		return ""
	}
	t := strings.ToLower(strings.TrimSpace(n.Attr("type")))
	if knownInputTypes[t] {
		return t
	}
	return "text"
}

// ButtonType returns the type of a <button>, "submit" by default.
func (n *Node) ButtonType() string {
	switch t := strings.ToLower(n.Attr("type")); t {
	case "reset", "button":
		return t
	}
	return "submit"
}

type valueMode int

const (
	modeNone valueMode = iota
	modeValue
	modeDefault
	modeDefaultOn
	modeFilename
)

func (n *Node) valueMode() valueMode {
	if !n.Is("input") {
		return modeNone
	}
	switch n.InputType() {
	case "hidden", "submit", "image", "reset", "button":
		return modeDefault
	case "checkbox", "radio":
		return modeDefaultOn
	case "file":
		return modeFilename
	}
	return modeValue
}

// HasValue reports whether the element exposes a value property.
func (n *Node) HasValue() bool {
	return n.Is("input", "textarea", "select", "option", "button", "output", "data", "li", "meter", "progress", "param")
}

// Value returns the IDL value of a form control.
func (n *Node) Value() string {
	switch n.TagName() {
	case "input":
		switch n.valueMode() {
		case modeValue:
			if n.valueDirty {
				return n.value
			}
			return SanitizeValue(n.InputType(), n.Attr("value"))
		case modeDefaultOn:
			if v, ok := n.GetAttribute("value"); ok {
				return v
			}
			return "on"
		case modeFilename:
			if len(n.files) == 0 {
				return ""
			}
			return `C:\fakepath\` + n.files[0].Name
		default:
			return n.Attr("value")
		}
	case "textarea":
		if n.valueDirty {
			return n.value
		}
		return normalizeNewlines(n.TextContent())
	case "select":
		for _, o := range n.SelectedOptions() {
			return o.Value()
		}
		return ""
	case "option":
		if v, ok := n.GetAttribute("value"); ok {
			return v
		}
		return strings.Join(strings.Fields(n.TextContent()), " ")
	}
	return n.Attr("value")
}

// SetValue writes the value as application code would.
func (n *Node) SetValue(v string) { n.WriteValue(v, SourceScript) }

// WriteValue writes the value of a form control and notifies the value hooks.
func (n *Node) WriteValue(v string, src WriteSource) {
	switch n.TagName() {
	case "input":
		switch n.valueMode() {
		case modeValue:
			old := n.Value()
			n.value = SanitizeValue(n.InputType(), v)
			n.valueDirty = true
			if n.value != old {
				end := utf8.RuneCountInString(n.value)
				n.selStart, n.selEnd, n.selDir, n.selInit = end, end, "none", true
			}
		case modeFilename:
			if v == "" {
				n.files = nil
			}
		default:
			n.SetAttribute("value", v)
		}
	case "textarea":
		old := n.Value()
		n.value = normalizeNewlines(v)
		n.valueDirty = true
		if n.value != old {
			end := utf8.RuneCountInString(n.value)
			n.selStart, n.selEnd, n.selDir, n.selInit = end, end, "none", true
		}
	case "select":
		matched := false
		for _, o := range n.Options() {
			o.selected = !matched && o.Value() == v
			o.selectedDirty = true
			matched = matched || o.selected
		}
	case "":
		return
	default:
		n.SetAttribute("value", v)
	}
	n.doc.notifyValue(n, v, src)
}

// DefaultValue returns the value attribute of an input or the text of a textarea.
func (n *Node) DefaultValue() string {
	if n.Is("textarea") {
		return normalizeNewlines(n.TextContent())
	}
	return n.Attr("value")
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

// -- checkedness --

// Checked returns the checkedness of a checkbox or radio button.
func (n *Node) Checked() bool {
	if !n.IsInput("checkbox", "radio") {
		return false
	}
	if n.checkedDirty {
		return n.checked
	}
	return n.HasAttribute("checked")
}

// SetChecked sets the checkedness. Checking a radio button unchecks the rest of its group.
func (n *Node) SetChecked(checked bool) {
	if !n.IsInput("checkbox", "radio") {
		return
	}
	n.checked = checked
	n.checkedDirty = true
	if checked && n.IsInput("radio") {
		for _, other := range n.RadioGroup() {
			if other != n {
				other.checked = false
				other.checkedDirty = true
			}
		}
	}
}

// Indeterminate returns the indeterminate flag of a checkbox.
func (n *Node) Indeterminate() bool { return n.indeterminate }

// SetIndeterminate sets the indeterminate flag of a checkbox.
func (n *Node) SetIndeterminate(v bool) { n.indeterminate = v }

// RadioGroup returns the radio buttons sharing n's group, including n.
func (n *Node) RadioGroup() []*Node {
	name := n.Attr("name")
	if !n.IsInput("radio") || name == "" {
		return []*Node{n}
	}
	root := n.treeRoot()
	form := n.Form()
	var group []*Node
	root.walk(func(c *Node) bool {
		if c.IsInput("radio") && c.Attr("name") == name && c.Form() == form {
			group = append(group, c)
		}
		return true
	})
	return group
}

func (n *Node) treeRoot() *Node {
	r := n
	for p := r.Parent(); p != nil; p = r.Parent() {
		r = p
	}
	return r
}

// -- select and option --

// Multiple reports whether a select accepts several selected options.
func (n *Node) Multiple() bool { return n.HasAttribute("multiple") }

// Options returns the option elements of a select or datalist.
func (n *Node) Options() []*Node {
	var out []*Node
	for _, d := range n.Descendants() {
		if d.Is("option") {
			out = append(out, d)
		}
	}
	return out
}

// OwnerSelect returns the select an option belongs to.
func (n *Node) OwnerSelect() *Node {
	for p := n.ParentElement(); p != nil; p = p.ParentElement() {
		switch p.TagName() {
		case "select":
			return p
		case "optgroup":
			continue
		default:
			return nil
		}
	}
	return nil
}

func (n *Node) rawSelected() bool {
	if n.selectedDirty {
		return n.selected
	}
	return n.HasAttribute("selected")
}

// Selected returns the selectedness of an option.
func (n *Node) Selected() bool {
	if sel := n.OwnerSelect(); sel != nil {
		for _, o := range sel.SelectedOptions() {
			if o == n {
				return true
			}
		}
		return false
	}
	return n.rawSelected()
}

// SetSelected sets the selectedness of an option. In a single select the
// other options are deselected.
func (n *Node) SetSelected(selected bool) {
	n.selected = selected
	n.selectedDirty = true
	sel := n.OwnerSelect()
	if selected && sel != nil && !sel.Multiple() {
		for _, o := range sel.Options() {
			if o != n {
				o.selected = false
				o.selectedDirty = true
			}
		}
	}
}

// SelectedOptions returns the selected options of a select. A single select
// without an explicitly selected option shows its first enabled option.
func (n *Node) SelectedOptions() []*Node {
	var selected []*Node
	options := n.Options()
	for _, o := range options {
		if o.rawSelected() {
			selected = append(selected, o)
		}
	}
	if n.Multiple() {
		return selected
	}
	if len(selected) > 1 {
		return selected[len(selected)-1:]
	}
	if len(selected) == 0 && n.displaySize() == 1 {
		for _, o := range options {
			if !o.Disabled() {
				return []*Node{o}
			}
		}
	}
	return selected
}

// SelectedIndex returns the index of the first selected option, or -1.
func (n *Node) SelectedIndex() int {
	sel := n.SelectedOptions()
	if len(sel) == 0 {
		return -1
	}
	for i, o := range n.Options() {
		if o == sel[0] {
			return i
		}
	}
	return -1
}

func (n *Node) displaySize() int {
	if size, err := strconv.Atoi(n.Attr("size")); err == nil && size > 0 {
		return size
	}
	if n.Multiple() {
		return 4
	}
	return 1
}

// -- files --

// Files returns the selected files of a file input.
func (n *Node) Files() []*File {
	return append([]*File(nil), n.files...)
}

// SetFiles replaces the selected files of a file input.
func (n *Node) SetFiles(files []*File) {
	if !n.IsInput("file") {
		return
	}
	n.files = append([]*File(nil), files...)
}

// -- form association --

// Form returns the form owner of a form-associated element.
func (n *Node) Form() *Node {
	if id, ok := n.GetAttribute("form"); ok && n.Is("input", "button", "select", "textarea", "fieldset", "output", "object") {
		if f := n.doc.GetElementByID(id); f != nil && f.Is("form") {
			return f
		}
		return nil
	}
	for p := n.ParentElement(); p != nil; p = p.ParentElement() {
		if p.Is("form") {
			return p
		}
	}
	return nil
}

// Elements returns the listed elements owned by a form.
func (n *Node) Elements() []*Node {
	if !n.Is("form") {
		return nil
	}
	var out []*Node
	n.treeRoot().walk(func(c *Node) bool {
		if c.Is("input", "button", "select", "textarea", "fieldset", "output", "object") && c.Form() == n {
			out = append(out, c)
		}
		return true
	})
	return out
}

// IsLabelable reports whether the element can be associated with a label.
func (n *Node) IsLabelable() bool {
	switch n.TagName() {
	case "button", "meter", "output", "progress", "select", "textarea":
		return true
	case "input":
		return n.InputType() != "hidden"
	}
	if def, ok := n.doc.CustomElement(n.TagName()); ok {
		return def.FormAssociated
	}
	return false
}

// Control returns the labeled control of a label.
func (n *Node) Control() *Node {
	if !n.Is("label") {
		return nil
	}
	if id, ok := n.GetAttribute("for"); ok {
		if c := n.doc.GetElementByID(id); c != nil && c.IsLabelable() {
			return c
		}
		return nil
	}
	for _, d := range n.Descendants() {
		if d.IsLabelable() {
			return d
		}
	}
	return nil
}

// Labels returns the labels associated with a labelable element.
func (n *Node) Labels() []*Node {
	if !n.IsLabelable() {
		return nil
	}
	var out []*Node
	n.treeRoot().walk(func(c *Node) bool {
		if c.Is("label") && c.Control() == n {
			out = append(out, c)
		}
		return true
	})
	return out
}

// -- disabled, readonly, maxlength --

func (n *Node) isFormAssociatedCustom() bool {
	def, ok := n.doc.CustomElement(n.TagName())
	return ok && def.FormAssociated
}

// Disabled reports whether the element is actually disabled: its own disabled
// attribute, a disabled optgroup, or a disabled fieldset ancestor unless the
// element is inside that fieldset's first legend.
func (n *Node) Disabled() bool {
	switch {
	case n.Is("button", "input", "select", "textarea", "fieldset", "optgroup") || n.isFormAssociatedCustom():
		if n.HasAttribute("disabled") {
			return true
		}
	case n.Is("option"):
		if n.HasAttribute("disabled") {
			return true
		}
		if p := n.ParentElement(); p != nil && p.Is("optgroup") && p.HasAttribute("disabled") {
			return true
		}
		return false
	default:
		return false
	}
	if n.Is("optgroup") {
		return false
	}
	return n.inDisabledFieldset()
}

func (n *Node) inDisabledFieldset() bool {
	child := n
	for p := n.ParentElement(); p != nil; child, p = p, p.ParentElement() {
		if !p.Is("fieldset") || !p.HasAttribute("disabled") {
			continue
		}
		if child.Is("legend") && p.firstLegend() == child {
			continue
		}
		return true
	}
	return false
}

func (n *Node) firstLegend() *Node {
	for _, c := range n.Children() {
		if c.Is("legend") {
			return c
		}
	}
	return nil
}

// ReadOnly reports whether an input or textarea carries the readonly attribute.
func (n *Node) ReadOnly() bool {
	return n.Is("input", "textarea") && n.HasAttribute("readonly")
}

// MaxLength returns the maxlength attribute, or -1 when absent or invalid.
func (n *Node) MaxLength() int {
	v, ok := n.GetAttribute("maxlength")
	if !ok {
		return -1
	}
	m, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || m < 0 {
		return -1
	}
	return m
}

// IsContentEditable reports whether the element is editable through the
// contenteditable attribute on itself or an ancestor.
func (n *Node) IsContentEditable() bool {
	for e := n; e != nil; e = e.ParentElement() {
		if !e.IsElement() {
			continue
		}
		v, ok := e.GetAttribute("contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "", "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

// -- forms --

// RequestSubmit fires a cancelable submit event at the form.
func (n *Node) RequestSubmit() bool {
	if !n.Is("form") {
		return false
	}
	return n.DispatchEvent(NewEvent("submit", true, true))
}

// Reset fires reset at the form and restores its controls unless canceled.
func (n *Node) Reset() {
	if !n.Is("form") || !n.DispatchEvent(NewEvent("reset", true, true)) {
		return
	}
	for _, c := range n.Elements() {
		c.valueDirty, c.checkedDirty = false, false
		c.files = nil
		for _, o := range c.Options() {
			o.selectedDirty = false
		}
		c.selInit = false
	}
}
