// internal/dom/activation.go
package dom

import "go.uber.org/zap"

// activationRecord holds the legacy pre-activation state of a click target.
type activationRecord struct {
	target *Node
	event  *Event

	oldChecked       bool
	oldIndeterminate bool
	oldGroupChecked  *Node
}

// findActivation returns the activation target of a click: the target itself
// or, for bubbling events, the nearest ancestor with activation behavior.
func (d *Document) findActivation(target *Node, ev *Event) *activationRecord {
	for n := target; n != nil; n = n.ParentElement() {
		if n.hasActivationBehavior() {
			return &activationRecord{target: n, event: ev}
		}
		if !ev.Bubbles {
			break
		}
	}
	return nil
}

func (n *Node) hasActivationBehavior() bool {
	switch n.TagName() {
	case "input":
		if n.Disabled() {
			return false
		}
		switch n.InputType() {
		case "checkbox", "radio", "submit", "image", "reset", "file":
			return true
		}
	case "button":
		return !n.Disabled()
	case "label", "a", "area":
		return true
	case "summary":
		return n.isDetailsSummary()
	}
	return false
}

func (n *Node) isDetailsSummary() bool {
	p := n.ParentElement()
	if p == nil || !p.Is("details") {
		return false
	}
	for _, c := range p.Children() {
		if c.Is("summary") {
			return c == n
		}
	}
	return false
}

func (a *activationRecord) preActivate() {
	t := a.target
	switch {
	case t.IsInput("checkbox"):
		a.oldChecked, a.oldIndeterminate = t.Checked(), t.indeterminate
		t.SetChecked(!a.oldChecked)
		t.indeterminate = false
	case t.IsInput("radio"):
		a.oldChecked = t.Checked()
		for _, r := range t.RadioGroup() {
			if r.Checked() {
				a.oldGroupChecked = r
			}
		}
		t.SetChecked(true)
	}
}

func (a *activationRecord) canceled() {
	t := a.target
	switch {
	case t.IsInput("checkbox"):
		t.SetChecked(a.oldChecked)
		t.indeterminate = a.oldIndeterminate
	case t.IsInput("radio"):
		if a.oldGroupChecked != nil && a.oldGroupChecked.IsConnected() {
			a.oldGroupChecked.SetChecked(true)
		} else if !a.oldChecked {
			t.SetChecked(false)
		}
	}
}

func (a *activationRecord) activate() {
	t := a.target
	switch t.TagName() {
	case "input":
		switch t.InputType() {
		case "checkbox":
			a.fireInputAndChange()
		case "radio":
			if !a.oldChecked {
				a.fireInputAndChange()
			}
		case "submit", "image":
			if form := t.Form(); form != nil {
				form.RequestSubmit()
			}
		case "reset":
			if form := t.Form(); form != nil {
				form.Reset()
			}
		case "file":
			t.DispatchEvent(NewEvent("fileDialog", false, false))
		}
	case "button":
		form := t.Form()
		if form == nil {
			return
		}
		switch t.ButtonType() {
		case "submit":
			form.RequestSubmit()
		case "reset":
			form.Reset()
		}
	case "label":
		a.activateLabel()
	case "summary":
		details := t.ParentElement()
		details.ToggleAttribute("open", !details.HasAttribute("open"))
		details.DispatchEvent(NewEvent("toggle", false, false))
	case "a", "area":
		t.doc.logger.Debug("Link activated; navigation is not simulated.", zap.String("href", t.Attr("href")))
	}
}

func (a *activationRecord) fireInputAndChange() {
	t := a.target
	if !t.IsConnected() {
		return
	}
	input := NewEvent("input", true, false)
	input.Composed = true
	t.DispatchEvent(input)
	t.DispatchEvent(NewEvent("change", true, false))
}

// activateLabel forwards the click to the labeled control unless the click
// happened on the control or another interactive element inside the label.
func (a *activationRecord) activateLabel() {
	label := a.target
	control := label.Control()
	if control == nil || control.Disabled() {
		return
	}
	origin := a.event.Target
	for n := origin; n != nil && n != label; n = n.ParentElement() {
		if n.Is("button", "input", "select", "textarea", "label", "a") {
			return
		}
	}
	if control.IsFocusable() {
		control.Focus()
	}
	forwarded := a.event.Clone()
	control.DispatchEvent(forwarded)
}

// Click fires a synthetic click as HTMLElement.click() does. Disabled form
// controls ignore it.
func (n *Node) Click() {
	if n.Is("button", "input", "select", "textarea") && n.Disabled() {
		return
	}
	ev := &Event{Type: "click", Interface: InterfacePointerEvent, Bubbles: true, Cancelable: true, Composed: true}
	n.DispatchEvent(ev)
}
