// internal/scenario/recorder.go
package scenario

import (
	"strings"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/dom"
)

// Recorder keeps every event dispatched in a document, in dispatch order.
type Recorder struct {
	events []*dom.Event
}

// Record starts recording the events of doc.
func Record(doc *dom.Document) *Recorder {
	r := &Recorder{}
	doc.OnDispatch(func(ev *dom.Event) {
		r.events = append(r.events, ev)
	})
	return r
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int { return len(r.events) }

// TypesOn returns the types of the events dispatched on target.
func (r *Recorder) TypesOn(target *dom.Node) []string {
	var types []string
	for _, ev := range r.events {
		if ev.Target == target {
			types = append(types, ev.Type)
		}
	}
	return types
}

// Events converts the recording. Cancellation is read at conversion time,
// after the events finished propagating.
func (r *Recorder) Events() []schemas.TraceEvent {
	out := make([]schemas.TraceEvent, len(r.events))
	for i, ev := range r.events {
		out[i] = schemas.TraceEvent{
			Seq:              i + 1,
			Type:             ev.Type,
			Interface:        string(ev.Interface),
			Target:           Describe(ev.Target),
			Modifiers:        schemas.ModifiersOf(ev.AltKey, ev.CtrlKey, ev.MetaKey, ev.ShiftKey),
			Key:              ev.Key,
			Code:             ev.Code,
			KeyCode:          ev.KeyCode,
			CharCode:         ev.CharCode,
			Location:         ev.Location,
			Repeat:           ev.Repeat,
			Button:           ev.Button,
			Buttons:          ev.Buttons,
			Detail:           ev.Detail,
			ClientX:          ev.ClientX,
			ClientY:          ev.ClientY,
			PointerID:        ev.PointerID,
			PointerType:      ev.PointerType,
			Data:             ev.Data,
			InputType:        ev.InputType,
			DefaultPrevented: ev.DefaultPrevented(),
			Timestamp:        ev.TimeStamp,
		}
	}
	return out
}

// Describe names a node the way a selector would: tag, then #id or the
// first class.
func Describe(n *dom.Node) string {
	switch {
	case n == nil:
		return ""
	case n.IsDocument():
		return "#document"
	case !n.IsElement():
		return "#text"
	}
	var b strings.Builder
	b.WriteString(n.TagName())
	if id := n.ID(); id != "" {
		b.WriteString("#" + id)
	} else if class := strings.Fields(n.Attr("class")); len(class) > 0 {
		b.WriteString("." + class[0])
	} else if name := n.Attr("name"); name != "" {
		b.WriteString(`[name="` + name + `"]`)
	}
	return b.String()
}
