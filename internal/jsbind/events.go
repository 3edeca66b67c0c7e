// internal/jsbind/events.go
package jsbind

import (
	"github.com/dop251/goja"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// listenerOptions reads the third addEventListener argument, a capture flag
// or an options object.
func listenerOptions(v goja.Value) dom.ListenerOptions {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return dom.ListenerOptions{}
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return dom.ListenerOptions{Capture: v.ToBoolean()}
	}
	flag := func(name string) bool {
		f := obj.Get(name)
		return f != nil && f.ToBoolean()
	}
	return dom.ListenerOptions{Capture: flag("capture"), Once: flag("once"), Passive: flag("passive")}
}

func (b *Bridge) addListener(n *dom.Node, typ string, fn goja.Value, opts dom.ListenerOptions) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return
	}
	for _, l := range b.listeners[n] {
		if l.typ == typ && l.capture == opts.Capture && l.fn.SameAs(fn) {
			return
		}
	}
	self := b.WrapNode(n)
	var id dom.ListenerID
	id = n.AddEventListener(typ, func(ev *dom.Event) {
		if opts.Once {
			b.forget(n, id)
		}
		b.call(callable, self, b.wrapEvent(ev))
	}, opts)
	b.listeners[n] = append(b.listeners[n], jsListener{typ: typ, fn: fn, capture: opts.Capture, id: id})
}

func (b *Bridge) removeListener(n *dom.Node, typ string, fn goja.Value, capture bool) {
	for _, l := range b.listeners[n] {
		if l.typ == typ && l.capture == capture && l.fn.SameAs(fn) {
			n.RemoveEventListener(l.id)
			b.forget(n, l.id)
			return
		}
	}
}

func (b *Bridge) forget(n *dom.Node, id dom.ListenerID) {
	ls := b.listeners[n]
	for i, l := range ls {
		if l.id == id {
			b.listeners[n] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// wrapEvent exposes ev to a listener. Accessors read the live event so
// that state changed by earlier listeners is visible.
func (b *Bridge) wrapEvent(ev *dom.Event) *goja.Object {
	obj := b.vm.NewObject()
	_ = obj.Set("type", ev.Type)
	_ = obj.Set("bubbles", ev.Bubbles)
	_ = obj.Set("cancelable", ev.Cancelable)
	_ = obj.Set("isTrusted", ev.IsTrusted)
	_ = obj.Set("timeStamp", ev.TimeStamp.UnixMilli())

	b.accessor(obj, "target", func() any { return b.WrapNode(ev.Target) }, nil)
	b.accessor(obj, "currentTarget", func() any { return b.WrapNode(ev.CurrentTarget) }, nil)
	b.accessor(obj, "relatedTarget", func() any { return b.WrapNode(ev.RelatedTarget) }, nil)
	b.accessor(obj, "eventPhase", func() any { return int(ev.EventPhase) }, nil)
	b.accessor(obj, "defaultPrevented", func() any { return ev.DefaultPrevented() }, nil)

	for name, v := range map[string]any{
		"detail":      ev.Detail,
		"key":         ev.Key,
		"code":        ev.Code,
		"keyCode":     ev.KeyCode,
		"charCode":    ev.CharCode,
		"location":    ev.Location,
		"repeat":      ev.Repeat,
		"altKey":      ev.AltKey,
		"ctrlKey":     ev.CtrlKey,
		"metaKey":     ev.MetaKey,
		"shiftKey":    ev.ShiftKey,
		"button":      ev.Button,
		"buttons":     ev.Buttons,
		"clientX":     ev.ClientX,
		"clientY":     ev.ClientY,
		"pointerId":   ev.PointerID,
		"pointerType": ev.PointerType,
		"isPrimary":   ev.IsPrimary,
		"data":        ev.Data,
		"inputType":   ev.InputType,
	} {
		_ = obj.Set(name, v)
	}
	if dt := ev.ClipboardData; dt != nil {
		_ = obj.Set("clipboardData", b.wrapDataTransfer(dt))
	} else if dt := ev.DataTransfer; dt != nil {
		_ = obj.Set("dataTransfer", b.wrapDataTransfer(dt))
	}

	b.method(obj, "preventDefault", func(goja.FunctionCall) goja.Value {
		ev.PreventDefault()
		return goja.Undefined()
	})
	b.method(obj, "stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	b.method(obj, "stopImmediatePropagation", func(goja.FunctionCall) goja.Value {
		ev.StopImmediatePropagation()
		return goja.Undefined()
	})
	b.method(obj, "getModifierState", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(ev.GetModifierState(call.Argument(0).String()))
	})
	return obj
}

func (b *Bridge) wrapDataTransfer(dt *dom.DataTransfer) *goja.Object {
	obj := b.vm.NewObject()
	b.method(obj, "getData", func(call goja.FunctionCall) goja.Value {
		return b.vm.ToValue(dt.GetData(call.Argument(0).String()))
	})
	b.method(obj, "setData", func(call goja.FunctionCall) goja.Value {
		dt.SetData(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	b.method(obj, "clearData", func(call goja.FunctionCall) goja.Value {
		var formats []string
		for _, a := range call.Arguments {
			formats = append(formats, a.String())
		}
		dt.ClearData(formats...)
		return goja.Undefined()
	})
	b.accessor(obj, "types", func() any {
		types := dt.Types()
		out := make([]any, len(types))
		for i, t := range types {
			out[i] = t
		}
		return b.vm.NewArray(out...)
	}, nil)
	return obj
}
