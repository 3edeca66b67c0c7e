// internal/pointer/pointer.go
package pointer

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/edit"
	"github.com/xkilldash9x/userevent/internal/elements"
	"github.com/xkilldash9x/userevent/internal/event"
	"github.com/xkilldash9x/userevent/internal/focus"
)

// Pacer waits between the steps of a sequence.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Engine replays pointer actions against a document. It is not safe for
// concurrent use.
type Engine struct {
	state     *State
	keys      Map
	editor    *edit.Editor
	dispatch  *event.Dispatcher
	pacer     Pacer
	skipCheck bool
	logger    *zap.Logger
}

// NewEngine creates a pointer engine. A nil map uses DefaultMap.
func NewEngine(state *State, keys Map, editor *edit.Editor, dispatch *event.Dispatcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keys == nil {
		keys = DefaultMap()
	}
	return &Engine{
		state:    state,
		keys:     keys,
		editor:   editor,
		dispatch: dispatch,
		logger:   logger.Named("pointer"),
	}
}

// SetPacer sets the pacer consulted between steps.
func (e *Engine) SetPacer(p Pacer) { e.pacer = p }

// SkipPointerEventsCheck disables the `pointer-events: none` assertion.
func (e *Engine) SkipPointerEventsCheck(skip bool) { e.skipCheck = skip }

// State returns the pointer state.
func (e *Engine) State() *State { return e.state }

// Keys returns the pointer map.
func (e *Engine) Keys() Map { return e.keys }

type step struct {
	action Action
	key    *KeyAction
}

// Run performs actions in order. All descriptors are parsed before the
// first event fires. Click counts start over with every call.
func (e *Engine) Run(ctx context.Context, actions []Action) error {
	var steps []step
	for _, a := range actions {
		if a.Keys == "" {
			steps = append(steps, step{action: a})
			continue
		}
		keys, err := Parse(a.Keys, e.keys)
		if err != nil {
			return err
		}
		for i := range keys {
			steps = append(steps, step{action: a, key: &keys[i]})
		}
	}

	e.state.resetClickCount()
	for i, s := range steps {
		if i > 0 {
			if err := e.wait(ctx); err != nil {
				return err
			}
		}
		var err error
		if s.key == nil {
			err = e.move(s.action)
		} else {
			err = e.keyAction(s.action, *s.key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) wait(ctx context.Context) error {
	if e.pacer == nil {
		return ctx.Err()
	}
	return e.pacer.Wait(ctx)
}

// ReleaseAll releases every held key at its pointer's position.
func (e *Engine) ReleaseAll() error {
	for _, p := range e.state.Pressed() {
		pos := e.state.positions[p.PointerName]
		if err := e.release(p.PointerName, p.Key, pos.Target, pos.Coords, pos.Caret); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) keyAction(a Action, k KeyAction) error {
	name := a.PointerName
	if name == "" {
		name = MousePointer
		if k.Key.PointerType != TypeMouse {
			name = k.Key.Name
		}
	}
	pos := e.state.positions[name]

	target := a.Target
	if target == nil {
		if pos == nil || pos.Target == nil {
			return &NoPositionError{PointerName: name}
		}
		target = pos.Target
	}
	var coords Coords
	if a.Coords != nil {
		coords = *a.Coords
	} else if pos != nil {
		coords = pos.Coords
	}
	caret := edit.Caret{Node: a.Node, Offset: a.Offset, HasOffset: a.HasOffset}
	if a.Node == nil && !a.HasOffset && pos != nil {
		caret = pos.Caret
	}

	e.logger.Debug("Pointer key action.",
		zap.String("key", k.Key.Name),
		zap.String("pointer", name),
		zap.Stringer("target", target),
		zap.Bool("releasePrevious", k.ReleasePrevious),
		zap.Bool("releaseSelf", k.ReleaseSelf))

	if e.state.IsPressed(k.Key.Name) {
		if err := e.release(name, k.Key, target, coords, caret); err != nil {
			return err
		}
	}
	if k.ReleasePrevious {
		return nil
	}
	if err := e.press(name, k.Key, target, coords, caret); err != nil {
		return err
	}
	if k.ReleaseSelf {
		return e.release(name, k.Key, target, coords, caret)
	}
	return nil
}

func (e *Engine) checkPointerEvents(target *dom.Node) error {
	if e.skipCheck {
		return nil
	}
	return elements.AssertPointerEvents(target)
}

// inert reports whether the target receives no pointer or mouse events.
func inert(target *dom.Node) bool {
	return !target.IsConnected() ||
		elements.IsDisabled(target) ||
		elements.IsLabelWithInternallyDisabledControl(target)
}

func (e *Engine) press(name string, key Key, target *dom.Node, coords Coords, caret edit.Caret) error {
	if err := e.checkPointerEvents(target); err != nil {
		return err
	}
	mouse := key.PointerType == TypeMouse

	pos := e.state.positions[name]
	if pos == nil {
		pos = &Position{}
		e.state.positions[name] = pos
	}
	pointerID := mousePointerID
	if !mouse {
		pointerID = e.state.NextPointerID
		e.state.NextPointerID++
	}
	pos.PointerID, pos.PointerType = pointerID, key.PointerType
	pos.Target, pos.Coords, pos.Caret = target, coords, caret

	p := &Pressed{
		Key:                key,
		PointerName:        name,
		PointerID:          pointerID,
		DownTarget:         target,
		IsPrimary:          true,
		UnpreventedDefault: true,
	}
	if !mouse {
		for _, q := range e.state.pressed {
			if q.Key.PointerType == key.PointerType {
				q.IsMultiTouch = true
				p.IsMultiTouch = true
				p.IsPrimary = false
			}
		}
	}
	p.ClickCount = e.state.nextClickCount(key.Name, target)
	e.state.pressed = append(e.state.pressed, p)

	if inert(target) {
		return nil
	}
	if !mouse {
		e.fireMove(target, "pointerover", pos, p.IsPrimary)
		e.fireMove(target, "pointerenter", pos, p.IsPrimary)
	}
	if !mouse || !e.state.othersOfType(TypeMouse, p) {
		if !e.firePress(target, "pointerdown", pos, p, p.ClickCount) {
			p.UnpreventedDefault = false
			p.pointerPrevented = true
		}
	}
	if mouse && !p.pointerPrevented {
		p.UnpreventedDefault = e.firePress(target, "mousedown", pos, p, p.ClickCount)
		if p.UnpreventedDefault {
			return e.mousedownDefault(pos, target, p.ClickCount)
		}
	}
	return nil
}

func (e *Engine) release(name string, key Key, target *dom.Node, coords Coords, caret edit.Caret) error {
	if err := e.checkPointerEvents(target); err != nil {
		return err
	}
	pos := e.state.positions[name]
	if pos == nil {
		return &UnknownPointerError{PointerName: name}
	}
	pos.Target, pos.Coords, pos.Caret = target, coords, caret

	p := e.state.find(key.Name)
	if p == nil {
		return nil
	}
	e.state.remove(p)
	defer func() { pos.Selecting = nil }()

	if inert(target) {
		return nil
	}
	mouse := key.PointerType == TypeMouse
	if !mouse || !e.state.othersOfType(TypeMouse, nil) {
		e.firePress(target, "pointerup", pos, p, p.ClickCount)
	}
	if !mouse {
		e.fireMove(target, "pointerout", pos, p.IsPrimary)
		e.fireMove(target, "pointerleave", pos, p.IsPrimary)
	}
	if p.pointerPrevented {
		return nil
	}

	unprevented := p.UnpreventedDefault
	if !mouse {
		if p.IsMultiTouch {
			return nil
		}
		if p.ClickCount == 1 {
			e.fireCompat(target, "mouseover", pos, p, 0)
			e.fireCompat(target, "mouseenter", pos, p, 0)
		}
		e.fireCompat(target, "mousemove", pos, p, 0)
		unprevented = e.fireCompat(target, "mousedown", pos, p, p.Key.Button.bit()) && unprevented
		if unprevented {
			if err := e.mousedownDefault(pos, target, p.ClickCount); err != nil {
				return err
			}
		}
		e.fireCompat(target, "mouseup", pos, p, 0)
	} else {
		e.firePress(target, "mouseup", pos, p, p.ClickCount)
	}

	if !unprevented || target != p.DownTarget {
		return nil
	}
	switch p.Key.Button {
	case ButtonPrimary:
		e.firePress(target, "click", pos, p, p.ClickCount)
		if p.ClickCount == 2 {
			e.firePress(target, "dblclick", pos, p, p.ClickCount)
		}
	case ButtonSecondary:
		e.firePress(target, "contextmenu", pos, p, p.ClickCount)
	default:
		e.firePress(target, "auxclick", pos, p, p.ClickCount)
	}
	return nil
}

// mousedownDefault focuses the target and starts a selection at the caret.
func (e *Engine) mousedownDefault(pos *Position, target *dom.Node, clickCount int) error {
	focus.FocusElement(target)
	sel, err := e.editor.SetSelectionPerMouseDown(target, pos.Caret, clickCount)
	if err != nil {
		return err
	}
	pos.Selecting = sel
	return nil
}

func (e *Engine) move(a Action) error {
	name := a.PointerName
	if name == "" {
		name = MousePointer
	}
	pos, ok := e.state.positions[name]
	if !ok {
		return &UnknownPointerError{PointerName: name}
	}
	target := a.Target
	if target == nil {
		if pos.Target == nil {
			return &NoPositionError{PointerName: name}
		}
		target = pos.Target
	}
	if err := e.checkPointerEvents(target); err != nil {
		return err
	}
	caret := edit.Caret{Node: a.Node, Offset: a.Offset, HasOffset: a.HasOffset}
	if a.Coords != nil {
		pos.Coords = *a.Coords
	}

	e.logger.Debug("Pointer move.", zap.String("pointer", name), zap.Stringer("target", target))

	isPrimary := true
	for _, p := range e.state.pressed {
		if p.PointerName == name {
			isPrimary = p.IsPrimary
		}
	}
	mouse := pos.PointerType == TypeMouse
	prev := pos.Target

	if prev != nil && prev != target && !prev.Contains(target) && !inert(prev) {
		e.fireMove(prev, "pointerout", pos, isPrimary)
		e.fireMove(prev, "pointerleave", pos, isPrimary)
		if mouse {
			e.fireMove(prev, "mouseout", pos, isPrimary)
			e.fireMove(prev, "mouseleave", pos, isPrimary)
		}
	}
	pos.Target, pos.Caret = target, caret
	if inert(target) {
		return nil
	}
	if prev != target && (prev == nil || !target.Contains(prev)) {
		e.fireMove(target, "pointerover", pos, isPrimary)
		e.fireMove(target, "pointerenter", pos, isPrimary)
		if mouse {
			e.fireMove(target, "mouseover", pos, isPrimary)
			e.fireMove(target, "mouseenter", pos, isPrimary)
		}
	}
	e.fireMove(target, "pointermove", pos, isPrimary)
	if mouse {
		e.fireMove(target, "mousemove", pos, isPrimary)
	}

	if pos.Selecting != nil {
		return e.editor.ModifySelectionPerMouse(pos.Selecting, target, caret)
	}
	return nil
}
