// internal/pointer/events.go
package pointer

import (
	"strings"

	"github.com/xkilldash9x/userevent/internal/dom"
	"github.com/xkilldash9x/userevent/internal/event"
)

func (e *Engine) mouseInit(pos *Position, button, buttons, detail int, isPrimary bool) event.MouseInit {
	x, y := pos.Coords.client()
	init := event.MouseInit{
		Button:      button,
		Buttons:     buttons,
		Detail:      detail,
		ClientX:     x,
		ClientY:     y,
		OffsetX:     pos.Coords.OffsetX,
		OffsetY:     pos.Coords.OffsetY,
		PageX:       pos.Coords.PageX,
		PageY:       pos.Coords.PageY,
		ScreenX:     pos.Coords.ScreenX,
		ScreenY:     pos.Coords.ScreenY,
		PointerID:   pos.PointerID,
		PointerType: pos.PointerType,
		IsPrimary:   isPrimary,
	}
	if buttons != 0 {
		init.Pressure = 0.5
	}
	return init
}

// fireMove fires a boundary or move event. Pointer events report no
// button change with -1.
func (e *Engine) fireMove(target *dom.Node, typ string, pos *Position, isPrimary bool) bool {
	button := 0
	if strings.HasPrefix(typ, "pointer") {
		button = -1
	}
	init := e.mouseInit(pos, button, e.state.buttons(pos.PointerType), 0, isPrimary)
	return e.dispatch.DispatchUI(target, typ, event.Mouse(init))
}

// firePress fires an event caused by pressing or releasing p.
func (e *Engine) firePress(target *dom.Node, typ string, pos *Position, p *Pressed, detail int) bool {
	init := e.mouseInit(pos, int(p.Key.Button), e.state.buttons(pos.PointerType), detail, p.IsPrimary)
	return e.dispatch.DispatchUI(target, typ, event.Mouse(init))
}

// fireCompat fires a mouse event emulated for a touch.
func (e *Engine) fireCompat(target *dom.Node, typ string, pos *Position, p *Pressed, buttons int) bool {
	init := e.mouseInit(pos, 0, buttons, p.ClickCount, p.IsPrimary)
	return e.dispatch.DispatchUI(target, typ, event.Mouse(init))
}
