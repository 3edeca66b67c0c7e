// internal/jsbind/bridge.go
package jsbind

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/userevent/internal/dom"
)

// DefaultTimeout bounds a script or listener when the caller sets none.
const DefaultTimeout = 2 * time.Second

// Bridge exposes one document to a goja runtime. Scripts register
// listeners that the engine's dispatches invoke synchronously. A Bridge is
// bound to the goroutine driving its document.
type Bridge struct {
	vm      *goja.Runtime
	doc     *dom.Document
	logger  *zap.Logger
	timeout time.Duration

	// nodes is the identity map from DOM nodes to their JS objects.
	nodes     map[*dom.Node]*goja.Object
	listeners map[*dom.Node][]jsListener
	// depth counts nested calls into the VM; only the outermost arms the
	// interrupt timer.
	depth int
	// errs collects exceptions thrown by listeners, which never reach the
	// dispatching code.
	errs []error
}

type jsListener struct {
	typ     string
	fn      goja.Value
	capture bool
	id      dom.ListenerID
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTimeout bounds each script run and listener call.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// New binds doc to a fresh runtime with document, window and console
// globals.
func New(doc *dom.Document, logger *zap.Logger, opts ...Option) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		vm:        goja.New(),
		doc:       doc,
		logger:    logger.Named("jsbind"),
		timeout:   DefaultTimeout,
		nodes:     make(map[*dom.Node]*goja.Object),
		listeners: make(map[*dom.Node][]jsListener),
	}
	for _, o := range opts {
		o(b)
	}
	b.initializeRuntime()
	return b
}

func (b *Bridge) initializeRuntime() {
	global := b.vm.GlobalObject()
	for name, v := range map[string]any{
		"window":   global,
		"self":     global,
		"document": b.wrapDocument(),
		"console":  b.newConsole(),
	} {
		if err := global.Set(name, v); err != nil {
			b.logger.Error("Failed to set global", zap.String("name", name), zap.Error(err))
		}
	}
}

// Runtime returns the underlying VM.
func (b *Bridge) Runtime() *goja.Runtime { return b.vm }

// Run evaluates script and exports its completion value. The script is
// interrupted when ctx ends or the bridge timeout elapses.
func (b *Bridge) Run(ctx context.Context, script string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, func() { b.vm.Interrupt(ctx.Err()) })
	defer func() {
		stop()
		b.vm.ClearInterrupt()
	}()

	v, err := b.vm.RunString(script)
	if err != nil {
		return nil, b.scriptError(err)
	}
	return v.Export(), nil
}

// CompileInlineHandlers turns on<event> attributes in the document into
// listeners, e.g. onclick="this.value = 'x'".
func (b *Bridge) CompileInlineHandlers() error {
	var errs []error
	b.doc.Node().Walk(func(n *dom.Node) bool {
		if !n.IsElement() {
			return true
		}
		for _, a := range n.HTML().Attr {
			if !strings.HasPrefix(a.Key, "on") || len(a.Key) <= 2 {
				continue
			}
			fn, err := b.vm.RunString("(function(event) {\n" + a.Val + "\n})")
			if err != nil {
				errs = append(errs, fmt.Errorf("compiling %s handler of %s: %w", a.Key, n, b.scriptError(err)))
				continue
			}
			b.addListener(n, a.Key[2:], fn, dom.ListenerOptions{})
		}
		return true
	})
	return errors.Join(errs...)
}

// Errors returns the exceptions thrown by listeners so far.
func (b *Bridge) Errors() []error { return b.errs }

// call invokes a JS function with this bound to self, reporting exceptions
// instead of returning them.
func (b *Bridge) call(fn goja.Callable, self goja.Value, args ...goja.Value) {
	if b.depth == 0 {
		timer := time.AfterFunc(b.timeout, func() { b.vm.Interrupt(context.DeadlineExceeded) })
		defer func() {
			timer.Stop()
			b.vm.ClearInterrupt()
		}()
	}
	b.depth++
	defer func() { b.depth-- }()

	if _, err := fn(self, args...); err != nil {
		err = b.scriptError(err)
		b.logger.Warn("Listener threw.", zap.Error(err))
		b.errs = append(b.errs, err)
	}
}

func (b *Bridge) scriptError(err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return fmt.Errorf("javascript execution interrupted: %w", cause)
		}
		return fmt.Errorf("javascript execution interrupted: %v", interrupted.Value())
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return &ScriptError{Message: exc.Value().String(), Err: err}
	}
	return fmt.Errorf("javascript error: %w", err)
}

// newConsole routes console output to the logger.
func (b *Bridge) newConsole() *goja.Object {
	console := b.vm.NewObject()
	logFunc := func(level zapcore.Level) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = b.stringify(arg)
			}
			b.logger.Log(level, "[JS Console]", zap.String("message", strings.Join(args, " ")))
			return goja.Undefined()
		}
	}
	_ = console.Set("log", logFunc(zap.InfoLevel))
	_ = console.Set("info", logFunc(zap.InfoLevel))
	_ = console.Set("warn", logFunc(zap.WarnLevel))
	_ = console.Set("error", logFunc(zap.ErrorLevel))
	_ = console.Set("debug", logFunc(zap.DebugLevel))
	return console
}

func (b *Bridge) stringify(v goja.Value) string {
	if _, ok := v.(*goja.Object); ok {
		if jsJSON := b.vm.Get("JSON"); jsJSON != nil {
			if stringify, ok := goja.AssertFunction(jsJSON.ToObject(b.vm).Get("stringify")); ok {
				if out, err := stringify(goja.Undefined(), v); err == nil && !goja.IsUndefined(out) {
					return out.String()
				}
			}
		}
	}
	return v.String()
}

// throw raises a JS TypeError from Go.
func (b *Bridge) throw(format string, args ...any) {
	panic(b.vm.NewTypeError(fmt.Sprintf(format, args...)))
}
