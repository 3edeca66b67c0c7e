// internal/cdp/executor.go
package cdp

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/userevent/internal/config"
)

// Executor defines the contract for browser interactions, allowing for
// mocking during tests.
type Executor interface {
	// Open loads page as the document of the browser tab.
	Open(ctx context.Context, page string) error

	// Dispatch runs one protocol action in the tab.
	Dispatch(ctx context.Context, a chromedp.Action) error

	// Close shuts the browser down.
	Close()
}

// ChromeExecutor is the production implementation of the Executor
// interface. The browser starts on the first Open and lives until Close.
type ChromeExecutor struct {
	cfg    config.CDPConfig
	logger *zap.Logger

	mu          sync.Mutex
	browserCtx  context.Context
	allocCancel context.CancelFunc
	tabCancel   context.CancelFunc
}

// NewChromeExecutor creates an executor for the configured browser.
func NewChromeExecutor(cfg config.CDPConfig, logger *zap.Logger) *ChromeExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeExecutor{cfg: cfg, logger: logger.Named("chrome")}
}

// execOptions translates the configuration into chromedp allocator options.
func execOptions(cfg config.CDPConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

func (e *ChromeExecutor) start(ctx context.Context) context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browserCtx == nil {
		allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), execOptions(e.cfg)...)
		sugar := e.logger.Sugar()
		e.browserCtx, e.tabCancel = chromedp.NewContext(allocCtx,
			chromedp.WithLogf(sugar.Debugf),
			chromedp.WithErrorf(sugar.Errorf),
		)
		e.allocCancel = allocCancel
		e.logger.Debug("Browser allocator created.", zap.Bool("headless", e.cfg.Headless))
	}
	return e.browserCtx
}

// bind returns a context of the browser tab that is also canceled with ctx.
func (e *ChromeExecutor) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(e.start(ctx))
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (e *ChromeExecutor) Open(ctx context.Context, page string) error {
	runCtx, cancel := e.bind(ctx)
	defer cancel()
	err := chromedp.Run(runCtx,
		chromedp.Navigate("data:text/html;charset=utf-8,"+url.PathEscape(page)),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("loading page: %w", err)
	}
	return nil
}

func (e *ChromeExecutor) Dispatch(ctx context.Context, a chromedp.Action) error {
	runCtx, cancel := e.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, a)
}

func (e *ChromeExecutor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tabCancel != nil {
		e.tabCancel()
		e.allocCancel()
		e.browserCtx, e.tabCancel, e.allocCancel = nil, nil, nil
	}
}
