// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/userevent/api/schemas"
	"github.com/xkilldash9x/userevent/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Engine() config.EngineConfig {
	args := m.Called()
	return args.Get(0).(config.EngineConfig)
}

func (m *MockConfig) Replay() config.ReplayConfig {
	args := m.Called()
	return args.Get(0).(config.ReplayConfig)
}

func (m *MockConfig) CDP() config.CDPConfig {
	args := m.Called()
	return args.Get(0).(config.CDPConfig)
}

// --- Setters ---

func (m *MockConfig) SetEngineDelay(d time.Duration)         { m.Called(d) }
func (m *MockConfig) SetEngineSkipPointerEventsCheck(b bool) { m.Called(b) }
func (m *MockConfig) SetReplayConcurrency(n int)             { m.Called(n) }
func (m *MockConfig) SetReplayFormat(f string)               { m.Called(f) }
func (m *MockConfig) SetReplayOutputDir(dir string)          { m.Called(dir) }
func (m *MockConfig) SetCDPEnabled(b bool)                   { m.Called(b) }
func (m *MockConfig) SetCDPHeadless(b bool)                  { m.Called(b) }

// -- Browser Mocks --

// MockExecutor mocks the cdp.Executor.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Open(ctx context.Context, page string) error {
	args := m.Called(ctx, page)
	return args.Error(0)
}

func (m *MockExecutor) Dispatch(ctx context.Context, a chromedp.Action) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockExecutor) Close() {
	m.Called()
}

// MockExporter mocks the scenario.Exporter.
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, page string, trace *schemas.Trace) error {
	args := m.Called(ctx, page, trace)
	return args.Error(0)
}
