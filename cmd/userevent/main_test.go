// File: cmd/userevent/main_test.go
package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/userevent/cmd"
)

// --- Setup Helpers ---

// resetMocks restores the original function implementations.
func resetMocks() {
	osWriteFile = os.WriteFile
	osExit = os.Exit
	stderr = os.Stderr
}

func TestHandlePanic(t *testing.T) {
	defer resetMocks()

	t.Run("Writes Panic Log", func(t *testing.T) {
		resetMocks()
		var written string
		osWriteFile = func(name string, data []byte, perm os.FileMode) error {
			assert.Equal(t, panicLogFile, name)
			written = string(data)
			return nil
		}
		code := -1
		osExit = func(c int) { code = c }
		errBuf := new(bytes.Buffer)
		stderr = errBuf

		func() {
			defer handlePanic()
			panic("boom")
		}()

		assert.Equal(t, 1, code)
		assert.True(t, strings.HasPrefix(written, "panic: boom"))
		assert.Contains(t, written, "goroutine")
		assert.Contains(t, errBuf.String(), "CRASH DETECTED")
	})

	t.Run("Falls Back To Stderr", func(t *testing.T) {
		resetMocks()
		osWriteFile = func(string, []byte, os.FileMode) error { return errors.New("read-only fs") }
		code := -1
		osExit = func(c int) { code = c }
		errBuf := new(bytes.Buffer)
		stderr = errBuf

		func() {
			defer handlePanic()
			panic("boom")
		}()

		assert.Equal(t, 1, code)
		assert.Contains(t, errBuf.String(), "Failed to write panic log: read-only fs")
		assert.Contains(t, errBuf.String(), "panic: boom")
	})

	t.Run("No Panic", func(t *testing.T) {
		resetMocks()
		osExit = func(int) { t.Fatal("exit without a panic") }
		func() {
			defer handlePanic()
		}()
	})
}

func TestInteractive(t *testing.T) {
	defer resetMocks()
	errBuf := new(bytes.Buffer)
	stderr = errBuf
	t.Chdir(t.TempDir())

	in := strings.NewReader("\n--version\nkeys parse\nquit\nkeys parse a\n")
	out := new(bytes.Buffer)
	require.NoError(t, interactive(context.Background(), in, out))

	assert.Contains(t, out.String(), cmd.Version)
	assert.Contains(t, errBuf.String(), "accepts 1 arg(s), received 0")
	assert.NotContains(t, out.String(), "KEY", "input after quit is ignored")
	assert.True(t, strings.HasSuffix(out.String(), "Exiting userevent.\n"))
}
