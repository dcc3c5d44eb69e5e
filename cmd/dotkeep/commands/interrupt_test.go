package commands

import (
	"bytes"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestAwaitInterrupt_SignalExitsZero(t *testing.T) {
	ch := make(chan os.Signal, 1)
	ch <- syscall.SIGINT

	var out bytes.Buffer
	exitCode := -1
	awaitInterrupt(ch, &out, func(code int) { exitCode = code })

	if exitCode != 0 {
		t.Errorf("exit code = %d, want 0", exitCode)
	}
	if !strings.Contains(out.String(), "Interrupted") {
		t.Errorf("output = %q, want goodbye message", out.String())
	}
}

func TestAwaitInterrupt_ReleasedChannelDoesNotExit(t *testing.T) {
	ch := make(chan os.Signal)
	close(ch)

	var out bytes.Buffer
	called := false
	awaitInterrupt(ch, &out, func(int) { called = true })

	if called {
		t.Error("released handler must not exit the process")
	}
	if out.Len() != 0 {
		t.Errorf("released handler wrote %q", out.String())
	}
}

func TestReleaseInterrupts_Idempotent(t *testing.T) {
	handleInterrupts()
	releaseInterrupts()
	releaseInterrupts() // second call is a no-op, not a double close
}
