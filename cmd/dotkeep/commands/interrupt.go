package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/thoreinstein/dotkeep/internal/errors"
)

// interrupts receives Ctrl-C while a command runs. Interrupting an
// interactive prompt or a running batch is a normal way to leave the
// program, not an error.
var interrupts chan os.Signal

// handleInterrupts installs the clean-exit handler.
func handleInterrupts() {
	interrupts = make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	go awaitInterrupt(interrupts, os.Stderr, os.Exit)
}

// releaseInterrupts returns signal handling to the default so a command can
// manage interruption itself (watch stops its loop instead of exiting).
func releaseInterrupts() {
	if interrupts == nil {
		return
	}
	signal.Stop(interrupts)
	close(interrupts)
	interrupts = nil
}

// awaitInterrupt blocks until a signal arrives, then says goodbye and exits
// successfully. A closed channel means the handler was released.
func awaitInterrupt(ch <-chan os.Signal, w io.Writer, exit func(int)) {
	if _, ok := <-ch; !ok {
		return
	}
	fmt.Fprintln(w, "\nInterrupted")
	exit(errors.ExitSuccess)
}
