package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler turns SIGINT/SIGTERM into context cancellation with a friendly message.
type InterruptHandler struct {
	writer      io.Writer
	action      string
	interrupted bool
	partial     bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer: writer,
	}
}

// HandleInterrupts returns a context canceled on interrupt. Action names the
// running operation in the message; partial notes that rows already written
// are kept. Call the returned stop func once the operation finishes.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, action string, partial bool) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.action = action
	h.partial = partial
	h.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			h.interrupt()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.interrupted {
		h.interrupted = true
		h.showInterruptMessage()
	}
}

// showInterruptMessage displays a friendly interrupt message. Callers hold h.mu.
func (h *InterruptHandler) showInterruptMessage() {
	action := h.action
	if action == "" {
		action = "Operation"
	}
	msg := "\n\n" + FormatWarning(action+" interrupted!")

	if h.partial {
		msg += "\n" + FormatInfo("Transactions stored before the interrupt are kept.")
	}

	msg += "\n" + FormatInfo("Stay compliant! "+ShieldIcon) + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
