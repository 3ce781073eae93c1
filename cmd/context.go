package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// commandContext is canceled on interrupt so a slow fetch can be aborted.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
