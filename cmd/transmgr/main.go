// Command transmgr translates long texts from the command line or serves
// the translator over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pricofy/chunked-translator/internal/orchestrator"
)

// Injected at build time via ldflags.
var version = "dev"

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitValidation = 4
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(defaultEnv())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupt
	case orchestrator.IsRequestLevel(err):
		return ExitValidation
	default:
		return ExitGeneral
	}
}
