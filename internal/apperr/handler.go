package apperr

import (
	"context"
	"errors"
	"log/slog"
)

const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInvalidArgs = 2
	ExitInterrupted = 130
)

// Report logs err by kind and returns the process exit code for it.
func Report(err error) int {
	if err == nil {
		return ExitOK
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		slog.Error("Validation error", "error", ve.Message, "cause", ve.Err)
		return ExitInvalidArgs
	}

	if errors.Is(err, context.Canceled) {
		slog.Warn("Interrupted", "error", err)
		return ExitInterrupted
	}

	slog.Error("Unhandled error", "error", err)
	return ExitFailure
}
