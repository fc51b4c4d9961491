package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/tempodl/internal/shared"
)

// Process exit codes.
const (
	exitOK          = 0
	exitUnexpected  = 1
	exitConfig      = 2
	exitBadURL      = 3
	exitAuth        = 4
	exitOutputDir   = 5
	exitSpotifyAPI  = 6
	exitInterrupted = 130
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger, Getenv: os.Getenv})
	err := runner.app().Run(ctx, os.Args)

	code := exitCode(ctx, err)
	switch code {
	case exitOK:
	case exitInterrupted:
		runner.logger.Warn("interrupted")
	default:
		runner.logger.Error("tempodl failed", "error", err)
	}
	stop()
	os.Exit(code)
}

// exitCode maps a command error to the documented process exit code.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		return exitInterrupted
	case errors.Is(err, shared.ErrUnrecognizedPlaylistURL):
		return exitBadURL
	case errors.Is(err, shared.ErrMissingConfig),
		errors.Is(err, shared.ErrInvalidConfig),
		errors.Is(err, shared.ErrMissingCredentials),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidFlag):
		return exitConfig
	case errors.Is(err, shared.ErrAuthFailed):
		return exitAuth
	case errors.Is(err, shared.ErrOutputDir):
		return exitOutputDir
	case errors.Is(err, shared.ErrAPIRequest),
		errors.Is(err, shared.ErrPlaylistNotFound),
		errors.Is(err, shared.ErrTempoUnavailable):
		return exitSpotifyAPI
	default:
		return exitUnexpected
	}
}
