package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/vmunix/arrshelf/internal/importer"
	"github.com/vmunix/arrshelf/internal/library"
	"github.com/vmunix/arrshelf/internal/lock"
	"github.com/vmunix/arrshelf/internal/metadata"
)

var version = "dev"

// Exit codes
const (
	exitOK       = 0
	exitError    = 1 // usage, config and I/O errors
	exitNotFound = 2
	exitLockHeld = 3
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, lock.ErrLockHeld):
		return exitLockHeld
	case errors.Is(err, metadata.ErrNotFound),
		errors.Is(err, library.ErrNotFound),
		errors.Is(err, importer.ErrNoMatch):
		return exitNotFound
	default:
		return exitError
	}
}
