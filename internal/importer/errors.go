// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrNoMatch indicates no watched title matched the file.
	ErrNoMatch = errors.New("no watched title matches file")

	// ErrTooFresh indicates the file was modified too recently to process.
	ErrTooFresh = errors.New("file too recently modified")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrIOFailure wraps every filesystem failure during placement.
	ErrIOFailure = errors.New("filesystem operation failed")

	// ErrPathTraversal indicates a destination would escape its library root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrMissingDirectory indicates a configured input or library directory
	// does not exist.
	ErrMissingDirectory = errors.New("directory does not exist")
)
