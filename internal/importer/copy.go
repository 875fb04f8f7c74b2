// internal/importer/copy.go
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// CopyFile copies a file from src to dst.
// Creates destination directory if it doesn't exist.
// Returns ErrDestinationExists if dst already exists.
func CopyFile(src, dst string) (int64, error) {
	if _, err := os.Lstat(dst); err == nil {
		return 0, ErrDestinationExists
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrIOFailure, err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrIOFailure, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("%w: create destination: %v", ErrIOFailure, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		// Clean up partial file on error
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrIOFailure, err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("%w: sync: %v", ErrIOFailure, err)
	}

	return size, nil
}

// MoveFile renames src to dst. When they are on different filesystems the
// file is copied and the source removed.
func MoveFile(src, dst string) (int64, error) {
	if _, err := os.Lstat(dst); err == nil {
		return 0, ErrDestinationExists
	}

	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("%w: stat source: %v", ErrIOFailure, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrIOFailure, err)
	}

	err = os.Rename(src, dst)
	if err == nil {
		return info.Size(), nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return 0, fmt.Errorf("%w: rename: %v", ErrIOFailure, err)
	}

	size, err := CopyFile(src, dst)
	if err != nil {
		return 0, err
	}
	if err := os.Remove(src); err != nil {
		return size, fmt.Errorf("%w: remove source after copy: %v", ErrIOFailure, err)
	}
	return size, nil
}

// symlink creates link pointing at the absolute form of target. A relative
// target would resolve against the link's own directory.
func symlink(target, link string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	return os.Symlink(abs, link)
}

// linkOrCopy symlinks dst to src, falling back to a copy where symlinks
// are not supported.
func linkOrCopy(src, dst string) error {
	err := symlink(src, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: link %s: %v", ErrIOFailure, dst, err)
	}
	_, err = CopyFile(src, dst)
	return err
}
