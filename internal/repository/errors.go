package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStorageCorrupt marks irrecoverable storage corruption. It is propagated
// to callers as a distinct error kind and never retried by the engine.
var ErrStorageCorrupt = errors.New("storage corruption")

// wrapStorageErr classifies low-level sqlite failures. Corruption surfaces
// as ErrStorageCorrupt; everything else keeps its original wrapping.
func wrapStorageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database disk image is malformed") || strings.Contains(msg, "file is not a database") {
		return fmt.Errorf("%w: %s: %v", ErrStorageCorrupt, op, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
