package doctree

import (
	"errors"
	"fmt"
)

var (
	// ErrNotADirectory is returned when the root of a tree is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrIo wraps every filesystem failure while scanning or opening the tree.
	ErrIo = errors.New("io error")
)

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrIo, op, path, err)
}
