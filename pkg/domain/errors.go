package domain

import (
	"errors"
	"fmt"
)

// ErrAlreadyWrapped is returned when a wrap operation targets a module that
// already carries wrapper state. The input must be restructured; the
// operation is never retried.
var ErrAlreadyWrapped = errors.New("module is already wrapped")

// ErrNoWrapper is returned when a wrap executes inside a scope whose merged
// configuration has no wrapper capability.
var ErrNoWrapper = errors.New("no wrapper configured")

// WrapError annotates a wrap failure with the location of the offending
// module inside the traversal.
type WrapError struct {
	// Path is the slash-separated chain of child names from the traversal
	// root. Empty for the root itself.
	Path string
	Kind Kind
	Err  error
}

func (e *WrapError) Error() string {
	path := e.Path
	if path == "" {
		path = "(root)"
	}
	return fmt.Sprintf("wrap %s [kind=%s]: %v", path, e.Kind, e.Err)
}

func (e *WrapError) Unwrap() error { return e.Err }
