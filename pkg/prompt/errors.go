package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNilForm is returned by Fill when no form is given.
	ErrNilForm = errors.New("prompt: nil form")
)
