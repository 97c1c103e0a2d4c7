package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	ErrEmptyInput     = errors.New("empty observation input")
	ErrInvalidMatchup = errors.New("invalid matchup")
	ErrNotFound       = errors.New("record not found")
	ErrCollaborator   = errors.New("collaborator failure")
	ErrHydration      = errors.New("hydration failed")
	ErrInvalidWeight  = errors.New("observation weight must be positive")
)

// EmptyInputError is returned when a percentile computation receives no observations.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrEmptyInput.Error())
}

// Unwrap lets errors.Is match ErrEmptyInput.
func (e *EmptyInputError) Unwrap() error {
	return ErrEmptyInput
}

// CollaboratorError wraps a failure raised by an external store or fetcher.
type CollaboratorError struct {
	Op  string
	Err error
}

// NewCollaboratorError creates a new collaborator error
func NewCollaboratorError(op string, err error) *CollaboratorError {
	return &CollaboratorError{Op: op, Err: err}
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCollaborator.Error(), e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is reports ErrCollaborator for every collaborator error.
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaborator
}
