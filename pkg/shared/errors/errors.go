package errors

import (
	"fmt"
)

// UnresolvedReferenceError indicates that a relationship points at an object
// ID that is not present in the store it was expected to live in.
type UnresolvedReferenceError struct {
	Ref   string
	Store string
}

// Error implements the error interface for UnresolvedReferenceError.
func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("cannot find object with ID %q in the %s bundle", e.Ref, e.Store)
}

// NewUnresolvedReference creates a new UnresolvedReferenceError instance.
func NewUnresolvedReference(ref, store string) error {
	return &UnresolvedReferenceError{
		Ref:   ref,
		Store: store,
	}
}

// MalformedIdentifierError indicates a control identifier that does not follow
// the expected "<FAMILY>-<number>" form.
type MalformedIdentifierError struct {
	ID string
}

// Error implements the error interface for MalformedIdentifierError.
func (e *MalformedIdentifierError) Error() string {
	return fmt.Sprintf("control identifier %q does not match the expected family pattern", e.ID)
}

// NewMalformedIdentifier creates a new MalformedIdentifierError instance.
func NewMalformedIdentifier(id string) error {
	return &MalformedIdentifierError{ID: id}
}

// MissingExternalReferenceError indicates an object without any external
// references, so no canonical identifier can be derived for it.
type MissingExternalReferenceError struct {
	ObjectID string
}

// Error implements the error interface for MissingExternalReferenceError.
func (e *MissingExternalReferenceError) Error() string {
	return fmt.Sprintf("object %q carries no external references", e.ObjectID)
}

// NewMissingExternalReference creates a new MissingExternalReferenceError instance.
func NewMissingExternalReference(objectID string) error {
	return &MissingExternalReferenceError{ObjectID: objectID}
}

// CommandError represents a failure of a CLI command, carrying the exit code
// the process should terminate with.
type CommandError struct {
	ExitCode int
	Err      error
}

// Error implements the error interface, returning the wrapped error message.
func (e *CommandError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the wrapped error for inspection with errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError encapsulating the underlying
// error and the desired process exit code.
func NewCommandError(err error, code int) *CommandError {
	return &CommandError{
		ExitCode: code,
		Err:      err,
	}
}
