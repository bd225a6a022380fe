package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInvalidState indicates that the operation is not valid given the current
// state of the resource (e.g. revealing an already-revealed gift).
var ErrInvalidState = errors.New("invalid state for operation")

// ErrConflict indicates a concurrent-modification conflict, typically a stale
// version on an optimistic-concurrency update.
var ErrConflict = errors.New("version conflict")
