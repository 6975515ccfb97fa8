package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller lacks the role or ownership required for the action.
var ErrUnauthorized = errors.New("caller not authorized for this action")

// ErrConflict indicates that a listing is not in the availability state the action requires.
var ErrConflict = errors.New("listing is not available")

// ErrInvalidState indicates that a match is not in the state the transition requires.
var ErrInvalidState = errors.New("match is not in the required state")
