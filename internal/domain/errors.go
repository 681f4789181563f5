package domain

import "errors"

// Error kinds shared by every service. Callers add context with
// fmt.Errorf and "%w" so the API layer can classify them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")                    // Entity absent or owned by someone else
	ErrValidation          = errors.New("invalid input")                // Unrecognized enum value, non-positive amount, ...
	ErrInsufficientBalance = errors.New("insufficient balance")         // Operation would drive a wallet negative
	ErrConflict            = errors.New("conflict")                     // Structural conflict, e.g. self-transference
)
