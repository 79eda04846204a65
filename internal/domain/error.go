package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrAccessDenied       = errors.New("access denied")
	ErrGatewayDeclined    = errors.New("gateway did not report a successful transaction")
	ErrMissingMetadata    = errors.New("gateway transaction carries no booking id")
	ErrAmountMismatch     = errors.New("payment amount does not match booking price")
	ErrBookingNotPending  = errors.New("booking is not in pending status")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid database execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrLockUnavailable    = errors.New("could not acquire lock")
)
