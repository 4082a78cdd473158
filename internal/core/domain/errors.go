package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// ErrSessionClosed is returned when an operation reaches a state
	// container that has already been torn down.
	ErrSessionClosed = errors.New("state container closed")

	// Local mutation validation failures. These never reach the network.
	ErrAmountInvalid       = errors.New("amount is not a valid number")
	ErrAmountBelowMinimum  = errors.New("amount is below the minimum")
	ErrAmountAboveMaximum  = errors.New("amount exceeds the maximum")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrMutationInFlight rejects re-entrant deposit/withdraw submissions
	// while a previous one is still processing.
	ErrMutationInFlight = errors.New("another wallet operation is in progress")

	// ErrKeyNotFound is returned by key-value stores for absent keys.
	// Absence is never fatal; it reads as "not logged in".
	ErrKeyNotFound = errors.New("key not found")
)

// RemoteError is a well-formed rejection from the platform API: the request
// reached the backend and was answered with success=false and a message.
// The message is surfaced to the user verbatim. Transport and parse failures
// are ordinary wrapped errors, never RemoteError.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}
