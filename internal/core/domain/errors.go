package domain

import "errors"

// Domain errors represent search and host failures.
// Callers classify them with errors.Is; zero matches is never an error.
var (
	// ErrInvalidArgument indicates an empty search word, a negative gap,
	// or any other malformed search parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAllocationFailure indicates the output arena could not be acquired
	// or has no room for a single record.
	ErrAllocationFailure = errors.New("allocation failure")

	// ErrInvalidInput indicates malformed input to a loader or processor.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedType indicates an unknown loader, processor or message type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Host Errors.

	// ErrEngineNotReady indicates the host has not finished initialising.
	ErrEngineNotReady = errors.New("engine not ready")

	// ErrEngineFailed indicates host initialisation failed.
	// The host stays in the error state until re-initialised.
	ErrEngineFailed = errors.New("engine initialisation failed")
)

// ErrorCode maps an error to the code carried by SearchError messages.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrUnsupportedType):
		return CodeInvalidArgument
	case errors.Is(err, ErrAllocationFailure):
		return CodeAllocationFailure
	case errors.Is(err, ErrEngineNotReady), errors.Is(err, ErrEngineFailed):
		return CodeNotReady
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// Error codes carried on the wire.
const (
	CodeInvalidArgument   = "invalid_argument"
	CodeAllocationFailure = "allocation_failure"
	CodeNotReady          = "not_ready"
	CodeNotFound          = "not_found"
	CodeInternal          = "internal"
)
