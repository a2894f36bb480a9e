package domain

import "errors"

var (
	ErrNotAuthorized       = errors.New("not authorized")
	ErrForbidden           = errors.New("no access to coin")
	ErrUnknownAsset        = errors.New("unknown coin")
	ErrNoSuchRequest       = errors.New("no pending request")
	ErrInvalidPosition     = errors.New("invalid alert number")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidArguments    = errors.New("invalid arguments")
	ErrAlreadyExists       = errors.New("symbol already registered")
	ErrValidationFailed    = errors.New("coin id not known to quote source")
	ErrUpstreamUnavailable = errors.New("quote source unavailable")

	// Idempotent no-op outcomes of the request workflow. They carry "nothing
	// changed" information to the transport rather than signalling failure.
	ErrAlreadyPending  = errors.New("request already pending")
	ErrAlreadyApproved = errors.New("access already granted")
	ErrAlreadyEntitled = errors.New("coin already granted")
)
