package tsc

import "errors"

var (
	// ErrDriverFailed is returned when the TypeScript driver exits abnormally.
	ErrDriverFailed = errors.New("typescript driver failed")

	// ErrInvalidReport is returned when the driver's output cannot be decoded.
	ErrInvalidReport = errors.New("invalid driver report")
)
