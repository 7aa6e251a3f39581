package bundler

import "errors"

var (
	errUnknownTarget    = errors.New("unknown target")
	errUnexpectedOutput = errors.New("unexpected bundler output")
	errInvalidAlias     = errors.New("invalid path alias")
)
