package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousSignature is returned when a procedure does not resolve to exactly one call signature.
	ErrAmbiguousSignature = errors.New("procedure must have exactly one call signature")

	// ErrScriptDelimiter is returned when a bundled script contains the `$$` that closes a
	// procedure body.
	ErrScriptDelimiter = errors.New("bundled script contains the $$ body delimiter")

	errNoCompiler = errors.New("no compiler configured")
	errNoBundler  = errors.New("no bundler configured")
)

func errAmbiguousSignature(name string, count int) error {
	return fmt.Errorf("%s has %d call signatures: %w", name, count, ErrAmbiguousSignature)
}
