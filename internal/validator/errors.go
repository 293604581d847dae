package validator

import "errors"

var (
	// ErrIO indicates the source file could not be read (missing, unreadable,
	// not a regular file, or not valid UTF-8).
	ErrIO = errors.New("source read failed")

	// ErrMalformedSource indicates the method body could not be delimited because
	// its braces, literals or comments are unbalanced before end of file.
	ErrMalformedSource = errors.New("malformed source")

	// ErrInvalidArgument indicates a caller passed an unusable method name or token.
	ErrInvalidArgument = errors.New("invalid argument")
)
