package core

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfcos/internal/filters"
)

// Error kinds reported by the decoders and the resolver. Every error returned
// by this package matches exactly one of these with errors.Is.
var (
	ErrNoMatch               = errors.New("no value matches input")
	ErrMalformedLiteral      = errors.New("malformed literal")
	ErrMalformedString       = errors.New("malformed string")
	ErrMalformedName         = errors.New("malformed name")
	ErrUnterminatedContainer = errors.New("unterminated container")
	ErrDanglingReference     = errors.New("dangling reference")
	ErrReferenceCycle        = errors.New("reference cycle")
	ErrDepthExceeded         = errors.New("nesting depth exceeded")
	ErrInputTooLarge         = errors.New("input too large")
	ErrTrailingData          = errors.New("trailing data after value")

	// ErrUnsupportedFilter is returned by Stream.Decode for filters that are
	// recognized but not implemented, or not recognized at all.
	ErrUnsupportedFilter = filters.ErrUnsupportedFilter
)

// SyntaxError describes a grammar failure at a byte offset of the input
// handed to the parser.
type SyntaxError struct {
	Offset int
	Kind   error
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

// Unwrap returns the error kind.
func (e *SyntaxError) Unwrap() error { return e.Kind }

// DanglingReferenceError reports a reference to an identity that is absent
// from the object table.
type DanglingReferenceError struct {
	Ref IndirectRef
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference: object %s not found", e.Ref)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// isNoMatch reports whether err only says that a decoder did not recognize
// its input, as opposed to recognizing it and finding it malformed.
func isNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}
