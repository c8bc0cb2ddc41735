package asm

import (
	"errors"
	"fmt"

	"hackasm/pkg/hack"
)

var (
	ErrUndefinedSymbol      = errors.New("undefined symbol")
	ErrDuplicateLabel       = errors.New("duplicate label")
	ErrMalformedInstruction = hack.ErrMalformedInstruction
	ErrAddressOutOfRange    = hack.ErrAddressOutOfRange
)

// LineError ties an assembly failure to the source line that caused it.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%v on line %d: %s", e.Err, e.Line, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
