package tenscript

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalChar indicates a character outside the tenscript alphabet.
	ErrIllegalChar = errors.New("tenscript: illegal character")

	// ErrUnterminatedString indicates a quote that never closes.
	ErrUnterminatedString = errors.New("tenscript: unterminated string")

	// ErrUnbalanced indicates a missing or surplus parenthesis.
	ErrUnbalanced = errors.New("tenscript: unbalanced parentheses")

	// ErrUnknownForm indicates a list whose head is not a known keyword.
	ErrUnknownForm = errors.New("tenscript: unknown form")

	// ErrBadArgument indicates a known form with a malformed argument.
	ErrBadArgument = errors.New("tenscript: bad argument")

	// ErrDuplicate indicates a form that may appear only once.
	ErrDuplicate = errors.New("tenscript: duplicate form")
)

// Pos is a 1-based line and column in the source.
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Error carries the offending term and where it was found.
type Error struct {
	Pos      Pos
	Term     string
	Expected string
	Wrapped  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v at %s", e.Wrapped, e.Pos)
	if e.Term != "" {
		msg += fmt.Sprintf(" near %s", e.Term)
	}
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
