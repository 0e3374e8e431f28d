package eval

import (
	"errors"
	"fmt"
)

// ErrInvalidExpression is the single failure kind reported to users.
// Every parse and evaluation error wraps it.
var ErrInvalidExpression = errors.New("invalid expression")

// SyntaxError describes why an expression could not be parsed.
type SyntaxError struct {
	Pos int    // Byte offset in the normalized input
	Msg string // What was wrong
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrInvalidExpression }

// MathError describes an arithmetic failure such as division by zero.
type MathError struct {
	Op  string
	Msg string
}

func (e *MathError) Error() string {
	return fmt.Sprintf("math error in %s: %s", e.Op, e.Msg)
}

func (e *MathError) Unwrap() error { return ErrInvalidExpression }
