package formula

import "fmt"

// SyntaxError indicates a malformed expression: unbalanced parentheses, an
// unexpected token, or trailing input. Pos is a zero-based byte offset into
// the source expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at offset %d: %s", e.Expr, e.Pos, e.Msg)
}

// UnknownIdentifierError indicates a formula referencing a name absent from
// the parameter snapshot. Every referenced identifier is required; there is
// no implicit default.
type UnknownIdentifierError struct {
	Name string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("unknown identifier %q", e.Name)
}

// DivisionByZeroError indicates a division whose denominator evaluated to
// zero.
type DivisionByZeroError struct {
	Expr string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero evaluating %q", e.Expr)
}

// OverflowError indicates an evaluation step that produced a non-finite
// intermediate or final result.
type OverflowError struct {
	Expr string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("non-finite result evaluating %q", e.Expr)
}
