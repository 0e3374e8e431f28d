// Package eval implements the calculator's expression evaluator: locale
// normalization, parsing of + - * / ^ % and parentheses, evaluation,
// rounding and display formatting.
//
// Only that fixed grammar is accepted. Input is never handed to any
// general-purpose interpreter.
package eval

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"nickandperla.net/pocketcalc/internal/expr"
	"nickandperla.net/pocketcalc/internal/token"
)

// DefaultPrecision is the number of decimal places kept for non-integral results.
const DefaultPrecision = 6

// MaxPrecision bounds WithPrecision; float64 carries no more useful digits.
const MaxPrecision = 15

// Result is a successful evaluation.
type Result struct {
	Value     float64 // Rounded value
	Text      string  // Point-separated form, becomes the new buffer
	Display   string  // Comma-separated form for rendering
	Rewritten string  // Canonical form after percent rewriting, for logs
}

// Evaluator evaluates calculator expressions. It holds only configuration,
// so a single Evaluator may be shared.
type Evaluator struct {
	precision int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithPrecision sets how many decimal places non-integral results keep.
// Values outside [0, MaxPrecision] are clamped.
func WithPrecision(n int) Option {
	return func(e *Evaluator) {
		e.precision = min(max(n, 0), MaxPrecision)
	}
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Precision returns the configured number of decimal places.
func (e *Evaluator) Precision() int {
	return e.precision
}

// Evaluate normalizes, parses and evaluates raw buffer text.
// Every failure wraps ErrInvalidExpression.
func (e *Evaluator) Evaluate(raw string) (Result, error) {
	tree, err := Parse(raw)
	if err != nil {
		return Result{}, err
	}

	v, err := e.eval(tree)
	if err != nil {
		return Result{}, err
	}

	v = e.Round(v)
	if v == 0 {
		// Drops the sign of negative zero, matching Format.
		v = 0
	}
	text := Format(v)
	return Result{
		Value:     v,
		Text:      text,
		Display:   ToDisplay(text),
		Rewritten: tree.String(),
	}, nil
}

// Parse normalizes raw and returns its expression tree.
func Parse(raw string) (expr.Expr, error) {
	return parse(Normalize(raw))
}

// Normalize maps every display decimal separator to the internal one.
func Normalize(raw string) string {
	return strings.ReplaceAll(raw, string(token.RuneComma), string(token.RuneDecimal))
}

// ToDisplay maps every internal decimal separator to the display one.
func ToDisplay(s string) string {
	return strings.ReplaceAll(s, string(token.RuneDecimal), string(token.RuneComma))
}

// Round rounds non-integral values to the configured precision, ties to
// even on the exact binary value. Integral values are returned unchanged.
func (e *Evaluator) Round(v float64) float64 {
	if v == math.Trunc(v) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', e.precision, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// Format renders v as a plain decimal with a point separator. Exponent
// notation is never used so the result can be edited and evaluated again.
func Format(v float64) string {
	if v == 0 {
		// Drops the sign of negative zero.
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (e *Evaluator) eval(node expr.Expr) (float64, error) {
	switch n := node.(type) {
	case expr.Number:
		return n.Value, nil

	case expr.Group:
		return e.eval(n.Inner)

	case expr.Unary:
		v, err := e.eval(n.Operand)
		if err != nil {
			return 0, err
		}
		return -v, nil

	case expr.Percent:
		v, err := e.eval(n.Operand)
		if err != nil {
			return 0, err
		}
		return v / 100, nil

	case expr.Binary:
		l, err := e.eval(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := e.eval(n.Right)
		if err != nil {
			return 0, err
		}
		return apply(n.Op, l, r)
	}

	return 0, fmt.Errorf("unknown expression %T: %w", node, ErrInvalidExpression)
}

func apply(op token.Token, l, r float64) (float64, error) {
	var v float64
	switch op {
	case token.PLUS:
		v = l + r
	case token.MINUS:
		v = l - r
	case token.STAR:
		v = l * r
	case token.SLASH:
		if r == 0 {
			return 0, &MathError{Op: op.String(), Msg: "division by zero"}
		}
		v = l / r
	case token.CARET:
		if l == 0 && r < 0 {
			return 0, &MathError{Op: op.String(), Msg: "zero raised to a negative power"}
		}
		v = math.Pow(l, r)
	default:
		return 0, fmt.Errorf("unknown operator %s: %w", op, ErrInvalidExpression)
	}

	if math.IsNaN(v) {
		return 0, &MathError{Op: op.String(), Msg: "result is not a real number"}
	}
	if math.IsInf(v, 0) {
		return 0, &MathError{Op: op.String(), Msg: "result overflows"}
	}
	return v, nil
}
