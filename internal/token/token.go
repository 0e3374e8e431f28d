// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the token kinds of calculator expressions.
package token

// Token represents a calculator token type.
type Token int

const (
	EOF Token = iota
	ILLEGAL
	NUMBER

	// Operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	CARET   // ^ power
	PERCENT // % postfix, x% = x/100

	LPAREN // (
	RPAREN // )
)

// Operator runes.
const (
	RunePlus    = '+'
	RuneMinus   = '-'
	RuneStar    = '*'
	RuneSlash   = '/'
	RuneCaret   = '^'
	RunePercent = '%'
	RuneLParen  = '('
	RuneRParen  = ')'

	// RuneDecimal is the internal decimal separator.
	RuneDecimal = '.'
	// RuneComma is the display decimal separator.
	RuneComma = ','
)

// IsOperator returns true if the rune is a calculator operator or parenthesis.
func IsOperator(r rune) bool {
	switch r {
	case RunePlus, RuneMinus, RuneStar, RuneSlash, RuneCaret, RunePercent,
		RuneLParen, RuneRParen:
		return true
	}
	return false
}

// TokenFromRune returns the token type for an operator rune.
func TokenFromRune(r rune) Token {
	switch r {
	case RunePlus:
		return PLUS
	case RuneMinus:
		return MINUS
	case RuneStar:
		return STAR
	case RuneSlash:
		return SLASH
	case RuneCaret:
		return CARET
	case RunePercent:
		return PERCENT
	case RuneLParen:
		return LPAREN
	case RuneRParen:
		return RPAREN
	}
	return ILLEGAL
}

// String returns the string representation of a token.
func (t Token) String() string {
	switch t {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case NUMBER:
		return "NUMBER"
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	case CARET:
		return "^"
	case PERCENT:
		return "%"
	case LPAREN:
		return "("
	case RPAREN:
		return ")"
	}
	return "UNKNOWN"
}

// IsBinary returns true if the token can join two operands.
func (t Token) IsBinary() bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH, CARET:
		return true
	}
	return false
}

// Precedence returns the binding power of a binary operator, 0 otherwise.
// PERCENT is postfix and binds tighter than every binary operator.
func (t Token) Precedence() int {
	switch t {
	case PLUS, MINUS:
		return 1
	case STAR, SLASH:
		return 2
	case CARET:
		return 4
	case PERCENT:
		return 5
	}
	return 0
}
