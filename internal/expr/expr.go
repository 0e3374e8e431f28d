// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr defines calculator expression types.
package expr

import (
	"strconv"
	"strings"

	"nickandperla.net/pocketcalc/internal/token"
)

// Expr is the interface all expression types implement.
type Expr interface {
	// String returns the canonical representation of the expression.
	String() string
	// Pos returns the byte offset where the expression starts.
	Pos() int
}

// Number is a numeric literal.
type Number struct {
	Value  float64
	Text   string // Literal as typed, point separator
	Offset int
}

func (n Number) String() string {
	if n.Text != "" {
		return n.Text
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
func (n Number) Pos() int { return n.Offset }

// Unary is a prefix minus.
type Unary struct {
	Op      token.Token
	Operand Expr
	Offset  int
}

func (u Unary) String() string {
	return u.Op.String() + u.Operand.String()
}
func (u Unary) Pos() int { return u.Offset }

// Binary is an infix operation (+ - * / ^).
type Binary struct {
	Op    token.Token
	Left  Expr
	Right Expr
}

func (b Binary) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(b.Left.String())
	sb.WriteString(b.Op.String())
	sb.WriteString(b.Right.String())
	sb.WriteString(")")
	return sb.String()
}
func (b Binary) Pos() int { return b.Left.Pos() }

// Percent is a postfix percent: Operand% is Operand/100.
type Percent struct {
	Operand Expr
}

// String renders the rewritten form, (x/100).
func (p Percent) String() string {
	return "(" + p.Operand.String() + "/100)"
}
func (p Percent) Pos() int { return p.Operand.Pos() }

// Group is a parenthesized expression.
type Group struct {
	Inner  Expr
	Offset int
}

func (g Group) String() string {
	return "(" + g.Inner.String() + ")"
}
func (g Group) Pos() int { return g.Offset }
