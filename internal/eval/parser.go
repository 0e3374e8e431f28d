package eval

import (
	"fmt"
	"strconv"

	"nickandperla.net/pocketcalc/internal/expr"
	"nickandperla.net/pocketcalc/internal/scanner"
	"nickandperla.net/pocketcalc/internal/token"
)

// unaryPrec sits between * / and ^, so -2^2 is -(2^2) while 2*-3 still parses.
const unaryPrec = 3

// parser is a precedence-climbing parser over scanner items.
type parser struct {
	scan *scanner.Scanner
}

// parse parses a complete normalized expression.
func parse(input string) (expr.Expr, error) {
	p := &parser{scan: scanner.NewFromString(input)}

	first, err := p.scan.Peek()
	if err != nil {
		return nil, err
	}
	if first.Token == token.EOF {
		return nil, &SyntaxError{Pos: first.Pos, Msg: "empty expression"}
	}

	e, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}

	item, err := p.scan.Next()
	if err != nil {
		return nil, err
	}
	switch item.Token {
	case token.EOF:
		return e, nil
	case token.RPAREN:
		return nil, &SyntaxError{Pos: item.Pos, Msg: "unbalanced ')'"}
	default:
		return nil, unexpected(item)
	}
}

// parseExpr parses operators binding at least as tightly as minPrec.
func (p *parser) parseExpr(minPrec int) (expr.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		item, err := p.scan.Peek()
		if err != nil {
			return nil, err
		}

		prec := item.Token.Precedence()
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		p.scan.Next()

		if item.Token == token.PERCENT {
			left = expr.Percent{Operand: left}
			continue
		}

		// Every binary operator is left-associative, ^ included.
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = expr.Binary{Op: item.Token, Left: left, Right: right}
	}
}

// parsePrefix parses a literal, a parenthesized group or a unary minus.
func (p *parser) parsePrefix() (expr.Expr, error) {
	item, err := p.scan.Next()
	if err != nil {
		return nil, err
	}

	switch item.Token {
	case token.NUMBER:
		v, err := strconv.ParseFloat(item.Value, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("bad number %q", item.Value)}
		}
		return expr.Number{Value: v, Text: item.Value, Offset: item.Pos}, nil

	case token.LPAREN:
		inner, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		closing, err := p.scan.Next()
		if err != nil {
			return nil, err
		}
		if closing.Token != token.RPAREN {
			if closing.Token == token.EOF {
				return nil, &SyntaxError{Pos: item.Pos, Msg: "unbalanced '('"}
			}
			return nil, unexpected(closing)
		}
		return expr.Group{Inner: inner, Offset: item.Pos}, nil

	case token.MINUS:
		operand, err := p.parseExpr(unaryPrec)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: token.MINUS, Operand: operand, Offset: item.Pos}, nil

	case token.EOF:
		return nil, &SyntaxError{Pos: item.Pos, Msg: "missing operand"}
	}

	if item.Token.IsBinary() {
		return nil, &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("missing operand before %q", item.Token.String())}
	}
	return nil, unexpected(item)
}

func unexpected(item *scanner.Item) error {
	switch item.Token {
	case token.ILLEGAL:
		return &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("invalid input %q", item.Value)}
	case token.PERCENT:
		return &SyntaxError{Pos: item.Pos, Msg: "'%' has no operand"}
	}
	return &SyntaxError{Pos: item.Pos, Msg: fmt.Sprintf("unexpected %q", item.Token.String())}
}
