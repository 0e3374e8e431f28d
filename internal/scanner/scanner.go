// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides a streaming lexer for calculator expressions.
package scanner

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"nickandperla.net/pocketcalc/internal/token"
)

// Scanner tokenizes expression input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	buf    strings.Builder
	peeked *Item
	pos    int // Byte offset of the next unread rune
}

// Item represents a scanned token with its value.
type Item struct {
	Token token.Token
	Value string
	Pos   int // Byte offset where this token started
}

// New creates a new Scanner from an io.Reader.
func New(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

// NewFromString creates a new Scanner from a string.
func NewFromString(s string) *Scanner {
	return New(strings.NewReader(s))
}

// Pos returns the byte offset of the next unread rune.
func (s *Scanner) Pos() int {
	return s.pos
}

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() (*Item, error) {
	if s.peeked != nil {
		return s.peeked, nil
	}
	item, err := s.Next()
	if err != nil {
		return nil, err
	}
	s.peeked = item
	return item, nil
}

// Next returns the next token from the input.
// Number literals are returned verbatim; an ILLEGAL item carries the
// offending text.
func (s *Scanner) Next() (*Item, error) {
	if s.peeked != nil {
		item := s.peeked
		s.peeked = nil
		return item, nil
	}

	if err := s.SkipWhitespace(); err != nil {
		return nil, err
	}

	start := s.pos
	r, size, err := s.reader.ReadRune()
	if err == io.EOF {
		return &Item{Token: token.EOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}
	s.pos += size

	if token.IsOperator(r) {
		return &Item{Token: token.TokenFromRune(r), Value: string(r), Pos: start}, nil
	}

	if isNumberRune(r) {
		s.buf.Reset()
		s.buf.WriteRune(r)
		if err := s.scanNumber(); err != nil {
			return nil, err
		}
		value := s.buf.String()
		if !validNumber(value) {
			return &Item{Token: token.ILLEGAL, Value: value, Pos: start}, nil
		}
		return &Item{Token: token.NUMBER, Value: value, Pos: start}, nil
	}

	return &Item{Token: token.ILLEGAL, Value: string(r), Pos: start}, nil
}

// scanNumber consumes the remaining digits and decimal points of a literal.
// Malformed runs such as "1.2.3" are kept whole so they fail as one item.
func (s *Scanner) scanNumber() error {
	for {
		r, size, err := s.reader.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !isNumberRune(r) {
			s.reader.UnreadRune()
			return nil
		}
		s.pos += size
		s.buf.WriteRune(r)
	}
}

// SkipWhitespace consumes and discards whitespace.
func (s *Scanner) SkipWhitespace() error {
	for {
		r, size, err := s.reader.ReadRune()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			s.reader.UnreadRune()
			return nil
		}
		s.pos += size
	}
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == token.RuneDecimal
}

// validNumber reports whether v has at least one digit and at most one
// decimal point. "5." and ".5" are both accepted.
func validNumber(v string) bool {
	digits, points := 0, 0
	for _, r := range v {
		if r == token.RuneDecimal {
			points++
		} else {
			digits++
		}
	}
	return digits > 0 && points <= 1
}
