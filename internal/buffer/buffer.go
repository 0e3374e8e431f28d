// Package buffer holds the bounded text of the expression being typed.
package buffer

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLength is the default cap on non-whitespace characters.
const DefaultMaxLength = 25

// ErrLimitExceeded is returned by Append when the token would push the
// buffer past its maximum length. The buffer is left unchanged.
var ErrLimitExceeded = errors.New("character limit reached")

// Buffer is the mutable expression text of one calculator session.
// It is not safe for concurrent use.
type Buffer struct {
	text string
	max  int
}

// New creates an empty buffer capped at limit non-whitespace characters.
// A non-positive limit selects DefaultMaxLength.
func New(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultMaxLength
	}
	return &Buffer{max: limit}
}

// Max returns the configured character cap.
func (b *Buffer) Max() int {
	return b.max
}

// Len returns the number of non-whitespace characters in the buffer.
func (b *Buffer) Len() int {
	return countNonSpace(b.text)
}

// Append adds token to the end of the buffer and returns the new content.
// No syntax checking happens here.
func (b *Buffer) Append(token string) (string, error) {
	if b.Len()+countNonSpace(token) > b.max {
		return b.text, ErrLimitExceeded
	}
	b.text += token
	return b.text, nil
}

// Backspace removes the last character. It is a no-op on an empty buffer.
func (b *Buffer) Backspace() {
	if b.text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.text)
	b.text = b.text[:len(b.text)-size]
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.text = ""
}

// ToggleSign strips a leading '-' or prepends one. It only ever touches the
// first character of the whole expression, not the number being typed.
// It is a no-op on an empty buffer.
func (b *Buffer) ToggleSign() {
	switch {
	case b.text == "":
	case strings.HasPrefix(b.text, "-"):
		b.text = b.text[1:]
	default:
		b.text = "-" + b.text
	}
}

// Snapshot returns the current content.
func (b *Buffer) Snapshot() string {
	return b.text
}

// Replace installs s as the new content, bypassing the length cap.
// Used to show an evaluation result.
func (b *Buffer) Replace(s string) {
	b.text = s
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
