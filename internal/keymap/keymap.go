// Package keymap translates raw key events from a front end into
// calculator actions.
package keymap

import (
	"strings"

	"golang.org/x/text/width"
)

// Code identifies a non-printable key, or KeyRune for a printable one.
type Code int

const (
	KeyRune Code = iota
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyEscape
)

// Key is a single key event.
type Key struct {
	Code Code
	Rune rune // Set when Code is KeyRune
}

// Rune returns a printable key event.
func Rune(r rune) Key {
	return Key{Code: KeyRune, Rune: r}
}

// Kind is what a key does to the session.
type Kind int

const (
	None Kind = iota
	Append
	Backspace
	Clear
	ToggleSign
	Calculate
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Append:
		return "append"
	case Backspace:
		return "backspace"
	case Clear:
		return "clear"
	case ToggleSign:
		return "toggle-sign"
	case Calculate:
		return "calculate"
	}
	return "unknown"
}

// Action is the result of looking up a key.
type Action struct {
	Kind Kind
	Text string // Token to append when Kind is Append
}

// appendable are the runes forwarded to the buffer as typed.
const appendable = "0123456789+-*/^,%()"

// aliases maps keypad and typographic symbols onto buffer tokens.
var aliases = map[rune]string{
	'.': ",", // keypad decimal point, the buffer uses the comma
	'×': "*",
	'÷': "/",
	'−': "-", // U+2212 minus sign
}

// Lookup returns the action for key. Unknown keys map to None.
func Lookup(key Key) Action {
	switch key.Code {
	case KeyEnter:
		return Action{Kind: Calculate}
	case KeyBackspace:
		return Action{Kind: Backspace}
	case KeyDelete, KeyEscape:
		return Action{Kind: Clear}
	case KeyRune:
		return lookupRune(key.Rune)
	}
	return Action{}
}

func lookupRune(r rune) Action {
	// Full-width digits and operators from IME keyboards fold to ASCII.
	folded := width.Fold.String(string(r))
	if len([]rune(folded)) == 1 {
		r = []rune(folded)[0]
	}

	switch r {
	case '=':
		return Action{Kind: Calculate}
	case '±', 'n', 'N':
		return Action{Kind: ToggleSign}
	case '\r', '\n':
		return Action{Kind: Calculate}
	case '\b', 0x7f:
		return Action{Kind: Backspace}
	case 0x1b, 'c', 'C':
		return Action{Kind: Clear}
	}

	if s, ok := aliases[r]; ok {
		return Action{Kind: Append, Text: s}
	}
	if strings.ContainsRune(appendable, r) {
		return Action{Kind: Append, Text: string(r)}
	}
	return Action{}
}

// Help lists the key bindings for front ends to print.
func Help() []string {
	return []string{
		"0-9 + - * / ^ ( )  type the expression",
		", or .             decimal separator",
		"%                  percent of the preceding operand",
		"n                  toggle the leading sign",
		"Enter or =         calculate",
		"Backspace          delete the last character",
		"c, Esc or Delete   clear",
	}
}
