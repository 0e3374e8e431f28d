package main

import (
	"bufio"
	"io"

	"nickandperla.net/pocketcalc/internal/keymap"
)

// keyReader decodes raw-mode terminal bytes into key events.
type keyReader struct {
	r *bufio.Reader
}

func newKeyReader(r io.Reader) *keyReader {
	return &keyReader{r: bufio.NewReader(r)}
}

// Next returns the next key. Ctrl+C and Ctrl+D end input with io.EOF.
func (k *keyReader) Next() (keymap.Key, error) {
	for {
		r, _, err := k.r.ReadRune()
		if err != nil {
			return keymap.Key{}, err
		}

		switch r {
		case 0x03, 0x04: // Ctrl+C, Ctrl+D
			return keymap.Key{}, io.EOF

		case 0x0d, 0x0a: // Enter (CR or LF)
			return keymap.Key{Code: keymap.KeyEnter}, nil

		case 0x7f, 0x08: // Backspace (DEL or BS)
			return keymap.Key{Code: keymap.KeyBackspace}, nil

		case 0x15: // Ctrl+U - kill line
			return keymap.Key{Code: keymap.KeyDelete}, nil

		case 0x1b: // ESC - lone, or the start of a CSI sequence
			key, ok, err := k.escape()
			if err != nil {
				return keymap.Key{}, err
			}
			if ok {
				return key, nil
			}
			continue
		}

		if r >= 0x20 {
			return keymap.Rune(r), nil
		}
		// Other control bytes are ignored
	}
}

// escape decodes what follows ESC. Arrow keys and other sequences without
// a calculator meaning are swallowed (ok == false).
func (k *keyReader) escape() (keymap.Key, bool, error) {
	if k.r.Buffered() == 0 {
		// Nothing queued behind ESC: a lone Escape key press
		return keymap.Key{Code: keymap.KeyEscape}, true, nil
	}
	next, _, err := k.r.ReadRune()
	if err != nil {
		return keymap.Key{}, false, err
	}
	if next != '[' {
		// Alt+key: ESC followed by the key
		k.r.UnreadRune()
		return keymap.Key{}, false, nil
	}

	// CSI: parameters then a final byte in 0x40-0x7e
	var params []rune
	for {
		b, _, err := k.r.ReadRune()
		if err != nil {
			return keymap.Key{}, false, err
		}
		if b >= 0x40 && b <= 0x7e {
			if b == '~' && string(params) == "3" {
				return keymap.Key{Code: keymap.KeyDelete}, true, nil
			}
			return keymap.Key{}, false, nil
		}
		params = append(params, b)
	}
}
