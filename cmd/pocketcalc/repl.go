package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/pocketcalc/internal/eval"
	"nickandperla.net/pocketcalc/internal/keymap"
	"nickandperla.net/pocketcalc/pkg/calc"
)

func printBanner(w io.Writer, eol string) {
	fmt.Fprint(w, "pocketcalc (Ctrl+D to exit)"+eol+eol)
	for _, line := range keymap.Help() {
		fmt.Fprint(w, "  "+line+eol)
	}
	fmt.Fprint(w, eol)
}

// enterLine replaces the buffer with line as typed text. Key bindings do
// not apply, so letters reach the evaluator and fail there.
func enterLine(session *calc.Session, line string) error {
	session.Clear()
	return session.Append(line)
}

// runLineREPL handles non-TTY input: every line is typed into a cleared
// buffer and calculated. Lines starting with ':' are commands.
func runLineREPL(ctx context.Context, in io.Reader, out io.Writer, opts []calc.Option) error {
	session, err := calc.New(append(opts, calc.WithNotifier(lineNotifier{out}))...)
	if err != nil {
		return err
	}
	defer session.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			if quit := runCommand(ctx, session, out, line, "\n"); quit {
				return nil
			}
			continue
		}

		if err := enterLine(session, line); err != nil {
			if !calc.IsUserError(err) {
				return err
			}
			continue
		}
		if _, err := session.Calculate(ctx); err != nil {
			if !calc.IsUserError(err) {
				return err
			}
			continue
		}
		fmt.Fprintln(out, session.Display())
	}
	return scanner.Err()
}

// runCommand executes a ':' command and reports whether to quit.
func runCommand(ctx context.Context, session *calc.Session, out io.Writer, line, eol string) bool {
	switch strings.Fields(line)[0] {
	case ":q", ":quit":
		return true
	case ":history":
		entries, err := session.History(ctx, 0)
		if err != nil {
			fmt.Fprintf(out, "Error: %v%s", err, eol)
			return false
		}
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			fmt.Fprintf(out, "%s = %s%s", eval.ToDisplay(e.Expression), eval.ToDisplay(e.Result), eol)
		}
	case ":forget":
		if err := session.ClearHistory(ctx); err != nil {
			fmt.Fprintf(out, "Error: %v%s", err, eol)
		}
	case ":help":
		fmt.Fprint(out, "Each line is one expression: 0-9 , + - * / ^ % ( )"+eol)
		fmt.Fprint(out, "Commands: :history :forget :help :quit"+eol)
	default:
		fmt.Fprintf(out, "Unknown command: %s%s", line, eol)
	}
	return false
}

// lineNotifier prints notices as plain lines.
type lineNotifier struct {
	w io.Writer
}

func (n lineNotifier) Notify(notice calc.Notice) {
	fmt.Fprintf(n.w, "%s: %s\n", notice.Title, notice.Message)
}

// runRawREPL drives the session one keystroke at a time and redraws the
// display line after each key.
func runRawREPL(ctx context.Context, opts []calc.Option) error {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		return runLineREPL(ctx, os.Stdin, os.Stdout, opts)
	}
	defer term.Restore(fd, oldState)

	out := os.Stdout
	var notice string
	session, err := calc.New(append(opts, calc.WithNotifier(calc.NotifierFunc(func(n calc.Notice) {
		notice = n.Title + ": " + n.Message
	})))...)
	if err != nil {
		return err
	}
	defer session.Close()

	printBanner(out, "\r\n")
	redraw(out, session.Display(), "")

	keys := newKeyReader(os.Stdin)
	for {
		key, err := keys.Next()
		if err == io.EOF {
			fmt.Fprint(out, "\r\n")
			return nil
		}
		if err != nil {
			return err
		}

		notice = ""
		if err := session.Press(ctx, key); err != nil && !calc.IsUserError(err) {
			return err
		}
		redraw(out, session.Display(), notice)
	}
}

// redraw rewrites the current terminal line with the display and, when
// set, a notice after it.
func redraw(w io.Writer, display, notice string) {
	fmt.Fprint(w, "\r\x1b[K> ", display)
	if notice != "" {
		fmt.Fprintf(w, "   [%s]", notice)
		// Park the cursor after the expression
		fmt.Fprintf(w, "\x1b[%dD", len([]rune(notice))+5)
	}
}
