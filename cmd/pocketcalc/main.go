// Command pocketcalc is a keystroke-driven pocket calculator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"nickandperla.net/pocketcalc/internal/config"
	"nickandperla.net/pocketcalc/internal/logging"
	"nickandperla.net/pocketcalc/pkg/calc"
)

func main() {
	var (
		evalStr    = flag.String("e", "", "Evaluate an expression and print the result")
		configPath = flag.String("config", "", "YAML configuration file")
		history    = flag.String("history", "", "Calculation tape backend: memory or sqlite")
		tui        = flag.Bool("tui", false, "Run the full-screen keypad")
		lineMode   = flag.Bool("line", false, "Read whole lines even on a terminal")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *history != "" {
		cfg.History.Backend = *history
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := logging.New(os.Stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts := []calc.Option{
		calc.WithConfig(cfg),
		calc.WithLogger(logger),
	}

	ctx := context.Background()

	switch {
	case *evalStr != "":
		os.Exit(evalOnce(ctx, os.Stdout, os.Stderr, *evalStr, opts))

	case *tui:
		if err := runTUI(ctx, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case !*lineMode && term.IsTerminal(int(os.Stdin.Fd())):
		if err := runRawREPL(ctx, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default:
		if err := runLineREPL(ctx, os.Stdin, os.Stdout, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// evalOnce enters expr into a fresh session, calculates and prints the
// displayed result. It returns the process exit code.
func evalOnce(ctx context.Context, stdout, stderr io.Writer, expr string, opts []calc.Option) int {
	session, err := calc.New(opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer session.Close()

	if err := enterLine(session, expr); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", userMessage(err))
		return 1
	}
	if _, err := session.Calculate(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", userMessage(err))
		return 1
	}
	fmt.Fprintln(stdout, session.Display())
	return 0
}

// userMessage turns session errors into the generic text users see.
func userMessage(err error) string {
	switch {
	case errors.Is(err, calc.ErrLimitExceeded):
		return "character limit reached"
	case errors.Is(err, calc.ErrInvalidExpression):
		return "invalid expression"
	}
	return err.Error()
}
