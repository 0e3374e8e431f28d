package calc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"nickandperla.net/pocketcalc/internal/buffer"
	"nickandperla.net/pocketcalc/internal/eval"
	"nickandperla.net/pocketcalc/internal/keymap"
	"nickandperla.net/pocketcalc/internal/logging"
	"nickandperla.net/pocketcalc/internal/store"
)

// Errors returned by Session operations. Both are recoverable: the buffer
// keeps its previous content.
var (
	ErrLimitExceeded     = buffer.ErrLimitExceeded
	ErrInvalidExpression = eval.ErrInvalidExpression
)

// Result is a successful calculation.
type Result = eval.Result

// Entry is one line of the calculation tape.
type Entry = store.Entry

// Session is one calculator: an input buffer, the evaluator and the
// calculation tape. Sessions share nothing with each other unless
// WithStore is used. A Session is not safe for concurrent use; front ends
// drive it from a single event loop.
type Session struct {
	id           string
	buf          *buffer.Buffer
	evaluator    *eval.Evaluator
	tape         store.Store
	sharedStore  bool
	openStore    func() (store.Store, error)
	logger       *slog.Logger
	notifier     Notifier
	maxLength    int
	precision    int
	historyLimit int
}

// New creates a new Session with the given options.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		id:        uuid.NewString(),
		openStore: openMemory,
		logger:    logging.Discard(),
		maxLength: buffer.DefaultMaxLength,
		precision: eval.DefaultPrecision,
	}
	for _, opt := range opts {
		opt(s)
	}

	tape, err := s.openStore()
	if err != nil {
		return nil, fmt.Errorf("open calculation tape: %w", err)
	}
	s.tape = tape
	s.buf = buffer.New(s.maxLength)
	s.evaluator = eval.New(eval.WithPrecision(s.precision))
	s.logger = s.logger.With(slog.String("session_id", s.id))

	s.logger.Debug("session started",
		"max_length", s.buf.Max(),
		"precision", s.evaluator.Precision(),
		"history_limit", s.historyLimit)
	return s, nil
}

// ID returns the session identifier used on the tape and in logs.
func (s *Session) ID() string {
	return s.id
}

// Append adds a token to the buffer. When the buffer is full the token is
// dropped, the notifier gets a NoticeLimitExceeded and ErrLimitExceeded is
// returned.
func (s *Session) Append(token string) error {
	text, err := s.buf.Append(token)
	if err != nil {
		s.logger.Info("append rejected", "token", token, "length", s.buf.Len(), "error", err)
		s.notify(limitNotice(s.buf.Max(), err))
		return err
	}
	s.logger.Debug("append", "token", token, "buffer", text)
	return nil
}

// Backspace removes the last character, if any.
func (s *Session) Backspace() {
	s.buf.Backspace()
	s.logger.Debug("backspace", "buffer", s.buf.Snapshot())
}

// Clear empties the buffer.
func (s *Session) Clear() {
	s.buf.Clear()
	s.logger.Debug("clear")
}

// ToggleSign flips the leading '-' of the whole expression.
func (s *Session) ToggleSign() {
	s.buf.ToggleSign()
	s.logger.Debug("toggle sign", "buffer", s.buf.Snapshot())
}

// Snapshot returns the raw buffer. After a calculation it holds the result
// with a point decimal separator.
func (s *Session) Snapshot() string {
	return s.buf.Snapshot()
}

// Display returns the buffer as it should be rendered, with commas as
// decimal separators.
func (s *Session) Display() string {
	return eval.ToDisplay(s.buf.Snapshot())
}

// Calculate evaluates the buffer. On success the buffer is replaced by the
// result and the calculation is recorded on the tape. On failure the buffer
// is unchanged, the notifier gets a NoticeInvalidExpression and the error
// wraps ErrInvalidExpression.
func (s *Session) Calculate(ctx context.Context) (Result, error) {
	input := s.buf.Snapshot()
	result, err := s.evaluator.Evaluate(input)
	if err != nil {
		s.logger.Warn("evaluation failed", "expression", input, "error", err)
		s.notify(invalidNotice(err))
		return Result{}, err
	}

	s.buf.Replace(result.Text)
	s.logger.Info("calculated", "expression", input, "rewritten", result.Rewritten, "result", result.Text)

	// A tape failure does not undo the result.
	if err := s.record(ctx, input, result.Text); err != nil {
		s.logger.Error("recording calculation failed", "error", err)
	}
	return result, nil
}

func (s *Session) record(ctx context.Context, input, result string) error {
	if _, err := s.tape.Append(ctx, store.Entry{
		Session:    s.id,
		Expression: input,
		Result:     result,
	}); err != nil {
		return err
	}
	if s.historyLimit > 0 {
		return s.tape.Trim(ctx, s.id, s.historyLimit)
	}
	return nil
}

// Press applies a raw key event. Ignored keys are a no-op. The returned
// error is ErrLimitExceeded or wraps ErrInvalidExpression.
func (s *Session) Press(ctx context.Context, key keymap.Key) error {
	action := keymap.Lookup(key)
	switch action.Kind {
	case keymap.Append:
		return s.Append(action.Text)
	case keymap.Backspace:
		s.Backspace()
	case keymap.Clear:
		s.Clear()
	case keymap.ToggleSign:
		s.ToggleSign()
	case keymap.Calculate:
		_, err := s.Calculate(ctx)
		return err
	}
	return nil
}

// History returns this session's calculations newest first. limit <= 0
// returns everything kept.
func (s *Session) History(ctx context.Context, limit int) ([]Entry, error) {
	return s.tape.History(ctx, s.id, limit)
}

// ClearHistory forgets this session's calculations.
func (s *Session) ClearHistory(ctx context.Context) error {
	return s.tape.Clear(ctx, s.id)
}

// Close releases the tape unless it is shared.
func (s *Session) Close() error {
	s.logger.Debug("session closed")
	if s.sharedStore {
		return nil
	}
	return s.tape.Close()
}

func (s *Session) notify(n Notice) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

// IsUserError reports whether err is one of the recoverable session errors
// that front ends show as a notice rather than treat as a failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrLimitExceeded) || errors.Is(err, ErrInvalidExpression)
}
