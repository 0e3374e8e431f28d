package calc

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nickandperla.net/pocketcalc/internal/config"
	"nickandperla.net/pocketcalc/internal/keymap"
	"nickandperla.net/pocketcalc/internal/logging"
	"nickandperla.net/pocketcalc/internal/store"
)

type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(n Notice) { r.notices = append(r.notices, n) }

func newSession(t *testing.T, opts ...Option) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(append([]Option{WithNotifier(rec)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, rec
}

func typeKeys(t *testing.T, s *Session, keys string) {
	t.Helper()
	for _, r := range keys {
		require.NoError(t, s.Press(context.Background(), keymap.Rune(r)), "key %q", r)
	}
}

func TestCalculateReplacesBuffer(t *testing.T) {
	s, rec := newSession(t)
	typeKeys(t, s, "2^3")

	result, err := s.Calculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "8", result.Display)
	assert.Equal(t, "8", s.Snapshot())
	assert.Empty(t, rec.notices)
}

func TestLocaleRoundTrip(t *testing.T) {
	s, _ := newSession(t)
	typeKeys(t, s, "0,5*3")
	assert.Equal(t, "0,5*3", s.Display())

	result, err := s.Calculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1,5", result.Display)
	assert.Equal(t, "1,5", s.Display())
	assert.Equal(t, "1.5", s.Snapshot(), "buffer keeps the point internally")

	// Chaining on the result works with the point form
	typeKeys(t, s, "+1")
	assert.Equal(t, "1.5+1", s.Snapshot())
	assert.Equal(t, "1,5+1", s.Display())
	result, err = s.Calculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2,5", result.Display)
}

func TestPercentAndRounding(t *testing.T) {
	tests := map[string]string{
		"50%":     "0,5",
		"200+10%": "200,1",
		"1/3":     "0,333333",
	}
	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			s, _ := newSession(t)
			require.NoError(t, s.Append(input))
			result, err := s.Calculate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, want, result.Display)
		})
	}
}

func TestInvalidExpressionLeavesBuffer(t *testing.T) {
	for _, input := range []string{"", "5+", "+", "5//2", "(1+2", "1+2)"} {
		t.Run(input, func(t *testing.T) {
			s, rec := newSession(t)
			s.buf.Replace(input)

			_, err := s.Calculate(context.Background())
			require.ErrorIs(t, err, ErrInvalidExpression)
			assert.True(t, IsUserError(err))
			assert.Equal(t, input, s.Snapshot())

			require.Len(t, rec.notices, 1)
			assert.Equal(t, NoticeInvalidExpression, rec.notices[0].Kind)
			assert.Equal(t, "Invalid expression", rec.notices[0].Message)

			entries, err := s.History(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestLimitExceeded(t *testing.T) {
	s, rec := newSession(t)
	typeKeys(t, s, strings.Repeat("1", 25))
	assert.Empty(t, rec.notices)

	err := s.Press(context.Background(), keymap.Rune('1'))
	require.ErrorIs(t, err, ErrLimitExceeded)
	assert.True(t, IsUserError(err))
	assert.Equal(t, strings.Repeat("1", 25), s.Snapshot())

	require.Len(t, rec.notices, 1)
	assert.Equal(t, NoticeLimitExceeded, rec.notices[0].Kind)
	assert.Equal(t, "Limit of 25 characters reached", rec.notices[0].Message)
}

func TestEditKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newSession(t)

	require.NoError(t, s.Press(ctx, keymap.Key{Code: keymap.KeyBackspace}))
	assert.Equal(t, "", s.Snapshot())

	typeKeys(t, s, "5")
	require.NoError(t, s.Press(ctx, keymap.Key{Code: keymap.KeyBackspace}))
	assert.Equal(t, "", s.Snapshot())

	typeKeys(t, s, "12+3")
	typeKeys(t, s, "n")
	assert.Equal(t, "-12+3", s.Snapshot())
	typeKeys(t, s, "n")
	assert.Equal(t, "12+3", s.Snapshot())

	// Ignored keys change nothing
	typeKeys(t, s, "xq ")
	assert.Equal(t, "12+3", s.Snapshot())

	require.NoError(t, s.Press(ctx, keymap.Key{Code: keymap.KeyEnter}))
	assert.Equal(t, "15", s.Snapshot())

	require.NoError(t, s.Press(ctx, keymap.Key{Code: keymap.KeyEscape}))
	assert.Equal(t, "", s.Snapshot())
}

func TestPressCalculateError(t *testing.T) {
	s, _ := newSession(t)
	typeKeys(t, s, "5+")
	err := s.Press(context.Background(), keymap.Key{Code: keymap.KeyEnter})
	assert.ErrorIs(t, err, ErrInvalidExpression)
	assert.Equal(t, "5+", s.Snapshot())
}

func TestHistory(t *testing.T) {
	for _, backend := range []Option{WithMemoryStore(), WithSQLiteStore()} {
		ctx := context.Background()
		s, _ := newSession(t, backend, WithHistoryLimit(2))

		for _, input := range []string{"1+1", "2*3", "10%"} {
			s.Clear()
			require.NoError(t, s.Append(input))
			_, err := s.Calculate(ctx)
			require.NoError(t, err)
		}

		entries, err := s.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2, "history limit trims the oldest")
		assert.Equal(t, "10%", entries[0].Expression)
		assert.Equal(t, "0.1", entries[0].Result)
		assert.Equal(t, "2*3", entries[1].Expression)
		assert.Equal(t, s.ID(), entries[0].Session)

		require.NoError(t, s.ClearHistory(ctx))
		entries, err = s.History(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	shared := store.NewMemory()
	a, _ := newSession(t, WithStore(shared))
	b, _ := newSession(t, WithStore(shared))
	assert.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.Append("7"))
	assert.Equal(t, "", b.Snapshot())

	_, err := a.Calculate(context.Background())
	require.NoError(t, err)
	entries, err := b.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries, "tape entries are scoped to their session")

	// Closing a session leaves the shared store usable
	require.NoError(t, a.Close())
	_, err = shared.History(context.Background(), a.ID(), 0)
	assert.NoError(t, err)
}

func TestWithConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxLength = 3
	cfg.Precision = 2
	cfg.History.Backend = config.BackendSQLite

	s, rec := newSession(t, WithConfig(cfg), WithSessionID("fixed"))
	assert.Equal(t, "fixed", s.ID())
	assert.IsType(t, &store.SQLite{}, s.tape)

	require.NoError(t, s.Append("1/3"))
	assert.ErrorIs(t, s.Append("0"), ErrLimitExceeded)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, "Limit of 3 characters reached", rec.notices[0].Message)

	result, err := s.Calculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0,33", result.Display)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, config.LogConfig{Level: "debug", Format: "text"})
	require.NoError(t, err)
	s, _ := newSession(t, WithLogger(logger), WithSessionID("log-test"))

	require.NoError(t, s.Append("2^3"))
	_, err = s.Calculate(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "session_id=log-test")
	assert.Contains(t, out, "msg=calculated")
	assert.Contains(t, out, "result=8")
}

func TestNotifierFunc(t *testing.T) {
	var got []NoticeKind
	s, err := New(WithNotifier(NotifierFunc(func(n Notice) { got = append(got, n.Kind) })), WithMaxLength(1))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append("+"))
	assert.ErrorIs(t, s.Append("1"), ErrLimitExceeded)
	_, err = s.Calculate(context.Background())
	assert.ErrorIs(t, err, ErrInvalidExpression)

	assert.Equal(t, []NoticeKind{NoticeLimitExceeded, NoticeInvalidExpression}, got)
	assert.Equal(t, "invalid-expression", got[1].String())
}
