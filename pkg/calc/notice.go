package calc

import "fmt"

// NoticeKind classifies a user-facing notice.
type NoticeKind int

const (
	// NoticeLimitExceeded is informational: an append was rejected.
	NoticeLimitExceeded NoticeKind = iota + 1
	// NoticeInvalidExpression reports a failed calculation.
	NoticeInvalidExpression
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeLimitExceeded:
		return "limit-exceeded"
	case NoticeInvalidExpression:
		return "invalid-expression"
	}
	return "unknown"
}

// Notice is what a front end shows in a dialog or status line.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	Err     error
}

// Notifier receives notices from a Session.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

func limitNotice(max int, err error) Notice {
	return Notice{
		Kind:    NoticeLimitExceeded,
		Title:   "Limit exceeded",
		Message: fmt.Sprintf("Limit of %d characters reached", max),
		Err:     err,
	}
}

func invalidNotice(err error) Notice {
	return Notice{
		Kind:    NoticeInvalidExpression,
		Title:   "Error",
		Message: "Invalid expression",
		Err:     err,
	}
}
