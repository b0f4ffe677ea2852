package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var (
	// ErrEmpty is returned when the submitted text is blank
	ErrEmpty = errors.New("message is empty")
	// ErrBusy is returned while a previous submission is outstanding
	ErrBusy = errors.New("a message is already being answered")
)

// Sender delivers a message and returns the replies
type Sender interface {
	Send(ctx context.Context, text string) ([]Message, error)
}

// Log is the append-only conversation of one session
type Log struct {
	mu       sync.Mutex
	messages []Message
	busy     bool
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{}
}

// Submit appends the user's text, asks sender for replies and appends them,
// or appends ErrorText if the request fails. Only one submission may be
// outstanding at a time. The returned error is the sender's, for logging;
// the log already holds the error message.
func (l *Log) Submit(ctx context.Context, sender Sender, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}

	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return ErrBusy
	}
	l.busy = true
	l.messages = append(l.messages, Message{Sender: SenderUser, Text: text})
	l.mu.Unlock()

	replies, err := sender.Send(ctx, text)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.messages = append(l.messages, Message{Sender: SenderAI, Text: ErrorText})
	} else {
		l.messages = append(l.messages, replies...)
	}
	l.busy = false
	return err
}

// Busy reports whether a submission is outstanding
func (l *Log) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// Messages returns a copy of the conversation
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}
