// Package claudetest provides a scripted stand-in for claude.Client.
package claudetest

import (
	"context"
	"sync"

	"github.com/bazelment/claude-cli/claude"
)

// Call records one Query invocation.
type Call struct {
	Prompt  string
	Options claude.Options
}

// Querier replays Messages for every query. Err fails the Query call
// itself; StreamErr ends the stream after the messages.
type Querier struct {
	Err       error
	StreamErr error
	Messages  []claude.Message

	mu    sync.Mutex
	calls []Call
}

// Query records the call and returns a stream over q.Messages.
func (q *Querier) Query(_ context.Context, prompt string, opts claude.Options) (*claude.Stream, error) {
	q.mu.Lock()
	q.calls = append(q.calls, Call{Prompt: prompt, Options: opts})
	q.mu.Unlock()

	if q.Err != nil {
		return nil, q.Err
	}
	return claude.NewStaticStream(q.Messages, q.StreamErr), nil
}

// Calls returns the recorded invocations in order.
func (q *Querier) Calls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Call(nil), q.calls...)
}
