package claude

import (
	"context"
	"sync"
)

// streamItem is either a message or the error that ends the stream.
type streamItem struct {
	msg Message
	err error
}

// Stream is a single-pass, forward-only sequence of messages from one
// query. Usage:
//
//	for stream.Next() {
//	    msg := stream.Current()
//	    // handle msg
//	}
//	if err := stream.Err(); err != nil {
//	    // handle error
//	}
//
// A Stream is not safe for concurrent use; cancel the query's context to
// stop it from another goroutine.
type Stream struct {
	items     <-chan streamItem
	closed    chan struct{}
	finished  chan struct{}
	cancel    context.CancelFunc
	current   Message
	err       error
	closeOnce sync.Once
	done      bool
}

func newStream(items <-chan streamItem, cancel context.CancelFunc, finished chan struct{}) *Stream {
	return &Stream{
		items:    items,
		closed:   make(chan struct{}),
		finished: finished,
		cancel:   cancel,
	}
}

// NewStaticStream returns a Stream that yields msgs in order and then ends
// with err, which may be nil. It backs fakes of the query call.
func NewStaticStream(msgs []Message, err error) *Stream {
	items := make(chan streamItem, len(msgs)+1)
	for _, m := range msgs {
		items <- streamItem{msg: m}
	}
	if err != nil {
		items <- streamItem{err: err}
	}
	close(items)

	finished := make(chan struct{})
	close(finished)
	return newStream(items, func() {}, finished)
}

// Next advances to the next message. It returns false when the stream is
// exhausted or has failed; Err tells which.
func (s *Stream) Next() bool {
	if s.done {
		return false
	}
	item, ok := <-s.items
	if !ok {
		s.done = true
		s.current = nil
		return false
	}
	if item.err != nil {
		s.done = true
		s.current = nil
		s.err = item.err
		return false
	}
	s.current = item.msg
	return true
}

// Current returns the message read by the last successful Next.
func (s *Stream) Current() Message {
	return s.current
}

// Err returns the error that ended the stream, or nil after a clean finish.
func (s *Stream) Err() error {
	return s.err
}

// Close stops the CLI if it is still running and waits for it to exit.
// Closing before the stream is exhausted makes Err return ErrStreamClosed.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.cancel()
		<-s.finished
		if !s.done {
			s.done = true
			s.current = nil
			s.err = ErrStreamClosed
		}
	})
	return nil
}

// send delivers item unless the consumer has closed the stream.
func (s *Stream) send(items chan<- streamItem, item streamItem) bool {
	select {
	case items <- item:
		return true
	case <-s.closed:
		return false
	}
}
