// Package stream turns a chunk producer into a cancellable sequence with an
// observable terminal state.
package stream

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

type State int

const (
	Running State = iota
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Producer writes chunks through emit until it is done. emit returns an
// error once the stream is cancelled; the producer must then return.
type Producer func(ctx context.Context, emit func(chunk string) error) error

type Stream struct {
	chunks    chan string
	done      chan struct{}
	cancel    context.CancelFunc
	cancelled atomic.Bool

	mu    sync.Mutex
	state State
	err   error
}

// Start runs produce in its own goroutine. The stream is cancelled when ctx
// is done or Cancel is called. Consumers must read until Next reports false
// or call Cancel, otherwise the producer stays blocked.
func Start(ctx context.Context, produce Producer) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		chunks: make(chan string),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go s.run(ctx, produce)
	return s
}

func (s *Stream) run(ctx context.Context, produce Producer) {
	defer close(s.done)
	defer close(s.chunks)
	defer s.cancel()

	emit := func(chunk string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case s.chunks <- chunk:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	err := produce(ctx, emit)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err == nil:
		s.state = Completed
	case errors.Is(ctx.Err(), context.Canceled):
		s.state, s.err = Cancelled, context.Canceled
	default:
		s.state, s.err = Failed, err
	}
}

// Next blocks for the next chunk. It returns false once the stream has
// ended or Cancel has been called; chunks racing with Cancel are dropped.
func (s *Stream) Next() (string, bool) {
	chunk, ok := <-s.chunks
	if !ok || s.cancelled.Load() {
		return "", false
	}
	return chunk, true
}

// Cancel stops delivery. Output already handed out is not rolled back.
func (s *Stream) Cancel() {
	s.cancelled.Store(true)
	s.cancel()
}

func (s *Stream) Done() <-chan struct{} { return s.done }

// Wait blocks until the producer has returned and reports the terminal state.
func (s *Stream) Wait() (State, error) {
	<-s.done
	return s.State()
}

func (s *Stream) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.err
}
