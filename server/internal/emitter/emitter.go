package emitter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/AimPizza/malbuch/server/internal/store"
)

var (
	ErrClosed = errors.New("emitter closed")
)

const DefaultBufferSize = 64

// Emitter is a multi-writer single-reader queue of journal events.
type Emitter struct {
	ch     chan *store.Event
	closed atomic.Bool
	done   chan struct{}
	// held for reading by Emit while it may send on ch, for writing by Close to close ch
	mu sync.RWMutex
}

func New(bufferSize int) *Emitter {
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Emitter{
		ch:   make(chan *store.Event, bufferSize),
		done: make(chan struct{}),
	}
}

// Emit queues the event, blocking while the buffer is full until the context is done or the emitter is closed.
func (e *Emitter) Emit(ctx context.Context, event *store.Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed.Load() {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrClosed
	case e.ch <- event:
		return nil
	}
}

func (e *Emitter) Chan() <-chan *store.Event {
	return e.ch
}

func (e *Emitter) Close() {
	if !e.closed.CompareAndSwap(false, true) {
		return // already closed
	}

	// unblock pending emit calls so they release the read lock
	close(e.done)
	e.mu.Lock()
	defer e.mu.Unlock()
	close(e.ch)
}
