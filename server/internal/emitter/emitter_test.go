package emitter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AimPizza/malbuch/server/internal/emitter"
	"github.com/AimPizza/malbuch/server/internal/store"
)

func TestEmitter(t *testing.T) {
	t.Run("emit and receive", func(t *testing.T) {
		e := emitter.New(1)
		event := &store.Event{
			Type:   store.EventIngested,
			Record: &store.AssetRecord{File: "cat.png", SizeBytes: 5},
			At:     time.Now().UTC(),
		}
		err := e.Emit(context.Background(), event)
		require.NoError(t, err)

		select {
		case got := <-e.Chan():
			assert.Equal(t, event, got)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timed out waiting for event on channel")
		}
	})

	t.Run("events keep their order", func(t *testing.T) {
		e := emitter.New(3)
		names := []string{"a.png", "b.png", "c.png"}
		for _, name := range names {
			require.NoError(t, e.Emit(context.Background(), &store.Event{Record: &store.AssetRecord{File: name}}))
		}
		e.Close()

		var got []string
		for event := range e.Chan() {
			got = append(got, event.Record.File)
		}
		assert.Equal(t, names, got)
	})

	t.Run("emit after close", func(t *testing.T) {
		e := emitter.New(1)
		e.Close()
		err := e.Emit(context.Background(), &store.Event{})
		require.ErrorIs(t, err, emitter.ErrClosed)
	})

	t.Run("emit context canceled", func(t *testing.T) {
		e := emitter.New(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := e.Emit(ctx, &store.Event{})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("close unblocks pending emit", func(t *testing.T) {
		e := emitter.New(0)
		var wg sync.WaitGroup
		wg.Add(1)
		var emitErr error
		go func() {
			defer wg.Done()
			emitErr = e.Emit(context.Background(), &store.Event{})
		}()

		time.Sleep(20 * time.Millisecond)
		e.Close()
		wg.Wait()
		assert.ErrorIs(t, emitErr, emitter.ErrClosed)
	})

	t.Run("close races concurrent emits", func(t *testing.T) {
		e := emitter.New(2)
		received := make(chan int)
		go func() {
			n := 0
			for range e.Chan() {
				n++
			}
			received <- n
		}()

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			sent int
		)
		for range 50 {
			wg.Go(func() {
				err := e.Emit(context.Background(), &store.Event{})
				if err == nil {
					mu.Lock()
					sent++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, emitter.ErrClosed)
			})
		}
		e.Close()
		wg.Wait()

		select {
		case n := <-received:
			assert.Equal(t, sent, n)
		case <-time.After(time.Second):
			t.Fatal("channel was not closed")
		}
	})

	t.Run("close closes channel", func(t *testing.T) {
		e := emitter.New(1)
		e.Close()
		_, ok := <-e.Chan()
		assert.False(t, ok)
	})

	t.Run("close idempotent", func(t *testing.T) {
		e := emitter.New(1)
		e.Close()
		// second close should do nothing (no panic, channel remains closed)
		e.Close()
	})
}
