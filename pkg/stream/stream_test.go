package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func emitAll(chunks ...string) Producer {
	return func(ctx context.Context, emit func(string) error) error {
		for _, c := range chunks {
			if err := emit(c); err != nil {
				return err
			}
		}
		return nil
	}
}

func drain(s *Stream) []string {
	var out []string
	for {
		c, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func TestStream_Completes(t *testing.T) {
	s := Start(context.Background(), emitAll("Hel", "lo", "!"))

	assert.Equal(t, []string{"Hel", "lo", "!"}, drain(s))
	state, err := s.Wait()
	assert.Equal(t, Completed, state)
	assert.NoError(t, err)
}

func TestStream_Fails(t *testing.T) {
	boom := errors.New("provider exploded")
	s := Start(context.Background(), func(ctx context.Context, emit func(string) error) error {
		if err := emit("partial"); err != nil {
			return err
		}
		return boom
	})

	assert.Equal(t, []string{"partial"}, drain(s))
	state, err := s.Wait()
	assert.Equal(t, Failed, state)
	assert.ErrorIs(t, err, boom)
}

func infinite(ctx context.Context, emit func(string) error) error {
	for {
		if err := emit("tick"); err != nil {
			return err
		}
	}
}

func TestStream_CancelStopsDelivery(t *testing.T) {
	s := Start(context.Background(), infinite)

	for i := 0; i < 3; i++ {
		c, ok := s.Next()
		require.True(t, ok)
		assert.Equal(t, "tick", c)
	}

	s.Cancel()
	_, ok := s.Next()
	assert.False(t, ok, "no chunk may be delivered after Cancel")

	state, err := s.Wait()
	assert.Equal(t, Cancelled, state)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := Start(ctx, infinite)

	_, ok := s.Next()
	require.True(t, ok)
	cancel()

	<-s.Done()
	state, _ := s.State()
	assert.Equal(t, Cancelled, state)
	drain(s)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "running", Running.String())
}
