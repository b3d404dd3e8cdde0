package chflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceive(t *testing.T) {
	t.Run("returns sent value", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 7

		v, ok := Receive(t.Context(), ch)
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})

	t.Run("closed channel", func(t *testing.T) {
		ch := make(chan int)
		close(ch)

		_, ok := Receive(t.Context(), ch)
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, ok := Receive(ctx, make(chan int))
		assert.False(t, ok)
	})
}
