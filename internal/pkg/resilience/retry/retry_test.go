package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastRetry(opts ...Option) Retry {
	return New(append([]Option{WithDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond)}, opts...)...)
}

func TestRetry_Execute(t *testing.T) {
	t.Run("successful operation runs once", func(t *testing.T) {
		calls := 0
		err := fastRetry().Execute(t.Context(), func() error {
			calls++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		err := fastRetry(WithAttempts(3)).Execute(t.Context(), func() error {
			calls++
			if calls < 3 {
				return errors.New("temporary")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted attempts return last error", func(t *testing.T) {
		persistent := errors.New("persistent")
		calls := 0
		err := fastRetry(WithAttempts(2)).Execute(t.Context(), func() error {
			calls++
			return persistent
		})

		assert.ErrorIs(t, err, persistent)
		assert.Equal(t, 2, calls)
	})

	t.Run("unrecoverable stops immediately", func(t *testing.T) {
		fatal := errors.New("fatal")
		calls := 0
		err := fastRetry(WithAttempts(5)).Execute(t.Context(), func() error {
			calls++
			return Unrecoverable(fatal)
		})

		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("on retry callback sees each failure", func(t *testing.T) {
		var attempts []uint
		_ = fastRetry(WithAttempts(3), WithOnRetry(func(n uint, err error) {
			attempts = append(attempts, n)
		})).Execute(t.Context(), func() error {
			return errors.New("boom")
		})

		assert.GreaterOrEqual(t, len(attempts), 2)
		assert.Equal(t, uint(0), attempts[0])
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := New(WithAttempts(5), WithDelay(time.Second)).Execute(ctx, func() error {
			return errors.New("boom")
		})

		assert.Error(t, err)
	})
}
