package http

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := NewClient()
		assert.Equal(t, 10*time.Second, c.HTTPClient.Timeout)
		assert.Equal(t, 500*time.Millisecond, c.RetryWaitMin)
		assert.Equal(t, 5*time.Second, c.RetryWaitMax)
		assert.Equal(t, 3, c.RetryMax)
		assert.Nil(t, c.Logger)
	})

	t.Run("options", func(t *testing.T) {
		c := NewClient(
			WithTimeout(time.Second),
			WithRetryWait(time.Millisecond, 2*time.Millisecond),
			WithRetryMax(7),
		)
		assert.Equal(t, time.Second, c.HTTPClient.Timeout)
		assert.Equal(t, time.Millisecond, c.RetryWaitMin)
		assert.Equal(t, 2*time.Millisecond, c.RetryWaitMax)
		assert.Equal(t, 7, c.RetryMax)
	})
}

func TestClientRetries(t *testing.T) {
	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			assert.Equal(t, "ledgerview-test", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewClient(WithRetryWait(time.Millisecond, time.Millisecond), WithUserAgent("ledgerview-test"))
		res, err := c.StandardClient().Get(srv.URL)
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.EqualValues(t, 3, calls.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewClient(WithRetryWait(time.Millisecond, time.Millisecond))
		res, err := c.StandardClient().Get(srv.URL)
		require.NoError(t, err)
		defer res.Body.Close()

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.EqualValues(t, 1, calls.Load())
	})
}
