// Package jsonrpc is a minimal JSON-RPC 2.0 client over HTTP used for the node
// calls that do not need go-ethereum's typed client.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var (
	// ErrProviderReturnedError wraps a JSON-RPC error object returned by the node.
	ErrProviderReturnedError = errors.New("provider error")

	// ErrUnexpectedStatus is returned when the node answers with a non-2xx status
	// and no JSON-RPC envelope.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// ErrEmptyResult is returned by Call when the node answered null.
	ErrEmptyResult = errors.New("empty result")
)

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Error  *rpcError       `json:"error"`
	Result json.RawMessage `json:"result"`
}

func (e envelope) err() error {
	if e.Error == nil {
		return nil
	}
	return fmt.Errorf("%w: [%d] %s", ErrProviderReturnedError, e.Error.Code, e.Error.Message)
}

// Client performs JSON-RPC calls.
type Client interface {
	// Fetch calls method with params and returns the raw result.
	Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

type client struct {
	endpoint   string
	httpClient *http.Client
}

var _ Client = (*client)(nil)

func (c *client) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      uuid.NewString(),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data envelope
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		if res.StatusCode/100 != 2 {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
		}
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}

	return data.Result, data.err()
}

// Call is Fetch followed by decoding the result into a value of type T.
func Call[T any](ctx context.Context, c Client, method string, params ...any) (T, error) {
	var out T

	raw, err := c.Fetch(ctx, method, params...)
	if err != nil {
		return out, err
	}

	if len(raw) == 0 || string(raw) == "null" {
		return out, fmt.Errorf("%s: %w", method, ErrEmptyResult)
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s result: %w", method, err)
	}

	return out, nil
}

// NewClient returns a Client posting to endpoint with httpClient.
func NewClient(httpClient *http.Client, endpoint string) *client {
	return &client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}
