// Package ethereum implements ledger.Ledger for an ERC-20 token on an
// EVM-compatible node. Chain metadata goes through the raw JSON-RPC transport,
// logs and contract calls through go-ethereum's ethclient.
package ethereum

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/gabapcia/ledgerview/internal/ledger"
	"github.com/gabapcia/ledgerview/internal/pkg/transport/jsonrpc"
)

// averageBlockTime is the default polling interval of the live feed on HTTP
// endpoints.
const averageBlockTime = 12 * time.Second

// EthClient is the subset of ethclient.Client the package needs.
type EthClient interface {
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	Close()
}

// Client talks to one token contract. It is safe for concurrent use.
type Client struct {
	conn  jsonrpc.Client
	eth   EthClient
	token common.Address

	streaming    bool
	pollInterval time.Duration
	resubscribe  time.Duration
	headTimeout  time.Duration

	mu       sync.Mutex
	handlers map[ledger.Kind][]ledger.Handler
	stopFeed context.CancelFunc
	feedWG   sync.WaitGroup
}

var _ ledger.Ledger = (*Client)(nil)

// Option customizes NewClient.
type Option func(*Client)

// WithStreaming makes the live feed use eth_subscribe instead of polling. The
// EthClient must be connected over a websocket.
func WithStreaming() Option {
	return func(c *Client) {
		c.streaming = true
	}
}

// WithPollInterval sets how often the polling feed asks for new logs.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithResubscribeDelay sets the pause before a dropped stream is reopened.
func WithResubscribeDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.resubscribe = d
		}
	}
}

// WithHeadTimeout bounds the chain head read that positions the live feed
// when the first handler subscribes.
func WithHeadTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.headTimeout = d
		}
	}
}

// NewClient returns a Client for the ERC-20 contract at token.
func NewClient(conn jsonrpc.Client, eth EthClient, token common.Address, opts ...Option) *Client {
	c := &Client{
		conn:         conn,
		eth:          eth,
		token:        token,
		pollInterval: averageBlockTime,
		resubscribe:  5 * time.Second,
		headTimeout:  10 * time.Second,
		handlers:     make(map[ledger.Kind][]ledger.Handler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the contract address.
func (c *Client) Token() common.Address {
	return c.token
}

// Close stops the live feed and releases the node connection.
func (c *Client) Close() {
	c.mu.Lock()
	if c.stopFeed != nil {
		c.stopFeed()
		c.stopFeed = nil
	}
	clear(c.handlers)
	c.mu.Unlock()

	c.feedWG.Wait()
	c.eth.Close()
}
