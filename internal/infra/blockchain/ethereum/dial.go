package ethereum

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/gabapcia/ledgerview/internal/pkg/transport/jsonrpc"
)

// Endpoints locates the node. HTTP is required; when WS is set the logs and
// the live feed go through it and the feed streams instead of polling.
type Endpoints struct {
	HTTP string
	WS   string
}

// Dial connects to the node and returns a Client for token. httpClient carries
// every HTTP request, for both transports.
func Dial(ctx context.Context, endpoints Endpoints, httpClient *http.Client, token common.Address, opts ...Option) (*Client, error) {
	conn := jsonrpc.NewClient(httpClient, endpoints.HTTP)

	if endpoints.WS != "" {
		rpcClient, err := rpc.DialOptions(ctx, endpoints.WS)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", endpoints.WS, err)
		}
		opts = append([]Option{WithStreaming()}, opts...)
		return NewClient(conn, ethclient.NewClient(rpcClient), token, opts...), nil
	}

	rpcClient, err := rpc.DialOptions(ctx, endpoints.HTTP, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", endpoints.HTTP, err)
	}
	return NewClient(conn, ethclient.NewClient(rpcClient), token, opts...), nil
}
