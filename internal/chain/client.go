package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is an ethclient connection bound to a single RPC URL.
type Client struct {
	*ethclient.Client
	url string
}

var _ Backend = (*Client)(nil)

// Dial connects to an HTTP(S) or WS(S) JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &Client{Client: ec, url: url}, nil
}

// URL returns the endpoint this client talks to.
func (c *Client) URL() string {
	return c.url
}

// Ping measures round-trip latency with eth_blockNumber.
func (c *Client) Ping(ctx context.Context) (latency time.Duration, blockNum uint64, err error) {
	start := time.Now()
	blockNum, err = c.BlockNumber(ctx)
	if err != nil {
		return 0, 0, err
	}
	return time.Since(start), blockNum, nil
}
