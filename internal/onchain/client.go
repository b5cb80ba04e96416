package onchain

import (
	"context"

	"github.com/pattonkan/sui-go/suiclient"
)

// CoinReader is the slice of the Sui RPC surface the validators need.
type CoinReader interface {
	GetCoinMetadata(ctx context.Context, coinType string) (*suiclient.CoinMetadata, error)
}

// Client wraps a Sui JSON-RPC client. It holds connection configuration
// only, so a single instance is shared across concurrent calls.
type Client struct {
	rpcURL string
	client *suiclient.ClientImpl
}

func NewClient(rpcURL string) *Client {
	return &Client{
		rpcURL: rpcURL,
		client: suiclient.NewClient(rpcURL),
	}
}

func (c *Client) GetCoinMetadata(ctx context.Context, coinType string) (*suiclient.CoinMetadata, error) {
	return c.client.GetCoinMetadata(ctx, coinType)
}

func (c *Client) RPCURL() string {
	return c.rpcURL
}
