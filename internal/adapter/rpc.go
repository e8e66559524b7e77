package adapter

import (
	"context"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// RPCClient is the subset of the go-ethereum JSON-RPC client used by the providers
//
//go:generate mockgen -source=rpc.go -destination=../mocks/rpc.go -package=mocks -mock_names=RPCClient=MockRPCConn,RPCDialer=MockRPCDialer
type RPCClient interface {
	// CallContext performs a single JSON-RPC request and decodes the result into result
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error

	// Close releases the underlying connection
	Close()
}

// RPCDialer opens JSON-RPC connections to a node endpoint
type RPCDialer interface {
	Dial(ctx context.Context, rawurl string) (RPCClient, error)
}

// RealRPCDialer dials endpoints with go-ethereum's rpc package over a dedicated HTTP client
type RealRPCDialer struct {
	httpClient *http.Client
}

// NewRPCDialer creates a dialer whose HTTP transport gives up after transportTimeout.
// A zero timeout leaves deadlines entirely to the request context.
func NewRPCDialer(transportTimeout time.Duration) RPCDialer {
	return &RealRPCDialer{
		httpClient: &http.Client{Timeout: transportTimeout},
	}
}

func (d *RealRPCDialer) Dial(ctx context.Context, rawurl string) (RPCClient, error) {
	return rpc.DialOptions(ctx, rawurl, rpc.WithHTTPClient(d.httpClient))
}
