package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/metrics"
	"github.com/feral-file/ff-provenance/internal/ratelimit"
)

// RPCClient performs single JSON-RPC requests against one endpoint.
// It never retries; every failure is reported as a *domain.RPCError.
//
//go:generate mockgen -source=rpc.go -destination=../../mocks/rpc_client.go -package=mocks -mock_names=RPCClient=MockRPCClient
type RPCClient interface {
	// Call sends method with params and returns the raw "result" member
	Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error)

	// EndpointID identifies the endpoint for cache keys and metrics
	EndpointID() string

	// Close releases the underlying connection
	Close()
}

type rpcClient struct {
	conn       adapter.RPCClient
	endpointID string
	timeout    time.Duration
	metrics    *metrics.Metrics
}

// NewRPCClient wraps a dialed connection. A zero timeout leaves deadlines to the caller's context.
func NewRPCClient(conn adapter.RPCClient, endpointID string, timeout time.Duration, m *metrics.Metrics) RPCClient {
	return &rpcClient{
		conn:       conn,
		endpointID: endpointID,
		timeout:    timeout,
		metrics:    m,
	}
}

// Dial opens a connection to rawurl and wraps it in an RPCClient
func Dial(ctx context.Context, dialer adapter.RPCDialer, rawurl, endpointID string, timeout time.Duration, m *metrics.Metrics) (RPCClient, error) {
	conn, err := dialer.Dial(ctx, rawurl)
	if err != nil {
		return nil, domain.NewTransportError("dial", err)
	}
	return NewRPCClient(conn, endpointID, timeout, m), nil
}

func (c *rpcClient) EndpointID() string {
	return c.endpointID
}

func (c *rpcClient) Close() {
	c.conn.Close()
}

// Call sends a single request. The JSON-RPC envelope is handled by the connection;
// a well-formed error object becomes NodeRejected, anything else is Transport.
func (c *rpcClient) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var result json.RawMessage
	err := c.conn.CallContext(callCtx, &result, method, params...)
	duration := time.Since(start).Seconds()

	if err == nil {
		c.metrics.RecordRPCCall(method, "success", c.endpointID, duration)
		return result, nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		c.metrics.RecordRPCCall(method, string(domain.RPCErrorNodeRejected), c.endpointID, duration)
		logger.DebugCtx(ctx, "Node rejected request",
			zap.String("method", method),
			zap.Int("code", rpcErr.ErrorCode()),
			zap.String("message", rpcErr.Error()))
		return nil, domain.NewNodeRejectedError(method, rpcErr.ErrorCode(), rpcErr.Error())
	}

	c.metrics.RecordRPCCall(method, string(domain.RPCErrorTransport), c.endpointID, duration)
	return nil, domain.NewTransportError(method, err)
}

type rateLimitedRPCClient struct {
	RPCClient
	limiter ratelimit.Limiter
}

// NewRateLimitedRPCClient throttles every call of inner through limiter. A nil limiter returns inner unchanged.
func NewRateLimitedRPCClient(inner RPCClient, limiter ratelimit.Limiter) RPCClient {
	if limiter == nil {
		return inner
	}
	return &rateLimitedRPCClient{RPCClient: inner, limiter: limiter}
}

// Call waits for a token before sending. A token that cannot be acquired is a transport failure.
func (c *rateLimitedRPCClient) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, domain.NewTransportError(method, err)
	}
	return c.RPCClient.Call(ctx, method, params...)
}
