package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/metrics"
)

const (
	methodCall             = "eth_call"
	methodGetLogs          = "eth_getLogs"
	methodGetBlockByNumber = "eth_getBlockByNumber"

	defaultLogStepSize uint64 = 1_000_000
)

// EthereumClient is the read-only view of a node used to build journeys.
// Transport failures are retried with exponential backoff; node rejections are not.
//
//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// CallContract executes eth_call against the latest block and returns the hex encoded return data
	CallContract(ctx context.Context, contractAddress string, data []byte) (string, error)

	// GetTransferLogs fetches every log emitted by tokenAddress with the Transfer topic in [fromBlock, toBlock]
	GetTransferLogs(ctx context.Context, tokenAddress string, fromBlock, toBlock uint64) ([]domain.RawLog, error)

	// BlockTimestamp returns the timestamp of the given block
	BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)

	// LatestBlockNumber returns the number of the latest block
	LatestBlockNumber(ctx context.Context) (uint64, error)

	// EndpointID identifies the underlying endpoint
	EndpointID() string

	// Close closes the connection
	Close()
}

// ClientConfig controls retry and pagination behaviour
type ClientConfig struct {
	// TransferTopic is the topic0 hash logs are filtered by
	TransferTopic string
	// LogStepSize is the initial eth_getLogs window in blocks
	LogStepSize uint64
	// MaxAttempts bounds the number of tries per request, including the first
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

type ethereumClient struct {
	rpc     RPCClient
	clock   adapter.Clock
	config  ClientConfig
	metrics *metrics.Metrics
}

// rpcBlock is the subset of an eth_getBlockByNumber result we read
type rpcBlock struct {
	Number    hexutil.Uint64 `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

func NewClient(rpc RPCClient, clock adapter.Clock, config ClientConfig, m *metrics.Metrics) EthereumClient {
	if config.LogStepSize == 0 {
		config.LogStepSize = defaultLogStepSize
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if config.TransferTopic == "" {
		config.TransferTopic = abi.EventTopic(domain.TRANSFER_EVENT_SIGNATURE)
	}
	return &ethereumClient{rpc: rpc, clock: clock, config: config, metrics: m}
}

func (c *ethereumClient) EndpointID() string {
	return c.rpc.EndpointID()
}

func (c *ethereumClient) Close() {
	c.rpc.Close()
}

// CallContract executes eth_call against the latest block
func (c *ethereumClient) CallContract(ctx context.Context, contractAddress string, data []byte) (string, error) {
	msg := map[string]string{
		"to":   contractAddress,
		"data": hexutil.Encode(data),
	}

	raw, err := c.callWithRetry(ctx, methodCall, msg, "latest")
	if err != nil {
		return "", err
	}

	var result string
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", domain.NewTransportError(methodCall, fmt.Errorf("unexpected result %s: %w", string(raw), err))
	}
	return result, nil
}

// GetTransferLogs walks [fromBlock, toBlock] in windows of LogStepSize blocks,
// halving the window whenever the node refuses the range.
func (c *ethereumClient) GetTransferLogs(ctx context.Context, tokenAddress string, fromBlock, toBlock uint64) ([]domain.RawLog, error) {
	if fromBlock > toBlock {
		return nil, nil
	}

	stepSize := c.config.LogStepSize
	var allLogs []domain.RawLog
	currentFrom := fromBlock

	for {
		currentTo := toBlock
		if toBlock-currentFrom > stepSize-1 {
			currentTo = currentFrom + stepSize - 1
		}

		logs, err := c.getLogs(ctx, tokenAddress, currentFrom, currentTo)
		if err != nil {
			if !isTooManyResultsError(err) || stepSize == 1 {
				return nil, fmt.Errorf("failed to get logs for range %d-%d: %w", currentFrom, currentTo, err)
			}

			stepSize = stepSize / 2
			c.metrics.RecordLogPageSplit(c.rpc.EndpointID())
			logger.WarnCtx(ctx, "Too many results, reducing step size",
				zap.Uint64("oldStepSize", stepSize*2),
				zap.Uint64("newStepSize", stepSize),
				zap.Uint64("fromBlock", currentFrom),
				zap.Uint64("toBlock", currentTo))
			continue
		}

		allLogs = append(allLogs, logs...)
		if currentTo == toBlock {
			break
		}
		currentFrom = currentTo + 1
	}

	return allLogs, nil
}

func (c *ethereumClient) getLogs(ctx context.Context, tokenAddress string, fromBlock, toBlock uint64) ([]domain.RawLog, error) {
	filter := map[string]interface{}{
		"address":   tokenAddress,
		"topics":    []interface{}{c.config.TransferTopic},
		"fromBlock": hexutil.EncodeUint64(fromBlock),
		"toBlock":   hexutil.EncodeUint64(toBlock),
	}

	raw, err := c.callWithRetry(ctx, methodGetLogs, filter)
	if err != nil {
		return nil, err
	}

	var logs []domain.RawLog
	if err := json.Unmarshal(raw, &logs); err != nil {
		return nil, domain.NewTransportError(methodGetLogs, fmt.Errorf("unexpected result: %w", err))
	}

	// Reorged logs only appear on filter subscriptions, but drop them if a node sends any
	kept := logs[:0]
	for _, l := range logs {
		if l.Removed {
			logger.DebugCtx(ctx, "Skipping removed log", zap.String("txHash", l.TransactionHash))
			continue
		}
		kept = append(kept, l)
	}
	return kept, nil
}

// BlockTimestamp returns the UTC timestamp of the given block
func (c *ethereumClient) BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	b, err := c.getBlock(ctx, hexutil.EncodeUint64(blockNumber))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get block %d: %w", blockNumber, err)
	}
	return c.clock.Unix(int64(b.Timestamp), 0), nil //nolint:gosec,G115
}

// LatestBlockNumber returns the number of the latest block
func (c *ethereumClient) LatestBlockNumber(ctx context.Context) (uint64, error) {
	b, err := c.getBlock(ctx, "latest")
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return uint64(b.Number), nil
}

func (c *ethereumClient) getBlock(ctx context.Context, tag string) (*rpcBlock, error) {
	raw, err := c.callWithRetry(ctx, methodGetBlockByNumber, tag, false)
	if err != nil {
		return nil, err
	}

	var b *rpcBlock
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, domain.NewTransportError(methodGetBlockByNumber, fmt.Errorf("unexpected result: %w", err))
	}
	if b == nil {
		return nil, domain.ErrBlockNotFound
	}
	return b, nil
}

// callWithRetry retries transport failures with exponential backoff, bounded by MaxAttempts
func (c *ethereumClient) callWithRetry(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	var result json.RawMessage
	operation := func() error {
		raw, err := c.rpc.Call(ctx, method, params...)
		if err == nil {
			result = raw
			return nil
		}
		if ctx.Err() != nil || !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var attemptCount int
	notifyOnError := func(err error, duration time.Duration) {
		attemptCount++
		c.metrics.RecordRPCRetry(method)
		logger.WarnCtx(ctx, "RPC call failed, retrying",
			zap.String("method", method),
			zap.Error(err),
			zap.Int("attempt", attemptCount),
			zap.Duration("next_retry_in", duration))
	}

	if err := backoff.RetryNotify(operation, c.newBackOff(ctx), notifyOnError); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("%w: %v", ctxErr, err)
		}
		return nil, err
	}
	return result, nil
}

func (c *ethereumClient) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if c.config.InitialInterval > 0 {
		b.InitialInterval = c.config.InitialInterval
	}
	if c.config.MaxInterval > 0 {
		b.MaxInterval = c.config.MaxInterval
	}
	b.MaxElapsedTime = 0 // bounded by attempts instead

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.config.MaxAttempts-1)), ctx) //nolint:gosec,G115
}

// isTooManyResultsError checks if the node refused a log range for being too large
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "query returned more than") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum") ||
		strings.Contains(errStr, "block range")
}
