package journey

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/block"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/metrics"
	"github.com/feral-file/ff-provenance/internal/parser"
	"github.com/feral-file/ff-provenance/internal/providers/ethereum"
	"github.com/feral-file/ff-provenance/internal/registry"
)

var errEmptyReturn = errors.New("empty return data")

// Builder reconstructs the journey of one product token
//
//go:generate mockgen -source=builder.go -destination=../mocks/journey_builder.go -package=mocks -mock_names=Builder=MockJourneyBuilder
type Builder interface {
	// Build fetches, parses and classifies every Transfer of tokenAddress.
	// The result is a snapshot and must not be cached.
	Build(ctx context.Context, tokenAddress string) (*domain.ProductJourney, error)

	// Close stops the worker pool after in-flight work completes
	Close()
}

// Config holds configuration for the Builder
type Config struct {
	// StartBlock is the first block scanned for Transfer logs
	StartBlock uint64

	// Concurrency bounds the RPC calls one build issues in parallel
	Concurrency int
}

type builder struct {
	client     ethereum.EthereumClient
	head       block.HeadProvider
	timestamps block.TimestampResolver
	parser     parser.LogEventParser
	classifier StageClassifier
	actors     registry.ActorRegistry
	clock      adapter.Clock
	config     Config
	metrics    *metrics.Metrics
	pool       pond.Pool
}

// NewBuilder creates a journey builder. actors may be nil, in which case every
// actor is reported by address with an unknown location.
func NewBuilder(
	client ethereum.EthereumClient,
	head block.HeadProvider,
	timestamps block.TimestampResolver,
	logParser parser.LogEventParser,
	classifier StageClassifier,
	actors registry.ActorRegistry,
	clock adapter.Clock,
	config Config,
	m *metrics.Metrics,
) Builder {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &builder{
		client:     client,
		head:       head,
		timestamps: timestamps,
		parser:     logParser,
		classifier: classifier,
		actors:     actors,
		clock:      clock,
		config:     config,
		metrics:    m,
		pool:       pond.NewPool(config.Concurrency),
	}
}

func (b *builder) Close() {
	b.pool.StopAndWait()
}

// tokenScalars holds the results of the four ERC-20 reads
type tokenScalars struct {
	name        string
	symbol      string
	decimals    uint8
	totalSupply *big.Int

	nameErr, symbolErr, decimalsErr, totalSupplyErr error
}

func (s *tokenScalars) errs() []error {
	return []error{s.nameErr, s.symbolErr, s.decimalsErr, s.totalSupplyErr}
}

func (b *builder) Build(ctx context.Context, tokenAddress string) (*domain.ProductJourney, error) {
	start := time.Now()
	journey, err := b.build(ctx, tokenAddress)

	status := "success"
	switch {
	case err == nil:
	case domain.IsNoSuchToken(err):
		status = "no_such_token"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = "cancelled"
	default:
		status = "error"
	}
	b.metrics.RecordJourneyBuild(status, time.Since(start).Seconds())

	return journey, err
}

func (b *builder) build(ctx context.Context, tokenAddress string) (*domain.ProductJourney, error) {
	if !domain.IsValidAddress(tokenAddress) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, tokenAddress)
	}
	ctx = logger.WithScope(ctx, map[string]string{"token": tokenAddress})

	var (
		scalars tokenScalars
		logs    []domain.RawLog
	)
	err := b.runAll(
		func() error {
			scalars.name, scalars.nameErr = b.readString(ctx, tokenAddress, abi.NameSelector)
			return nil
		},
		func() error {
			scalars.symbol, scalars.symbolErr = b.readString(ctx, tokenAddress, abi.SymbolSelector)
			return nil
		},
		func() error {
			scalars.decimals, scalars.decimalsErr = b.readDecimals(ctx, tokenAddress)
			return nil
		},
		func() error {
			scalars.totalSupply, scalars.totalSupplyErr = b.readUint(ctx, tokenAddress, abi.TotalSupplySelector)
			return nil
		},
		func() error {
			var err error
			logs, err = b.fetchLogs(ctx, tokenAddress)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err := b.checkTokenExists(ctx, tokenAddress, &scalars); err != nil {
		return nil, err
	}

	result := b.parser.ParseAll(logs)
	for _, dropped := range result.Dropped {
		logger.WarnCtx(ctx, "Dropping malformed transfer log",
			zap.String("token", tokenAddress),
			zap.String("txHash", dropped.TxHash),
			zap.String("reason", string(dropped.Reason)),
			zap.String("detail", dropped.Detail))
	}
	for reason, count := range result.DroppedByReason() {
		b.metrics.RecordLogsDropped(string(reason), count)
	}

	transfers := result.Events
	for i := range transfers {
		if transfers[i].TokenAddress == "" {
			transfers[i].TokenAddress = tokenAddress
		}
		transfers[i].Decimals = scalars.decimals
	}

	unresolved, err := b.resolveTimestamps(ctx, transfers)
	if err != nil {
		return nil, err
	}

	stages := make([]domain.SupplyChainStage, len(transfers))
	for i := range transfers {
		stages[i] = b.decorate(b.classifier.Classify(transfers, i), &transfers[i], scalars.symbol)
	}

	return &domain.ProductJourney{
		TokenAddress:         tokenAddress,
		TokenName:            scalars.name,
		TokenSymbol:          scalars.symbol,
		Decimals:             scalars.decimals,
		TotalSupply:          scalars.totalSupply,
		Stages:               stages,
		Transactions:         transfers,
		DroppedLogs:          len(result.Dropped),
		UnresolvedTimestamps: unresolved,
		BuiltAt:              b.clock.Now(),
	}, nil
}

// runAll runs tasks on the pool and returns the first error once all have finished
func (b *builder) runAll(tasks ...func() error) error {
	submitted := make([]pond.Task, 0, len(tasks))
	for _, task := range tasks {
		submitted = append(submitted, b.pool.SubmitErr(task))
	}

	var firstErr error
	for _, task := range submitted {
		if err := task.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// checkTokenExists fails the build only when every scalar read failed.
// If any of those failures was a transport error the node could not be asked,
// which is reported as such rather than as a missing token.
func (b *builder) checkTokenExists(ctx context.Context, tokenAddress string, scalars *tokenScalars) error {
	var (
		failed       int
		transportErr error
	)
	for _, err := range scalars.errs() {
		if err == nil {
			continue
		}
		failed++
		if transportErr == nil && domain.IsRetryable(err) {
			transportErr = err
		}
	}

	if failed == len(scalars.errs()) {
		if transportErr != nil {
			return fmt.Errorf("failed to read token scalars: %w", transportErr)
		}
		return &domain.BuildError{
			Reason:       domain.BuildReasonNoSuchToken,
			TokenAddress: tokenAddress,
			Err:          errors.Join(scalars.errs()...),
		}
	}

	if scalars.decimalsErr != nil {
		// the default only stands in for a token that has no decimals();
		// guessing after a transport failure would rescale every amount
		if domain.IsRetryable(scalars.decimalsErr) {
			return fmt.Errorf("failed to read token decimals: %w", scalars.decimalsErr)
		}
		logger.WarnCtx(ctx, "Failed to read decimals, assuming default",
			zap.String("token", tokenAddress),
			zap.Uint8("decimals", domain.DEFAULT_TOKEN_DECIMALS),
			zap.Error(scalars.decimalsErr))
		scalars.decimals = domain.DEFAULT_TOKEN_DECIMALS
	}
	if scalars.nameErr != nil {
		logger.WarnCtx(ctx, "Failed to read token name", zap.String("token", tokenAddress), zap.Error(scalars.nameErr))
	}
	if scalars.symbolErr != nil {
		logger.WarnCtx(ctx, "Failed to read token symbol", zap.String("token", tokenAddress), zap.Error(scalars.symbolErr))
	}
	if scalars.totalSupplyErr != nil {
		logger.WarnCtx(ctx, "Failed to read total supply", zap.String("token", tokenAddress), zap.Error(scalars.totalSupplyErr))
	}
	return nil
}

func (b *builder) fetchLogs(ctx context.Context, tokenAddress string) ([]domain.RawLog, error) {
	latest, err := b.head.GetLatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}

	logs, err := b.client.GetTransferLogs(ctx, tokenAddress, b.config.StartBlock, latest)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfer logs: %w", err)
	}
	return logs, nil
}

func (b *builder) call(ctx context.Context, tokenAddress string, selector []byte) (string, error) {
	result, err := b.client.CallContract(ctx, tokenAddress, selector)
	if err != nil {
		return "", err
	}
	if strings.TrimPrefix(result, "0x") == "" {
		return "", errEmptyReturn
	}
	return result, nil
}

func (b *builder) readString(ctx context.Context, tokenAddress string, selector []byte) (string, error) {
	result, err := b.call(ctx, tokenAddress, selector)
	if err != nil {
		return "", err
	}
	return abi.DecodeUTF8String(result)
}

func (b *builder) readUint(ctx context.Context, tokenAddress string, selector []byte) (*big.Int, error) {
	result, err := b.call(ctx, tokenAddress, selector)
	if err != nil {
		return nil, err
	}
	return abi.DecodeUint(result)
}

func (b *builder) readDecimals(ctx context.Context, tokenAddress string) (uint8, error) {
	value, err := b.readUint(ctx, tokenAddress, abi.DecimalsSelector)
	if err != nil {
		return 0, err
	}
	if !value.IsUint64() || value.Uint64() > 255 {
		return 0, fmt.Errorf("%w: decimals %s out of range", domain.ErrMalformedHex, value)
	}
	return uint8(value.Uint64()), nil
}

// resolveTimestamps fills Timestamp on every transfer whose block could be resolved
// and returns how many could not. Only cancellation fails the whole step.
func (b *builder) resolveTimestamps(ctx context.Context, transfers []domain.TransferEvent) (int, error) {
	blocks := make(map[uint64]*time.Time)
	for _, t := range transfers {
		blocks[t.BlockNumber] = nil
	}

	var mu sync.Mutex
	tasks := make([]func() error, 0, len(blocks))
	for blockNumber := range blocks {
		tasks = append(tasks, func() error {
			ts, err := b.timestamps.Resolve(ctx, blockNumber)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.WarnCtx(ctx, "Failed to resolve block timestamp",
					zap.Uint64("block_number", blockNumber),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			blocks[blockNumber] = &ts
			mu.Unlock()
			return nil
		})
	}
	if err := b.runAll(tasks...); err != nil {
		return 0, err
	}

	unresolved := 0
	for i := range transfers {
		ts := blocks[transfers[i].BlockNumber]
		if ts == nil {
			unresolved++
			continue
		}
		resolved := *ts
		transfers[i].Timestamp = &resolved
	}
	return unresolved, nil
}

// decorate fills the registry-derived fields and notes of a classified stage
func (b *builder) decorate(stage domain.SupplyChainStage, transfer *domain.TransferEvent, symbol string) domain.SupplyChainStage {
	stage.Timestamp = transfer.Timestamp
	if stage.ActorAddress != "" && b.actors != nil {
		stage.Location = b.actors.Location(stage.ActorAddress)
		if actor := b.actors.LookupActor(stage.ActorAddress); actor != nil {
			stage.ActorName = actor.Name
		}
	}

	amount := abi.FormatScaledAmount(transfer.Amount, transfer.Decimals)
	if symbol != "" {
		amount += " " + symbol
	}
	if transfer.IsMint() {
		stage.Notes = fmt.Sprintf("Minted %s to %s", amount, b.actorLabel(transfer.To))
	} else {
		stage.Notes = fmt.Sprintf("Transferred %s from %s to %s", amount, b.actorLabel(transfer.From), b.actorLabel(transfer.To))
	}
	return stage
}

func (b *builder) actorLabel(address string) string {
	if b.actors != nil {
		if actor := b.actors.LookupActor(address); actor != nil {
			return actor.Name
		}
	}
	return address
}
