package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/aggregation"
	"github.com/feral-file/ff-provenance/internal/block"
	"github.com/feral-file/ff-provenance/internal/config"
	"github.com/feral-file/ff-provenance/internal/journey"
	"github.com/feral-file/ff-provenance/internal/logger"
	"github.com/feral-file/ff-provenance/internal/metrics"
	"github.com/feral-file/ff-provenance/internal/parser"
	"github.com/feral-file/ff-provenance/internal/providers/ethereum"
	"github.com/feral-file/ff-provenance/internal/ratelimit"
	"github.com/feral-file/ff-provenance/internal/registry"
)

// Engine wires the journey and aggregation components for one endpoint
type Engine struct {
	Client     ethereum.EthereumClient
	Head       block.HeadProvider
	Timestamps block.TimestampResolver
	Builder    journey.Builder
	Aggregator aggregation.Engine
	Actors     registry.ActorRegistry
	Catalog    registry.TokenCatalog
}

// Dependencies are the adapters the engine is built on
type Dependencies struct {
	Dialer     adapter.RPCDialer
	Clock      adapter.Clock
	FileSystem adapter.FileSystem
	JSON       adapter.JSON
	Metrics    *metrics.Metrics
	// Cache may be shared between engines; a new one is created when nil
	Cache *block.TimestampCache
}

// New dials the configured endpoint and loads the optional registries
func New(ctx context.Context, cfg *config.EngineConfig, deps Dependencies) (*Engine, error) {
	actors, catalog, err := loadRegistries(ctx, cfg.Registry, deps)
	if err != nil {
		return nil, err
	}

	rpcClient, err := ethereum.Dial(ctx, deps.Dialer, cfg.Ethereum.RPCURL, cfg.Ethereum.EndpointID, cfg.Ethereum.CallTimeout, deps.Metrics)
	if err != nil {
		return nil, err
	}

	rpcClient = ethereum.NewRateLimitedRPCClient(rpcClient, ratelimit.New(cfg.Ethereum.EndpointID, ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		MaxQueueTime:      cfg.RateLimit.MaxQueueTime,
	}))

	topic := TransferTopic(cfg.Ethereum.TransferEventSignature)
	client := ethereum.NewClient(rpcClient, deps.Clock, ethereum.ClientConfig{
		TransferTopic:   topic,
		LogStepSize:     cfg.Ethereum.LogStepSize,
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}, deps.Metrics)

	fetcher := ethereum.NewEthereumBlockFetcher(client)
	head := block.NewHeadProvider(fetcher, block.Config{
		TTL:         cfg.Ethereum.BlockHeadTTL,
		StaleWindow: cfg.Ethereum.BlockHeadStaleWindow,
	}, deps.Clock)

	cache := deps.Cache
	if cache == nil {
		cache = block.NewTimestampCache()
	}
	timestamps := block.NewTimestampResolver(fetcher, cache, deps.Metrics)

	builder := journey.NewBuilder(
		client,
		head,
		timestamps,
		parser.NewParser(topic),
		journey.NewPositionalClassifier(),
		actors,
		deps.Clock,
		journey.Config{
			StartBlock:  cfg.Ethereum.StartBlock,
			Concurrency: cfg.Worker.TimestampConcurrency,
		},
		deps.Metrics,
	)

	aggregator := aggregation.NewEngine(builder, aggregation.Config{
		Concurrency:      cfg.Worker.WorkerPoolSize,
		FallbackCategory: cfg.Dashboard.FallbackCategory,
		PriceBands:       cfg.Dashboard.PriceBands,
	})

	logger.InfoCtx(ctx, "Provenance engine ready",
		zap.String("endpoint", client.EndpointID()),
		zap.String("chain_id", string(cfg.Ethereum.ChainID)),
		zap.String("transfer_topic", topic),
		zap.Uint64("start_block", cfg.Ethereum.StartBlock))

	return &Engine{
		Client:     client,
		Head:       head,
		Timestamps: timestamps,
		Builder:    builder,
		Aggregator: aggregator,
		Actors:     actors,
		Catalog:    catalog,
	}, nil
}

// Close stops the worker pools and closes the RPC connection
func (e *Engine) Close() {
	e.Aggregator.Close()
	e.Builder.Close()
	e.Client.Close()
}

// TransferTopic returns the topic0 to filter Transfer logs by. The value may be
// either a topic hash or an event signature; empty means the ERC-20 Transfer event.
func TransferTopic(signature string) string {
	if signature == "" {
		return ""
	}
	if strings.HasPrefix(signature, "0x") {
		return strings.ToLower(signature)
	}
	return abi.EventTopic(signature)
}

func loadRegistries(ctx context.Context, cfg config.RegistryConfig, deps Dependencies) (registry.ActorRegistry, registry.TokenCatalog, error) {
	var (
		actors  registry.ActorRegistry
		catalog registry.TokenCatalog
		err     error
	)

	if cfg.ActorsPath != "" {
		actors, err = registry.NewActorRegistryLoader(deps.FileSystem, deps.JSON).Load(cfg.ActorsPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load actor registry: %w", err)
		}
		logger.InfoCtx(ctx, "Loaded actor registry", zap.String("path", cfg.ActorsPath))
	} else {
		logger.WarnCtx(ctx, "Actor registry path not configured, actors will be reported by address")
	}

	if cfg.CatalogPath != "" {
		catalog, err = registry.LoadTokenCatalog(deps.FileSystem, deps.JSON, cfg.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load token catalog: %w", err)
		}
		logger.InfoCtx(ctx, "Loaded token catalog", zap.String("path", cfg.CatalogPath), zap.Int("tokens", len(catalog.Tokens())))
	}

	return actors, catalog, nil
}
