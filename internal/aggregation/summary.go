package aggregation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/journey"
	"github.com/feral-file/ff-provenance/internal/logger"
)

// Engine summarises the journeys of many tokens for the dashboard
type Engine interface {
	// Summarize builds every token's journey and merges their transfers.
	// Any transport failure, node rejection or cancellation discards the whole summary.
	// Tokens that do not exist are skipped and listed in Summary.SkippedTokens.
	Summarize(ctx context.Context, tokens []domain.TokenMeta) (*Summary, error)

	// Close stops the worker pool after in-flight builds complete
	Close()
}

// Config holds configuration for the Engine
type Config struct {
	// Concurrency bounds how many journeys are built at the same time
	Concurrency int

	// FallbackCategory is used for token names matching no keyword
	FallbackCategory string

	// PriceBands for the price distribution, DefaultPriceBands when empty
	PriceBands []PriceBand
}

// Summary is the dashboard view over a set of tokens
type Summary struct {
	Tokens               int
	TotalTransfers       int
	DroppedLogs          int
	UnresolvedTimestamps int
	Buckets              []domain.AggregationBucket
	Categories           map[string]int
	PriceBands           map[string]int
	SkippedTokens        []string
}

type engine struct {
	builder journey.Builder
	config  Config
	pool    pond.Pool
}

// NewEngine creates an aggregation engine on top of a journey builder
func NewEngine(builder journey.Builder, config Config) Engine {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &engine{
		builder: builder,
		config:  config,
		pool:    pond.NewPool(config.Concurrency),
	}
}

func (e *engine) Close() {
	e.pool.StopAndWait()
}

func (e *engine) Summarize(ctx context.Context, tokens []domain.TokenMeta) (*Summary, error) {
	tokens = uniqueTokens(tokens)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		journeys = make(map[string]*domain.ProductJourney, len(tokens))
		skipped  []string
		failure  error
	)

	tasks := make([]pond.Task, 0, len(tokens))
	for _, token := range tokens {
		tasks = append(tasks, e.pool.SubmitErr(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			j, err := e.builder.Build(ctx, token.Address)
			if err != nil {
				if domain.IsNoSuchToken(err) {
					logger.WarnCtx(ctx, "Skipping token without contract",
						zap.String("token", token.Address),
						zap.Error(err))
					mu.Lock()
					skipped = append(skipped, token.Address)
					mu.Unlock()
					return nil
				}
				err = fmt.Errorf("failed to build journey for %s: %w", token.Address, err)
				mu.Lock()
				if failure == nil {
					failure = err
				}
				mu.Unlock()
				// stop the remaining builds from issuing calls
				cancel()
				return err
			}

			mu.Lock()
			journeys[token.Address] = j
			mu.Unlock()
			return nil
		}))
	}

	var firstErr error
	for _, task := range tasks {
		if err := task.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if failure != nil {
		return nil, failure
	}
	if firstErr != nil {
		return nil, firstErr
	}
	// the caller's context may have been cancelled after the last build finished
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return e.merge(tokens, journeys, skipped)
}

func (e *engine) merge(tokens []domain.TokenMeta, journeys map[string]*domain.ProductJourney, skipped []string) (*Summary, error) {
	summary := &Summary{
		SkippedTokens: skipped,
	}
	sort.Strings(summary.SkippedTokens)

	var (
		transfers []domain.TransferEvent
		built     []domain.TokenMeta
	)
	for _, token := range tokens {
		j, ok := journeys[token.Address]
		if !ok {
			continue
		}
		summary.Tokens++
		summary.TotalTransfers += len(j.Transactions)
		summary.DroppedLogs += j.DroppedLogs
		transfers = append(transfers, j.Transactions...)

		if token.Name == "" {
			token.Name = j.TokenName
		}
		if token.Symbol == "" {
			token.Symbol = j.TokenSymbol
		}
		built = append(built, token)
	}

	summary.Buckets, summary.UnresolvedTimestamps = Aggregate(transfers)
	summary.Categories = DistributeByCategory(built, ByName(e.config.FallbackCategory))

	priceBands, err := DistributeByPriceBand(built, e.config.PriceBands)
	if err != nil {
		return nil, fmt.Errorf("invalid price bands: %w", err)
	}
	summary.PriceBands = priceBands

	return summary, nil
}

// uniqueTokens drops repeated addresses, keeping the first entry
func uniqueTokens(tokens []domain.TokenMeta) []domain.TokenMeta {
	seen := make(map[string]struct{}, len(tokens))
	unique := make([]domain.TokenMeta, 0, len(tokens))
	for _, token := range tokens {
		key := strings.ToLower(token.Address)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, token)
	}
	return unique
}
