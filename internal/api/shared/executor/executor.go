package executor

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-provenance/internal/aggregation"
	"github.com/feral-file/ff-provenance/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-provenance/internal/api/shared/errors"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/journey"
	"github.com/feral-file/ff-provenance/internal/registry"
)

// Executor holds the business logic behind the HTTP handlers
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// GetJourney builds the journey of one token
	GetJourney(ctx context.Context, tokenAddress string) (*dto.JourneyResponse, error)

	// GetDashboardSummary summarises the given tokens, or the configured tokens when none are given
	GetDashboardSummary(ctx context.Context, tokenAddresses []string) (*dto.DashboardSummaryResponse, error)

	// DistributeCategories counts tokens per name category without any RPC call
	DistributeCategories(ctx context.Context, req dto.CategoryDistributionRequest) (*dto.CategoryDistributionResponse, error)
}

type executor struct {
	builder       journey.Builder
	engine        aggregation.Engine
	catalog       registry.TokenCatalog
	defaultTokens []string
}

// NewExecutor creates a new executor. catalog may be nil.
func NewExecutor(builder journey.Builder, engine aggregation.Engine, catalog registry.TokenCatalog, defaultTokens []string) Executor {
	return &executor{
		builder:       builder,
		engine:        engine,
		catalog:       catalog,
		defaultTokens: defaultTokens,
	}
}

func (e *executor) GetJourney(ctx context.Context, tokenAddress string) (*dto.JourneyResponse, error) {
	if !domain.IsValidAddress(tokenAddress) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, tokenAddress)
	}

	j, err := e.builder.Build(ctx, tokenAddress)
	if err != nil {
		return nil, err
	}

	return dto.NewJourneyResponse(j), nil
}

func (e *executor) GetDashboardSummary(ctx context.Context, tokenAddresses []string) (*dto.DashboardSummaryResponse, error) {
	tokens, err := e.resolveTokens(tokenAddresses)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, apierrors.NewValidationError("no tokens given and none configured")
	}

	summary, err := e.engine.Summarize(ctx, tokens)
	if err != nil {
		return nil, err
	}

	return newDashboardSummaryResponse(summary), nil
}

func (e *executor) DistributeCategories(_ context.Context, req dto.CategoryDistributionRequest) (*dto.CategoryDistributionResponse, error) {
	return &dto.CategoryDistributionResponse{
		Categories: aggregation.DistributeByCategory(req.TokenMetas(), aggregation.ByName(req.Fallback)),
	}, nil
}

// resolveTokens turns addresses into catalogue entries. Without addresses the
// configured tokens are used, then the whole catalogue.
func (e *executor) resolveTokens(addresses []string) ([]domain.TokenMeta, error) {
	if len(addresses) == 0 {
		addresses = e.defaultTokens
	}
	if len(addresses) == 0 && e.catalog != nil {
		return e.catalog.Tokens(), nil
	}

	tokens := make([]domain.TokenMeta, 0, len(addresses))
	for _, address := range addresses {
		if !domain.IsValidAddress(address) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
		}
		if e.catalog != nil {
			if e.catalog.IsExcluded(address) {
				continue
			}
			if meta := e.catalog.LookupToken(address); meta != nil {
				tokens = append(tokens, *meta)
				continue
			}
		}
		tokens = append(tokens, domain.TokenMeta{Address: address})
	}
	return tokens, nil
}

// newDashboardSummaryResponse maps an aggregation summary to its response DTO
func newDashboardSummaryResponse(s *aggregation.Summary) *dto.DashboardSummaryResponse {
	resp := &dto.DashboardSummaryResponse{
		Tokens:               s.Tokens,
		TotalTransfers:       s.TotalTransfers,
		DroppedLogs:          s.DroppedLogs,
		UnresolvedTimestamps: s.UnresolvedTimestamps,
		Buckets:              make([]dto.BucketDTO, 0, len(s.Buckets)),
		Categories:           s.Categories,
		PriceBands:           s.PriceBands,
		SkippedTokens:        s.SkippedTokens,
	}
	if resp.SkippedTokens == nil {
		resp.SkippedTokens = []string{}
	}
	for _, b := range s.Buckets {
		resp.Buckets = append(resp.Buckets, dto.BucketDTO{
			Date:          b.Date,
			TransferCount: b.TransferCount,
			Volume:        b.Volume,
		})
	}
	return resp
}
