package dto

import (
	"github.com/feral-file/ff-provenance/internal/domain"
)

// BucketDTO represents one calendar day of transfers
type BucketDTO struct {
	Date          string `json:"date"`
	TransferCount int    `json:"transfer_count"`
	Volume        string `json:"volume"`
}

// DashboardSummaryResponse represents the dashboard summary over a set of tokens
type DashboardSummaryResponse struct {
	Tokens               int            `json:"tokens"`
	TotalTransfers       int            `json:"total_transfers"`
	DroppedLogs          int            `json:"dropped_logs"`
	UnresolvedTimestamps int            `json:"unresolved_timestamps"`
	Buckets              []BucketDTO    `json:"buckets"`
	Categories           map[string]int `json:"categories"`
	PriceBands           map[string]int `json:"price_bands"`
	SkippedTokens        []string       `json:"skipped_tokens"`
}

// CategoryToken is one token in a category distribution request
type CategoryToken struct {
	Address string `json:"address"`
	Name    string `json:"name" binding:"required"`
}

// CategoryDistributionRequest represents the body of POST /api/v1/dashboard/categories
type CategoryDistributionRequest struct {
	Tokens   []CategoryToken `json:"tokens" binding:"required,min=1,dive"`
	Fallback string          `json:"fallback"`
}

// TokenMetas converts the request tokens to domain token metadata
func (r *CategoryDistributionRequest) TokenMetas() []domain.TokenMeta {
	tokens := make([]domain.TokenMeta, 0, len(r.Tokens))
	for _, t := range r.Tokens {
		tokens = append(tokens, domain.TokenMeta{Address: t.Address, Name: t.Name})
	}
	return tokens
}

// CategoryDistributionResponse maps categories to token counts
type CategoryDistributionResponse struct {
	Categories map[string]int `json:"categories"`
}
