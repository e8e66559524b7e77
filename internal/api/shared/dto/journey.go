package dto

import (
	"time"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/domain"
)

// JourneyResponse represents the journey of one product token
type JourneyResponse struct {
	TokenAddress         string          `json:"token_address"`
	TokenName            string          `json:"token_name"`
	TokenSymbol          string          `json:"token_symbol"`
	Decimals             uint8           `json:"decimals"`
	TotalSupply          *string         `json:"total_supply,omitempty"` // scaled decimal string
	Stages               []StageResponse `json:"stages"`
	Transactions         []TransferDTO   `json:"transactions"`
	DroppedLogs          int             `json:"dropped_logs"`
	UnresolvedTimestamps int             `json:"unresolved_timestamps"`
	BuiltAt              time.Time       `json:"built_at"`
}

// StageResponse represents one supply-chain stage
type StageResponse struct {
	Stage           string     `json:"stage"`
	DisplayName     string     `json:"display_name"`
	ActorAddress    string     `json:"actor_address,omitempty"`
	ActorName       string     `json:"actor_name,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	Location        string     `json:"location"`
	Notes           string     `json:"notes"`
	TransactionHash string     `json:"transaction_hash,omitempty"`
}

// TransferDTO represents one decoded Transfer event
type TransferDTO struct {
	From            string     `json:"from"`
	To              string     `json:"to"`
	Amount          string     `json:"amount"`     // scaled decimal string
	RawAmount       string     `json:"raw_amount"` // smallest unit
	BlockNumber     uint64     `json:"block_number"`
	LogIndex        uint64     `json:"log_index"`
	TransactionHash string     `json:"transaction_hash"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
}

// NewJourneyResponse maps a domain journey to its response DTO
func NewJourneyResponse(j *domain.ProductJourney) *JourneyResponse {
	resp := &JourneyResponse{
		TokenAddress:         j.TokenAddress,
		TokenName:            j.TokenName,
		TokenSymbol:          j.TokenSymbol,
		Decimals:             j.Decimals,
		Stages:               make([]StageResponse, 0, len(j.Stages)),
		Transactions:         make([]TransferDTO, 0, len(j.Transactions)),
		DroppedLogs:          j.DroppedLogs,
		UnresolvedTimestamps: j.UnresolvedTimestamps,
		BuiltAt:              j.BuiltAt,
	}

	if j.TotalSupply != nil {
		supply := abi.FormatScaledAmount(j.TotalSupply, j.Decimals)
		resp.TotalSupply = &supply
	}

	for _, s := range j.Stages {
		resp.Stages = append(resp.Stages, StageResponse{
			Stage:           string(s.Label),
			DisplayName:     s.DisplayName,
			ActorAddress:    s.ActorAddress,
			ActorName:       s.ActorName,
			Timestamp:       s.Timestamp,
			Location:        s.Location,
			Notes:           s.Notes,
			TransactionHash: s.SourceTransactionHash,
		})
	}

	for _, t := range j.Transactions {
		raw := "0"
		if t.Amount != nil {
			raw = t.Amount.String()
		}
		resp.Transactions = append(resp.Transactions, TransferDTO{
			From:            t.From,
			To:              t.To,
			Amount:          abi.FormatScaledAmount(t.Amount, t.Decimals),
			RawAmount:       raw,
			BlockNumber:     t.BlockNumber,
			LogIndex:        t.LogIndex,
			TransactionHash: t.TransactionHash,
			Timestamp:       t.Timestamp,
		})
	}

	return resp
}
