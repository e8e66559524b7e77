package journey

import (
	"github.com/feral-file/ff-provenance/internal/domain"
)

// StageClassifier assigns a supply-chain stage to a transfer by its position in the token's history
type StageClassifier interface {
	Classify(transfers []domain.TransferEvent, index int) domain.SupplyChainStage
}

type positionalClassifier struct{}

// NewPositionalClassifier returns the classifier that treats a mint as production,
// the last known transfer as retail and everything in between as distribution.
//
// The result depends on how many transfers exist at query time: once another
// transfer lands, the previous retail stage becomes distribution.
func NewPositionalClassifier() StageClassifier {
	return positionalClassifier{}
}

func (positionalClassifier) Classify(transfers []domain.TransferEvent, index int) domain.SupplyChainStage {
	if index < 0 || index >= len(transfers) {
		return newStage(domain.StageUnknown, "", nil)
	}

	transfer := &transfers[index]
	switch {
	case transfer.From == "":
		return newStage(domain.StageUnknown, transfer.From, transfer)
	case transfer.IsMint():
		return newStage(domain.StageProduction, transfer.To, transfer)
	case index == len(transfers)-1:
		return newStage(domain.StageRetail, transfer.From, transfer)
	default:
		return newStage(domain.StageDistribution, transfer.From, transfer)
	}
}

func newStage(label domain.StageLabel, actor string, transfer *domain.TransferEvent) domain.SupplyChainStage {
	stage := domain.SupplyChainStage{
		Label:        label,
		ActorAddress: actor,
		DisplayName:  label.DisplayName(),
		Location:     domain.UNKNOWN_LOCATION,
	}
	if transfer != nil {
		stage.Timestamp = transfer.Timestamp
		stage.SourceTransactionHash = transfer.TransactionHash
	}
	return stage
}
