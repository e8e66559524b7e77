package journey

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-provenance/internal/domain"
)

const (
	farmer      = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	distributor = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	retailer    = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
)

func transfer(from, to string, block uint64) domain.TransferEvent {
	return domain.TransferEvent{
		From:            from,
		To:              to,
		BlockNumber:     block,
		TransactionHash: fmt.Sprintf("0x%064x", block),
	}
}

func TestClassify_Rules(t *testing.T) {
	transfers := []domain.TransferEvent{
		transfer(domain.ETHEREUM_ZERO_ADDRESS, farmer, 1),
		transfer(farmer, distributor, 2),
		transfer(distributor, retailer, 3),
	}
	c := NewPositionalClassifier()

	tests := []struct {
		index int
		label domain.StageLabel
		actor string
		name  string
	}{
		{index: 0, label: domain.StageProduction, actor: farmer, name: "Manufacturer"},
		{index: 1, label: domain.StageDistribution, actor: farmer, name: "Distributor"},
		{index: 2, label: domain.StageRetail, actor: distributor, name: "Retailer"},
	}

	for _, tt := range tests {
		stage := c.Classify(transfers, tt.index)
		assert.Equal(t, tt.label, stage.Label, "index %d", tt.index)
		assert.Equal(t, tt.actor, stage.ActorAddress, "index %d", tt.index)
		assert.Equal(t, tt.name, stage.DisplayName, "index %d", tt.index)
		assert.Equal(t, transfers[tt.index].TransactionHash, stage.SourceTransactionHash)
		assert.Equal(t, domain.UNKNOWN_LOCATION, stage.Location)
	}
}

func TestClassify_MintIsProductionRegardlessOfLength(t *testing.T) {
	c := NewPositionalClassifier()
	for n := 1; n <= 10; n++ {
		transfers := []domain.TransferEvent{transfer(domain.ETHEREUM_ZERO_ADDRESS, farmer, 1)}
		for i := 1; i < n; i++ {
			transfers = append(transfers, transfer(farmer, distributor, uint64(i+1)))
		}

		stage := c.Classify(transfers, 0)

		assert.Equal(t, domain.StageProduction, stage.Label, "length %d", n)
		assert.Equal(t, farmer, stage.ActorAddress)
	}
}

func TestClassify_LastNonMintIsRetail(t *testing.T) {
	c := NewPositionalClassifier()
	for n := 2; n <= 10; n++ {
		transfers := []domain.TransferEvent{transfer(domain.ETHEREUM_ZERO_ADDRESS, farmer, 1)}
		for i := 1; i < n; i++ {
			transfers = append(transfers, transfer(farmer, distributor, uint64(i+1)))
		}

		stage := c.Classify(transfers, n-1)

		assert.Equal(t, domain.StageRetail, stage.Label, "length %d", n)
	}
}

func TestClassify_RetailIsReclassifiedWhenHistoryGrows(t *testing.T) {
	c := NewPositionalClassifier()
	transfers := []domain.TransferEvent{
		transfer(domain.ETHEREUM_ZERO_ADDRESS, farmer, 1),
		transfer(farmer, distributor, 2),
	}
	assert.Equal(t, domain.StageRetail, c.Classify(transfers, 1).Label)

	transfers = append(transfers, transfer(distributor, retailer, 3))
	assert.Equal(t, domain.StageDistribution, c.Classify(transfers, 1).Label)
}

func TestClassify_Unknown(t *testing.T) {
	c := NewPositionalClassifier()
	transfers := []domain.TransferEvent{
		transfer("", farmer, 1),
		transfer(farmer, distributor, 2),
	}

	assert.Equal(t, domain.StageUnknown, c.Classify(transfers, 0).Label)
	assert.Equal(t, domain.StageUnknown, c.Classify(transfers, -1).Label)
	assert.Equal(t, domain.StageUnknown, c.Classify(transfers, 2).Label)
	assert.Equal(t, domain.StageUnknown, c.Classify(nil, 0).Label)
	assert.Equal(t, "Unknown", c.Classify(nil, 0).DisplayName)
}

func TestClassify_MintAtLastIndexIsProduction(t *testing.T) {
	c := NewPositionalClassifier()
	transfers := []domain.TransferEvent{
		transfer(domain.ETHEREUM_ZERO_ADDRESS, farmer, 1),
		transfer(domain.ETHEREUM_ZERO_ADDRESS, farmer, 2),
	}

	assert.Equal(t, domain.StageProduction, c.Classify(transfers, 1).Label)
}
