package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageLabel_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		label    StageLabel
		expected string
	}{
		{name: "production", label: StageProduction, expected: "Manufacturer"},
		{name: "distribution", label: StageDistribution, expected: "Distributor"},
		{name: "retail", label: StageRetail, expected: "Retailer"},
		{name: "unknown", label: StageUnknown, expected: "Unknown"},
		{name: "unrecognised label", label: StageLabel("recycling"), expected: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.label.DisplayName())
		})
	}
}

func TestTransferEvent_IsMint(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		expected bool
	}{
		{name: "zero address", from: ETHEREUM_ZERO_ADDRESS, expected: true},
		{name: "zero address upper case hex", from: "0X0000000000000000000000000000000000000000", expected: true},
		{name: "regular address", from: "0x396343362be2A4dA1cE0C1C210945346fb82Aa49", expected: false},
		{name: "empty address", from: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := TransferEvent{From: tt.from}
			assert.Equal(t, tt.expected, event.IsMint())
		})
	}
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress("0x396343362be2A4dA1cE0C1C210945346fb82Aa49"))
	assert.False(t, IsValidAddress("396343362be2A4dA1cE0C1C210945346fb82Aa49"))
	assert.False(t, IsValidAddress("0x1234"))
	assert.False(t, IsValidAddress("KT1BvXTW1XqhE1GHTRKRvz8w3a7X5f5NqEZr"))
}

func TestNormalizeAddress(t *testing.T) {
	lower := NormalizeAddress("0x396343362be2a4da1ce0c1c210945346fb82aa49")
	upper := NormalizeAddress("0x396343362BE2A4DA1CE0C1C210945346FB82AA49")
	assert.Equal(t, lower, upper)
	assert.True(t, strings.EqualFold("0x396343362be2a4da1ce0c1c210945346fb82aa49", lower))
	assert.Equal(t, "not-an-address", NormalizeAddress("not-an-address"))
}

func TestRPCError_Classification(t *testing.T) {
	transport := NewTransportError("eth_getLogs", errors.New("connection refused"))
	rejected := NewNodeRejectedError("eth_getLogs", -32602, "invalid params")
	wrappedTransport := fmt.Errorf("failed to fetch logs: %w", transport)

	assert.True(t, IsRetryable(transport))
	assert.True(t, IsRetryable(wrappedTransport))
	assert.False(t, IsRetryable(rejected))
	assert.False(t, IsRetryable(errors.New("plain error")))

	assert.True(t, IsNodeRejected(rejected))
	assert.False(t, IsNodeRejected(transport))

	assert.Contains(t, rejected.Error(), "-32602")
	assert.Contains(t, transport.Error(), "connection refused")
	assert.ErrorContains(t, wrappedTransport, "eth_getLogs")
}

func TestBuildError(t *testing.T) {
	cause := errors.New("execution reverted")
	err := fmt.Errorf("journey: %w", &BuildError{
		Reason:       BuildReasonNoSuchToken,
		TokenAddress: "0x396343362be2A4dA1cE0C1C210945346fb82Aa49",
		Err:          cause,
	})

	assert.True(t, IsNoSuchToken(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNoSuchToken(cause))
}
