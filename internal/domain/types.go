package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
)

// RawLog is a Transfer log entry as returned by eth_getLogs.
// Every field is kept as the node sent it so that a single malformed entry
// can be rejected by the parser without failing the whole response.
type RawLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex,omitempty"`
	Removed         bool     `json:"removed,omitempty"`
}

// TransferEvent represents one decoded on-chain token movement
type TransferEvent struct {
	TokenAddress    string
	From            string
	To              string
	Amount          *big.Int // smallest token unit
	Decimals        uint8
	BlockNumber     uint64
	LogIndex        uint64 // log index, or array position when the node omits it
	TransactionHash string
	Timestamp       *time.Time // nil until resolved
}

// IsMint reports whether the transfer originates supply
func (e *TransferEvent) IsMint() bool {
	return IsZeroAddress(e.From)
}

// HasTimestamp reports whether the block timestamp was resolved
func (e *TransferEvent) HasTimestamp() bool {
	return e.Timestamp != nil
}

// StageLabel is the supply-chain stage assigned to a transfer
type StageLabel string

const (
	StageProduction   StageLabel = "production"
	StageDistribution StageLabel = "distribution"
	StageRetail       StageLabel = "retail"
	StageUnknown      StageLabel = "unknown"
)

// DisplayName returns the human label of the actor responsible for the stage
func (l StageLabel) DisplayName() string {
	switch l {
	case StageProduction:
		return "Manufacturer"
	case StageDistribution:
		return "Distributor"
	case StageRetail:
		return "Retailer"
	default:
		return "Unknown"
	}
}

// SupplyChainStage is one node of a product journey
type SupplyChainStage struct {
	Label                 StageLabel
	ActorAddress          string
	ActorName             string
	DisplayName           string
	Timestamp             *time.Time
	Location              string
	Notes                 string
	SourceTransactionHash string
}

// ProductJourney is a point-in-time reconstruction of one token's transfer history.
// It must not be cached: the last stage is reclassified once a new transfer lands.
type ProductJourney struct {
	TokenAddress         string
	TokenName            string
	TokenSymbol          string
	Decimals             uint8
	TotalSupply          *big.Int // nil when totalSupply() could not be read
	Stages               []SupplyChainStage
	Transactions         []TransferEvent
	DroppedLogs          int
	UnresolvedTimestamps int
	BuiltAt              time.Time
}

// TokenMeta describes a token for categorical dashboard summaries
type TokenMeta struct {
	Address   string `json:"address"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol,omitempty"`
	Decimals  uint8  `json:"decimals,omitempty"`
	UnitPrice string `json:"unit_price,omitempty"` // decimal string, empty when unpriced
}

// AggregationBucket summarises all transfers of one UTC calendar day
type AggregationBucket struct {
	Date          string // YYYY-MM-DD
	TransferCount int
	Volume        string // decimal string
}

// IsZeroAddress reports whether the address is the zero address
func IsZeroAddress(address string) bool {
	return strings.EqualFold(address, ETHEREUM_ZERO_ADDRESS)
}

// IsValidAddress reports whether the value is a 0x-prefixed 20-byte hex address
func IsValidAddress(address string) bool {
	return strings.HasPrefix(address, "0x") && common.IsHexAddress(address)
}

// NormalizeAddress normalizes an address to its checksummed form
func NormalizeAddress(address string) string {
	if strings.HasPrefix(address, "0x") {
		return common.HexToAddress(address).String()
	}
	return address
}

// NormalizeAddresses normalizes a list of addresses in place
func NormalizeAddresses(addresses []string) []string {
	for i, address := range addresses {
		addresses[i] = NormalizeAddress(address)
	}
	return addresses
}
