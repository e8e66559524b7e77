// Package parser decodes raw Transfer(address,address,uint256) logs into TransferEvents.
package parser

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/domain"
)

const transferTopicCount = 3

// LogEventParser turns raw logs into TransferEvents
type LogEventParser interface {
	// Parse decodes one log. position is the log's index in its eth_getLogs
	// response and stands in for logIndex when the node omits it.
	Parse(raw domain.RawLog, position int) (*domain.TransferEvent, error)

	// ParseAll decodes logs in order, collecting failures instead of stopping at the first one
	ParseAll(raws []domain.RawLog) Result
}

// Result is the outcome of ParseAll
type Result struct {
	Events  []domain.TransferEvent
	Dropped []*domain.ParseError
}

// DroppedByReason counts dropped logs per reason
func (r Result) DroppedByReason() map[domain.ParseReason]int {
	counts := make(map[domain.ParseReason]int)
	for _, err := range r.Dropped {
		counts[err.Reason]++
	}
	return counts
}

type logEventParser struct {
	signatureTopic string
}

// NewParser creates a parser that accepts logs whose first topic equals signatureTopic.
// An empty signatureTopic selects the keccak256 of the canonical Transfer signature.
func NewParser(signatureTopic string) LogEventParser {
	if signatureTopic == "" {
		signatureTopic = abi.EventTopic(domain.TRANSFER_EVENT_SIGNATURE)
	}
	return &logEventParser{signatureTopic: signatureTopic}
}

func (p *logEventParser) Parse(raw domain.RawLog, position int) (*domain.TransferEvent, error) {
	if len(raw.Topics) != transferTopicCount {
		return nil, p.fail(raw, domain.ParseReasonMalformedTopics, "expected %d topics, got %d", transferTopicCount, len(raw.Topics))
	}
	if !strings.EqualFold(raw.Topics[0], p.signatureTopic) {
		return nil, p.fail(raw, domain.ParseReasonSignatureMismatch, "topic %s is not %s", raw.Topics[0], p.signatureTopic)
	}

	from, err := abi.DecodeAddress(raw.Topics[1])
	if err != nil {
		return nil, p.fail(raw, domain.ParseReasonMalformedTopics, "from: %v", err)
	}
	to, err := abi.DecodeAddress(raw.Topics[2])
	if err != nil {
		return nil, p.fail(raw, domain.ParseReasonMalformedTopics, "to: %v", err)
	}

	data := strings.TrimPrefix(raw.Data, "0x")
	if len(data) != 2*abi.WordSize {
		return nil, p.fail(raw, domain.ParseReasonMalformedData, "expected one %d-byte word, got %d hex characters", abi.WordSize, len(data))
	}
	amount, err := abi.DecodeUint(data)
	if err != nil {
		return nil, p.fail(raw, domain.ParseReasonMalformedData, "%v", err)
	}

	blockNumber, err := decodeQuantity(raw.BlockNumber)
	if err != nil {
		return nil, p.fail(raw, domain.ParseReasonMalformedBlock, "%v", err)
	}

	logIndex := uint64(position) //nolint:gosec,G115
	if raw.LogIndex != "" {
		if idx, err := decodeQuantity(raw.LogIndex); err == nil {
			logIndex = idx
		}
	}

	return &domain.TransferEvent{
		TokenAddress:    raw.Address,
		From:            from,
		To:              to,
		Amount:          amount,
		BlockNumber:     blockNumber,
		LogIndex:        logIndex,
		TransactionHash: raw.TransactionHash,
	}, nil
}

func (p *logEventParser) ParseAll(raws []domain.RawLog) Result {
	result := Result{Events: make([]domain.TransferEvent, 0, len(raws))}
	for i, raw := range raws {
		event, err := p.Parse(raw, i)
		if err != nil {
			// Parse only returns *domain.ParseError
			result.Dropped = append(result.Dropped, err.(*domain.ParseError)) //nolint:errorlint,forcetypeassert
			continue
		}
		result.Events = append(result.Events, *event)
	}
	return result
}

func (p *logEventParser) fail(raw domain.RawLog, reason domain.ParseReason, format string, args ...interface{}) *domain.ParseError {
	return &domain.ParseError{
		Reason: reason,
		TxHash: raw.TransactionHash,
		Detail: fmt.Sprintf(format, args...),
	}
}

// decodeQuantity accepts canonical JSON-RPC quantities and, for lenient nodes, zero-padded ones
func decodeQuantity(value string) (uint64, error) {
	if n, err := hexutil.DecodeUint64(value); err == nil {
		return n, nil
	}
	if !strings.HasPrefix(value, "0x") {
		return 0, fmt.Errorf("%w: quantity %q lacks 0x prefix", domain.ErrMalformedHex, value)
	}
	n, err := abi.DecodeUint(value)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("%w: quantity %q exceeds 64 bits", domain.ErrMalformedHex, value)
	}
	return n.Uint64(), nil
}
