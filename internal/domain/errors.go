package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned when a token or actor address is not a valid hex address
	ErrInvalidAddress = errors.New("invalid address")

	// ErrMalformedHex is returned when a hex value cannot be decoded
	ErrMalformedHex = errors.New("malformed hex")

	// ErrMalformedDecimal is returned when a decimal string cannot be parsed
	ErrMalformedDecimal = errors.New("malformed decimal")

	// ErrBlockNotFound is returned when the node has no block at the requested height
	ErrBlockNotFound = errors.New("block not found")
)

// RPCErrorKind distinguishes retryable transport failures from node rejections
type RPCErrorKind string

const (
	// RPCErrorTransport covers network errors, timeouts, non-2xx responses and malformed JSON
	RPCErrorTransport RPCErrorKind = "transport"
	// RPCErrorNodeRejected covers well-formed JSON-RPC error objects
	RPCErrorNodeRejected RPCErrorKind = "node_rejected"
)

// RPCError is returned by the JSON-RPC client
type RPCError struct {
	Kind    RPCErrorKind
	Method  string
	Code    int
	Message string
	Err     error
}

func (e *RPCError) Error() string {
	if e.Kind == RPCErrorNodeRejected {
		return fmt.Sprintf("rpc %s rejected by node (code %d): %s", e.Method, e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("rpc %s transport error: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("rpc %s transport error: %s", e.Method, e.Message)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a transport level failure
func NewTransportError(method string, err error) *RPCError {
	return &RPCError{Kind: RPCErrorTransport, Method: method, Err: err}
}

// NewNodeRejectedError builds an error for a JSON-RPC error object
func NewNodeRejectedError(method string, code int, message string) *RPCError {
	return &RPCError{Kind: RPCErrorNodeRejected, Method: method, Code: code, Message: message}
}

// IsRetryable reports whether err is a transport RPC error
func IsRetryable(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Kind == RPCErrorTransport
	}
	return false
}

// IsNodeRejected reports whether err is a node rejection
func IsNodeRejected(err error) bool {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Kind == RPCErrorNodeRejected
	}
	return false
}

// ParseReason describes why a raw log was rejected
type ParseReason string

const (
	ParseReasonMalformedTopics   ParseReason = "malformed_topics"
	ParseReasonMalformedData     ParseReason = "malformed_data"
	ParseReasonSignatureMismatch ParseReason = "signature_mismatch"
	ParseReasonMalformedBlock    ParseReason = "malformed_block"
)

// ParseError is returned when a raw log cannot be decoded into a TransferEvent
type ParseError struct {
	Reason ParseReason
	TxHash string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse log %s: %s: %s", e.TxHash, e.Reason, e.Detail)
}

// BuildReason describes why a journey could not be built
type BuildReason string

const (
	BuildReasonNoSuchToken BuildReason = "no_such_token"
)

// BuildError is fatal for a single token's journey
type BuildError struct {
	Reason       BuildReason
	TokenAddress string
	Err          error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to build journey for %s: %s: %v", e.TokenAddress, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to build journey for %s: %s", e.TokenAddress, e.Reason)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// IsNoSuchToken reports whether err is a NoSuchToken build error
func IsNoSuchToken(err error) bool {
	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		return buildErr.Reason == BuildReasonNoSuchToken
	}
	return false
}
