package abi

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Standard ERC-20 read selectors
var (
	NameSelector        = Selector("name()")
	SymbolSelector      = Selector("symbol()")
	DecimalsSelector    = Selector("decimals()")
	TotalSupplySelector = Selector("totalSupply()")
)

// Selector returns the 4-byte function selector for a canonical signature such as "name()"
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// EventTopic returns the 0x-prefixed keccak256 hash of a canonical event signature
func EventTopic(signature string) string {
	return crypto.Keccak256Hash([]byte(signature)).Hex()
}
