// Package abi decodes the fixed-shape ABI values the provenance engine needs
// (strings, unsigned integers and addresses) without a full contract binding.
package abi

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/feral-file/ff-provenance/internal/domain"
)

const (
	// WordSize is the size in bytes of one ABI word
	WordSize = 32

	addressHexLength = 40
	topicHexLength   = 2 * WordSize
	maxUintBits      = 256
)

// DecodeUTF8String decodes an ABI-encoded string return value.
// The leading offset word is skipped, then bytes are read until a NUL byte or
// the declared length is exhausted. Inputs shorter than one word, including
// "0x", decode to an empty string.
func DecodeUTF8String(hexData string) (string, error) {
	data, err := decodeHex(hexData)
	if err != nil {
		return "", err
	}
	if len(data) < WordSize {
		return "", nil
	}

	offset := new(big.Int).SetBytes(data[:WordSize])
	if offset.IsUint64() && offset.Uint64() <= uint64(len(data)-WordSize) {
		start := offset.Uint64()
		length := new(big.Int).SetBytes(data[start : start+WordSize])
		payload := data[start+WordSize:]
		if length.IsUint64() && length.Uint64() < uint64(len(payload)) {
			payload = payload[:length.Uint64()]
		}
		return bytesToUTF8(payload), nil
	}

	// Legacy tokens (e.g. MKR) return name/symbol as a NUL padded bytes32
	return bytesToUTF8(data[:WordSize]), nil
}

// DecodeUint decodes a big-endian hex value into an arbitrary precision integer.
// Values wider than 256 bits are rejected.
func DecodeUint(hexData string) (*big.Int, error) {
	digits := strings.TrimSpace(hexData)
	if has0xPrefix(digits) {
		digits = digits[2:]
	}
	if digits == "" {
		return nil, fmt.Errorf("%w: empty value", domain.ErrMalformedHex)
	}
	if !isHexDigits(digits) {
		return nil, fmt.Errorf("%w: %q", domain.ErrMalformedHex, hexData)
	}

	value, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrMalformedHex, hexData)
	}
	if value.BitLen() > maxUintBits {
		return nil, fmt.Errorf("%w: value exceeds %d bits", domain.ErrMalformedHex, maxUintBits)
	}
	return value, nil
}

// DecodeAddress extracts the address held in the low 20 bytes of a 32-byte topic.
// The returned address keeps the case of the input hex digits.
func DecodeAddress(topic string) (string, error) {
	digits := strings.TrimSpace(topic)
	if has0xPrefix(digits) {
		digits = digits[2:]
	}
	if !isHexDigits(digits) {
		return "", fmt.Errorf("%w: %q", domain.ErrMalformedHex, topic)
	}

	switch len(digits) {
	case addressHexLength:
		return "0x" + digits, nil
	case topicHexLength:
		padding := digits[:topicHexLength-addressHexLength]
		if strings.Trim(padding, "0") != "" {
			return "", fmt.Errorf("%w: non-zero address padding in %q", domain.ErrMalformedHex, topic)
		}
		return "0x" + digits[topicHexLength-addressHexLength:], nil
	default:
		return "", fmt.Errorf("%w: expected %d hex characters, got %d", domain.ErrMalformedHex, topicHexLength, len(digits))
	}
}

// FormatScaledAmount renders raw / 10^decimals as an exact decimal string.
// The fractional part is always left-padded to exactly decimals digits.
func FormatScaledAmount(raw *big.Int, decimals uint8) string {
	return formatScaled(raw, int(decimals))
}

func formatScaled(raw *big.Int, scale int) string {
	if raw == nil {
		raw = new(big.Int)
	}
	if scale <= 0 {
		return raw.String()
	}

	sign := ""
	abs := raw
	if raw.Sign() < 0 {
		sign = "-"
		abs = new(big.Int).Neg(raw)
	}

	quotient, remainder := new(big.Int).QuoRem(abs, pow10(scale), new(big.Int))
	fraction := remainder.String()
	if len(fraction) < scale {
		fraction = strings.Repeat("0", scale-len(fraction)) + fraction
	}
	return sign + quotient.String() + "." + fraction
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// decodeHex decodes 0x-prefixed (or bare) hex into bytes
func decodeHex(hexData string) ([]byte, error) {
	input := strings.TrimSpace(hexData)
	if !has0xPrefix(input) {
		input = "0x" + input
	}
	data, err := hexutil.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedHex, err)
	}
	return data, nil
}

func bytesToUTF8(data []byte) string {
	for i, b := range data {
		if b == 0 {
			data = data[:i]
			break
		}
	}
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
