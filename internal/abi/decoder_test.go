package abi

import (
	"encoding/hex"
	"math/big"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/domain"
)

// encodeString ABI-encodes s as a dynamic string return value
func encodeString(s string) string {
	word := func(n int) string {
		return hex.EncodeToString(common32(big.NewInt(int64(n))))
	}
	payload := hex.EncodeToString([]byte(s))
	if pad := len(payload) % 64; pad != 0 {
		payload += strings.Repeat("0", 64-pad)
	}
	return "0x" + word(32) + word(len(s)) + payload
}

func common32(n *big.Int) []byte {
	out := make([]byte, 32)
	n.FillBytes(out)
	return out
}

func TestDecodeUTF8String(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty hex", input: "0x", expected: ""},
		{name: "shorter than header", input: "0x0000000000000000000000000000000000000020", expected: ""},
		{name: "header only", input: "0x" + strings.Repeat("0", 62) + "20", expected: ""},
		{name: "ascii name", input: encodeString("Jasmine Rice"), expected: "Jasmine Rice"},
		{name: "symbol", input: encodeString("RICE"), expected: "RICE"},
		{name: "multi byte utf8", input: encodeString("Café ☕ 東京"), expected: "Café ☕ 東京"},
		{name: "longer than one word", input: encodeString(strings.Repeat("organic ", 9)), expected: strings.Repeat("organic ", 9)},
		{
			name:     "bytes32 legacy encoding",
			input:    "0x4d4b520000000000000000000000000000000000000000000000000000000000",
			expected: "MKR",
		},
		{
			name:     "declared length longer than payload",
			input:    "0x" + strings.Repeat("0", 62) + "20" + strings.Repeat("0", 62) + "ff" + "52494345" + strings.Repeat("0", 56),
			expected: "RICE",
		},
		{
			name:     "declared length longer than unpadded payload",
			input:    "0x" + strings.Repeat("0", 62) + "20" + strings.Repeat("0", 62) + "ff" + "524943",
			expected: "RIC",
		},
		{
			name:     "declared length beyond uint64",
			input:    "0x" + strings.Repeat("0", 62) + "20" + strings.Repeat("f", 64) + "52494345" + strings.Repeat("0", 56),
			expected: "RICE",
		},
		{name: "no prefix", input: strings.TrimPrefix(encodeString("Coffee"), "0x"), expected: "Coffee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeUTF8String(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDecodeUTF8String_MalformedHex(t *testing.T) {
	_, err := DecodeUTF8String("0xzz")
	assert.ErrorIs(t, err, domain.ErrMalformedHex)

	_, err = DecodeUTF8String("0x123")
	assert.ErrorIs(t, err, domain.ErrMalformedHex)
}

func TestDecodeUTF8String_RecoversEncodedStrings(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 -_éü中文🌾")

	for i := 0; i < 200; i++ {
		length := rng.Intn(80)
		runes := make([]rune, length)
		for j := range runes {
			runes[j] = alphabet[rng.Intn(len(alphabet))]
		}
		original := string(runes)

		decoded, err := DecodeUTF8String(encodeString(original))
		require.NoError(t, err)
		require.Equal(t, original, decoded)
	}
}

func TestDecodeUint(t *testing.T) {
	maxUint256, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

	tests := []struct {
		name     string
		input    string
		expected *big.Int
		wantErr  bool
	}{
		{name: "decimals word", input: "0x0000000000000000000000000000000000000000000000000000000000000012", expected: big.NewInt(18)},
		{name: "odd length quantity", input: "0x1b4", expected: big.NewInt(436)},
		{name: "upper case prefix", input: "0XFF", expected: big.NewInt(255)},
		{name: "beyond uint64", input: "0x3635c9adc5dea00000", expected: new(big.Int).Mul(big.NewInt(1000), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))},
		{name: "max uint256", input: "0x" + strings.Repeat("f", 64), expected: maxUint256},
		{name: "empty", input: "0x", wantErr: true},
		{name: "non hex", input: "0x12g4", wantErr: true},
		{name: "signed", input: "0x-1", wantErr: true},
		{name: "overflow", input: "0x1" + strings.Repeat("0", 64), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeUint(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedHex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 0, tt.expected.Cmp(result), "expected %s, got %s", tt.expected, result)
		})
	}
}

func TestDecodeAddress(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "padded topic keeps case",
			input:    "0x000000000000000000000000396343362be2A4dA1cE0C1C210945346fb82Aa49",
			expected: "0x396343362be2A4dA1cE0C1C210945346fb82Aa49",
		},
		{
			name:     "zero address",
			input:    "0x0000000000000000000000000000000000000000000000000000000000000000",
			expected: domain.ETHEREUM_ZERO_ADDRESS,
		},
		{
			name:     "bare address",
			input:    "0xABCDEFabcdef0123456789ABCDEFabcdef012345",
			expected: "0xABCDEFabcdef0123456789ABCDEFabcdef012345",
		},
		{name: "non zero padding", input: "0x100000000000000000000000396343362be2A4dA1cE0C1C210945346fb82Aa49", wantErr: true},
		{name: "short", input: "0x1234", wantErr: true},
		{name: "not hex", input: "0x000000000000000000000000396343362be2A4dA1cE0C1C210945346fb82Aa4z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeAddress(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedHex)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestFormatScaledAmount(t *testing.T) {
	thousandRice, _ := new(big.Int).SetString("1000000000000000000000", 10)

	tests := []struct {
		name     string
		raw      *big.Int
		decimals uint8
		expected string
	}{
		{name: "no decimals", raw: big.NewInt(1234), decimals: 0, expected: "1234"},
		{name: "18 decimals", raw: thousandRice, decimals: 18, expected: "1000.000000000000000000"},
		{name: "fraction padding", raw: big.NewInt(5), decimals: 3, expected: "0.005"},
		{name: "two decimals", raw: big.NewInt(1050), decimals: 2, expected: "10.50"},
		{name: "zero", raw: big.NewInt(0), decimals: 6, expected: "0.000000"},
		{name: "nil", raw: nil, decimals: 2, expected: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatScaledAmount(tt.raw, tt.decimals))
		})
	}
}

func TestFormatScaledAmount_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for decimals := 0; decimals <= 30; decimals++ {
		for i := 0; i < 50; i++ {
			raw := new(big.Int).Rand(rng, new(big.Int).Lsh(big.NewInt(1), uint(rng.Intn(256)+1)))

			formatted := FormatScaledAmount(raw, uint8(decimals))
			parsed, err := ParseDecimal(formatted)
			require.NoError(t, err)

			rebuilt := parsed.Rescale(decimals)
			require.Equal(t, decimals, rebuilt.Scale, "scale for %s", formatted)
			require.Equal(t, 0, raw.Cmp(rebuilt.Int), "raw %s decimals %d formatted %s", raw, decimals, formatted)
		}
	}
}
