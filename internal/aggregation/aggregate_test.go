package aggregation_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-provenance/internal/aggregation"
	"github.com/feral-file/ff-provenance/internal/domain"
)

func at(t time.Time) *time.Time {
	return &t
}

func transferAt(amount int64, decimals uint8, ts *time.Time) domain.TransferEvent {
	return domain.TransferEvent{
		Amount:    big.NewInt(amount),
		Decimals:  decimals,
		Timestamp: ts,
	}
}

func TestAggregate_ExactVolume(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	transfers := []domain.TransferEvent{
		transferAt(1050, 2, at(day.Add(1*time.Hour))),
		transferAt(25, 2, at(day.Add(12*time.Hour))),
		transferAt(10000, 2, at(day.Add(23*time.Hour+59*time.Minute))),
	}

	buckets, unresolved := aggregation.Aggregate(transfers)

	assert.Zero(t, unresolved)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2024-03-05", buckets[0].Date)
	assert.Equal(t, 3, buckets[0].TransferCount)
	assert.Equal(t, "110.75", buckets[0].Volume)
}

func TestAggregate_BucketsByUTCDay(t *testing.T) {
	plus8 := time.FixedZone("UTC+8", 8*60*60)
	transfers := []domain.TransferEvent{
		// 2024-03-06 01:00 local is still 2024-03-05 in UTC
		transferAt(1, 0, at(time.Date(2024, 3, 6, 1, 0, 0, 0, plus8))),
		transferAt(2, 0, at(time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC))),
		transferAt(3, 0, at(time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC))),
	}

	buckets, _ := aggregation.Aggregate(transfers)

	require.Len(t, buckets, 2)
	assert.Equal(t, domain.AggregationBucket{Date: "2024-03-04", TransferCount: 1, Volume: "2"}, buckets[0])
	assert.Equal(t, domain.AggregationBucket{Date: "2024-03-05", TransferCount: 2, Volume: "4"}, buckets[1])
}

func TestAggregate_MixedDecimals(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	oneEther := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	transfers := []domain.TransferEvent{
		{Amount: oneEther, Decimals: 18, Timestamp: at(day)},
		transferAt(150, 2, at(day)),
	}

	buckets, _ := aggregation.Aggregate(transfers)

	require.Len(t, buckets, 1)
	assert.Equal(t, "2.500000000000000000", buckets[0].Volume)
}

func TestAggregate_SkipsUnresolvedTimestamps(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	transfers := []domain.TransferEvent{
		transferAt(1, 0, at(day)),
		transferAt(5, 0, nil),
		{Decimals: 0, Timestamp: at(day)},
	}

	buckets, unresolved := aggregation.Aggregate(transfers)

	assert.Equal(t, 1, unresolved)
	require.Len(t, buckets, 1)
	assert.Equal(t, 2, buckets[0].TransferCount)
	assert.Equal(t, "1", buckets[0].Volume)
}

func TestAggregate_Empty(t *testing.T) {
	buckets, unresolved := aggregation.Aggregate(nil)

	assert.Empty(t, buckets)
	assert.Zero(t, unresolved)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		fallback string
		expected string
	}{
		{name: "Galaxy Phone X", expected: "Smartphones"},
		{name: "SMARTPHONE case", expected: "Smartphones"},
		{name: "Basmati Rice", expected: "Grains"},
		{name: "Smartwatch Phone Edition", expected: "Smartphones"},
		{name: "Gaming Laptop", expected: "Laptops"},
		{name: "Charging Cable", fallback: "Accessories", expected: "Accessories"},
		{name: "Charging Cable", expected: aggregation.DEFAULT_FALLBACK_CATEGORY},
		{name: "", expected: aggregation.DEFAULT_FALLBACK_CATEGORY},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, aggregation.Categorize(tt.name, tt.fallback))
		})
	}
}

func TestDistributeByCategory(t *testing.T) {
	tokens := []domain.TokenMeta{
		{Name: "Pixel Phone"},
		{Name: "iPhone 15"},
		{Name: "Jasmine Rice"},
		{Name: "USB Hub"},
	}

	distribution := aggregation.DistributeByCategory(tokens, aggregation.ByName("Accessories"))

	assert.Equal(t, map[string]int{
		"Smartphones": 2,
		"Grains":      1,
		"Accessories": 1,
	}, distribution)
}

func TestDistributeByCategory_CustomClassifier(t *testing.T) {
	tokens := []domain.TokenMeta{
		{Name: "Pixel Phone", Symbol: "PXL"},
		{Name: "Jasmine Rice", Symbol: "RICE"},
		{Name: "Brown Rice", Symbol: "RICE"},
	}

	distribution := aggregation.DistributeByCategory(tokens, func(token domain.TokenMeta) string {
		return token.Symbol
	})

	assert.Equal(t, map[string]int{"PXL": 1, "RICE": 2}, distribution)
}

func TestDistributeByPriceBand(t *testing.T) {
	tokens := []domain.TokenMeta{
		{Name: "a", UnitPrice: "9.99"},
		{Name: "b", UnitPrice: "10"},
		{Name: "c", UnitPrice: "99.999999"},
		{Name: "d", UnitPrice: "2500.00"},
		{Name: "e"},
		{Name: "f", UnitPrice: "not-a-price"},
	}

	distribution, err := aggregation.DistributeByPriceBand(tokens, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Under 10":       1,
		"10 to 100":      2,
		"100 to 1000":    0,
		"1000 and above": 1,
		"Unpriced":       2,
	}, distribution)
}

func TestDistributeByPriceBand_OutsideBands(t *testing.T) {
	bands := []aggregation.PriceBand{{Label: "cheap", Min: "1", Max: "5"}}
	tokens := []domain.TokenMeta{
		{UnitPrice: "0.5"},
		{UnitPrice: "4.99"},
		{UnitPrice: "5"},
	}

	distribution, err := aggregation.DistributeByPriceBand(tokens, bands)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cheap": 1, aggregation.UNPRICED_BAND: 2}, distribution)
}

func TestDistributeByPriceBand_InvalidBand(t *testing.T) {
	_, err := aggregation.DistributeByPriceBand(nil, []aggregation.PriceBand{{Label: "x", Min: "ten"}})

	assert.ErrorIs(t, err, domain.ErrMalformedDecimal)
}
