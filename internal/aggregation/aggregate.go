package aggregation

import (
	"math/big"
	"sort"
	"strings"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/domain"
)

const (
	// DEFAULT_FALLBACK_CATEGORY is used when no keyword matches a token name
	DEFAULT_FALLBACK_CATEGORY = "Other"

	// UNPRICED_BAND collects tokens without a unit price
	UNPRICED_BAND = "Unpriced"

	dayLayout = "2006-01-02"
)

// CategoryKeyword maps a lowercase substring of a token name to a category
type CategoryKeyword struct {
	Keyword  string
	Category string
}

// CategoryKeywords is matched in order; the first keyword contained in the name wins.
// Reordering this table changes the category of names matching several keywords.
var CategoryKeywords = []CategoryKeyword{
	{Keyword: "phone", Category: "Smartphones"},
	{Keyword: "laptop", Category: "Laptops"},
	{Keyword: "tablet", Category: "Tablets"},
	{Keyword: "watch", Category: "Wearables"},
	{Keyword: "camera", Category: "Cameras"},
	{Keyword: "rice", Category: "Grains"},
	{Keyword: "wheat", Category: "Grains"},
	{Keyword: "coffee", Category: "Beverages"},
	{Keyword: "cotton", Category: "Textiles"},
	{Keyword: "shirt", Category: "Apparel"},
	{Keyword: "shoe", Category: "Apparel"},
}

// Aggregate buckets transfers by the UTC calendar day of their timestamp.
// Transfers without a resolved timestamp are left out and counted in the second return value.
// Buckets are sorted by date ascending.
func Aggregate(transfers []domain.TransferEvent) ([]domain.AggregationBucket, int) {
	type accumulator struct {
		count  int
		volume abi.Decimal
	}

	days := make(map[string]*accumulator)
	unresolved := 0
	for i := range transfers {
		t := &transfers[i]
		if !t.HasTimestamp() {
			unresolved++
			continue
		}

		day := t.Timestamp.UTC().Format(dayLayout)
		acc, ok := days[day]
		if !ok {
			acc = &accumulator{volume: abi.Decimal{Int: new(big.Int)}}
			days[day] = acc
		}

		amount := t.Amount
		if amount == nil {
			amount = new(big.Int)
		}
		acc.count++
		acc.volume = acc.volume.Add(abi.Decimal{Int: amount, Scale: int(t.Decimals)})
	}

	buckets := make([]domain.AggregationBucket, 0, len(days))
	for day, acc := range days {
		buckets = append(buckets, domain.AggregationBucket{
			Date:          day,
			TransferCount: acc.count,
			Volume:        acc.volume.String(),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})

	return buckets, unresolved
}

// Categorize returns the category of a token name using CategoryKeywords
func Categorize(name, fallback string) string {
	lower := strings.ToLower(name)
	for _, k := range CategoryKeywords {
		if strings.Contains(lower, k.Keyword) {
			return k.Category
		}
	}
	if fallback == "" {
		return DEFAULT_FALLBACK_CATEGORY
	}
	return fallback
}

// CategoryFunc maps a token to its category
type CategoryFunc func(domain.TokenMeta) string

// ByName classifies tokens by their name using CategoryKeywords
func ByName(fallback string) CategoryFunc {
	return func(token domain.TokenMeta) string {
		return Categorize(token.Name, fallback)
	}
}

// DistributeByCategory counts tokens per category assigned by classify
func DistributeByCategory(tokens []domain.TokenMeta, classify CategoryFunc) map[string]int {
	distribution := make(map[string]int)
	for _, token := range tokens {
		distribution[classify(token)]++
	}
	return distribution
}

// PriceBand is a half-open unit price range [Min, Max). An empty Max is unbounded.
type PriceBand struct {
	Label string `mapstructure:"label" json:"label"`
	Min   string `mapstructure:"min" json:"min"`
	Max   string `mapstructure:"max" json:"max,omitempty"`
}

// DefaultPriceBands is used when no bands are configured
var DefaultPriceBands = []PriceBand{
	{Label: "Under 10", Min: "0", Max: "10"},
	{Label: "10 to 100", Min: "10", Max: "100"},
	{Label: "100 to 1000", Min: "100", Max: "1000"},
	{Label: "1000 and above", Min: "1000"},
}

type parsedBand struct {
	label    string
	min, max abi.Decimal
	bounded  bool
}

// DistributeByPriceBand counts tokens per price band. Tokens without a unit price,
// or whose price is outside every band, are counted as UNPRICED_BAND.
// Every band label is present in the result, possibly with a zero count.
func DistributeByPriceBand(tokens []domain.TokenMeta, bands []PriceBand) (map[string]int, error) {
	if len(bands) == 0 {
		bands = DefaultPriceBands
	}

	parsed := make([]parsedBand, 0, len(bands))
	distribution := make(map[string]int, len(bands)+1)
	for _, band := range bands {
		p := parsedBand{label: band.Label}
		var err error
		if p.min, err = abi.ParseDecimal(band.Min); err != nil {
			return nil, err
		}
		if band.Max != "" {
			if p.max, err = abi.ParseDecimal(band.Max); err != nil {
				return nil, err
			}
			p.bounded = true
		}
		parsed = append(parsed, p)
		distribution[band.Label] = 0
	}

	for _, token := range tokens {
		distribution[priceBand(token.UnitPrice, parsed)]++
	}
	return distribution, nil
}

func priceBand(unitPrice string, bands []parsedBand) string {
	if unitPrice == "" {
		return UNPRICED_BAND
	}
	price, err := abi.ParseDecimal(unitPrice)
	if err != nil {
		return UNPRICED_BAND
	}
	for _, band := range bands {
		if price.Cmp(band.min) < 0 {
			continue
		}
		if band.bounded && price.Cmp(band.max) >= 0 {
			continue
		}
		return band.label
	}
	return UNPRICED_BAND
}
