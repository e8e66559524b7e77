package registry

import (
	"fmt"
	"strings"

	"github.com/feral-file/ff-provenance/internal/abi"
	"github.com/feral-file/ff-provenance/internal/adapter"
	"github.com/feral-file/ff-provenance/internal/domain"
)

// TokenCatalog lists the product tokens watched by the dashboard
//
//go:generate mockgen -source=catalog.go -destination=../mocks/token_catalog.go -package=mocks -mock_names=TokenCatalog=MockTokenCatalog
type TokenCatalog interface {
	// Tokens returns every catalogued token that is not excluded, in file order
	Tokens() []domain.TokenMeta

	// LookupToken returns the catalogue entry for address, or nil
	LookupToken(address string) *domain.TokenMeta

	// IsExcluded reports whether address was explicitly excluded from summaries
	IsExcluded(address string) bool
}

// TokenCatalogData represents the structure of the catalog JSON file
type TokenCatalogData struct {
	Version  int                `json:"version"`
	Tokens   []domain.TokenMeta `json:"tokens"`
	Excluded []string           `json:"excluded,omitempty"`
}

type tokenCatalog struct {
	tokens []domain.TokenMeta
	// lowercase address -> index into tokens
	byAddress map[string]int
	excluded  map[string]bool
}

// LoadTokenCatalog loads a token catalog from a JSON file
func LoadTokenCatalog(fs adapter.FileSystem, json adapter.JSON, filePath string) (TokenCatalog, error) {
	data, err := fs.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token catalog file: %w", err)
	}

	var catalogData TokenCatalogData
	if err := json.Unmarshal(data, &catalogData); err != nil {
		return nil, fmt.Errorf("failed to parse token catalog JSON: %w", err)
	}

	return NewTokenCatalog(catalogData)
}

// NewTokenCatalog validates and indexes catalog data
func NewTokenCatalog(data TokenCatalogData) (TokenCatalog, error) {
	catalog := &tokenCatalog{
		byAddress: make(map[string]int),
		excluded:  make(map[string]bool),
	}

	for _, addr := range data.Excluded {
		catalog.excluded[strings.ToLower(addr)] = true
	}

	for _, token := range data.Tokens {
		if !domain.IsValidAddress(token.Address) {
			return nil, fmt.Errorf("token %q: %w: %s", token.Name, domain.ErrInvalidAddress, token.Address)
		}
		if token.UnitPrice != "" {
			if _, err := abi.ParseDecimal(token.UnitPrice); err != nil {
				return nil, fmt.Errorf("token %s unit price: %w", token.Address, err)
			}
		}

		key := strings.ToLower(token.Address)
		if _, dup := catalog.byAddress[key]; dup {
			return nil, fmt.Errorf("token %s listed twice", token.Address)
		}
		if catalog.excluded[key] {
			continue
		}
		catalog.byAddress[key] = len(catalog.tokens)
		catalog.tokens = append(catalog.tokens, token)
	}

	return catalog, nil
}

func (c *tokenCatalog) Tokens() []domain.TokenMeta {
	if c == nil {
		return nil
	}
	tokens := make([]domain.TokenMeta, len(c.tokens))
	copy(tokens, c.tokens)
	return tokens
}

func (c *tokenCatalog) LookupToken(address string) *domain.TokenMeta {
	if c == nil {
		return nil
	}
	idx, ok := c.byAddress[strings.ToLower(address)]
	if !ok {
		return nil
	}
	token := c.tokens[idx]
	return &token
}

func (c *tokenCatalog) IsExcluded(address string) bool {
	if c == nil {
		return false
	}
	return c.excluded[strings.ToLower(address)]
}
