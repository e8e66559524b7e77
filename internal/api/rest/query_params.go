package rest

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// MAX_SUMMARY_TOKENS bounds how many tokens one summary request may ask for
const MAX_SUMMARY_TOKENS = 100

// DashboardSummaryQuery represents the query parameters of GET /api/v1/dashboard/summary
type DashboardSummaryQuery struct {
	Tokens []string
}

// ParseDashboardSummaryQuery parses the comma separated tokens parameter.
// The parameter may also be repeated.
func ParseDashboardSummaryQuery(c *gin.Context) (*DashboardSummaryQuery, error) {
	query := &DashboardSummaryQuery{}
	for _, raw := range c.QueryArray("tokens") {
		for _, token := range strings.Split(raw, ",") {
			token = strings.TrimSpace(token)
			if token != "" {
				query.Tokens = append(query.Tokens, token)
			}
		}
	}

	if len(query.Tokens) > MAX_SUMMARY_TOKENS {
		return nil, fmt.Errorf("at most %d tokens may be summarised at once", MAX_SUMMARY_TOKENS)
	}
	return query, nil
}
