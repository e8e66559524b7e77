package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-provenance/internal/api/shared/dto"
	"github.com/feral-file/ff-provenance/internal/api/shared/executor"
	"github.com/feral-file/ff-provenance/internal/logger"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// GetJourney builds the supply-chain journey of one token
	// GET /api/v1/journeys/:address
	GetJourney(c *gin.Context)

	// GetDashboardSummary summarises transfers across tokens
	// GET /api/v1/dashboard/summary?tokens=<address1>,<address2>
	GetDashboardSummary(c *gin.Context)

	// DistributeCategories counts tokens per name category
	// POST /api/v1/dashboard/categories
	DistributeCategories(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// GetJourney builds the journey of the token in the path
func (h *handler) GetJourney(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		respondBadRequest(c, "Token address is required")
		return
	}

	journey, err := h.executor.GetJourney(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, zap.String("token", address))
		return
	}

	c.JSON(http.StatusOK, journey)
}

// GetDashboardSummary summarises the tokens in the query, or the configured ones
func (h *handler) GetDashboardSummary(c *gin.Context) {
	query, err := ParseDashboardSummaryQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	summary, err := h.executor.GetDashboardSummary(c.Request.Context(), query.Tokens)
	if err != nil {
		respondError(c, err, zap.Strings("tokens", query.Tokens))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DistributeCategories counts the posted tokens per category
func (h *handler) DistributeCategories(c *gin.Context) {
	var req dto.CategoryDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.DistributeCategories(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	logger.DebugCtx(c.Request.Context(), "Health check")
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "ff-provenance-api",
	})
}
