package rest_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-provenance/internal/api/rest"
	"github.com/feral-file/ff-provenance/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-provenance/internal/api/shared/errors"
	"github.com/feral-file/ff-provenance/internal/domain"
	"github.com/feral-file/ff-provenance/internal/mocks"
)

const (
	riceToken  = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	phoneToken = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
)

type testHandlerMocks struct {
	ctrl     *gomock.Controller
	executor *mocks.MockAPIExecutor
	router   *gin.Engine
}

func setupTest(t *testing.T) *testHandlerMocks {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockAPIExecutor(ctrl)

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(exec))

	return &testHandlerMocks{
		ctrl:     ctrl,
		executor: exec,
		router:   router,
	}
}

func tearDownTest(tm *testHandlerMocks) {
	tm.ctrl.Finish()
}

func (tm *testHandlerMocks) do(method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	tm.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	w := tm.do(http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"ff-provenance-api"}`, w.Body.String())
}

func TestGetJourney(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.executor.EXPECT().GetJourney(gomock.Any(), riceToken).Return(&dto.JourneyResponse{
		TokenAddress: riceToken,
		TokenSymbol:  "RICE",
		Stages:       []dto.StageResponse{{Stage: "production", Location: "Punjab, India"}},
		Transactions: []dto.TransferDTO{{Amount: "1000.00", RawAmount: "100000"}},
	}, nil)

	w := tm.do(http.MethodGet, "/api/v1/journeys/"+riceToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"production"`)
	assert.Contains(t, w.Body.String(), `"amount":"1000.00"`)
}

func TestGetJourney_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "invalid address",
			err:    domain.ErrInvalidAddress,
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "no such token",
			err:    &domain.BuildError{Reason: domain.BuildReasonNoSuchToken, TokenAddress: riceToken},
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "endpoint unreachable",
			err:    domain.NewTransportError("eth_call", errors.New("dial tcp: connection refused")),
			status: http.StatusServiceUnavailable,
			code:   "service_error",
		},
		{
			name:   "node rejected",
			err:    domain.NewNodeRejectedError("eth_getLogs", -32602, "invalid params"),
			status: http.StatusBadGateway,
			code:   "service_error",
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t)
			defer tearDownTest(tm)

			tm.executor.EXPECT().GetJourney(gomock.Any(), riceToken).Return(nil, tt.err)

			w := tm.do(http.MethodGet, "/api/v1/journeys/"+riceToken, nil)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"`+tt.code+`"`)
		})
	}
}

func TestGetDashboardSummary(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.executor.EXPECT().GetDashboardSummary(gomock.Any(), []string{riceToken, phoneToken}).
		Return(&dto.DashboardSummaryResponse{
			Tokens:  2,
			Buckets: []dto.BucketDTO{{Date: "2024-01-01", TransferCount: 3, Volume: "110.75"}},
		}, nil)

	w := tm.do(http.MethodGet, "/api/v1/dashboard/summary?tokens="+riceToken+",+"+phoneToken, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"volume":"110.75"`)
}

func TestGetDashboardSummary_Defaults(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	tm.executor.EXPECT().GetDashboardSummary(gomock.Any(), gomock.Nil()).
		Return(nil, apierrors.NewValidationError("no tokens given and none configured"))

	w := tm.do(http.MethodGet, "/api/v1/dashboard/summary", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"validation_failed"`)
}

func TestDistributeCategories(t *testing.T) {
	tm := setupTest(t)
	defer tearDownTest(tm)

	expected := dto.CategoryDistributionRequest{
		Tokens:   []dto.CategoryToken{{Address: riceToken, Name: "Basmati Rice"}},
		Fallback: "Accessories",
	}
	tm.executor.EXPECT().DistributeCategories(gomock.Any(), expected).
		Return(&dto.CategoryDistributionResponse{Categories: map[string]int{"Grains": 1}}, nil)

	w := tm.do(http.MethodPost, "/api/v1/dashboard/categories",
		[]byte(`{"tokens":[{"address":"`+riceToken+`","name":"Basmati Rice"}],"fallback":"Accessories"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":{"Grains":1}}`, w.Body.String())
}

func TestDistributeCategories_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"tokens":`},
		{name: "no tokens", body: `{"tokens":[]}`},
		{name: "token without name", body: `{"tokens":[{"address":"0x1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t)
			defer tearDownTest(tm)

			w := tm.do(http.MethodPost, "/api/v1/dashboard/categories", []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"code":"validation_failed"`)
		})
	}
}
