package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellwaste/sellwaste/internal/api"
	"github.com/sellwaste/sellwaste/internal/api/models"
	"github.com/sellwaste/sellwaste/internal/dataset"
	"github.com/sellwaste/sellwaste/internal/featureflags"
	"github.com/sellwaste/sellwaste/internal/pickup"
	"github.com/sellwaste/sellwaste/internal/provider/resilience"
)

// testDatasetService loads the dataset fixture shared with the dataset package.
func testDatasetService() *dataset.Service {
	return dataset.NewService(dataset.ServiceConfig{
		Repository: dataset.NewFileRepository("../dataset/testdata/dataset.json"),
		Logger:     zerolog.Nop(),
	})
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)

	ds := testDatasetService()
	flags := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewInMemoryRepository(),
		Logger:     logger,
	})
	pickupService := pickup.NewService(pickup.ServiceConfig{
		Dataset: ds,
		Flags:   flags,
		Logger:  logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:            "test",
		BuildTime:          "2024-01-01T00:00:00Z",
		Logger:             logger,
		PickupService:      pickupService,
		DatasetService:     ds,
		FeatureFlagService: flags,
		Registry:           resilience.NewRegistry(),
	})
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.False(t, time.Time(health.Time).IsZero())
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
	require.Len(t, status.Subsystems, 1)
	assert.Equal(t, "dataset", status.Subsystems[0].Name)
	assert.Equal(t, models.HealthStatusOK, status.Subsystems[0].Status)
	assert.Empty(t, status.ActiveDegradationFlags)
}

func TestRouter_SellWasteToday(t *testing.T) {
	router := newTestRouter()

	input := map[string]interface{}{
		"companyId":    "ACME-1",
		"companySize":  "SME",
		"industry":     "retail",
		"riskAppetite": "cost",
		"wasteItems": []map[string]interface{}{
			{
				"material": "cardboard boxes",
				"quantity": 350,
				"unit":     "kg",
				"location": map[string]interface{}{
					"lat":     40.7128,
					"lon":     -74.006,
					"address": "450 Broadway",
				},
			},
		},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/pickup/sell-waste-today", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp pickup.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.RequestID)
	require.Len(t, resp.Messages, 4)
	assert.True(t, resp.Pickup.Scheduled)
	assert.NotEmpty(t, resp.Pickup.Route.RouteID)
}

func TestRouter_SellWasteToday_EmptyBody(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/pickup/sell-waste-today", http.NoBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp pickup.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "completed", resp.Status)
	assert.NotEmpty(t, resp.Warnings)
}

func TestRouter_SellWasteToday_ValidationFailure(t *testing.T) {
	router := newTestRouter()

	input := map[string]interface{}{
		"companyId":   "ACME-1",
		"companySize": "mid-market",
		"wasteItems": []map[string]interface{}{
			{"material": "cardboard boxes"},
		},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/pickup/sell-waste-today", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var failure models.ValidationFailure
	err := json.Unmarshal(w.Body.Bytes(), &failure)
	require.NoError(t, err)

	assert.Equal(t, "Validation failed", failure.Error)
	require.NotEmpty(t, failure.Reasons)
	assert.Contains(t, failure.Reasons[0], "companySize")
}

func TestRouter_SellWasteToday_MalformedJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/pickup/sell-waste-today", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_InsightsMetrics(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/insights/metrics", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.MetricsResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.NotNil(t, resp.Metrics)
	assert.NotZero(t, resp.Metrics.TotalCompanies)
}

func TestRouter_InsightsCompanies(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/insights/companies", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CompaniesResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Companies)
}

func TestRouter_GetEnums(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/metadata/enums", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var enums models.Enums
	err := json.Unmarshal(w.Body.Bytes(), &enums)
	require.NoError(t, err)

	assert.Contains(t, enums.CompanySizes, "SME")
	assert.Contains(t, enums.Industries, "retail")
	assert.Contains(t, enums.RiskAppetites, "balanced")
	assert.NotEmpty(t, enums.DefaultMaterials)
}

func TestRouter_FeatureFlags(t *testing.T) {
	router := newTestRouter()

	// List returns the defaults
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/feature-flags", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var list featureflags.FlagList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Items, 2)

	// Update one flag
	update := featureflags.FlagUpdateRequest{
		Updates: []featureflags.FlagUpdate{
			{Key: featureflags.FlagDisableTextGeneration, Value: true},
		},
		Reason: "incident drill",
	}
	body, _ := json.Marshal(update)

	req = httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated featureflags.FlagList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.Len(t, updated.Items, 1)
	assert.Equal(t, featureflags.FlagDisableTextGeneration, updated.Items[0].Key)

	// The active flag now surfaces in the ops status
	req = httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	assert.Contains(t, status.ActiveDegradationFlags, featureflags.FlagDisableTextGeneration)

	// Invalidate the cache
	req = httptest.NewRequest(http.MethodPost, "/v1/admin/feature-flags/invalidate", http.NoBody)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRouter_FeatureFlags_EmptyUpdate(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(featureflags.FlagUpdateRequest{Reason: "noop"})

	req := httptest.NewRequest(http.MethodPut, "/v1/admin/feature-flags", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
