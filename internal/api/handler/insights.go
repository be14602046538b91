package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/api/models"
	"github.com/sellwaste/sellwaste/internal/api/response"
	"github.com/sellwaste/sellwaste/internal/dataset"
)

// InsightsHandler serves dataset analytics.
type InsightsHandler struct {
	dataset *dataset.Service
	logger  zerolog.Logger
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(ds *dataset.Service, logger zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{
		dataset: ds,
		logger:  logger,
	}
}

// GetMetrics handles GET /v1/insights/metrics.
func (h *InsightsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dataset.Metrics(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("dataset metrics unavailable")
		response.ServiceUnavailable(w, r, "Dataset is currently unavailable")
		return
	}
	response.JSON(w, r, http.StatusOK, models.MetricsResponse{Metrics: metrics})
}

// GetCompanies handles GET /v1/insights/companies.
func (h *InsightsHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.dataset.CompanySummaries(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("dataset companies unavailable")
		response.ServiceUnavailable(w, r, "Dataset is currently unavailable")
		return
	}
	response.JSON(w, r, http.StatusOK, models.CompaniesResponse{Companies: summaries})
}
