// Package handler provides HTTP handlers for the SellWaste API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/api/models"
	"github.com/sellwaste/sellwaste/internal/api/response"
	"github.com/sellwaste/sellwaste/internal/pickup"
)

// PickupHandler handles the waste pickup decision endpoint.
type PickupHandler struct {
	service *pickup.Service
	logger  zerolog.Logger
}

// NewPickupHandler creates a new PickupHandler.
func NewPickupHandler(service *pickup.Service, logger zerolog.Logger) *PickupHandler {
	return &PickupHandler{
		service: service,
		logger:  logger,
	}
}

// SellWasteToday handles POST /v1/pickup/sell-waste-today.
// An empty or absent body is accepted and treated as an empty request;
// the pipeline hydrates it from the dataset.
func (h *PickupHandler) SellWasteToday(w http.ResponseWriter, r *http.Request) {
	var req pickup.Request

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, r, "Unable to read request body", nil)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			response.BadRequest(w, r, "Request body must be valid JSON", nil)
			return
		}
	}

	result, err := h.service.Run(r.Context(), req)
	if err != nil {
		var verr *pickup.ValidationError
		if errors.As(err, &verr) {
			response.JSON(w, r, http.StatusBadRequest, models.ValidationFailure{
				Error:   "Validation failed",
				Reasons: verr.Reasons,
			})
			return
		}
		h.logger.Error().Err(err).Msg("pickup pipeline failed")
		response.InternalError(w, r, "Pickup pipeline failed")
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
