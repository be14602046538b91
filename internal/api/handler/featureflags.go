package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/api/models"
	"github.com/sellwaste/sellwaste/internal/api/response"
	"github.com/sellwaste/sellwaste/internal/featureflags"
)

// FeatureFlagsHandler handles feature flag admin endpoints.
type FeatureFlagsHandler struct {
	flags  *featureflags.Service
	logger zerolog.Logger
}

// NewFeatureFlagsHandler creates a new FeatureFlagsHandler.
func NewFeatureFlagsHandler(flags *featureflags.Service, logger zerolog.Logger) *FeatureFlagsHandler {
	return &FeatureFlagsHandler{
		flags:  flags,
		logger: logger,
	}
}

// ListFlags handles GET /v1/admin/feature-flags.
func (h *FeatureFlagsHandler) ListFlags(w http.ResponseWriter, r *http.Request) {
	all := h.flags.GetAllFlags(r.Context())

	list := featureflags.FlagList{Items: make([]featureflags.Flag, 0, len(all))}
	for _, flag := range all {
		list.Items = append(list.Items, *flag)
	}
	sort.Slice(list.Items, func(i, j int) bool {
		return list.Items[i].Key < list.Items[j].Key
	})

	response.JSON(w, r, http.StatusOK, list)
}

// UpdateFlags handles PUT /v1/admin/feature-flags.
func (h *FeatureFlagsHandler) UpdateFlags(w http.ResponseWriter, r *http.Request) {
	var req featureflags.FlagUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "Request body must be valid JSON", nil)
		return
	}
	if len(req.Updates) == 0 {
		response.BadRequest(w, r, "updates must be a non-empty array", nil)
		return
	}
	for _, u := range req.Updates {
		if u.Key == "" {
			response.BadRequest(w, r, "every update must have a key", []models.FieldError{
				{Field: "updates", Message: "key is required"},
			})
			return
		}
	}

	now := time.Now()
	updated := make([]*featureflags.Flag, 0, len(req.Updates))
	for _, u := range req.Updates {
		updated = append(updated, &featureflags.Flag{
			Key:       u.Key,
			Value:     u.Value,
			UpdatedAt: now,
		})
	}

	if err := h.flags.SetFlags(r.Context(), updated); err != nil {
		h.logger.Error().Err(err).Msg("feature flag update failed")
		response.InternalError(w, r, "Unable to persist feature flags")
		return
	}

	h.logger.Info().
		Int("count", len(updated)).
		Str("reason", req.Reason).
		Msg("feature flags updated")

	list := featureflags.FlagList{Items: make([]featureflags.Flag, 0, len(updated))}
	for _, flag := range updated {
		list.Items = append(list.Items, *flag)
	}
	response.JSON(w, r, http.StatusOK, list)
}

// InvalidateCache handles POST /v1/admin/feature-flags/invalidate.
func (h *FeatureFlagsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.flags.InvalidateCache()
	response.NoContent(w, r)
}
