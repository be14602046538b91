package handler

import (
	"net/http"

	"github.com/sellwaste/sellwaste/internal/api/models"
	"github.com/sellwaste/sellwaste/internal/api/response"
	"github.com/sellwaste/sellwaste/internal/pickup"
)

// MetadataHandler serves static API metadata.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		CompanySizes:     pickup.CompanySizes,
		Industries:       pickup.Industries,
		RiskAppetites:    pickup.RiskAppetites,
		DefaultMaterials: pickup.DefaultMaterials,
	}
	response.JSON(w, r, http.StatusOK, enums)
}
