package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria-backend/internal/http/response"
	"github.com/memoria-app/memoria-backend/internal/repository"
)

// CatalogHandler serves the public reference data: cemeteries and service
// categories. Read only, no authentication required.
type CatalogHandler struct {
	catalog *repository.CatalogRepository
}

// NewCatalogHandler creates the handler.
func NewCatalogHandler(catalog *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListCemeteries handles GET /api/cemeteries.
func (h *CatalogHandler) ListCemeteries(c *gin.Context) {
	cemeteries, err := h.catalog.ListCemeteries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cemeteries)
}

// GetCemetery handles GET /api/cemeteries/:id.
func (h *CatalogHandler) GetCemetery(c *gin.Context) {
	cemeteryID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	cemetery, err := h.catalog.GetCemetery(c.Request.Context(), cemeteryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cemetery)
}

// ListServiceCategories handles GET /api/service-categories.
func (h *CatalogHandler) ListServiceCategories(c *gin.Context) {
	categories, err := h.catalog.ListServiceCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}
