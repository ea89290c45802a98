package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/memoria-app/memoria-backend/internal/dto"
	"github.com/memoria-app/memoria-backend/internal/http/response"
	"github.com/memoria-app/memoria-backend/internal/service"
)

// ProviderHandler is the HTTP layer for admin moderation of prestataires.
type ProviderHandler struct {
	providers *service.ProviderService
}

// NewProviderHandler creates the handler.
func NewProviderHandler(providers *service.ProviderService) *ProviderHandler {
	return &ProviderHandler{providers: providers}
}

// ListPending handles GET /api/providers/pending.
func (h *ProviderHandler) ListPending(c *gin.Context) {
	_, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	providers, err := h.providers.ListPendingProviders(c.Request.Context(), role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, providers)
}

// Approve handles PATCH /api/providers/:id/approve.
func (h *ProviderHandler) Approve(c *gin.Context) {
	_, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	providerID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	provider, err := h.providers.ApproveProvider(c.Request.Context(), providerID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, provider)
}

// Reject handles PATCH /api/providers/:id/reject.
func (h *ProviderHandler) Reject(c *gin.Context) {
	_, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	providerID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.RejectProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a rejection reason is required")
		return
	}

	provider, err := h.providers.RejectProvider(c.Request.Context(), providerID, role, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, provider)
}
