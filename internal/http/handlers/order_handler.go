package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/memoria-app/memoria-backend/internal/dto"
	"github.com/memoria-app/memoria-backend/internal/http/response"
	"github.com/memoria-app/memoria-backend/internal/service"
)

// OrderHandler is the HTTP layer for the order lifecycle.
type OrderHandler struct {
	orders  *service.OrderService
	payouts *service.PayoutService
}

// NewOrderHandler creates the handler.
func NewOrderHandler(orders *service.OrderService, payouts *service.PayoutService) *OrderHandler {
	return &OrderHandler{orders: orders, payouts: payouts}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cemeteryID, _ := uuid.Parse(req.CemeteryID)
	categoryID, _ := uuid.Parse(req.ServiceCategoryID)

	order, err := h.orders.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		ClientID:          userID,
		CemeteryID:        cemeteryID,
		ServiceCategoryID: categoryID,
		CemeteryLocation:  req.CemeteryLocation,
		Price:             req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, order)
}

// List handles GET /api/orders. Clients see their orders, prestataires
// their missions, admins everything.
func (h *OrderHandler) List(c *gin.Context) {
	userID, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orders, err := h.orders.ListUserOrders(c.Request.Context(), userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, orders)
}

// ListAvailable handles GET /api/orders/available.
func (h *OrderHandler) ListAvailable(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orders, err := h.orders.ListAvailable(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, orders)
}

// ListPendingValidation handles GET /api/orders/pending-validation.
func (h *OrderHandler) ListPendingValidation(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orders, err := h.orders.ListPendingValidation(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, orders)
}

// ListDisputed handles GET /api/orders/disputed.
func (h *OrderHandler) ListDisputed(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orders, err := h.orders.ListDisputed(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, orders)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	userID, role, err := identity(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// Accept handles PATCH /api/orders/:id/accept. First verified prestataire
// wins; everyone else gets ORDER_ALREADY_ASSIGNED.
func (h *OrderHandler) Accept(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orders.AcceptOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// Complete handles PATCH /api/orders/:id/complete.
func (h *OrderHandler) Complete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orders.CompleteOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// Cancel handles PATCH /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "a cancellation reason is required")
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), orderID, userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// Validate handles PATCH /api/orders/:id/validate. Admin only: releases the
// provider payout, records the platform fee and completes the order.
func (h *OrderHandler) Validate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, summary, err := h.payouts.ValidateOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"order":    order,
		"transfer": summary,
	})
}

// Dispute handles PATCH /api/orders/:id/dispute.
func (h *OrderHandler) Dispute(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orders.DisputeOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}

// Resolve handles PATCH /api/orders/:id/resolve.
func (h *OrderHandler) Resolve(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orders.ResolveDispute(c.Request.Context(), orderID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, order)
}
