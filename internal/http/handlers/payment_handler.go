package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/memoria-app/memoria-backend/internal/dto"
	"github.com/memoria-app/memoria-backend/internal/http/response"
	"github.com/memoria-app/memoria-backend/internal/service"
)

// PaymentHandler is the HTTP layer for the checkout flow.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates the handler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateIntent handles POST /api/payments/create-payment-intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cemeteryID, _ := uuid.Parse(req.CemeteryID)
	categoryID, _ := uuid.Parse(req.ServiceCategoryID)

	intent, err := h.payments.CreatePaymentIntent(c.Request.Context(), service.CheckoutInput{
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

	response.Created(c, intent)
}

// Confirm handles POST /api/payments/confirm. The order only exists once
// the charge has succeeded.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.payments.ConfirmPayment(c.Request.Context(), userID, req.PaymentIntentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, order)
}

// ListOrderPayments handles GET /api/orders/:id/payments.
func (h *PaymentHandler) ListOrderPayments(c *gin.Context) {
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

	payments, err := h.payments.ListOrderPayments(c.Request.Context(), orderID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, payments)
}
