package dto

import "github.com/shopspring/decimal"

// RegisterRequest creates a client or prestataire account. Zone and siret
// are only meaningful for prestataires.
type RegisterRequest struct {
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	Role             string `json:"role" binding:"required"`
	ZoneIntervention string `json:"zone_intervention"`
	Siret            string `json:"siret"`
}

// CreateAdminRequest creates an administrator account. Admin-only.
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateOrderRequest opens an order directly, without the card flow.
type CreateOrderRequest struct {
	CemeteryID        string          `json:"cemetery_id" binding:"required,uuid"`
	ServiceCategoryID string          `json:"service_category_id" binding:"required,uuid"`
	CemeteryLocation  string          `json:"cemetery_location"`
	Price             decimal.Decimal `json:"price" binding:"required"`
}

// CancelOrderRequest carries the mandatory cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectProviderRequest refuses a prestataire application.
type RejectProviderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreatePaymentIntentRequest opens the card flow for a future order.
type CreatePaymentIntentRequest struct {
	CemeteryID        string          `json:"cemetery_id" binding:"required,uuid"`
	ServiceCategoryID string          `json:"service_category_id" binding:"required,uuid"`
	CemeteryLocation  string          `json:"cemetery_location"`
	Price             decimal.Decimal `json:"price" binding:"required"`
}

// ConfirmPaymentRequest finalises the card flow and creates the order.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}
