package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusAccepted           OrderStatus = "accepted"
	OrderStatusAwaitingValidation OrderStatus = "awaiting_validation"
	OrderStatusCompleted          OrderStatus = "completed"
	OrderStatusCancelled          OrderStatus = "cancelled"
	OrderStatusDisputed           OrderStatus = "disputed"
	OrderStatusResolved           OrderStatus = "resolved"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusAwaitingValidation,
		OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed, OrderStatusResolved:
		return true
	}
	return false
}

// CanTransitionTo encodes the legal lifecycle transitions. completed,
// cancelled and resolved are terminal.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:            {OrderStatusAccepted},
		OrderStatusAccepted:           {OrderStatusAwaitingValidation, OrderStatusCancelled},
		OrderStatusAwaitingValidation: {OrderStatusCompleted, OrderStatusDisputed},
		OrderStatusDisputed:           {OrderStatusResolved},
		OrderStatusCompleted:          {},
		OrderStatusCancelled:          {},
		OrderStatusResolved:           {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// Order is a request for a maintenance service at a cemetery, owned by a
// client and optionally assigned to a provider. ProviderID is non-nil iff
// status is not pending; the assignment itself is a conditional UPDATE in
// the repository so two concurrent accepts cannot both win.
type Order struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	ClientID          uuid.UUID       `db:"client_id" json:"client_id"`
	ProviderID        *uuid.UUID      `db:"prestataire_id" json:"prestataire_id,omitempty"`
	CemeteryID        uuid.UUID       `db:"cemetery_id" json:"cemetery_id"`
	ServiceCategoryID uuid.UUID       `db:"service_category_id" json:"service_category_id"`
	CemeteryLocation  *string         `db:"cemetery_location" json:"cemetery_location,omitempty"`
	Price             decimal.Decimal `db:"price" json:"price"`
	Status            OrderStatus     `db:"status" json:"status"`
	CancelReason      *string         `db:"cancel_reason" json:"cancel_reason,omitempty"`
	AcceptedAt        *time.Time      `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`

	// Joined read-only fields.
	ClientEmail        *string `db:"client_email" json:"client_email,omitempty"`
	ProviderEmail      *string `db:"prestataire_email" json:"prestataire_email,omitempty"`
	CemeteryName       *string `db:"cemetery_name" json:"cemetery_name,omitempty"`
	CemeteryCity       *string `db:"cemetery_city" json:"cemetery_city,omitempty"`
	CemeteryDepartment *string `db:"cemetery_department" json:"cemetery_department,omitempty"`
	ServiceName        *string `db:"service_name" json:"service_name,omitempty"`
}
