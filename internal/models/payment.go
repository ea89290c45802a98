package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment kinds.
const (
	PaymentKindCharge      = "charge"       // client payment for a new order
	PaymentKindPayout      = "payout"       // provider share released on validation
	PaymentKindPlatformFee = "platform_fee" // remainder kept by the platform
)

// Payment statuses.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusReleased  = "released"
)

// Payment is an append-only ledger entry. Rows are created once and never
// mutated; an order ends up with one charge row and, after admin validation,
// one payout and one platform_fee row written in the same transaction as the
// status change.
type Payment struct {
	ID                    uuid.UUID       `db:"id" json:"id"`
	OrderID               uuid.UUID       `db:"order_id" json:"order_id"`
	Amount                decimal.Decimal `db:"amount" json:"amount"`
	Kind                  string          `db:"kind" json:"kind"`
	Status                string          `db:"status" json:"status"`
	RecipientID           *uuid.UUID      `db:"recipient_id" json:"recipient_id,omitempty"`
	StripePaymentIntentID *string         `db:"stripe_payment_intent_id" json:"stripe_payment_intent_id,omitempty"`
	StripeTransferID      *string         `db:"stripe_transfer_id" json:"stripe_transfer_id,omitempty"`
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
}
