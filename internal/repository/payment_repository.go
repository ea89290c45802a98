package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/memoria-app/memoria-backend/internal/models"
)

// PaymentRepository handles the append-only payments ledger. Rows are only
// ever inserted; there is no update path.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new instance.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a ledger entry.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.create(ctx, r.db, payment)
}

// CreateTx inserts a ledger entry inside an existing transaction.
func (r *PaymentRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, payment *models.Payment) error {
	return r.create(ctx, tx, payment)
}

func (r *PaymentRepository) create(ctx context.Context, q sqlx.QueryerContext, payment *models.Payment) error {
	query := `
		INSERT INTO payments (order_id, amount, kind, status, recipient_id, stripe_payment_intent_id, stripe_transfer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	row := q.QueryRowxContext(
		ctx,
		query,
		payment.OrderID,
		payment.Amount,
		payment.Kind,
		payment.Status,
		payment.RecipientID,
		payment.StripePaymentIntentID,
		payment.StripeTransferID,
	)
	if err := row.Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return fmt.Errorf("payment repository: insert: %w", err)
	}
	return nil
}

// ListByOrder returns the ledger entries of an order, newest first.
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	query := `SELECT * FROM payments WHERE order_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &payments, query, orderID); err != nil {
		return nil, fmt.Errorf("payment repository: list by order: %w", err)
	}
	return payments, nil
}

// CountSettlements returns how many payout/platform_fee rows exist for an
// order. Used as a idempotence backstop: validation refuses to settle an
// order that already has settlement rows.
func (r *PaymentRepository) CountSettlements(ctx context.Context, orderID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM payments WHERE order_id = $1 AND kind IN ($2, $3)`
	if err := r.db.GetContext(ctx, &count, query, orderID, models.PaymentKindPayout, models.PaymentKindPlatformFee); err != nil {
		return 0, fmt.Errorf("payment repository: count settlements: %w", err)
	}
	return count, nil
}
