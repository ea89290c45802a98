package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/repository/common"
)

// SettlementRepository writes the two settlement ledger rows and the
// terminal order status in one transaction, so an order can never end up
// completed without its ledger entries or vice versa.
type SettlementRepository struct {
	db       *sqlx.DB
	orders   *OrderRepository
	payments *PaymentRepository
}

// NewSettlementRepository creates a new instance.
func NewSettlementRepository(db *sqlx.DB, orders *OrderRepository, payments *PaymentRepository) *SettlementRepository {
	return &SettlementRepository{db: db, orders: orders, payments: payments}
}

// Settle atomically records the payout and platform fee rows and marks the
// order completed.
func (r *SettlementRepository) Settle(ctx context.Context, orderID uuid.UUID, payout, fee *models.Payment) (*models.Order, error) {
	var order *models.Order
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := r.payments.CreateTx(ctx, tx, payout); err != nil {
			return err
		}
		if err := r.payments.CreateTx(ctx, tx, fee); err != nil {
			return err
		}
		updated, err := r.orders.UpdateStatusTx(ctx, tx, orderID, models.OrderStatusCompleted)
		if err != nil {
			return err
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
