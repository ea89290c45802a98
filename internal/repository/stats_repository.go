package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/memoria-app/memoria-backend/internal/models"
)

// PlatformStats is the admin dashboard aggregate.
type PlatformStats struct {
	TotalOrders       int             `db:"total_orders" json:"total_orders"`
	PendingOrders     int             `db:"pending_orders" json:"pending_orders"`
	ActiveOrders      int             `db:"active_orders" json:"active_orders"`
	CompletedOrders   int             `db:"completed_orders" json:"completed_orders"`
	DisputedOrders    int             `db:"disputed_orders" json:"disputed_orders"`
	TotalClients      int             `db:"total_clients" json:"total_clients"`
	TotalProviders    int             `db:"total_providers" json:"total_providers"`
	PendingProviders  int             `db:"pending_providers" json:"pending_providers"`
	CompletedRevenue  decimal.Decimal `db:"completed_revenue" json:"completed_revenue"`
	PlatformFeeEarned decimal.Decimal `db:"platform_fee_earned" json:"platform_fee_earned"`
}

// StatsRepository computes platform-wide aggregates for the admin dashboard.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new instance.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetPlatformStats runs one aggregate query over orders, users and payments.
func (r *StatsRepository) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders) AS total_orders,
			(SELECT COUNT(*) FROM orders WHERE status = 'pending') AS pending_orders,
			(SELECT COUNT(*) FROM orders WHERE status IN ('accepted', 'awaiting_validation')) AS active_orders,
			(SELECT COUNT(*) FROM orders WHERE status = 'completed') AS completed_orders,
			(SELECT COUNT(*) FROM orders WHERE status = 'disputed') AS disputed_orders,
			(SELECT COUNT(*) FROM users WHERE role = 'client') AS total_clients,
			(SELECT COUNT(*) FROM users WHERE role = 'prestataire' AND is_verified = TRUE) AS total_providers,
			(SELECT COUNT(*) FROM users WHERE role = 'prestataire' AND is_verified = FALSE AND rejection_reason IS NULL) AS pending_providers,
			COALESCE((SELECT SUM(price) FROM orders WHERE status = 'completed'), 0) AS completed_revenue,
			COALESCE((SELECT SUM(amount) FROM payments WHERE kind = $1), 0) AS platform_fee_earned
	`
	if err := r.db.GetContext(ctx, &stats, query, models.PaymentKindPlatformFee); err != nil {
		return nil, fmt.Errorf("stats repository: platform stats: %w", err)
	}
	return &stats, nil
}
