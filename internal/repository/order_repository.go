package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

// orderColumns joins the reference data every order read needs: the party
// emails, the cemetery and the service category.
const orderColumns = `
	o.*,
	uc.email AS client_email,
	up.email AS prestataire_email,
	c.name AS cemetery_name,
	c.city AS cemetery_city,
	c.department AS cemetery_department,
	sc.name AS service_name
`

const orderJoins = `
	FROM orders o
	LEFT JOIN users uc ON o.client_id = uc.id
	LEFT JOIN users up ON o.prestataire_id = up.id
	LEFT JOIN cemeteries c ON o.cemetery_id = c.id
	LEFT JOIN service_categories sc ON o.service_category_id = sc.id
`

// OrderRepository handles durable storage and atomic conditional mutation of
// orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new instance.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new pending order with no provider.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (client_id, cemetery_id, service_category_id, cemetery_location, price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		order.ClientID,
		order.CemeteryID,
		order.ServiceCategoryID,
		order.CemeteryLocation,
		order.Price,
		models.OrderStatusPending,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("order repository: insert: %w", err)
	}
	order.Status = models.OrderStatusPending
	return nil
}

// GetByID returns an order with its joined reference data.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.id = $1`
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get by id: %w", err)
	}
	return &order, nil
}

// ListByClient returns all orders created by a client, newest first.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.client_id = $1 ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, clientID); err != nil {
		return nil, fmt.Errorf("order repository: list by client: %w", err)
	}
	return orders, nil
}

// ListByProvider returns all orders assigned to a provider, newest first.
func (r *OrderRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.prestataire_id = $1 ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, providerID); err != nil {
		return nil, fmt.Errorf("order repository: list by provider: %w", err)
	}
	return orders, nil
}

// ListAll returns every order (admin view), newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + orderJoins + ` ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("order repository: list all: %w", err)
	}
	return orders, nil
}

// ListByStatus returns orders in the given status (admin queues).
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + orderJoins + ` WHERE o.status = $1 ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, status); err != nil {
		return nil, fmt.Errorf("order repository: list by status: %w", err)
	}
	return orders, nil
}

// FindAvailable returns unassigned pending orders whose cemetery city or
// department matches the provider's zone (case-insensitive substring).
func (r *OrderRepository) FindAvailable(ctx context.Context, zone string) ([]models.Order, error) {
	var orders []models.Order
	query := `SELECT ` + orderColumns + orderJoins + `
		WHERE o.prestataire_id IS NULL
		AND o.status = $1
		AND (c.department ILIKE $2 OR c.city ILIKE $2)
		ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &orders, query, models.OrderStatusPending, "%"+zone+"%"); err != nil {
		return nil, fmt.Errorf("order repository: find available: %w", err)
	}
	return orders, nil
}

// AssignProvider claims an order for a provider. The WHERE guard on a NULL
// prestataire_id makes this a single compare-and-set write: of two
// concurrent accepts, exactly one matches a row. Zero rows means the order
// was already assigned (callers check existence beforehand for a precise
// not-found error).
func (r *OrderRepository) AssignProvider(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders
		SET prestataire_id = $1, status = $2, accepted_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND prestataire_id IS NULL
		RETURNING *
	`
	err := r.db.GetContext(ctx, &order, query, providerID, models.OrderStatusAccepted, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderAlreadyAssigned
		}
		return nil, fmt.Errorf("order repository: assign provider: %w", err)
	}
	return &order, nil
}

// UpdateStatus writes a new status unconditionally. Lifecycle legality is
// the service's responsibility; this only persists the decision.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &order, query, status, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: update status: %w", err)
	}
	return &order, nil
}

// Cancel sets the cancelled status and records the provider's reason.
func (r *OrderRepository) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders
		SET status = $1, cancel_reason = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING *
	`
	if err := r.db.GetContext(ctx, &order, query, models.OrderStatusCancelled, reason, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: cancel: %w", err)
	}
	return &order, nil
}

// UpdateStatusTx is UpdateStatus inside an existing transaction, used by the
// validation step so the terminal status and the settlement rows commit
// together.
func (r *OrderRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *
	`
	if err := tx.GetContext(ctx, &order, query, status, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: update status tx: %w", err)
	}
	return &order, nil
}
