package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/validation"
	"github.com/memoria-app/memoria-backend/internal/ws"
)

// OrderRepository describes what the order service needs from the order
// store.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Order, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	FindAvailable(ctx context.Context, zone string) ([]models.Order, error)
	AssignProvider(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
	Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*models.Order, error)
}

// UserStore loads acting users for role and ownership checks.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// PhotoCounter reports the photo evidence an order has.
type PhotoCounter interface {
	CountKinds(ctx context.Context, orderID uuid.UUID) (before int, after int, err error)
}

// CatalogStore validates the references a new order points at.
type CatalogStore interface {
	GetCemetery(ctx context.Context, id uuid.UUID) (*models.Cemetery, error)
	GetServiceCategory(ctx context.Context, id uuid.UUID) (*models.ServiceCategory, error)
}

// Notifier pushes lifecycle events to connected dashboards.
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, data any) error
}

// OrderService enforces the order lifecycle: legal state transitions, role
// and ownership preconditions, and the single-winner accept.
type OrderService struct {
	orders  OrderRepository
	users   UserStore
	photos  PhotoCounter
	catalog CatalogStore
	hub     Notifier
}

// NewOrderService creates the order service.
func NewOrderService(orders OrderRepository, users UserStore, photos PhotoCounter, catalog CatalogStore) *OrderService {
	return &OrderService{orders: orders, users: users, photos: photos, catalog: catalog}
}

// SetHub wires in the WebSocket hub for lifecycle notifications.
func (s *OrderService) SetHub(hub Notifier) {
	s.hub = hub
}

// CreateOrderInput is the payload for a new order.
type CreateOrderInput struct {
	ClientID          uuid.UUID
	CemeteryID        uuid.UUID
	ServiceCategoryID uuid.UUID
	CemeteryLocation  string
	Price             decimal.Decimal
}

// CreateOrder creates a pending order on behalf of a client.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	user, err := s.users.GetByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleClient {
		return nil, apperror.New(apperror.ErrCodeForbidden, "only clients can create orders")
	}

	if err := validation.ValidatePrice(in.Price); err != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidPrice, err.Error())
	}
	if err := validation.ValidateLength("cemetery_location", in.CemeteryLocation, 0, validation.MaxLocationLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.catalog.GetCemetery(ctx, in.CemeteryID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetServiceCategory(ctx, in.ServiceCategoryID); err != nil {
		return nil, err
	}

	order := &models.Order{
		ClientID:          in.ClientID,
		CemeteryID:        in.CemeteryID,
		ServiceCategoryID: in.ServiceCategoryID,
		Price:             in.Price,
	}
	if in.CemeteryLocation != "" {
		loc := in.CemeteryLocation
		order.CemeteryLocation = &loc
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	logger.Log.WithField("order_id", order.ID).WithField("client_id", in.ClientID).Info("order created")
	return order, nil
}

// ListUserOrders returns the orders visible to a user: their own for
// clients, their assigned missions for providers, everything for admins.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, role string) ([]models.Order, error) {
	switch role {
	case models.RoleClient:
		return s.orders.ListByClient(ctx, userID)
	case models.RolePrestataire:
		return s.orders.ListByProvider(ctx, userID)
	case models.RoleAdmin:
		return s.orders.ListAll(ctx)
	default:
		return []models.Order{}, nil
	}
}

// GetOrder returns an order, enforcing that clients and providers only see
// their own.
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if role == models.RoleClient && order.ClientID != userID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "you do not have access to this order")
	}
	if role == models.RolePrestataire && (order.ProviderID == nil || *order.ProviderID != userID) {
		return nil, apperror.New(apperror.ErrCodeForbidden, "you do not have access to this order")
	}

	return order, nil
}

// ListAvailable returns the unassigned pending missions in the provider's
// intervention zone. A provider without a zone sees nothing.
func (s *OrderService) ListAvailable(ctx context.Context, providerID uuid.UUID) ([]models.Order, error) {
	provider, err := s.loadVerifiedProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if provider.ZoneIntervention == nil || *provider.ZoneIntervention == "" {
		return []models.Order{}, nil
	}

	return s.orders.FindAvailable(ctx, *provider.ZoneIntervention)
}

// AcceptOrder claims a mission for a provider. The zone check before the
// write is advisory, to return a precise error; race safety comes from the
// repository's conditional update. Of two concurrent accepts exactly one
// succeeds, the other gets ORDER_ALREADY_ASSIGNED.
func (s *OrderService) AcceptOrder(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error) {
	provider, err := s.loadVerifiedProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.ProviderID != nil {
		return nil, apperror.ErrOrderAlreadyAssigned
	}

	if provider.ZoneIntervention != nil && *provider.ZoneIntervention != "" {
		if !zoneMatches(*provider.ZoneIntervention, order.CemeteryCity, order.CemeteryDepartment) {
			return nil, apperror.ErrZoneMismatch
		}
	}

	updated, err := s.orders.AssignProvider(ctx, orderID, providerID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("order_id", orderID).WithField("provider_id", providerID).Info("mission accepted")
	s.notify(order.ClientID, ws.EventOrderAccepted, updated)
	return updated, nil
}

// CompleteOrder moves an accepted mission to awaiting_validation. Requires
// at least one before and one after photo.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error) {
	order, err := s.ownedAcceptedOrder(ctx, orderID, providerID, models.OrderStatusAwaitingValidation)
	if err != nil {
		return nil, err
	}

	before, after, err := s.photos.CountKinds(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if before == 0 || after == 0 {
		return nil, apperror.ErrMissingPhotos
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusAwaitingValidation)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("order_id", orderID).Info("mission marked complete, awaiting validation")
	s.notify(order.ClientID, ws.EventOrderCompleted, updated)
	return updated, nil
}

// CancelOrder cancels an accepted mission with a reason.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, providerID uuid.UUID, reason string) (*models.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "a cancellation reason is required")
	}
	if err := validation.ValidateLength("reason", reason, 0, validation.MaxCancelReasonLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.ownedAcceptedOrder(ctx, orderID, providerID, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.Cancel(ctx, orderID, reason)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("order_id", orderID).WithField("reason", reason).Info("mission cancelled by provider")
	s.notify(order.ClientID, ws.EventOrderCancelled, updated)
	return updated, nil
}

// DisputeOrder flags an awaiting_validation order for dispute (admin).
func (s *OrderService) DisputeOrder(ctx context.Context, orderID, adminID uuid.UUID) (*models.Order, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderStatusDisputed) {
		return nil, apperror.ErrInvalidStatus
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusDisputed)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("order_id", orderID).Warn("order disputed")
	if order.ProviderID != nil {
		s.notify(*order.ProviderID, ws.EventOrderDisputed, updated)
	}
	return updated, nil
}

// ResolveDispute closes a disputed order (admin).
func (s *OrderService) ResolveDispute(ctx context.Context, orderID, adminID uuid.UUID) (*models.Order, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderStatusResolved) {
		return nil, apperror.ErrInvalidStatus
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusResolved)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("order_id", orderID).Info("dispute resolved")
	if order.ProviderID != nil {
		s.notify(*order.ProviderID, ws.EventOrderResolved, updated)
	}
	return updated, nil
}

// ListPendingValidation returns the admin validation queue.
func (s *OrderService) ListPendingValidation(ctx context.Context, adminID uuid.UUID) ([]models.Order, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.orders.ListByStatus(ctx, models.OrderStatusAwaitingValidation)
}

// ListDisputed returns the admin dispute queue.
func (s *OrderService) ListDisputed(ctx context.Context, adminID uuid.UUID) ([]models.Order, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.orders.ListByStatus(ctx, models.OrderStatusDisputed)
}

// ownedAcceptedOrder loads an order and checks that the caller is its
// assigned provider and that the transition to target is legal.
func (s *OrderService) ownedAcceptedOrder(ctx context.Context, orderID, providerID uuid.UUID, target models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.ProviderID == nil || *order.ProviderID != providerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "this mission is not assigned to you")
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.ErrInvalidStatus
	}

	return order, nil
}

func (s *OrderService) loadVerifiedProvider(ctx context.Context, providerID uuid.UUID) (*models.User, error) {
	provider, err := s.users.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.IsProvider() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "only providers can work on missions")
	}
	if !provider.IsVerified {
		return nil, apperror.New(apperror.ErrCodeForbidden, "your provider account has not been approved yet")
	}
	return provider, nil
}

func (s *OrderService) requireAdmin(ctx context.Context, adminID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return apperror.New(apperror.ErrCodeForbidden, "admin access required")
	}
	return nil
}

func (s *OrderService) notify(userID uuid.UUID, event string, data any) {
	if s.hub == nil {
		return
	}
	if err := s.hub.NotifyUser(userID, event, data); err != nil {
		logger.Log.WithField("event", event).WithError(err).Warn("notification failed")
	}
}

// zoneMatches reproduces the zone filter: case-insensitive substring match of
// the provider's zone against the cemetery city or department.
func zoneMatches(zone string, city, department *string) bool {
	z := strings.ToLower(zone)
	if city != nil && strings.Contains(strings.ToLower(*city), z) {
		return true
	}
	if department != nil && strings.Contains(strings.ToLower(*department), z) {
		return true
	}
	return false
}
