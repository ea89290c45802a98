package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/payment"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/ws"
)

// SettlementStore atomically records the settlement rows and the completed
// status.
type SettlementStore interface {
	Settle(ctx context.Context, orderID uuid.UUID, payout, fee *models.Payment) (*models.Order, error)
}

// SettlementChecker exposes the idempotence backstop on the ledger.
type SettlementChecker interface {
	CountSettlements(ctx context.Context, orderID uuid.UUID) (int, error)
}

// TransferAPI is the slice of the payment processor used for payouts.
type TransferAPI interface {
	CreateTransfer(ctx context.Context, amountCents int64, currency, destination, orderID string) (*payment.Transfer, error)
}

// TransferSummary is returned with the validated order so the admin UI can
// show what was paid to whom.
type TransferSummary struct {
	Payout           decimal.Decimal `json:"payout"`
	PlatformFee      decimal.Decimal `json:"platform_fee"`
	Currency         string          `json:"currency"`
	StripeTransferID *string         `json:"stripe_transfer_id,omitempty"`
}

// PayoutService is the payment splitter: on admin validation it computes
// the provider/platform split and settles the order.
type PayoutService struct {
	orders      OrderRepository
	users       UserStore
	photos      PhotoCounter
	settlements SettlementStore
	ledger      SettlementChecker
	transfers   TransferAPI
	shareRatio  decimal.Decimal
	currency    string
	hub         Notifier
}

// NewPayoutService creates the payout service.
func NewPayoutService(
	orders OrderRepository,
	users UserStore,
	photos PhotoCounter,
	settlements SettlementStore,
	ledger SettlementChecker,
	transfers TransferAPI,
	shareRatio decimal.Decimal,
	currency string,
) *PayoutService {
	return &PayoutService{
		orders:      orders,
		users:       users,
		photos:      photos,
		settlements: settlements,
		ledger:      ledger,
		transfers:   transfers,
		shareRatio:  shareRatio,
		currency:    currency,
	}
}

// SetHub wires in the WebSocket hub for lifecycle notifications.
func (s *PayoutService) SetHub(hub Notifier) {
	s.hub = hub
}

// SplitPrice computes the provider payout and the platform fee for a price.
// The payout is rounded half-up to cents; the fee is the exact remainder so
// payout + fee always reconstructs the price.
func (s *PayoutService) SplitPrice(price decimal.Decimal) (payout, fee decimal.Decimal) {
	payout = price.Mul(s.shareRatio).Round(2)
	fee = price.Sub(payout)
	return payout, fee
}

// ValidateOrder completes an awaiting_validation order: checks the photo
// evidence, computes the split, transfers the payout and settles the ledger
// and status atomically. Calling it again on the completed order fails with
// INVALID_STATUS; no second settlement is ever written.
func (s *PayoutService) ValidateOrder(ctx context.Context, orderID, adminID uuid.UUID) (*models.Order, *TransferSummary, error) {
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, nil, err
	}
	if !admin.IsAdmin() {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "admin access required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !order.Status.CanTransitionTo(models.OrderStatusCompleted) {
		return nil, nil, apperror.ErrInvalidStatus
	}
	if order.ProviderID == nil {
		return nil, nil, apperror.ErrInvalidStatus
	}

	before, after, err := s.photos.CountKinds(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if before == 0 || after == 0 {
		return nil, nil, apperror.ErrMissingPhotos
	}

	// Ledger backstop: the status gate above already rejects completed
	// orders, this refuses to double-pay even if the status was ever
	// rewound by hand.
	existing, err := s.ledger.CountSettlements(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if existing > 0 {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidStatus, "order already has settlement entries")
	}

	provider, err := s.users.GetByID(ctx, *order.ProviderID)
	if err != nil {
		return nil, nil, err
	}

	payoutAmount, feeAmount := s.SplitPrice(order.Price)

	// The transfer happens before the status mutation. If it fails we
	// surface an upstream error and nothing has changed; if the settlement
	// write after it fails, the transfer reference is in the error log for
	// manual reconciliation. Never retried silently.
	var transferID *string
	payoutStatus := models.PaymentStatusPending
	if provider.StripeAccountID != nil && s.transfers != nil {
		transfer, err := s.transfers.CreateTransfer(ctx, toCents(payoutAmount), s.currency, *provider.StripeAccountID, orderID.String())
		if err != nil {
			return nil, nil, apperror.Wrap(err, apperror.ErrCodeUpstream, "payout transfer failed")
		}
		transferID = &transfer.ID
		payoutStatus = models.PaymentStatusReleased
	} else {
		logger.Log.WithField("order_id", orderID).Warn("provider has no payout account, settling for manual payout")
	}

	payoutRow := &models.Payment{
		OrderID:          orderID,
		Amount:           payoutAmount,
		Kind:             models.PaymentKindPayout,
		Status:           payoutStatus,
		RecipientID:      order.ProviderID,
		StripeTransferID: transferID,
	}
	feeRow := &models.Payment{
		OrderID: orderID,
		Amount:  feeAmount,
		Kind:    models.PaymentKindPlatformFee,
		Status:  models.PaymentStatusSucceeded,
	}

	updated, err := s.settlements.Settle(ctx, orderID, payoutRow, feeRow)
	if err != nil {
		if transferID != nil {
			logger.Log.WithField("order_id", orderID).
				WithField("stripe_transfer_id", *transferID).
				WithError(err).
				Error("settlement write failed after transfer, manual reconciliation required")
		}
		return nil, nil, err
	}

	logger.Log.WithField("order_id", orderID).
		WithField("payout", payoutAmount.String()).
		WithField("platform_fee", feeAmount.String()).
		Info("order validated and settled")

	summary := &TransferSummary{
		Payout:           payoutAmount,
		PlatformFee:      feeAmount,
		Currency:         s.currency,
		StripeTransferID: transferID,
	}

	if s.hub != nil {
		_ = s.hub.NotifyUser(*order.ProviderID, ws.EventOrderValidated, updated)
		_ = s.hub.NotifyUser(order.ClientID, ws.EventOrderValidated, updated)
	}

	return updated, summary, nil
}

// toCents converts a decimal amount to the currency's minor unit.
func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}
