package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/memoria-app/memoria-backend/internal/logger"
	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/payment"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
	"github.com/memoria-app/memoria-backend/internal/validation"
)

// IntentAPI is the slice of the payment processor used at checkout.
type IntentAPI interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payment.PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*payment.PaymentIntent, error)
}

// PaymentLedger records and lists charge entries.
type PaymentLedger interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
}

// OrderCreator creates the order once the charge has succeeded.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, role string) (*models.Order, error)
}

// PaymentService handles client checkout: a payment intent is opened with
// the order parameters in its metadata, and the order is only created once
// the processor reports the charge succeeded.
type PaymentService struct {
	intents  IntentAPI
	ledger   PaymentLedger
	orders   OrderCreator
	currency string
}

// NewPaymentService creates the payment service.
func NewPaymentService(intents IntentAPI, ledger PaymentLedger, orders OrderCreator, currency string) *PaymentService {
	return &PaymentService{intents: intents, ledger: ledger, orders: orders, currency: currency}
}

// CheckoutInput is the payload for opening a payment intent.
type CheckoutInput struct {
	ClientID          uuid.UUID
	CemeteryID        uuid.UUID
	ServiceCategoryID uuid.UUID
	CemeteryLocation  string
	Price             decimal.Decimal
}

// CheckoutIntent is returned to the frontend to drive the card flow.
type CheckoutIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// CreatePaymentIntent opens a payment intent carrying the order parameters.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context, in CheckoutInput) (*CheckoutIntent, error) {
	if err := validation.ValidatePrice(in.Price); err != nil {
		return nil, apperror.New(apperror.ErrCodeInvalidPrice, err.Error())
	}

	metadata := map[string]string{
		"client_id":           in.ClientID.String(),
		"cemetery_id":         in.CemeteryID.String(),
		"service_category_id": in.ServiceCategoryID.String(),
		"cemetery_location":   in.CemeteryLocation,
	}

	intent, err := s.intents.CreatePaymentIntent(ctx, toCents(in.Price), s.currency, metadata)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstream, "failed to create payment intent")
	}

	return &CheckoutIntent{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// ConfirmPayment checks the intent succeeded, creates the pending order from
// its metadata and records the charge in the ledger.
func (s *PaymentService) ConfirmPayment(ctx context.Context, clientID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	if paymentIntentID == "" {
		return nil, apperror.New(apperror.ErrCodeMissingFields, "payment intent id is required")
	}

	intent, err := s.intents.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUpstream, "failed to retrieve payment intent")
	}

	if intent.Status != payment.IntentSucceeded {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "payment has not succeeded")
	}

	cemeteryID, err := uuid.Parse(intent.Metadata["cemetery_id"])
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "payment intent has no valid cemetery reference")
	}
	categoryID, err := uuid.Parse(intent.Metadata["service_category_id"])
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "payment intent has no valid service category reference")
	}

	price := decimal.NewFromInt(intent.Amount).Div(decimal.NewFromInt(100))

	order, err := s.orders.CreateOrder(ctx, CreateOrderInput{
		ClientID:          clientID,
		CemeteryID:        cemeteryID,
		ServiceCategoryID: categoryID,
		CemeteryLocation:  intent.Metadata["cemetery_location"],
		Price:             price,
	})
	if err != nil {
		return nil, err
	}

	charge := &models.Payment{
		OrderID:               order.ID,
		Amount:                price,
		Kind:                  models.PaymentKindCharge,
		Status:                models.PaymentStatusSucceeded,
		StripePaymentIntentID: &intent.ID,
	}
	if err := s.ledger.Create(ctx, charge); err != nil {
		// The money moved and the order exists; the missing ledger row is an
		// operator problem, not a client error.
		logger.Log.WithField("order_id", order.ID).
			WithField("payment_intent_id", intent.ID).
			WithError(err).
			Error("charge ledger write failed, manual reconciliation required")
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to record payment")
	}

	logger.Log.WithField("order_id", order.ID).
		WithField("amount", price.String()).
		Info("payment confirmed and order created")
	return order, nil
}

// ListOrderPayments returns the ledger of an order, with the same
// visibility rules as the order itself.
func (s *PaymentService) ListOrderPayments(ctx context.Context, orderID, userID uuid.UUID, role string) ([]models.Payment, error) {
	if _, err := s.orders.GetOrder(ctx, orderID, userID, role); err != nil {
		return nil, err
	}
	return s.ledger.ListByOrder(ctx, orderID)
}
