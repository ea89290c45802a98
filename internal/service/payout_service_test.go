package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/payment"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

type mockSettlementStore struct {
	mock.Mock
}

func (m *mockSettlementStore) Settle(ctx context.Context, orderID uuid.UUID, payout, fee *models.Payment) (*models.Order, error) {
	args := m.Called(ctx, orderID, payout, fee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type mockSettlementChecker struct {
	mock.Mock
}

func (m *mockSettlementChecker) CountSettlements(ctx context.Context, orderID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

type mockTransferAPI struct {
	mock.Mock
}

func (m *mockTransferAPI) CreateTransfer(ctx context.Context, amountCents int64, currency, destination, orderID string) (*payment.Transfer, error) {
	args := m.Called(ctx, amountCents, currency, destination, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transfer), args.Error(1)
}

func newPayoutServiceForTest() (*PayoutService, *mockOrderRepo, *mockUserStore, *mockPhotoCounter, *mockSettlementStore, *mockSettlementChecker, *mockTransferAPI) {
	orders := new(mockOrderRepo)
	users := new(mockUserStore)
	photos := new(mockPhotoCounter)
	settlements := new(mockSettlementStore)
	ledger := new(mockSettlementChecker)
	transfers := new(mockTransferAPI)
	svc := NewPayoutService(orders, users, photos, settlements, ledger, transfers,
		decimal.RequireFromString("0.80"), "eur")
	return svc, orders, users, photos, settlements, ledger, transfers
}

func TestPayoutService_SplitPrice(t *testing.T) {
	svc, _, _, _, _, _, _ := newPayoutServiceForTest()

	cases := []struct {
		price  string
		payout string
		fee    string
	}{
		{"100.00", "80.00", "20.00"},
		{"49.00", "39.20", "9.80"},
		{"0.01", "0.01", "0.00"},
		{"0.03", "0.02", "0.01"},
		{"33.33", "26.66", "6.67"},
		{"149.99", "119.99", "30.00"},
	}

	for _, tc := range cases {
		price := decimal.RequireFromString(tc.price)
		payout, fee := svc.SplitPrice(price)
		assert.True(t, payout.Equal(decimal.RequireFromString(tc.payout)),
			"price %s: payout %s, want %s", tc.price, payout, tc.payout)
		assert.True(t, fee.Equal(decimal.RequireFromString(tc.fee)),
			"price %s: fee %s, want %s", tc.price, fee, tc.fee)
		assert.True(t, payout.Add(fee).Equal(price), "price %s must reconcile", tc.price)
	}
}

func TestPayoutService_ValidateOrder_Success(t *testing.T) {
	svc, orders, users, photos, settlements, ledger, transfers := newPayoutServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()
	providerID := uuid.New()
	clientID := uuid.New()
	stripeAccount := "acct_123"

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	users.On("GetByID", ctx, providerID).Return(&models.User{
		ID:              providerID,
		Role:            models.RolePrestataire,
		IsVerified:      true,
		StripeAccountID: &stripeAccount,
	}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ClientID:   clientID,
		ProviderID: &providerID,
		Price:      decimal.RequireFromString("100.00"),
		Status:     models.OrderStatusAwaitingValidation,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(1, 1, nil)
	ledger.On("CountSettlements", ctx, orderID).Return(0, nil)
	transfers.On("CreateTransfer", ctx, int64(8000), "eur", stripeAccount, orderID.String()).
		Return(&payment.Transfer{ID: "tr_1"}, nil)
	settlements.On("Settle", ctx, orderID, mock.AnythingOfType("*models.Payment"), mock.AnythingOfType("*models.Payment")).
		Return(&models.Order{ID: orderID, ClientID: clientID, ProviderID: &providerID, Status: models.OrderStatusCompleted}, nil)

	order, summary, err := svc.ValidateOrder(ctx, orderID, adminID)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.True(t, summary.Payout.Equal(decimal.RequireFromString("80.00")))
	assert.True(t, summary.PlatformFee.Equal(decimal.RequireFromString("20.00")))
	assert.NotNil(t, summary.StripeTransferID)
	settlements.AssertExpectations(t)
	transfers.AssertExpectations(t)
}

func TestPayoutService_ValidateOrder_SecondCallRejected(t *testing.T) {
	svc, orders, users, _, settlements, _, _ := newPayoutServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Status:     models.OrderStatusCompleted,
	}, nil)

	_, _, err := svc.ValidateOrder(ctx, orderID, adminID)

	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
	settlements.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutService_ValidateOrder_LedgerBackstop(t *testing.T) {
	// Even with the status rewound to awaiting_validation, existing
	// settlement rows block a second payout.
	svc, orders, users, photos, settlements, ledger, _ := newPayoutServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Price:      decimal.RequireFromString("50.00"),
		Status:     models.OrderStatusAwaitingValidation,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(1, 1, nil)
	ledger.On("CountSettlements", ctx, orderID).Return(2, nil)

	_, _, err := svc.ValidateOrder(ctx, orderID, adminID)

	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
	settlements.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutService_ValidateOrder_MissingPhotos(t *testing.T) {
	svc, orders, users, photos, _, _, _ := newPayoutServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Status:     models.OrderStatusAwaitingValidation,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(0, 1, nil)

	_, _, err := svc.ValidateOrder(ctx, orderID, adminID)

	assert.ErrorIs(t, err, apperror.ErrMissingPhotos)
}

func TestPayoutService_ValidateOrder_TransferFails(t *testing.T) {
	svc, orders, users, photos, settlements, ledger, transfers := newPayoutServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()
	providerID := uuid.New()
	stripeAccount := "acct_123"

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	users.On("GetByID", ctx, providerID).Return(&models.User{
		ID:              providerID,
		Role:            models.RolePrestataire,
		StripeAccountID: &stripeAccount,
	}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Price:      decimal.RequireFromString("80.00"),
		Status:     models.OrderStatusAwaitingValidation,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(1, 1, nil)
	ledger.On("CountSettlements", ctx, orderID).Return(0, nil)
	transfers.On("CreateTransfer", ctx, mock.Anything, "eur", stripeAccount, orderID.String()).
		Return(nil, errors.New("stripe: insufficient balance"))

	_, _, err := svc.ValidateOrder(ctx, orderID, adminID)

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeUpstream, appErr.Code)
	settlements.AssertNotCalled(t, "Settle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPayoutService_ValidateOrder_NonAdminForbidden(t *testing.T) {
	svc, _, users, _, _, _, _ := newPayoutServiceForTest()
	ctx := context.Background()
	clientID := uuid.New()

	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleClient}, nil)

	_, _, err := svc.ValidateOrder(ctx, uuid.New(), clientID)

	assert.True(t, apperror.IsForbidden(err))
}

func TestPayoutService_ValidateOrder_ManualPayoutWithoutAccount(t *testing.T) {
	svc, orders, users, photos, settlements, ledger, transfers := newPayoutServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	users.On("GetByID", ctx, providerID).Return(&models.User{
		ID:   providerID,
		Role: models.RolePrestataire,
	}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Price:      decimal.RequireFromString("60.00"),
		Status:     models.OrderStatusAwaitingValidation,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(1, 1, nil)
	ledger.On("CountSettlements", ctx, orderID).Return(0, nil)
	settlements.On("Settle", ctx, orderID, mock.MatchedBy(func(p *models.Payment) bool {
		return p.Kind == models.PaymentKindPayout && p.Status == models.PaymentStatusPending && p.StripeTransferID == nil
	}), mock.AnythingOfType("*models.Payment")).
		Return(&models.Order{ID: orderID, ProviderID: &providerID, Status: models.OrderStatusCompleted}, nil)

	_, summary, err := svc.ValidateOrder(ctx, orderID, adminID)

	assert.NoError(t, err)
	assert.Nil(t, summary.StripeTransferID)
	transfers.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
