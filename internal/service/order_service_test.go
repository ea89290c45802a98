package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/memoria-app/memoria-backend/internal/models"
	"github.com/memoria-app/memoria-backend/internal/pkg/apperror"
)

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) FindAvailable(ctx context.Context, zone string) ([]models.Order, error) {
	args := m.Called(ctx, zone)
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockOrderRepo) AssignProvider(ctx context.Context, orderID, providerID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockOrderRepo) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*models.Order, error) {
	args := m.Called(ctx, orderID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockPhotoCounter struct {
	mock.Mock
}

func (m *mockPhotoCounter) CountKinds(ctx context.Context, orderID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Int(1), args.Error(2)
}

type mockCatalogStore struct {
	mock.Mock
}

func (m *mockCatalogStore) GetCemetery(ctx context.Context, id uuid.UUID) (*models.Cemetery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cemetery), args.Error(1)
}

func (m *mockCatalogStore) GetServiceCategory(ctx context.Context, id uuid.UUID) (*models.ServiceCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceCategory), args.Error(1)
}

func newOrderServiceForTest() (*OrderService, *mockOrderRepo, *mockUserStore, *mockPhotoCounter, *mockCatalogStore) {
	orders := new(mockOrderRepo)
	users := new(mockUserStore)
	photos := new(mockPhotoCounter)
	catalog := new(mockCatalogStore)
	return NewOrderService(orders, users, photos, catalog), orders, users, photos, catalog
}

func strPtr(s string) *string { return &s }

func verifiedProvider(id uuid.UUID, zone string) *models.User {
	return &models.User{
		ID:               id,
		Role:             models.RolePrestataire,
		IsVerified:       true,
		ZoneIntervention: strPtr(zone),
	}
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	svc, orders, users, _, catalog := newOrderServiceForTest()
	ctx := context.Background()
	clientID := uuid.New()
	cemeteryID := uuid.New()
	categoryID := uuid.New()

	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleClient}, nil)
	catalog.On("GetCemetery", ctx, cemeteryID).Return(&models.Cemetery{ID: cemeteryID}, nil)
	catalog.On("GetServiceCategory", ctx, categoryID).Return(&models.ServiceCategory{ID: categoryID}, nil)
	orders.On("Create", ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		ClientID:          clientID,
		CemeteryID:        cemeteryID,
		ServiceCategoryID: categoryID,
		CemeteryLocation:  "allée 3, tombe 42",
		Price:             decimal.RequireFromString("100.00"),
	})

	assert.NoError(t, err)
	assert.Equal(t, clientID, order.ClientID)
	assert.NotNil(t, order.CemeteryLocation)
	orders.AssertExpectations(t)
}

func TestOrderService_CreateOrder_ProviderForbidden(t *testing.T) {
	svc, _, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	providerID := uuid.New()

	users.On("GetByID", ctx, providerID).Return(&models.User{ID: providerID, Role: models.RolePrestataire}, nil)

	_, err := svc.CreateOrder(ctx, CreateOrderInput{
		ClientID: providerID,
		Price:    decimal.RequireFromString("50"),
	})

	assert.True(t, apperror.IsForbidden(err))
}

func TestOrderService_CreateOrder_InvalidPrice(t *testing.T) {
	svc, _, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	clientID := uuid.New()

	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleClient}, nil)

	for _, price := range []string{"0", "-10", "10.999"} {
		_, err := svc.CreateOrder(ctx, CreateOrderInput{
			ClientID: clientID,
			Price:    decimal.RequireFromString(price),
		})
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr, "price %s", price)
		assert.Equal(t, apperror.ErrCodeInvalidPrice, appErr.Code, "price %s", price)
	}
}

func TestOrderService_AcceptOrder_Success(t *testing.T) {
	svc, orders, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, providerID).Return(verifiedProvider(providerID, "paris"), nil)
	pending := &models.Order{
		ID:           orderID,
		Status:       models.OrderStatusPending,
		CemeteryCity: strPtr("Paris"),
	}
	accepted := &models.Order{ID: orderID, ProviderID: &providerID, Status: models.OrderStatusAccepted}
	orders.On("GetByID", ctx, orderID).Return(pending, nil)
	orders.On("AssignProvider", ctx, orderID, providerID).Return(accepted, nil)

	order, err := svc.AcceptOrder(ctx, orderID, providerID)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, order.Status)
	orders.AssertExpectations(t)
}

func TestOrderService_AcceptOrder_AlreadyAssigned(t *testing.T) {
	svc, orders, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()
	otherProvider := uuid.New()

	users.On("GetByID", ctx, providerID).Return(verifiedProvider(providerID, "paris"), nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &otherProvider,
		Status:     models.OrderStatusAccepted,
	}, nil)

	_, err := svc.AcceptOrder(ctx, orderID, providerID)

	assert.ErrorIs(t, err, apperror.ErrOrderAlreadyAssigned)
}

func TestOrderService_AcceptOrder_LostRace(t *testing.T) {
	// The snapshot read sees an unassigned order but the conditional write
	// loses to a concurrent accept.
	svc, orders, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, providerID).Return(verifiedProvider(providerID, "paris"), nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:           orderID,
		Status:       models.OrderStatusPending,
		CemeteryCity: strPtr("Paris"),
	}, nil)
	orders.On("AssignProvider", ctx, orderID, providerID).Return(nil, apperror.ErrOrderAlreadyAssigned)

	_, err := svc.AcceptOrder(ctx, orderID, providerID)

	assert.ErrorIs(t, err, apperror.ErrOrderAlreadyAssigned)
}

func TestOrderService_AcceptOrder_ZoneMismatch(t *testing.T) {
	svc, orders, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	users.On("GetByID", ctx, providerID).Return(verifiedProvider(providerID, "lyon"), nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:                 orderID,
		Status:             models.OrderStatusPending,
		CemeteryCity:       strPtr("Paris"),
		CemeteryDepartment: strPtr("Paris"),
	}, nil)

	_, err := svc.AcceptOrder(ctx, orderID, providerID)

	assert.ErrorIs(t, err, apperror.ErrZoneMismatch)
	orders.AssertNotCalled(t, "AssignProvider", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_AcceptOrder_UnverifiedProvider(t *testing.T) {
	svc, _, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	providerID := uuid.New()

	provider := verifiedProvider(providerID, "paris")
	provider.IsVerified = false
	users.On("GetByID", ctx, providerID).Return(provider, nil)

	_, err := svc.AcceptOrder(ctx, uuid.New(), providerID)

	assert.True(t, apperror.IsForbidden(err))
}

func TestOrderService_CompleteOrder_MissingPhotos(t *testing.T) {
	svc, orders, _, photos, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Status:     models.OrderStatusAccepted,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(1, 0, nil)

	_, err := svc.CompleteOrder(ctx, orderID, providerID)

	assert.ErrorIs(t, err, apperror.ErrMissingPhotos)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CompleteOrder_Success(t *testing.T) {
	svc, orders, _, photos, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Status:     models.OrderStatusAccepted,
	}, nil)
	photos.On("CountKinds", ctx, orderID).Return(2, 1, nil)
	orders.On("UpdateStatus", ctx, orderID, models.OrderStatusAwaitingValidation).Return(&models.Order{
		ID:     orderID,
		Status: models.OrderStatusAwaitingValidation,
	}, nil)

	order, err := svc.CompleteOrder(ctx, orderID, providerID)

	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingValidation, order.Status)
}

func TestOrderService_CompleteOrder_NotOwner(t *testing.T) {
	svc, orders, _, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	owner := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &owner,
		Status:     models.OrderStatusAccepted,
	}, nil)

	_, err := svc.CompleteOrder(ctx, orderID, uuid.New())

	assert.True(t, apperror.IsForbidden(err))
}

func TestOrderService_CancelOrder_RequiresReason(t *testing.T) {
	svc, _, _, _, _ := newOrderServiceForTest()

	_, err := svc.CancelOrder(context.Background(), uuid.New(), uuid.New(), "   ")

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
}

func TestOrderService_CancelOrder_WrongStatus(t *testing.T) {
	svc, orders, _, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	providerID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:         orderID,
		ProviderID: &providerID,
		Status:     models.OrderStatusAwaitingValidation,
	}, nil)

	_, err := svc.CancelOrder(ctx, orderID, providerID, "client unreachable")

	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
}

func TestOrderService_GetOrder_CrossClientForbidden(t *testing.T) {
	svc, orders, _, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()

	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:       orderID,
		ClientID: uuid.New(),
	}, nil)

	_, err := svc.GetOrder(ctx, orderID, uuid.New(), models.RoleClient)

	assert.True(t, apperror.IsForbidden(err))
}

func TestOrderService_ListAvailable_NoZone(t *testing.T) {
	svc, orders, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	providerID := uuid.New()

	users.On("GetByID", ctx, providerID).Return(&models.User{
		ID:         providerID,
		Role:       models.RolePrestataire,
		IsVerified: true,
	}, nil)

	available, err := svc.ListAvailable(ctx, providerID)

	assert.NoError(t, err)
	assert.Empty(t, available)
	orders.AssertNotCalled(t, "FindAvailable", mock.Anything, mock.Anything)
}

func TestOrderService_DisputeOrder_OnlyAwaitingValidation(t *testing.T) {
	svc, orders, users, _, _ := newOrderServiceForTest()
	ctx := context.Background()
	orderID := uuid.New()
	adminID := uuid.New()

	users.On("GetByID", ctx, adminID).Return(&models.User{ID: adminID, Role: models.RoleAdmin}, nil)
	orders.On("GetByID", ctx, orderID).Return(&models.Order{
		ID:     orderID,
		Status: models.OrderStatusPending,
	}, nil)

	_, err := svc.DisputeOrder(ctx, orderID, adminID)

	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
}

func TestZoneMatches(t *testing.T) {
	cases := []struct {
		zone       string
		city       *string
		department *string
		want       bool
	}{
		{"paris", strPtr("Paris"), nil, true},
		{"Paris", strPtr("paris"), nil, true},
		{"rhône", nil, strPtr("Rhône"), true},
		{"lyon", strPtr("Paris"), strPtr("Paris"), false},
		{"par", strPtr("Paris"), nil, true},
		{"", strPtr("Paris"), nil, true},
		{"paris", nil, nil, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, zoneMatches(tc.zone, tc.city, tc.department), "zone %q", tc.zone)
	}
}
