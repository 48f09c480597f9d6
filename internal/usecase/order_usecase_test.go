package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) CancelOrder(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) CountOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) TotalRevenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(order *domain.Order)   { m.Called(order) }
func (m *MockPublisher) PublishOrderCancelled(order *domain.Order) { m.Called(order) }
func (m *MockPublisher) Close()                                    { m.Called() }

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func validAddress() domain.Address {
	return domain.Address{
		FullName:    "Jane Doe",
		PhoneNumber: "555-0100",
		Street:      "1 Main St",
		City:        "Springfield",
	}
}

func TestOrderUsecase_Checkout(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	identity := &domain.Identity{UserID: 7}
	items := []domain.ItemRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}

	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(&domain.Order{ID: 42, TotalPrice: 25.0, Status: domain.StatusPending}, nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			assert.Equal(t, domain.StatusPending, order.Status)
			assert.Equal(t, domain.PaymentCOD, order.PaymentMethod)
			assert.NotNil(t, order.UserID)
			assert.Equal(t, int64(7), *order.UserID)
			assert.Len(t, order.Items, 2)
		})
	mockPub.On("PublishOrderCreated", mock.AnythingOfType("*domain.Order")).Return()

	order, err := uc.Checkout(context.Background(), identity, items, validAddress(), "")

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, int64(42), order.ID)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderUsecase_Checkout_Guest(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(&domain.Order{ID: 1, Status: domain.StatusPending}, nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			assert.Nil(t, order.UserID)
		})
	mockPub.On("PublishOrderCreated", mock.AnythingOfType("*domain.Order")).Return()

	order, err := uc.Checkout(context.Background(), nil, []domain.ItemRequest{{ProductID: 1, Quantity: 1}}, validAddress(), "COD")

	assert.NoError(t, err)
	assert.NotNil(t, order)
	mockRepo.AssertExpectations(t)
}

func TestOrderUsecase_Checkout_InvalidInput(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	tests := []struct {
		name    string
		items   []domain.ItemRequest
		address domain.Address
		payment string
	}{
		{
			name:    "empty cart",
			items:   []domain.ItemRequest{},
			address: validAddress(),
		},
		{
			name:    "zero quantity",
			items:   []domain.ItemRequest{{ProductID: 1, Quantity: 0}},
			address: validAddress(),
		},
		{
			name:    "negative quantity",
			items:   []domain.ItemRequest{{ProductID: 1, Quantity: -3}},
			address: validAddress(),
		},
		{
			name:    "duplicate product",
			items:   []domain.ItemRequest{{ProductID: 1, Quantity: 1}, {ProductID: 1, Quantity: 2}},
			address: validAddress(),
		},
		{
			name:    "missing address fields",
			items:   []domain.ItemRequest{{ProductID: 1, Quantity: 1}},
			address: domain.Address{FullName: "Jane Doe"},
		},
		{
			name:    "unsupported payment method",
			items:   []domain.ItemRequest{{ProductID: 1, Quantity: 1}},
			address: validAddress(),
			payment: "CARD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := uc.Checkout(context.Background(), nil, tt.items, tt.address, tt.payment)
			assert.Error(t, err)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)

			mockRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			mockPub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
		})
	}
}

func TestOrderUsecase_Checkout_InsufficientStock(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil, fmt.Errorf("%w: product 1 (requested: 5, available: 2)", domain.ErrInsufficientStock)).
		Once()

	order, err := uc.Checkout(context.Background(), nil, []domain.ItemRequest{{ProductID: 1, Quantity: 5}}, validAddress(), "")

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	// Stock failures are definitive and must not be retried.
	mockRepo.AssertNumberOfCalls(t, "CreateOrder", 1)
	mockPub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestOrderUsecase_Checkout_RetriesConflict(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	conflict := fmt.Errorf("%w: 40001", domain.ErrConflict)
	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil, conflict).Twice()
	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(&domain.Order{ID: 9, Status: domain.StatusPending}, nil).Once()
	mockPub.On("PublishOrderCreated", mock.AnythingOfType("*domain.Order")).Return()

	order, err := uc.Checkout(context.Background(), nil, []domain.ItemRequest{{ProductID: 1, Quantity: 1}}, validAddress(), "")

	assert.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, int64(9), order.ID)
	mockRepo.AssertNumberOfCalls(t, "CreateOrder", 3)
	mockRepo.AssertExpectations(t)
}

func TestOrderUsecase_Checkout_ConflictRetriesExhausted(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	conflict := fmt.Errorf("%w: 40001", domain.ErrConflict)
	mockRepo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(nil, conflict)

	order, err := uc.Checkout(context.Background(), nil, []domain.ItemRequest{{ProductID: 1, Quantity: 1}}, validAddress(), "")

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrConflict)
	mockRepo.AssertNumberOfCalls(t, "CreateOrder", 3)
	mockPub.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestOrderUsecase_GetOrder_Ownership(t *testing.T) {
	ownerID := int64(7)
	guestOrder := &domain.Order{ID: 2, Status: domain.StatusPending}
	ownedOrder := &domain.Order{ID: 1, UserID: &ownerID, Status: domain.StatusPending}

	tests := []struct {
		name     string
		identity *domain.Identity
		order    *domain.Order
		wantErr  error
	}{
		{name: "owner reads own order", identity: &domain.Identity{UserID: 7}, order: ownedOrder},
		{name: "admin reads any order", identity: &domain.Identity{UserID: 99, IsAdmin: true}, order: ownedOrder},
		{name: "stranger denied", identity: &domain.Identity{UserID: 8}, order: ownedOrder, wantErr: domain.ErrForbidden},
		{name: "guest order denied for customer", identity: &domain.Identity{UserID: 7}, order: guestOrder, wantErr: domain.ErrForbidden},
		{name: "guest order visible to admin", identity: &domain.Identity{UserID: 99, IsAdmin: true}, order: guestOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockOrderRepository)
			uc := NewOrderUsecase(mockRepo, new(MockPublisher), testLogger(), 5*time.Second, 3)
			mockRepo.On("GetOrderByID", mock.Anything, tt.order.ID).Return(tt.order, nil)

			order, err := uc.GetOrder(context.Background(), tt.identity, tt.order.ID)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, order)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.order, order)
			}
		})
	}
}

func TestOrderUsecase_GetOrder_Unauthenticated(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	uc := NewOrderUsecase(mockRepo, new(MockPublisher), testLogger(), 5*time.Second, 3)

	order, err := uc.GetOrder(context.Background(), nil, 1)

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	mockRepo.AssertNotCalled(t, "GetOrderByID", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder(t *testing.T) {
	ownerID := int64(7)
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	pending := &domain.Order{ID: 1, UserID: &ownerID, Status: domain.StatusPending}
	cancelled := &domain.Order{ID: 1, UserID: &ownerID, Status: domain.StatusCancelled}

	mockRepo.On("GetOrderByID", mock.Anything, int64(1)).Return(pending, nil)
	mockRepo.On("CancelOrder", mock.Anything, int64(1)).Return(cancelled, nil)
	mockPub.On("PublishOrderCancelled", cancelled).Return()

	order, err := uc.CancelOrder(context.Background(), &domain.Identity{UserID: 7}, 1)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderUsecase_CancelOrder_NotOwner(t *testing.T) {
	ownerID := int64(7)
	mockRepo := new(MockOrderRepository)
	uc := NewOrderUsecase(mockRepo, new(MockPublisher), testLogger(), 5*time.Second, 3)

	mockRepo.On("GetOrderByID", mock.Anything, int64(1)).
		Return(&domain.Order{ID: 1, UserID: &ownerID, Status: domain.StatusPending}, nil)

	order, err := uc.CancelOrder(context.Background(), &domain.Identity{UserID: 8}, 1)

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockRepo.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CancelOrder_NotPending(t *testing.T) {
	ownerID := int64(7)
	mockRepo := new(MockOrderRepository)
	uc := NewOrderUsecase(mockRepo, new(MockPublisher), testLogger(), 5*time.Second, 3)

	mockRepo.On("GetOrderByID", mock.Anything, int64(1)).
		Return(&domain.Order{ID: 1, UserID: &ownerID, Status: domain.StatusShipped}, nil)

	order, err := uc.CancelOrder(context.Background(), &domain.Identity{UserID: 7}, 1)

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	mockRepo.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_InvalidStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	uc := NewOrderUsecase(mockRepo, new(MockPublisher), testLogger(), 5*time.Second, 3)

	order, err := uc.UpdateStatus(context.Background(), 1, "Teleported")

	assert.Error(t, err)
	assert.Nil(t, order)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	mockRepo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_CancelRestoresStock(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	pending := &domain.Order{ID: 3, Status: domain.StatusPending}
	cancelled := &domain.Order{ID: 3, Status: domain.StatusCancelled}

	mockRepo.On("GetOrderByID", mock.Anything, int64(3)).Return(pending, nil)
	mockRepo.On("CancelOrder", mock.Anything, int64(3)).Return(cancelled, nil)
	mockPub.On("PublishOrderCancelled", cancelled).Return()

	order, err := uc.UpdateStatus(context.Background(), 3, domain.StatusCancelled)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, order.Status)
	// Cancellation must go through the stock-restoring path, not a plain
	// status write.
	mockRepo.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestOrderUsecase_UpdateStatus_PlainTransition(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	uc := NewOrderUsecase(mockRepo, mockPub, testLogger(), 5*time.Second, 3)

	shipped := &domain.Order{ID: 3, Status: domain.StatusShipped}
	mockRepo.On("UpdateOrderStatus", mock.Anything, int64(3), domain.StatusShipped).Return(shipped, nil)

	order, err := uc.UpdateStatus(context.Background(), 3, domain.StatusShipped)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, order.Status)
	mockRepo.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything)
	mockPub.AssertNotCalled(t, "PublishOrderCancelled", mock.Anything)
}
