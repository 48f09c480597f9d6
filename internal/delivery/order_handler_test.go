package delivery

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type MockOrderUsecase struct {
	mock.Mock
}

func (m *MockOrderUsecase) Checkout(ctx context.Context, identity *domain.Identity, items []domain.ItemRequest, address domain.Address, paymentMethod string) (*domain.Order, error) {
	args := m.Called(ctx, identity, items, address, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUsecase) GetOrder(ctx context.Context, identity *domain.Identity, id int64) (*domain.Order, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUsecase) ListMyOrders(ctx context.Context, identity *domain.Identity, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, identity, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderUsecase) CancelOrder(ctx context.Context, identity *domain.Identity, id int64) (*domain.Order, error) {
	args := m.Called(ctx, identity, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderUsecase) ListAllOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderUsecase) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func newOrderTestRouter(uc *MockOrderUsecase, identity *domain.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	attach := func(c *gin.Context) {
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
	NewOrderHandler(uc, testLogger()).RegisterRoutes(router, attach, attach)
	return router
}

func TestOrderHandler_Checkout(t *testing.T) {
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, nil)

	mockUC.On("Checkout", mock.Anything, (*domain.Identity)(nil),
		[]domain.ItemRequest{{ProductID: 1, Quantity: 2}},
		mock.AnythingOfType("domain.Address"), "COD").
		Return(&domain.Order{ID: 42, TotalPrice: 40.0, Status: domain.StatusPending}, nil)

	body := `{
        "items": [{"productId": 1, "quantity": 2}],
        "shippingAddress": {"fullName": "Jane Doe", "phoneNumber": "555-0100", "street": "1 Main St", "city": "Springfield"},
        "paymentMethod": "COD"
    }`
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"Status":"Success"`)
	mockUC.AssertExpectations(t)
}

func TestOrderHandler_Checkout_MalformedBody(t *testing.T) {
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, nil)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUC.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_Checkout_InsufficientStock(t *testing.T) {
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, nil)

	mockUC.On("Checkout", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: product 1 (requested: 5, available: 2)", domain.ErrInsufficientStock))

	body := `{
        "items": [{"productId": 1, "quantity": 5}],
        "shippingAddress": {"fullName": "Jane Doe", "phoneNumber": "555-0100", "street": "1 Main St", "city": "Springfield"}
    }`
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// The failure body names the offending product.
	assert.Contains(t, w.Body.String(), "product 1")
}

func TestOrderHandler_GetOrder(t *testing.T) {
	identity := &domain.Identity{UserID: 7}
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, identity)

	ownerID := int64(7)
	mockUC.On("GetOrder", mock.Anything, identity, int64(5)).
		Return(&domain.Order{ID: 5, UserID: &ownerID, Status: domain.StatusPending}, nil)

	req := httptest.NewRequest(http.MethodGet, "/orders/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":5`)
}

func TestOrderHandler_GetOrder_Forbidden(t *testing.T) {
	identity := &domain.Identity{UserID: 8}
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, identity)

	mockUC.On("GetOrder", mock.Anything, identity, int64(5)).
		Return(nil, fmt.Errorf("%w: order belongs to another customer", domain.ErrForbidden))

	req := httptest.NewRequest(http.MethodGet, "/orders/5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderHandler_GetOrder_BadID(t *testing.T) {
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, &domain.Identity{UserID: 7})

	req := httptest.NewRequest(http.MethodGet, "/orders/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUC.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	identity := &domain.Identity{UserID: 7}
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, identity)

	mockUC.On("CancelOrder", mock.Anything, identity, int64(5)).
		Return(&domain.Order{ID: 5, Status: domain.StatusCancelled}, nil)

	req := httptest.NewRequest(http.MethodPut, "/orders/5/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Cancelled"`)
}

func TestOrderHandler_CancelOrder_NotPending(t *testing.T) {
	identity := &domain.Identity{UserID: 7}
	mockUC := new(MockOrderUsecase)
	router := newOrderTestRouter(mockUC, identity)

	mockUC.On("CancelOrder", mock.Anything, identity, int64(5)).
		Return(nil, fmt.Errorf("%w: only pending orders can be cancelled", domain.ErrInvalidState))

	req := httptest.NewRequest(http.MethodPut, "/orders/5/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
