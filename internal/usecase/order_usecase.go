package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/events"
)

// OrderUsecase owns checkout, order reads and cancellation.
type OrderUsecase interface {
	Checkout(ctx context.Context, identity *domain.Identity, items []domain.ItemRequest, address domain.Address, paymentMethod string) (*domain.Order, error)
	GetOrder(ctx context.Context, identity *domain.Identity, id int64) (*domain.Order, error)
	ListMyOrders(ctx context.Context, identity *domain.Identity, limit, offset int) ([]domain.Order, error)
	CancelOrder(ctx context.Context, identity *domain.Identity, id int64) (*domain.Order, error)
	ListAllOrders(ctx context.Context, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
}

type orderUsecase struct {
	orderRepo       domain.OrderRepository
	publisher       events.Publisher
	log             *logrus.Logger
	checkoutTimeout time.Duration
	checkoutRetries int
}

func NewOrderUsecase(orderRepo domain.OrderRepository, publisher events.Publisher, logger *logrus.Logger, checkoutTimeout time.Duration, checkoutRetries int) OrderUsecase {
	if checkoutTimeout <= 0 {
		checkoutTimeout = 5 * time.Second
	}
	if checkoutRetries < 1 {
		checkoutRetries = 1
	}
	return &orderUsecase{
		orderRepo:       orderRepo,
		publisher:       publisher,
		log:             logger,
		checkoutTimeout: checkoutTimeout,
		checkoutRetries: checkoutRetries,
	}
}

// Checkout validates the cart, then hands it to the repository's atomic
// create. Serialization conflicts are retried a bounded number of times;
// the whole attempt runs under a short deadline so a contended checkout
// fails fast instead of hanging the customer.
func (u *orderUsecase) Checkout(ctx context.Context, identity *domain.Identity, items []domain.ItemRequest, address domain.Address, paymentMethod string) (*domain.Order, error) {
	if len(items) == 0 {
		u.log.Warn("Use Case: Checkout attempted with empty cart")
		return nil, fmt.Errorf("%w: order must contain at least one item", domain.ErrInvalidRequest)
	}
	seen := make(map[int64]bool, len(items))
	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, fmt.Errorf("%w: invalid product id", domain.ErrInvalidRequest)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidRequest)
		}
		if seen[item.ProductID] {
			return nil, fmt.Errorf("%w: duplicate product %d in cart", domain.ErrInvalidRequest, item.ProductID)
		}
		seen[item.ProductID] = true
		orderItems = append(orderItems, domain.OrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := address.Validate(); err != nil {
		return nil, fmt.Errorf("%w: full name, phone number, street and city are required", domain.ErrInvalidRequest)
	}
	if paymentMethod == "" {
		paymentMethod = string(domain.PaymentCOD)
	}
	if paymentMethod != string(domain.PaymentCOD) {
		return nil, fmt.Errorf("%w: unsupported payment method '%s'", domain.ErrInvalidRequest, paymentMethod)
	}

	order := &domain.Order{
		Items:           orderItems,
		ShippingAddress: address,
		PaymentMethod:   domain.PaymentCOD,
		Status:          domain.StatusPending,
	}
	if identity != nil {
		uid := identity.UserID
		order.UserID = &uid
	}

	ctx, cancel := context.WithTimeout(ctx, u.checkoutTimeout)
	defer cancel()

	var created *domain.Order
	var err error
	for attempt := 1; attempt <= u.checkoutRetries; attempt++ {
		created, err = u.orderRepo.CreateOrder(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		u.log.Warnf("Use Case: Checkout conflict on attempt %d/%d: %v", attempt, u.checkoutRetries, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	if err != nil {
		u.log.Errorf("Use Case: Checkout failed after %d attempts: %v", u.checkoutRetries, err)
		return nil, err
	}

	u.log.Infof("Use Case: Order %d placed (%d items, total %.2f)", created.ID, len(created.Items), created.TotalPrice)
	u.publisher.PublishOrderCreated(created)
	return created, nil
}

// GetOrder returns the order if the requester may see it: admins see
// everything, a customer sees only their own orders. Guest orders have no
// owner, so only admins can read them.
func (u *orderUsecase) GetOrder(ctx context.Context, identity *domain.Identity, id int64) (*domain.Order, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: sign in to view orders", domain.ErrUnauthorized)
	}
	order, err := u.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin && !order.OwnedBy(identity.UserID) {
		u.log.Warnf("Use Case: User %d denied access to order %d", identity.UserID, id)
		return nil, fmt.Errorf("%w: order belongs to another customer", domain.ErrForbidden)
	}
	return order, nil
}

func (u *orderUsecase) ListMyOrders(ctx context.Context, identity *domain.Identity, limit, offset int) ([]domain.Order, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: sign in to view orders", domain.ErrUnauthorized)
	}
	return u.orderRepo.ListOrdersByUserID(ctx, identity.UserID, limit, offset)
}

// CancelOrder cancels a pending order after an ownership check. The
// repository restores stock atomically with the status change.
func (u *orderUsecase) CancelOrder(ctx context.Context, identity *domain.Identity, id int64) (*domain.Order, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: sign in to cancel orders", domain.ErrUnauthorized)
	}
	order, err := u.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin && !order.OwnedBy(identity.UserID) {
		u.log.Warnf("Use Case: User %d denied cancellation of order %d", identity.UserID, id)
		return nil, fmt.Errorf("%w: order belongs to another customer", domain.ErrForbidden)
	}
	if !domain.CanCancel(order.Status) {
		return nil, fmt.Errorf("%w: order is %s, only pending orders can be cancelled", domain.ErrInvalidState, order.Status)
	}

	cancelled, err := u.orderRepo.CancelOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Order %d cancelled, stock restored", id)
	u.publisher.PublishOrderCancelled(cancelled)
	return cancelled, nil
}

func (u *orderUsecase) ListAllOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	return u.orderRepo.ListOrders(ctx, limit, offset)
}

// UpdateStatus is the admin console's status control. Moving an order to
// Cancelled goes through the cancellation path so stock is restored; any
// other transition is a plain status write.
func (u *orderUsecase) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status '%s'", domain.ErrInvalidRequest, status)
	}
	if status == domain.StatusCancelled {
		order, err := u.orderRepo.GetOrderByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !domain.CanCancel(order.Status) {
			return nil, fmt.Errorf("%w: order is %s, only pending orders can be cancelled", domain.ErrInvalidState, order.Status)
		}
		cancelled, err := u.orderRepo.CancelOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		u.publisher.PublishOrderCancelled(cancelled)
		return cancelled, nil
	}

	updated, err := u.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Order %d moved to status %s", id, status)
	return updated, nil
}
