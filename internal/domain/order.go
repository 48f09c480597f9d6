package domain

import (
	"context"
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

func IsValidStatus(status OrderStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanCancel reports whether an order in the given status may be cancelled
// by its owner. Only pending orders qualify; everything else has already
// left the customer's hands.
func CanCancel(status OrderStatus) bool {
	return status == StatusPending
}

type PaymentMethod string

// COD is the only supported payment method today. Payment is collected on
// delivery, so checkout performs no authorization step.
const PaymentCOD PaymentMethod = "COD"

// Address is the shipping destination captured on the order. The first
// four fields are required at checkout.
type Address struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`
}

func (a Address) Validate() error {
	for _, field := range []string{a.FullName, a.PhoneNumber, a.Street, a.City} {
		if strings.TrimSpace(field) == "" {
			return ErrInvalidRequest
		}
	}
	return nil
}

// OrderItem snapshots one purchased line. Price is the catalog price at
// the moment of checkout and never changes afterwards; ProductID is a weak
// reference kept for display only.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type Order struct {
	ID              int64         `json:"id"`
	UserID          *int64        `json:"user_id,omitempty"` // nil for guest checkout
	Items           []OrderItem   `json:"items"`
	TotalPrice      float64       `json:"total_price"`
	ShippingAddress Address       `json:"shipping_address"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Status          OrderStatus   `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// OwnedBy reports whether the given user owns this order. Guest orders
// have no owner and are never owned by anyone.
func (o *Order) OwnedBy(userID int64) bool {
	return o.UserID != nil && *o.UserID == userID
}

// ItemRequest is one product+quantity entry of an incoming cart.
type ItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRepository persists orders. CreateOrder and CancelOrder are atomic:
// every stock mutation and the order write commit together or not at all.
type OrderRepository interface {
	// CreateOrder decrements stock for each item with a conditional update
	// (stock >= quantity), captures the catalog price into each item,
	// computes the total and inserts the order, all in one transaction.
	CreateOrder(ctx context.Context, order *Order) (*Order, error)
	GetOrderByID(ctx context.Context, id int64) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]Order, error)
	// CancelOrder flips a pending order to Cancelled and restores each
	// item's stock in one transaction. Non-pending orders fail with
	// ErrInvalidState, which also guards against concurrent double-cancel.
	CancelOrder(ctx context.Context, id int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)
	CountOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}
