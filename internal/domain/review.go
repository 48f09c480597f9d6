package domain

import (
	"context"
	"time"
)

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewRepository keeps product rating and review_count in step with the
// reviews table: create and delete recompute both inside one transaction.
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *Review) (*Review, error)
	GetReviewByID(ctx context.Context, id int64) (*Review, error)
	ListReviewsByProduct(ctx context.Context, productID int64) ([]Review, error)
	DeleteReview(ctx context.Context, id int64) error
	HasUserReviewed(ctx context.Context, productID, userID int64) (bool, error)
}

type WishlistItem struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ProductID int64     `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WishlistRepository interface {
	ListWishlist(ctx context.Context, userID int64) ([]WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID int64) (*WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID, productID int64) error
	InWishlist(ctx context.Context, userID, productID int64) (bool, error)
}
