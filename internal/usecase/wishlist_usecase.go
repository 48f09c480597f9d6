package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type WishlistUsecase interface {
	ListWishlist(ctx context.Context, identity *domain.Identity) ([]domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, identity *domain.Identity, productID int64) (*domain.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, identity *domain.Identity, productID int64) error
	InWishlist(ctx context.Context, identity *domain.Identity, productID int64) (bool, error)
}

type wishlistUsecase struct {
	wishlistRepo domain.WishlistRepository
	log          *logrus.Logger
}

func NewWishlistUsecase(wishlistRepo domain.WishlistRepository, logger *logrus.Logger) WishlistUsecase {
	return &wishlistUsecase{
		wishlistRepo: wishlistRepo,
		log:          logger,
	}
}

func (u *wishlistUsecase) ListWishlist(ctx context.Context, identity *domain.Identity) ([]domain.WishlistItem, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: sign in to view your wishlist", domain.ErrUnauthorized)
	}
	return u.wishlistRepo.ListWishlist(ctx, identity.UserID)
}

func (u *wishlistUsecase) AddToWishlist(ctx context.Context, identity *domain.Identity, productID int64) (*domain.WishlistItem, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: sign in to use the wishlist", domain.ErrUnauthorized)
	}
	if productID <= 0 {
		return nil, fmt.Errorf("%w: invalid product id", domain.ErrInvalidRequest)
	}
	item, err := u.wishlistRepo.AddToWishlist(ctx, identity.UserID, productID)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Product %d added to wishlist of user %d", productID, identity.UserID)
	return item, nil
}

func (u *wishlistUsecase) RemoveFromWishlist(ctx context.Context, identity *domain.Identity, productID int64) error {
	if identity == nil {
		return fmt.Errorf("%w: sign in to use the wishlist", domain.ErrUnauthorized)
	}
	return u.wishlistRepo.RemoveFromWishlist(ctx, identity.UserID, productID)
}

func (u *wishlistUsecase) InWishlist(ctx context.Context, identity *domain.Identity, productID int64) (bool, error) {
	if identity == nil {
		return false, fmt.Errorf("%w: sign in to use the wishlist", domain.ErrUnauthorized)
	}
	return u.wishlistRepo.InWishlist(ctx, identity.UserID, productID)
}
