package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type ReviewUsecase interface {
	CreateReview(ctx context.Context, identity *domain.Identity, productID int64, rating int, comment string) (*domain.Review, error)
	ListReviews(ctx context.Context, productID int64) ([]domain.Review, error)
	DeleteReview(ctx context.Context, identity *domain.Identity, id int64) error
}

type reviewUsecase struct {
	reviewRepo  domain.ReviewRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewReviewUsecase(reviewRepo domain.ReviewRepository, productRepo domain.ProductRepository, logger *logrus.Logger) ReviewUsecase {
	return &reviewUsecase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (u *reviewUsecase) CreateReview(ctx context.Context, identity *domain.Identity, productID int64, rating int, comment string) (*domain.Review, error) {
	if identity == nil {
		return nil, fmt.Errorf("%w: sign in to leave a review", domain.ErrUnauthorized)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidRequest)
	}
	if _, err := u.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}
	reviewed, err := u.reviewRepo.HasUserReviewed(ctx, productID, identity.UserID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, fmt.Errorf("%w: product already reviewed", domain.ErrAlreadyExists)
	}

	created, err := u.reviewRepo.CreateReview(ctx, &domain.Review{
		ProductID: productID,
		UserID:    identity.UserID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Review %d created for product %d by user %d", created.ID, productID, identity.UserID)
	return created, nil
}

func (u *reviewUsecase) ListReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	return u.reviewRepo.ListReviewsByProduct(ctx, productID)
}

// DeleteReview lets the author or an admin remove a review.
func (u *reviewUsecase) DeleteReview(ctx context.Context, identity *domain.Identity, id int64) error {
	if identity == nil {
		return fmt.Errorf("%w: sign in to delete reviews", domain.ErrUnauthorized)
	}
	review, err := u.reviewRepo.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	if !identity.IsAdmin && review.UserID != identity.UserID {
		u.log.Warnf("Use Case: User %d denied deletion of review %d", identity.UserID, id)
		return fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}
	if err := u.reviewRepo.DeleteReview(ctx, id); err != nil {
		return err
	}
	u.log.Infof("Use Case: Review %d deleted", id)
	return nil
}
