package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) CreateReview(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) GetReviewByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) DeleteReview(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) HasUserReviewed(ctx context.Context, productID, userID int64) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Product, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductList, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductList), args.Error(1)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) CountProducts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestReviewUsecase_CreateReview(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockProducts := new(MockProductRepository)
	uc := NewReviewUsecase(mockReviews, mockProducts, testLogger())
	identity := &domain.Identity{UserID: 7}

	mockProducts.On("GetProductByID", mock.Anything, int64(3)).Return(&domain.Product{ID: 3}, nil)
	mockReviews.On("HasUserReviewed", mock.Anything, int64(3), int64(7)).Return(false, nil)
	mockReviews.On("CreateReview", mock.Anything, mock.AnythingOfType("*domain.Review")).
		Return(&domain.Review{ID: 1, ProductID: 3, UserID: 7, Rating: 4}, nil)

	review, err := uc.CreateReview(context.Background(), identity, 3, 4, "solid")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), review.ID)
	mockReviews.AssertExpectations(t)
}

func TestReviewUsecase_CreateReview_Validation(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockProducts := new(MockProductRepository)
	uc := NewReviewUsecase(mockReviews, mockProducts, testLogger())

	t.Run("guest denied", func(t *testing.T) {
		_, err := uc.CreateReview(context.Background(), nil, 3, 4, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("rating out of range", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			_, err := uc.CreateReview(context.Background(), &domain.Identity{UserID: 7}, 3, rating, "")
			assert.ErrorIs(t, err, domain.ErrInvalidRequest)
		}
	})

	mockReviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestReviewUsecase_CreateReview_Duplicate(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockProducts := new(MockProductRepository)
	uc := NewReviewUsecase(mockReviews, mockProducts, testLogger())

	mockProducts.On("GetProductByID", mock.Anything, int64(3)).Return(&domain.Product{ID: 3}, nil)
	mockReviews.On("HasUserReviewed", mock.Anything, int64(3), int64(7)).Return(true, nil)

	_, err := uc.CreateReview(context.Background(), &domain.Identity{UserID: 7}, 3, 4, "")

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockReviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
}

func TestReviewUsecase_DeleteReview_Ownership(t *testing.T) {
	mockReviews := new(MockReviewRepository)
	mockProducts := new(MockProductRepository)
	uc := NewReviewUsecase(mockReviews, mockProducts, testLogger())

	review := &domain.Review{ID: 1, ProductID: 3, UserID: 7}
	mockReviews.On("GetReviewByID", mock.Anything, int64(1)).Return(review, nil)

	t.Run("stranger denied", func(t *testing.T) {
		err := uc.DeleteReview(context.Background(), &domain.Identity{UserID: 8}, 1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		mockReviews.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything)
	})

	t.Run("author allowed", func(t *testing.T) {
		mockReviews.On("DeleteReview", mock.Anything, int64(1)).Return(nil).Once()
		err := uc.DeleteReview(context.Background(), &domain.Identity{UserID: 7}, 1)
		assert.NoError(t, err)
	})

	t.Run("admin allowed", func(t *testing.T) {
		mockReviews.On("DeleteReview", mock.Anything, int64(1)).Return(nil).Once()
		err := uc.DeleteReview(context.Background(), &domain.Identity{UserID: 99, IsAdmin: true}, 1)
		assert.NoError(t, err)
	})
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "red-shirt", slugify("Red Shirt"))
	assert.Equal(t, "laptop-15-pro", slugify("  Laptop 15\" Pro! "))
	assert.Equal(t, "abc", slugify("abc"))
	assert.Equal(t, "", slugify("!!!"))
}
