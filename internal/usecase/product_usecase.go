package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type ProductUsecase interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductList, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type productUsecase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewProductUsecase(productRepo domain.ProductRepository, logger *logrus.Logger) ProductUsecase {
	return &productUsecase{
		productRepo: productRepo,
		log:         logger,
	}
}

func (u *productUsecase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(product.Category) == "" {
		return nil, fmt.Errorf("%w: product category is required", domain.ErrInvalidRequest)
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidRequest)
	}
	if product.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidRequest)
	}
	if product.Slug == "" {
		product.Slug = slugify(product.Name)
	}
	created, err := u.productRepo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Product %d ('%s') created", created.ID, created.Name)
	return created, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := true
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (u *productUsecase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return u.productRepo.GetProductByID(ctx, id)
}

func (u *productUsecase) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Product, error) {
	if price, ok := updates["price"].(float64); ok && price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidRequest)
	}
	if stock, ok := updates["stock"].(float64); ok && stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidRequest)
	}
	updated, err := u.productRepo.UpdateProduct(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Product %d updated", id)
	return updated, nil
}

func (u *productUsecase) DeleteProduct(ctx context.Context, id int64) error {
	if err := u.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	u.log.Infof("Use Case: Product %d deleted", id)
	return nil
}

func (u *productUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductList, error) {
	return u.productRepo.ListProducts(ctx, filter)
}

func (u *productUsecase) ListCategories(ctx context.Context) ([]string, error) {
	return u.productRepo.ListCategories(ctx)
}
