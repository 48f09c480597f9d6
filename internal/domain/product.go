package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug,omitempty"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	Stock       int       `json:"stock"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter drives the public catalog listing. Sort accepts
// "price-asc", "price-desc", "rating" or empty (newest first).
type ProductFilter struct {
	Category string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type ProductList struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Pages    int64     `json:"pages"`
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int64) (*Product, error)
	UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter ProductFilter) (*ProductList, error)
	ListCategories(ctx context.Context) ([]string, error)
	CountProducts(ctx context.Context) (int64, error)
}
