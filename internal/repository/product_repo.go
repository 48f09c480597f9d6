package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

const productColumns = `id, name, COALESCE(slug, ''), description, price, category, images, stock, rating, review_count, featured, created_at, updated_at`

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Product, error) {
	p := &domain.Product{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Category,
		pq.Array(&p.Images), &p.Stock, &p.Rating, &p.ReviewCount, &p.Featured,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, slug, description, price, category, images, stock, featured)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
        RETURNING ` + productColumns
	created, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Name, product.Slug, product.Description, product.Price,
		product.Category, pq.Array(product.Images), product.Stock, product.Featured,
	))
	if err != nil {
		err = translateError(err)
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Repository: Product %d ('%s') created", created.ID, created.Name)
	return created, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product %d not found", id)
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: Failed to get product %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve product: %w", err)
	}
	return product, nil
}

// allowed column names for dynamic product updates
var productUpdateColumns = map[string]bool{
	"name":        true,
	"slug":        true,
	"description": true,
	"price":       true,
	"category":    true,
	"images":      true,
	"stock":       true,
	"featured":    true,
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) (*domain.Product, error) {
	if len(updates) == 0 {
		return r.GetProductByID(ctx, id)
	}

	setClauses := []string{}
	args := []interface{}{}
	i := 1
	for col, val := range updates {
		if !productUpdateColumns[col] {
			return nil, fmt.Errorf("%w: unknown product field '%s'", domain.ErrInvalidRequest, col)
		}
		if col == "images" {
			if imgs, ok := val.([]string); ok {
				val = pq.Array(imgs)
			}
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), i, productColumns)
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product %d not found for update", id)
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
		}
		err = translateError(err)
		r.log.Errorf("Repository: Failed to update product %d: %v", id, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}
	r.log.Infof("Repository: Product %d updated (%d fields)", id, len(updates))
	return product, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		err = translateError(err)
		r.log.Errorf("Repository: Failed to delete product %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	r.log.Infof("Repository: Product %d deleted", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context, filter domain.ProductFilter) (*domain.ProductList, error) {
	where := []string{}
	args := []interface{}{}
	i := 1
	if filter.Category != "" && filter.Category != "all" {
		where = append(where, fmt.Sprintf("category = $%d", i))
		args = append(args, filter.Category)
		i++
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", i, i))
		args = append(args, "%"+filter.Search+"%")
		i++
	}
	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM products %s`, whereClause)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.log.Errorf("Repository: Failed to count products: %v", err)
		return nil, fmt.Errorf("could not count products: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.Sort {
	case "price-asc":
		orderBy = "price ASC"
	case "price-desc":
		orderBy = "price DESC"
	case "rating":
		orderBy = "rating DESC"
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 12
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, orderBy, i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return &domain.ProductList{Products: products, Total: total, Pages: pages}, nil
}

func (r *postgresProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not retrieve categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *postgresProductRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		r.log.Errorf("Repository: Failed to count products: %v", err)
		return 0, fmt.Errorf("could not count products: %w", err)
	}
	return count, nil
}
