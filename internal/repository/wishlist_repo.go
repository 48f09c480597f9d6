package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type postgresWishlistRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresWishlistRepository(db *sql.DB, logger *logrus.Logger) domain.WishlistRepository {
	return &postgresWishlistRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresWishlistRepository) ListWishlist(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	query := `
        SELECT w.id, w.user_id, w.product_id, w.created_at,
               p.id, p.name, COALESCE(p.slug, ''), p.description, p.price, p.category, p.images, p.stock, p.rating, p.review_count, p.featured, p.created_at, p.updated_at
        FROM wishlist w
        JOIN products p ON p.id = w.product_id
        WHERE w.user_id = $1
        ORDER BY w.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list wishlist for user %d: %v", userID, err)
		return nil, fmt.Errorf("could not retrieve wishlist: %w", err)
	}
	defer rows.Close()

	items := []domain.WishlistItem{}
	for rows.Next() {
		var item domain.WishlistItem
		p := domain.Product{}
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Category,
			pq.Array(&p.Images), &p.Stock, &p.Rating, &p.ReviewCount, &p.Featured,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning wishlist data: %w", err)
		}
		if p.Images == nil {
			p.Images = []string{}
		}
		item.Product = &p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}
	return items, nil
}

func (r *postgresWishlistRepository) AddToWishlist(ctx context.Context, userID, productID int64) (*domain.WishlistItem, error) {
	query := `
        INSERT INTO wishlist (user_id, product_id)
        VALUES ($1, $2)
        RETURNING id, user_id, product_id, created_at`
	item := &domain.WishlistItem{}
	err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
	)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: product already in wishlist", domain.ErrAlreadyExists)
		}
		if errors.Is(err, domain.ErrInvalidRequest) {
			// foreign key miss: the product does not exist
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
		}
		r.log.Errorf("Repository: Failed to add product %d to wishlist of user %d: %v", productID, userID, err)
		return nil, fmt.Errorf("could not add to wishlist: %w", err)
	}
	return item, nil
}

func (r *postgresWishlistRepository) RemoveFromWishlist(ctx context.Context, userID, productID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		r.log.Errorf("Repository: Failed to remove product %d from wishlist of user %d: %v", productID, userID, err)
		return fmt.Errorf("could not remove from wishlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not confirm wishlist removal: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d not in wishlist", domain.ErrNotFound, productID)
	}
	return nil
}

func (r *postgresWishlistRepository) InWishlist(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM wishlist WHERE user_id = $1 AND product_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, productID).Scan(&exists); err != nil {
		r.log.Errorf("Repository: Failed to check wishlist membership: %v", err)
		return false, fmt.Errorf("could not check wishlist: %w", err)
	}
	return exists, nil
}
