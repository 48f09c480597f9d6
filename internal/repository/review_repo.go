package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type postgresReviewRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresReviewRepository(db *sql.DB, logger *logrus.Logger) domain.ReviewRepository {
	return &postgresReviewRepository{
		db:  db,
		log: logger,
	}
}

// CreateReview inserts the review and recomputes the product's aggregate
// rating inside the same transaction, so the catalog never shows a rating
// that disagrees with the reviews table.
func (r *postgresReviewRepository) CreateReview(ctx context.Context, review *domain.Review) (created *domain.Review, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin review transaction: %v", err)
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorf("Repository: Failed to rollback review transaction: %v", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit review transaction: %w", cErr)
			created = nil
			r.log.Errorf("Repository: %v", err)
		}
	}()

	insert := `
        INSERT INTO reviews (product_id, user_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	out := *review
	err = tx.QueryRowContext(ctx, insert, review.ProductID, review.UserID, review.Rating, review.Comment).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		err = translateError(err)
		if errors.Is(err, domain.ErrAlreadyExists) {
			r.log.Warnf("Repository: User %d already reviewed product %d", review.UserID, review.ProductID)
			err = fmt.Errorf("%w: product already reviewed", domain.ErrAlreadyExists)
			return nil, err
		}
		r.log.Errorf("Repository: Failed to insert review for product %d: %v", review.ProductID, err)
		return nil, fmt.Errorf("could not create review: %w", err)
	}

	if err = r.recomputeRatingTx(ctx, tx, review.ProductID); err != nil {
		return nil, err
	}

	r.log.Infof("Repository: Review %d created for product %d", out.ID, review.ProductID)
	return &out, nil
}

func (r *postgresReviewRepository) recomputeRatingTx(ctx context.Context, tx *sql.Tx, productID int64) error {
	query := `
        UPDATE products
        SET rating = sub.avg_rating, review_count = sub.cnt, updated_at = NOW()
        FROM (
            SELECT COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS cnt
            FROM reviews
            WHERE product_id = $1
        ) AS sub
        WHERE products.id = $1`
	if _, err := tx.ExecContext(ctx, query, productID); err != nil {
		r.log.Errorf("Repository: Failed to recompute rating for product %d: %v", productID, err)
		return fmt.Errorf("could not update product rating: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) GetReviewByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `
        SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.created_at
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.id = $1`
	review := &domain.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.ProductID, &review.UserID, &review.UserName,
		&review.Rating, &review.Comment, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review %d", domain.ErrNotFound, id)
		}
		r.log.Errorf("Repository: Failed to get review %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve review: %w", err)
	}
	return review, nil
}

func (r *postgresReviewRepository) ListReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	query := `
        SELECT r.id, r.product_id, r.user_id, u.name, r.rating, r.comment, r.created_at
        FROM reviews r
        JOIN users u ON u.id = r.user_id
        WHERE r.product_id = $1
        ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.log.Errorf("Repository: Failed to list reviews for product %d: %v", productID, err)
		return nil, fmt.Errorf("could not retrieve reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID, &review.ProductID, &review.UserID, &review.UserName,
			&review.Rating, &review.Comment, &review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning review data: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

func (r *postgresReviewRepository) DeleteReview(ctx context.Context, id int64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.log.Errorf("Repository: Failed to begin review delete transaction: %v", err)
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorf("Repository: Failed to rollback review delete transaction: %v", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit review delete transaction: %w", cErr)
			r.log.Errorf("Repository: %v", err)
		}
	}()

	var productID int64
	err = tx.QueryRowContext(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: review %d", domain.ErrNotFound, id)
			return err
		}
		r.log.Errorf("Repository: Failed to delete review %d: %v", id, err)
		return fmt.Errorf("could not delete review: %w", err)
	}

	if err = r.recomputeRatingTx(ctx, tx, productID); err != nil {
		return err
	}
	r.log.Infof("Repository: Review %d deleted", id)
	return nil
}

func (r *postgresReviewRepository) HasUserReviewed(ctx context.Context, productID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE product_id = $1 AND user_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, productID, userID).Scan(&exists); err != nil {
		r.log.Errorf("Repository: Failed to check review existence: %v", err)
		return false, fmt.Errorf("could not check review: %w", err)
	}
	return exists, nil
}
