package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type postgresPageRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresPageRepository(db *sql.DB, logger *logrus.Logger) domain.PageRepository {
	return &postgresPageRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresPageRepository) ListPages(ctx context.Context) ([]domain.Page, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, slug, content, last_updated FROM pages ORDER BY title`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list pages: %v", err)
		return nil, fmt.Errorf("could not retrieve pages: %w", err)
	}
	defer rows.Close()

	pages := []domain.Page{}
	for rows.Next() {
		var page domain.Page
		if err := rows.Scan(&page.ID, &page.Title, &page.Slug, &page.Content, &page.LastUpdated); err != nil {
			return nil, fmt.Errorf("error scanning page data: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}
	return pages, nil
}

func (r *postgresPageRepository) GetPageBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	page := &domain.Page{}
	err := r.db.QueryRowContext(ctx, `SELECT id, title, slug, content, last_updated FROM pages WHERE slug = $1`, slug).Scan(
		&page.ID, &page.Title, &page.Slug, &page.Content, &page.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: page '%s'", domain.ErrNotFound, slug)
		}
		r.log.Errorf("Repository: Failed to get page '%s': %v", slug, err)
		return nil, fmt.Errorf("could not retrieve page: %w", err)
	}
	return page, nil
}

func (r *postgresPageRepository) UpsertPage(ctx context.Context, page *domain.Page) (*domain.Page, error) {
	query := `
        INSERT INTO pages (title, slug, content, last_updated)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (slug) DO UPDATE
        SET title = EXCLUDED.title, content = EXCLUDED.content, last_updated = NOW()
        RETURNING id, title, slug, content, last_updated`
	saved := &domain.Page{}
	err := r.db.QueryRowContext(ctx, query, page.Title, page.Slug, page.Content).Scan(
		&saved.ID, &saved.Title, &saved.Slug, &saved.Content, &saved.LastUpdated,
	)
	if err != nil {
		err = translateError(err)
		r.log.Errorf("Repository: Failed to upsert page '%s': %v", page.Slug, err)
		return nil, fmt.Errorf("could not save page: %w", err)
	}
	r.log.Infof("Repository: Page '%s' saved", saved.Slug)
	return saved, nil
}

type postgresSettingsRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSettingsRepository(db *sql.DB, logger *logrus.Logger) domain.SettingsRepository {
	return &postgresSettingsRepository{
		db:  db,
		log: logger,
	}
}

// GetSettings reads the singleton row, creating it with defaults on first
// access.
func (r *postgresSettingsRepository) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := r.readSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.log.Errorf("Repository: Failed to read settings: %v", err)
		return nil, fmt.Errorf("could not retrieve settings: %w", err)
	}

	defaults := domain.DefaultSettings()
	if _, insErr := r.writeSettings(ctx, defaults); insErr != nil {
		// A concurrent first read may have inserted the row already.
		if settings, rdErr := r.readSettings(ctx); rdErr == nil {
			return settings, nil
		}
		r.log.Errorf("Repository: Failed to seed default settings: %v", insErr)
		return nil, fmt.Errorf("could not initialize settings: %w", insErr)
	}
	return r.readSettings(ctx)
}

func (r *postgresSettingsRepository) UpdateSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	saved, err := r.writeSettings(ctx, settings)
	if err != nil {
		r.log.Errorf("Repository: Failed to update settings: %v", err)
		return nil, fmt.Errorf("could not update settings: %w", err)
	}
	r.log.Info("Repository: Site settings updated")
	return saved, nil
}

func (r *postgresSettingsRepository) readSettings(ctx context.Context) (*domain.Settings, error) {
	var socialRaw, contactRaw, appearanceRaw []byte
	settings := &domain.Settings{}
	err := r.db.QueryRowContext(ctx, `SELECT social_links, contact_info, appearance, updated_at FROM settings WHERE id = 1`).Scan(
		&socialRaw, &contactRaw, &appearanceRaw, &settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(socialRaw, &settings.SocialLinks); err != nil {
		return nil, fmt.Errorf("corrupt social links data: %w", err)
	}
	if err := json.Unmarshal(contactRaw, &settings.ContactInfo); err != nil {
		return nil, fmt.Errorf("corrupt contact info data: %w", err)
	}
	if err := json.Unmarshal(appearanceRaw, &settings.Appearance); err != nil {
		return nil, fmt.Errorf("corrupt appearance data: %w", err)
	}
	return settings, nil
}

func (r *postgresSettingsRepository) writeSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	socialRaw, err := json.Marshal(settings.SocialLinks)
	if err != nil {
		return nil, fmt.Errorf("could not encode social links: %w", err)
	}
	contactRaw, err := json.Marshal(settings.ContactInfo)
	if err != nil {
		return nil, fmt.Errorf("could not encode contact info: %w", err)
	}
	appearanceRaw, err := json.Marshal(settings.Appearance)
	if err != nil {
		return nil, fmt.Errorf("could not encode appearance: %w", err)
	}

	query := `
        INSERT INTO settings (id, social_links, contact_info, appearance, updated_at)
        VALUES (1, $1, $2, $3, NOW())
        ON CONFLICT (id) DO UPDATE
        SET social_links = EXCLUDED.social_links,
            contact_info = EXCLUDED.contact_info,
            appearance = EXCLUDED.appearance,
            updated_at = NOW()
        RETURNING updated_at`
	saved := *settings
	if err := r.db.QueryRowContext(ctx, query, socialRaw, contactRaw, appearanceRaw).Scan(&saved.UpdatedAt); err != nil {
		return nil, translateError(err)
	}
	return &saved, nil
}
