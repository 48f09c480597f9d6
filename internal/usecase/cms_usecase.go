package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

type CMSUsecase interface {
	ListPages(ctx context.Context) ([]domain.Page, error)
	GetPage(ctx context.Context, slug string) (*domain.Page, error)
	SavePage(ctx context.Context, page *domain.Page) (*domain.Page, error)
	GetSettings(ctx context.Context) (*domain.Settings, error)
	UpdateSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

type cmsUsecase struct {
	pageRepo     domain.PageRepository
	settingsRepo domain.SettingsRepository
	log          *logrus.Logger
}

func NewCMSUsecase(pageRepo domain.PageRepository, settingsRepo domain.SettingsRepository, logger *logrus.Logger) CMSUsecase {
	return &cmsUsecase{
		pageRepo:     pageRepo,
		settingsRepo: settingsRepo,
		log:          logger,
	}
}

func (u *cmsUsecase) ListPages(ctx context.Context) ([]domain.Page, error) {
	return u.pageRepo.ListPages(ctx)
}

func (u *cmsUsecase) GetPage(ctx context.Context, slug string) (*domain.Page, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("%w: page slug is required", domain.ErrInvalidRequest)
	}
	return u.pageRepo.GetPageBySlug(ctx, slug)
}

func (u *cmsUsecase) SavePage(ctx context.Context, page *domain.Page) (*domain.Page, error) {
	if strings.TrimSpace(page.Title) == "" {
		return nil, fmt.Errorf("%w: page title is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(page.Slug) == "" {
		page.Slug = slugify(page.Title)
	}
	saved, err := u.pageRepo.UpsertPage(ctx, page)
	if err != nil {
		return nil, err
	}
	u.log.Infof("Use Case: Page '%s' saved", saved.Slug)
	return saved, nil
}

func (u *cmsUsecase) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return u.settingsRepo.GetSettings(ctx)
}

func (u *cmsUsecase) UpdateSettings(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	saved, err := u.settingsRepo.UpdateSettings(ctx, settings)
	if err != nil {
		return nil, err
	}
	u.log.Info("Use Case: Site settings updated")
	return saved, nil
}
