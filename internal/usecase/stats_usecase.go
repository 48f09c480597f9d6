package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

// Stats is the admin dashboard summary. Revenue excludes cancelled orders.
type Stats struct {
	TotalProducts int64   `json:"total_products"`
	TotalOrders   int64   `json:"total_orders"`
	TotalUsers    int64   `json:"total_users"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type StatsUsecase interface {
	GetStats(ctx context.Context) (*Stats, error)
}

type statsUsecase struct {
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	userRepo    domain.UserRepository
	log         *logrus.Logger
}

func NewStatsUsecase(productRepo domain.ProductRepository, orderRepo domain.OrderRepository, userRepo domain.UserRepository, logger *logrus.Logger) StatsUsecase {
	return &statsUsecase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		log:         logger,
	}
}

func (u *statsUsecase) GetStats(ctx context.Context) (*Stats, error) {
	products, err := u.productRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := u.orderRepo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}
	users, err := u.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := u.orderRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalProducts: products,
		TotalOrders:   orders,
		TotalUsers:    users,
		TotalRevenue:  revenue,
	}, nil
}
