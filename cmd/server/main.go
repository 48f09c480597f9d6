package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/config"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/delivery"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/events"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/repository"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/pkg/db"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Info("Connected to PostgreSQL")

	var publisher events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewNATSPublisher(cfg.NATSURL, log)
		if err != nil {
			log.Warnf("NATS unavailable (%v), order events disabled", err)
			publisher = events.NewNoopPublisher()
		}
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	orderRepo := repository.NewPostgresOrderRepository(database, log)
	productRepo := repository.NewPostgresProductRepository(database, log)
	userRepo := repository.NewPostgresUserRepository(database, log)
	reviewRepo := repository.NewPostgresReviewRepository(database, log)
	wishlistRepo := repository.NewPostgresWishlistRepository(database, log)
	pageRepo := repository.NewPostgresPageRepository(database, log)
	settingsRepo := repository.NewPostgresSettingsRepository(database, log)

	usecases := delivery.Usecases{
		Orders:   usecase.NewOrderUsecase(orderRepo, publisher, log, cfg.CheckoutTimeout, cfg.CheckoutRetries),
		Products: usecase.NewProductUsecase(productRepo, log),
		Users:    usecase.NewUserUsecase(userRepo, log, cfg.JWTSecret, cfg.TokenTTL),
		Reviews:  usecase.NewReviewUsecase(reviewRepo, productRepo, log),
		Wishlist: usecase.NewWishlistUsecase(wishlistRepo, log),
		CMS:      usecase.NewCMSUsecase(pageRepo, settingsRepo, log),
		Stats:    usecase.NewStatsUsecase(productRepo, orderRepo, userRepo, log),
	}

	router := delivery.NewRouter(usecases, cfg.JWTSecret, log)

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Server starting on %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Forced shutdown: %v", err)
	}
	log.Info("Server stopped")
}
