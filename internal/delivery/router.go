package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

// Usecases bundles everything the HTTP surface needs.
type Usecases struct {
	Orders   usecase.OrderUsecase
	Products usecase.ProductUsecase
	Users    usecase.UserUsecase
	Reviews  usecase.ReviewUsecase
	Wishlist usecase.WishlistUsecase
	CMS      usecase.CMSUsecase
	Stats    usecase.StatsUsecase
}

// NewRouter assembles the gin engine with all routes under /api.
func NewRouter(uc Usecases, jwtSecret string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))

	auth := AuthMiddleware(jwtSecret, logger)
	optionalAuth := OptionalAuthMiddleware(jwtSecret, logger)
	adminOnly := AdminOnly(logger)

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	NewAuthHandler(uc.Users, logger).RegisterRoutes(api, auth)
	NewProductHandler(uc.Products, uc.Reviews, logger).RegisterRoutes(api)
	NewOrderHandler(uc.Orders, logger).RegisterRoutes(api, optionalAuth, auth)
	NewReviewHandler(uc.Reviews, logger).RegisterRoutes(api, auth)
	NewWishlistHandler(uc.Wishlist, logger).RegisterRoutes(api, auth)
	NewCMSHandler(uc.CMS, logger).RegisterRoutes(api, auth, adminOnly)
	NewAdminHandler(uc.Products, uc.Orders, uc.Users, uc.Stats, logger).RegisterRoutes(api, auth, adminOnly)

	return router
}
