package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

type ProductHandler struct {
	useCase usecase.ProductUsecase
	reviews usecase.ReviewUsecase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUsecase, reviews usecase.ReviewUsecase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		reviews: reviews,
		log:     logger,
	}
}

// RegisterRoutes wires the public catalog endpoints. Categories live on
// their own path because gin's router does not allow a static segment
// next to the :id wildcard.
func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}
	router.GET("/categories", h.ListCategories)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 12
	}
	filter := domain.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	}

	list, err := h.useCase.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", list)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.useCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve product: "+err.Error())
		return
	}

	reviews, err := h.reviews.ListReviews(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to load reviews for product %d: %v", id, err)
		reviews = []domain.Review{}
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", gin.H{
		"product": product,
		"reviews": reviews,
	})
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve categories")
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}
