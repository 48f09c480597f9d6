package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

type ReviewHandler struct {
	useCase usecase.ReviewUsecase
	log     *logrus.Logger
}

func NewReviewHandler(uc usecase.ReviewUsecase, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ReviewHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("/product/:productId", h.ListReviews)
		reviews.POST("", auth, h.CreateReview)
		reviews.DELETE("/:id", auth, h.DeleteReview)
	}
}

type createReviewRequest struct {
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for review: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	review, err := h.useCase.CreateReview(c.Request.Context(), identityFrom(c), req.ProductID, req.Rating, req.Comment)
	if err != nil {
		h.log.Warnf("Failed to create review for product %d: %v", req.ProductID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create review: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Review created successfully", review)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	reviews, err := h.useCase.ListReviews(c.Request.Context(), productID)
	if err != nil {
		h.log.Errorf("Failed to list reviews for product %d: %v", productID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve reviews")
		return
	}
	if len(reviews) == 0 {
		SuccessResponse(c, http.StatusOK, "No reviews found", []domain.Review{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid review ID format")
		return
	}

	if err := h.useCase.DeleteReview(c.Request.Context(), identityFrom(c), id); err != nil {
		h.log.Warnf("Failed to delete review %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete review: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Review deleted successfully", nil)
}
