package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

type WishlistHandler struct {
	useCase usecase.WishlistUsecase
	log     *logrus.Logger
}

func NewWishlistHandler(uc usecase.WishlistUsecase, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *WishlistHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	wishlist := router.Group("/wishlist", auth)
	{
		wishlist.GET("", h.ListWishlist)
		wishlist.POST("", h.AddToWishlist)
		wishlist.DELETE("/:productId", h.RemoveFromWishlist)
		wishlist.GET("/check/:productId", h.CheckWishlist)
	}
}

func (h *WishlistHandler) ListWishlist(c *gin.Context) {
	items, err := h.useCase.ListWishlist(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.log.Errorf("Failed to list wishlist: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve wishlist")
		return
	}
	if len(items) == 0 {
		SuccessResponse(c, http.StatusOK, "Wishlist is empty", []domain.WishlistItem{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Wishlist retrieved successfully", items)
}

type addWishlistRequest struct {
	ProductID int64 `json:"productId"`
}

func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	var req addWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.useCase.AddToWishlist(c.Request.Context(), identityFrom(c), req.ProductID)
	if err != nil {
		h.log.Warnf("Failed to add product %d to wishlist: %v", req.ProductID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add to wishlist: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Product added to wishlist", item)
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.useCase.RemoveFromWishlist(c.Request.Context(), identityFrom(c), productID); err != nil {
		h.log.Warnf("Failed to remove product %d from wishlist: %v", productID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove from wishlist: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product removed from wishlist", nil)
}

func (h *WishlistHandler) CheckWishlist(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || productID <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	inWishlist, err := h.useCase.InWishlist(c.Request.Context(), identityFrom(c), productID)
	if err != nil {
		h.log.Warnf("Failed to check wishlist for product %d: %v", productID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to check wishlist")
		return
	}
	SuccessResponse(c, http.StatusOK, "Wishlist checked successfully", gin.H{"inWishlist": inWishlist})
}
