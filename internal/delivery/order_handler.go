package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

type OrderHandler struct {
	useCase usecase.OrderUsecase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.OrderUsecase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes wires the customer-facing order endpoints. Checkout is
// open to guests; reads and cancellation require a signed-in user.
func (h *OrderHandler) RegisterRoutes(router gin.IRouter, optionalAuth, auth gin.HandlerFunc) {
	orders := router.Group("/orders")
	{
		orders.POST("", optionalAuth, h.Checkout)
		orders.GET("", auth, h.ListMyOrders)
		orders.GET("/:id", auth, h.GetOrder)
		orders.PUT("/:id/cancel", auth, h.CancelOrder)
	}
}

type checkoutRequest struct {
	Items           []domain.ItemRequest `json:"items"`
	ShippingAddress domain.Address       `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for checkout: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	identity := identityFrom(c)
	order, err := h.useCase.Checkout(c.Request.Context(), identity, req.Items, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		h.log.Warnf("Checkout failed: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to place order: "+err.Error())
		return
	}

	h.log.Infof("Order %d placed successfully", order.ID)
	SuccessResponse(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid order ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.log.Warnf("Failed to get order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve order: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	limit, offset := paginationParams(c)
	orders, err := h.useCase.ListMyOrders(c.Request.Context(), identityFrom(c), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve orders")
		return
	}
	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid order ID parameter for cancel: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.useCase.CancelOrder(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.log.Warnf("Failed to cancel order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to cancel order: "+err.Error())
		return
	}

	h.log.Infof("Order %d cancelled successfully", id)
	SuccessResponse(c, http.StatusOK, "Order cancelled successfully", order)
}

func paginationParams(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
