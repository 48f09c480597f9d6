package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

// AdminHandler groups the management console endpoints: product CRUD,
// order oversight and the dashboard stats.
type AdminHandler struct {
	products usecase.ProductUsecase
	orders   usecase.OrderUsecase
	users    usecase.UserUsecase
	stats    usecase.StatsUsecase
	log      *logrus.Logger
}

func NewAdminHandler(products usecase.ProductUsecase, orders usecase.OrderUsecase, users usecase.UserUsecase, stats usecase.StatsUsecase, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		users:    users,
		stats:    stats,
		log:      logger,
	}
}

func (h *AdminHandler) RegisterRoutes(router gin.IRouter, auth, adminOnly gin.HandlerFunc) {
	admin := router.Group("/admin", auth, adminOnly)
	{
		admin.GET("/stats", h.GetStats)
		admin.GET("/users", h.ListUsers)

		admin.GET("/products", h.ListProducts)
		admin.POST("/products", h.CreateProduct)
		admin.PUT("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.GET("/orders", h.ListOrders)
		admin.GET("/orders/:id", h.GetOrder)
		admin.PUT("/orders/:id", h.UpdateOrderStatus)
	}
}

// ListProducts is the console's unpaginated-by-default catalog view; it
// accepts the same filters as the public listing.
func (h *AdminHandler) ListProducts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 50
	}

	list, err := h.products.ListProducts(c.Request.Context(), domain.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		h.log.Errorf("Failed to list products for admin: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", list)
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.stats.GetStats(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to compute stats: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve stats")
		return
	}
	SuccessResponse(c, http.StatusOK, "Stats retrieved successfully", stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve users")
		return
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

type productRequest struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Featured    bool     `json:"featured"`
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), &domain.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Images:      req.Images,
		Stock:       req.Stock,
		Featured:    req.Featured,
	})
	if err != nil {
		h.log.Warnf("Failed to create product: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	// JSON arrays decode as []interface{}; images need []string.
	if raw, ok := updates["images"].([]interface{}); ok {
		images := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				images = append(images, s)
			}
		}
		updates["images"] = images
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), id, updates)
	if err != nil {
		h.log.Warnf("Failed to update product %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	limit, offset := paginationParams(c)
	orders, err := h.orders.ListAllOrders(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Errorf("Failed to list all orders: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.log.Warnf("Failed to get order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve order: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

type updateStatusRequest struct {
	Status *domain.OrderStatus `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, *req.Status)
	if err != nil {
		h.log.Warnf("Failed to update status for order %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update order status: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}
