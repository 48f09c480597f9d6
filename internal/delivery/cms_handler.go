package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

type CMSHandler struct {
	useCase usecase.CMSUsecase
	log     *logrus.Logger
}

func NewCMSHandler(uc usecase.CMSUsecase, logger *logrus.Logger) *CMSHandler {
	return &CMSHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes wires the CMS endpoints: public reads, admin-gated
// writes and the full page listing.
func (h *CMSHandler) RegisterRoutes(router gin.IRouter, auth, adminOnly gin.HandlerFunc) {
	pages := router.Group("/pages")
	{
		pages.GET("", auth, adminOnly, h.ListPages)
		pages.GET("/:slug", h.GetPage)
		pages.PUT("/:slug", auth, adminOnly, h.SavePage)
	}
	router.GET("/settings", h.GetSettings)
	router.PUT("/settings", auth, adminOnly, h.UpdateSettings)
}

func (h *CMSHandler) ListPages(c *gin.Context) {
	pages, err := h.useCase.ListPages(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list pages: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve pages")
		return
	}
	SuccessResponse(c, http.StatusOK, "Pages retrieved successfully", pages)
}

func (h *CMSHandler) GetPage(c *gin.Context) {
	page, err := h.useCase.GetPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.log.Warnf("Failed to get page '%s': %v", c.Param("slug"), err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve page: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Page retrieved successfully", page)
}

func (h *CMSHandler) GetSettings(c *gin.Context) {
	settings, err := h.useCase.GetSettings(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to get settings: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve settings")
		return
	}
	SuccessResponse(c, http.StatusOK, "Settings retrieved successfully", settings)
}

type pageRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *CMSHandler) SavePage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	page, err := h.useCase.SavePage(c.Request.Context(), &domain.Page{
		Title:   req.Title,
		Slug:    c.Param("slug"),
		Content: req.Content,
	})
	if err != nil {
		h.log.Warnf("Failed to save page '%s': %v", c.Param("slug"), err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to save page: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Page saved successfully", page)
}

func (h *CMSHandler) UpdateSettings(c *gin.Context) {
	var settings domain.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saved, err := h.useCase.UpdateSettings(c.Request.Context(), &settings)
	if err != nil {
		h.log.Errorf("Failed to update settings: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update settings: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Settings updated successfully", saved)
}
