package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/usecase"
)

type AuthHandler struct {
	useCase usecase.UserUsecase
	log     *logrus.Logger
}

func NewAuthHandler(uc usecase.UserUsecase, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter, auth gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/profile", auth, h.Profile)
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for register: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.log.Warnf("Registration failed: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Registration failed: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Registration successful", result)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for login: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.useCase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Login failed: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.useCase.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.log.Warnf("Failed to load profile for user %d: %v", identity.UserID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve profile: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", user)
}
