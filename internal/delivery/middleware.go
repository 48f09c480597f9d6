package delivery

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sajibuddin729/ECommerceWebsiteForMyBusiness/internal/domain"
)

const identityKey = "identity"

// identityFrom returns the authenticated identity set by the auth
// middleware, or nil for guests.
func identityFrom(c *gin.Context) *domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, ok := v.(*domain.Identity)
	if !ok {
		return nil
	}
	return identity
}

func parseBearer(c *gin.Context, secret []byte) (*domain.Identity, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("%w: Authorization header required", domain.ErrUnauthorized)
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return nil, fmt.Errorf("%w: invalid Authorization header format", domain.ErrUnauthorized)
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	idClaim, ok := claims["id"].(float64)
	if !ok || idClaim <= 0 {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	role, _ := claims["role"].(string)
	return &domain.Identity{
		UserID:  int64(idClaim),
		IsAdmin: role == "admin",
	}, nil
}

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string, log *logrus.Logger) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		identity, err := parseBearer(c, key)
		if err != nil {
			log.Warnf("Middleware: Authentication failed: %v", err)
			ErrorResponse(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches an identity when a valid token is
// present and lets guests through. Checkout uses it: guests may order.
func OptionalAuthMiddleware(secret string, log *logrus.Logger) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		identity, err := parseBearer(c, key)
		if err != nil {
			// A malformed token is an error even on optional routes, so
			// a customer never silently places a guest order.
			log.Warnf("Middleware: Optional authentication failed: %v", err)
			ErrorResponse(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity == nil || !identity.IsAdmin {
			log.Warnf("Middleware: Admin access denied for %s %s", c.Request.Method, c.Request.URL.Path)
			ErrorResponse(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestID tags every request for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  latency.Milliseconds(),
		})
		if reqID := c.Writer.Header().Get("X-Request-ID"); reqID != "" {
			entry = entry.WithField("request_id", reqID)
		}

		if statusCode >= 500 {
			entry.Error("Request completed with server error")
		} else if statusCode >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}
