package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"tripdesk/internal/auth"
	"tripdesk/internal/shared/utils/response"
	"tripdesk/pkg/logger"
)

// Context keys set by JWTAuth
const (
	UserIDKey    = "user_id"
	UserEmailKey = "user_email"
)

// JWTAuth verifies the bearer token with secret. Every rejection is a 401.
func JWTAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.LogAuthFailure(c.Request.Context(), "missing header", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, "Authorization header is required", nil)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.LogAuthFailure(c.Request.Context(), "malformed header", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil)
			return
		}

		claims := &auth.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			log.LogAuthFailure(c.Request.Context(), "invalid token", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		if claims.Type != "access" {
			log.LogAuthFailure(c.Request.Context(), "wrong token type", c.ClientIP())
			response.RespondError(c, http.StatusUnauthorized, "invalid token type", nil)
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Next()
	}
}

// UserID reads the id stored by JWTAuth
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RequestLogger logs every request after it completes
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}

// CORS allows any origin; the mock API is a development fixture
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
