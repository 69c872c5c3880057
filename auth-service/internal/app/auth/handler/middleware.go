package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopkart/auth-service/internal/app/auth/service"
	"shopkart/pkg/logger"
)

// TokenCookie httpOnly cookie с access токеном
const TokenCookie = "token"

type AuthMiddleware struct {
	authService service.AuthServiceInterface
}

func NewAuthMiddleware(authService service.AuthServiceInterface) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate принимает токен из заголовка Authorization: Bearer или из cookie token
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWithMessage(c, http.StatusUnauthorized, "Please Login to access this resource")
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				abortWithMessage(c, http.StatusUnauthorized, "Token has expired")
			case errors.Is(err, service.ErrTokenBlacklisted), errors.Is(err, service.ErrInvalidToken):
				abortWithMessage(c, http.StatusUnauthorized, "Invalid token")
			default:
				logger.Error().Err(err).Msg("Failed to validate token")
				abortWithMessage(c, http.StatusInternalServerError, "Internal Server Error")
			}
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("role", claims.Role)
		c.Set("token", token)

		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из ролей
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		abortWithMessage(c, http.StatusForbidden, "Role: "+role+" is not allowed to access this resource")
	}
}

func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
