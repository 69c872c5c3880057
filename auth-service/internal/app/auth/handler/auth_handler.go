package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/service"
	"shopkart/pkg/logger"
)

type AuthHandler struct {
	authService service.AuthServiceInterface
	validator   *validator.Validate
}

func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator.New(),
	}
}

// Register POST /api/v1/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	c.JSON(http.StatusCreated, resp)
}

// Login POST /api/v1/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

// RefreshToken POST /api/v1/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req entity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

// Logout GET /api/v1/logout
// Работает и без токена: cookie очищается в любом случае
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := extractToken(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.handleError(c, err)
			return
		}
	}

	h.clearTokenCookie(c)
	respondMessage(c, http.StatusOK, true, "Logged Out")
}

// ForgotPassword POST /api/v1/password/forget
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req entity.ForgotPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Reset Token has been sent to "+user.Email)
}

// ResetPassword PUT /api/v1/password/reset/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req entity.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &req); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Password Changed Successfully")
}

// UpdatePassword PUT /api/v1/password/update
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req entity.UpdatePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.UpdatePassword(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.setTokenCookie(c, resp.Token)
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondMessage(c, http.StatusBadRequest, false, "Invalid request body")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		respondMessage(c, http.StatusBadRequest, false, formatValidationError(err))
		return false
	}
	return true
}

// setTokenCookie cookie живет столько же, сколько access токен
func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.AccessTokenDuration() / time.Second)
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(TokenCookie, token, maxAge, "/", "", true, true)
}

func (h *AuthHandler) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", true, true)
}

func (h *AuthHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		respondMessage(c, http.StatusConflict, false, "User with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondMessage(c, http.StatusUnauthorized, false, "Incorrect Email or Password")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		respondMessage(c, http.StatusUnauthorized, false, "Invalid or expired refresh token")
	case errors.Is(err, service.ErrUserNotFound):
		respondMessage(c, http.StatusNotFound, false, "User not found")
	case errors.Is(err, service.ErrInvalidResetToken):
		respondMessage(c, http.StatusUnauthorized, false, "Reset Password Token is invalid or has been expired")
	case errors.Is(err, service.ErrPasswordMismatch):
		respondMessage(c, http.StatusBadRequest, false, "Password does not match")
	case errors.Is(err, service.ErrWrongOldPassword):
		respondMessage(c, http.StatusBadRequest, false, "Old Password is Invalid")
	case errors.Is(err, service.ErrConcurrentUpdate):
		respondMessage(c, http.StatusConflict, false, "User was modified concurrently, please retry")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Auth request failed")
		respondMessage(c, http.StatusInternalServerError, false, "Internal Server Error")
	}
}

func respondMessage(c *gin.Context, status int, success bool, message string) {
	c.JSON(status, entity.MessageResponse{Success: success, Message: message})
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
