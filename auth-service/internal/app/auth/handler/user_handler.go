package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shopkart/auth-service/internal/app/auth/entity"
	"shopkart/auth-service/internal/app/auth/service"
	"shopkart/pkg/logger"
)

// UserHandler профиль, избранное, недавно просмотренные и админка пользователей
type UserHandler struct {
	userService service.UserServiceInterface
	listService service.ListServiceInterface
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserServiceInterface, listService service.ListServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
		listService: listService,
		validator:   validator.New(),
	}
}

// GetMe GET /api/v1/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.UserResponse{Success: true, User: user})
}

// UpdateProfile PUT /api/v1/me/update
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req entity.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if _, err := h.userService.UpdateProfile(c.Request.Context(), c.GetString("user_id"), &req); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Profile Updated Successfully")
}

// ToggleWishList PUT /api/v1/addToWishList
func (h *UserHandler) ToggleWishList(c *gin.Context) {
	var req entity.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	added, err := h.listService.ToggleWishList(c.Request.Context(), c.GetString("user_id"), req.ProductID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if added {
		respondMessage(c, http.StatusOK, true, "Product is added to My Wishlist")
		return
	}
	respondMessage(c, http.StatusOK, true, "Product is removed from Wishlist")
}

// RecordView POST /api/v1/recentlyViewed
func (h *UserHandler) RecordView(c *gin.Context) {
	var req entity.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.listService.RecordView(c.Request.Context(), c.GetString("user_id"), req.ProductID); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Product added to recently viewed")
}

// GetRecentlyViewed GET /api/v1/getRecentlyViewedProduct
func (h *UserHandler) GetRecentlyViewed(c *gin.Context) {
	list, err := h.listService.GetRecentlyViewed(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.RecentlyViewedResponse{Success: true, RecentlyViewed: list})
}

// ListUsers GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.UserListResponse{Success: true, Users: users})
}

// GetUser GET /api/v1/admin/user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.UserResponse{Success: true, User: user})
}

// ToggleRole PUT /api/v1/admin/user/:id
func (h *UserHandler) ToggleRole(c *gin.Context) {
	if _, err := h.userService.ToggleRole(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Role Updated")
}

// DeleteUser DELETE /api/v1/admin/user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "User Deleted Successfully")
}

func (h *UserHandler) bindJSON(c *gin.Context, req interface{}) bool {
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

func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		respondMessage(c, http.StatusNotFound, false, "User not found")
	case errors.Is(err, service.ErrProductNotFound):
		respondMessage(c, http.StatusNotFound, false, "Product Not Found")
	case errors.Is(err, service.ErrAlreadyViewed):
		respondMessage(c, http.StatusConflict, false, "Product already in recently viewed")
	case errors.Is(err, service.ErrUserExists):
		respondMessage(c, http.StatusConflict, false, "User with this email already exists")
	case errors.Is(err, service.ErrConcurrentUpdate):
		respondMessage(c, http.StatusConflict, false, "User was modified concurrently, please retry")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("User request failed")
		respondMessage(c, http.StatusInternalServerError, false, "Internal Server Error")
	}
}
