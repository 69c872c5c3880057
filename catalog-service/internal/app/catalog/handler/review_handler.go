package handler

import (
	"errors"
	"net/http"

	"shopkart/catalog-service/internal/app/catalog/entity"
	"shopkart/catalog-service/internal/app/catalog/service"
	"shopkart/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// SubmitReview PUT /review
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req entity.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respondMessage(c, http.StatusBadRequest, false, formatValidationError(err))
		return
	}

	reviewer := entity.Reviewer{
		ID:   c.GetString("user_id"),
		Name: c.GetString("name"),
	}

	if _, err := h.reviewService.SubmitReview(c.Request.Context(), reviewer, &req); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Thanks for your feedback.")
}

// GetReviews GET /reviews?id=<productId>
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	productID := c.Query("id")
	if productID == "" {
		respondMessage(c, http.StatusBadRequest, false, "Product ID is required")
		return
	}

	reviews, err := h.reviewService.GetReviews(c.Request.Context(), productID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{Success: true, Reviews: reviews})
}

// DeleteReview DELETE /reviews?productId=<productId>&id=<reviewId>
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	productID, reviewID := c.Query("productId"), c.Query("id")
	if productID == "" || reviewID == "" {
		respondMessage(c, http.StatusBadRequest, false, "productId and id are required")
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), productID, reviewID); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Review Delete Successfully")
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondMessage(c, http.StatusNotFound, false, "Product not found")
	case errors.Is(err, service.ErrReviewNotFound):
		respondMessage(c, http.StatusNotFound, false, "Review not found")
	case errors.Is(err, service.ErrInvalidProductID):
		respondMessage(c, http.StatusBadRequest, false, "Resource not found. Invalid: _id")
	case errors.Is(err, service.ErrInvalidReviewer):
		respondMessage(c, http.StatusUnauthorized, false, "Invalid user")
	case errors.Is(err, service.ErrConcurrentUpdate):
		respondMessage(c, http.StatusConflict, false, "Product was modified concurrently, please retry")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Review request failed")
		respondMessage(c, http.StatusInternalServerError, false, "Internal Server Error")
	}
}
