package handler

import (
	"errors"
	"io"
	"net/http"

	"shopkart/catalog-service/internal/app/catalog/entity"
	"shopkart/catalog-service/internal/app/catalog/service"
	"shopkart/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxUploadMemory объем multipart формы, который держится в памяти
const maxUploadMemory = 32 << 20

type ProductHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

func NewProductHandler(catalogService service.CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// ListProducts GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	resp, err := h.catalogService.ListProducts(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProduct GET /product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ProductResponse{Success: true, Product: product})
}

// AdminListProducts GET /admin/products
func (h *ProductHandler) AdminListProducts(c *gin.Context) {
	resp, err := h.catalogService.AdminListProducts(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateProduct POST /admin/product/new (multipart: поля товара + images)
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	images, closeAll, err := openImages(c)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, false, "Invalid image upload")
		return
	}
	defer closeAll()

	if _, err := h.catalogService.CreateProduct(c.Request.Context(), c.GetString("user_id"), input, images); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, true, "Product Created Successfully")
}

// UpdateProduct PUT /admin/product/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	input, ok := h.bindInput(c)
	if !ok {
		return
	}

	images, closeAll, err := openImages(c)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, false, "Invalid image upload")
		return
	}
	defer closeAll()

	if _, err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), input, images); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Product Updated Successfully")
}

// DeleteProduct DELETE /admin/product/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, true, "Product Delete Successfully")
}

func (h *ProductHandler) bindInput(c *gin.Context) (*entity.ProductInput, bool) {
	var input entity.ProductInput
	if err := c.ShouldBind(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, false, "Invalid product form")
		return nil, false
	}

	if err := h.validator.Struct(input); err != nil {
		respondMessage(c, http.StatusBadRequest, false, formatValidationError(err))
		return nil, false
	}

	return &input, true
}

func (h *ProductHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		respondMessage(c, http.StatusNotFound, false, "Product not found")
	case errors.Is(err, service.ErrInvalidProductID):
		respondMessage(c, http.StatusBadRequest, false, "Resource not found. Invalid: _id")
	case errors.Is(err, service.ErrInvalidFilter):
		respondMessage(c, http.StatusBadRequest, false, err.Error())
	case errors.Is(err, service.ErrImagesRequired):
		respondMessage(c, http.StatusBadRequest, false, "Please add image")
	case errors.Is(err, service.ErrConcurrentUpdate):
		respondMessage(c, http.StatusConflict, false, "Product was modified concurrently, please retry")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Catalog request failed")
		respondMessage(c, http.StatusInternalServerError, false, "Internal Server Error")
	}
}

// openImages открывает файлы поля images; closeAll закрывает их
func openImages(c *gin.Context) ([]io.Reader, func(), error) {
	noop := func() {}

	form, err := c.MultipartForm()
	if err != nil {
		// Форма без файлов (например, urlencoded) - просто нет изображений
		return nil, noop, nil
	}

	var (
		readers []io.Reader
		closers []io.Closer
	)
	closeAll := func() {
		for _, f := range closers {
			_ = f.Close()
		}
	}

	for _, header := range form.File["images"] {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, noop, err
		}
		readers = append(readers, f)
		closers = append(closers, f)
	}

	return readers, closeAll, nil
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
