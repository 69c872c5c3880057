package service

import (
	"context"
	"fmt"
	"io"

	"shopkart/catalog-service/internal/app/catalog/entity"
	"shopkart/catalog-service/internal/app/catalog/query"
	"shopkart/catalog-service/internal/app/catalog/repository"
	"shopkart/catalog-service/internal/app/catalog/util"
	"shopkart/pkg/logger"
	"shopkart/pkg/messaging"
	"shopkart/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogService поиск по каталогу и управление товарами
// Координирует репозиторий MongoDB, кеш Redis, медиа-хранилище и Kafka
type CatalogService struct {
	productRepo repository.ProductRepository
	cache       util.ProductCache
	media       util.MediaStore
	publisher   messaging.Publisher
}

// NewCatalogService создает сервис каталога с внедрением зависимостей
func NewCatalogService(
	productRepo repository.ProductRepository,
	cache util.ProductCache,
	media util.MediaStore,
	publisher messaging.Publisher,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		cache:       cache,
		media:       media,
		publisher:   publisher,
	}
}

// ListProducts выполняет поиск по каталогу.
// productsCount считается по всей коллекции, filteredProductsCount по фильтру до пагинации,
// products содержит окно страницы того же фильтра.
func (s *CatalogService) ListProducts(ctx context.Context, params map[string][]string) (*entity.ProductListResponse, error) {
	filter, err := query.Translate(params)
	if err != nil {
		metrics.CatalogSearches.WithLabelValues("invalid").Inc()
		return nil, err
	}

	productsCount, err := s.productRepo.Count(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	filteredCount, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count filtered products: %w", err)
	}

	page := query.PageFromParams(params)
	products, err := s.productRepo.Find(ctx, filter, page.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if len(products) == 0 {
		metrics.CatalogSearches.WithLabelValues("empty").Inc()
	} else {
		metrics.CatalogSearches.WithLabelValues("hit").Inc()
	}

	return &entity.ProductListResponse{
		Success:               true,
		Products:              products,
		ProductsCount:         productsCount,
		ResultPerPage:         query.ResultPerPage,
		FilteredProductsCount: filteredCount,
	}, nil
}

// GetProduct возвращает карточку товара, сначала из кеша Redis
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	cached, err := s.cache.GetProduct(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to read product cache")
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError("get product", err)
	}

	if err := s.cache.SetProduct(ctx, product, util.ProductDetailsTTL); err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to cache product")
	}

	return product, nil
}

// AdminListProducts все товары со счетчиками наличия
func (s *CatalogService) AdminListProducts(ctx context.Context) (*entity.AdminProductListResponse, error) {
	productsCount, err := s.productRepo.Count(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	products, err := s.productRepo.Find(ctx, bson.D{}, options.Find().SetSort(query.SortOrder))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	outOfStock := 0
	for _, p := range products {
		if p.Stock == 0 {
			outOfStock++
		}
	}

	return &entity.AdminProductListResponse{
		Success:       true,
		Products:      products,
		OutOfStock:    outOfStock,
		InStock:       len(products) - outOfStock,
		ProductsCount: productsCount,
	}, nil
}

// CreateProduct загружает изображения и создает товар от имени администратора
func (s *CatalogService) CreateProduct(ctx context.Context, adminID string, input *entity.ProductInput, images []io.Reader) (*entity.Product, error) {
	if len(images) == 0 {
		return nil, ErrImagesRequired
	}

	owner, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner id: %w", err)
	}

	uploaded, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		User:   owner,
		Images: uploaded,
	}
	applyInput(product, input)

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.destroyImages(ctx, uploaded)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	messaging.PublishEvent(ctx, s.publisher, product.ID.Hex(), entity.NewProductEvent(entity.EventProductCreated, product, adminID))

	logger.Info().
		Str("product_id", product.ID.Hex()).
		Str("admin_id", adminID).
		Int("images", len(uploaded)).
		Msg("Product created")

	return product, nil
}

// UpdateProduct обновляет поля товара; если переданы изображения, старые заменяются
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input *entity.ProductInput, images []io.Reader) (*entity.Product, error) {
	var uploaded []entity.Image
	if len(images) > 0 {
		// Проверяем существование до загрузки, чтобы не оставлять лишние файлы
		if _, err := s.productRepo.GetByID(ctx, id); err != nil {
			return nil, mapRepositoryError("get product", err)
		}

		var err error
		uploaded, err = s.uploadImages(ctx, images)
		if err != nil {
			return nil, err
		}
	}

	var replaced []entity.Image
	product, err := updateProduct(ctx, s.productRepo, id, func(p *entity.Product) error {
		applyInput(p, input)
		replaced = nil
		if uploaded != nil {
			replaced = p.Images
			p.Images = uploaded
		}
		return nil
	}, s.productRepo.Update)
	if err != nil {
		s.destroyImages(ctx, uploaded)
		return nil, err
	}

	s.destroyImages(ctx, replaced)
	s.invalidate(ctx, id)
	messaging.PublishEvent(ctx, s.publisher, id, entity.NewProductEvent(entity.EventProductUpdated, product, ""))

	return product, nil
}

// DeleteProduct удаляет товар и его изображения
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return mapRepositoryError("get product", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return mapRepositoryError("delete product", err)
	}

	s.destroyImages(ctx, product.Images)
	s.invalidate(ctx, id)
	messaging.PublishEvent(ctx, s.publisher, id, entity.NewProductEvent(entity.EventProductDeleted, product, ""))

	return nil
}

func (s *CatalogService) uploadImages(ctx context.Context, images []io.Reader) ([]entity.Image, error) {
	uploaded := make([]entity.Image, 0, len(images))
	for _, image := range images {
		img, err := s.media.Upload(ctx, image)
		if err != nil {
			s.destroyImages(ctx, uploaded)
			return nil, fmt.Errorf("failed to upload product image: %w", err)
		}
		uploaded = append(uploaded, img)
	}
	return uploaded, nil
}

// destroyImages удаляет изображения из хранилища; ошибки только логируются
func (s *CatalogService) destroyImages(ctx context.Context, images []entity.Image) {
	for _, img := range images {
		if err := s.media.Destroy(ctx, img.PublicID); err != nil {
			logger.Warn().Err(err).Str("public_id", img.PublicID).Msg("Failed to delete product image")
		}
	}
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		logger.Warn().Err(err).Str("product_id", id).Msg("Failed to invalidate product cache")
	}
}

func applyInput(p *entity.Product, input *entity.ProductInput) {
	p.Name = input.Name
	p.Description = input.Description
	p.Category = input.Category
	p.Price = input.Price
	p.CuttedPrice = input.CuttedPrice
	p.Discount = input.Discount
	p.Stock = input.Stock
	p.Warranty = input.Warranty
	p.Offers = nonNil(input.Offers)
	p.Highlights = nonNil(input.Highlights)
	if input.BrandName != "" {
		p.Brand.Name = input.BrandName
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
