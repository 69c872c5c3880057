package util

import (
	"context"
	"errors"
	"fmt"
	"io"

	"shopkart/catalog-service/internal/app/catalog/entity"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ProductImagesFolder папка изображений товаров в Cloudinary
const ProductImagesFolder = "products"

// CloudinaryStore хранилище изображений в Cloudinary
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore создает клиент Cloudinary по имени облака и ключам API
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: ProductImagesFolder}, nil
}

// Upload загружает файл и возвращает public_id и https ссылку
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader) (entity.Image, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: s.folder})
	if err != nil {
		return entity.Image{}, fmt.Errorf("failed to upload image: %w", err)
	}
	if resp.Error.Message != "" {
		return entity.Image{}, fmt.Errorf("failed to upload image: %s", resp.Error.Message)
	}

	return entity.Image{PublicID: resp.PublicID, URL: resp.SecureURL}, nil
}

// Destroy удаляет изображение по public_id
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to destroy image: %w", err)
	}
	if resp.Error.Message != "" {
		return errors.New("failed to destroy image: " + resp.Error.Message)
	}
	return nil
}
