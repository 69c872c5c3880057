package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image изображение в медиа-хранилище
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

// Brand бренд товара
type Brand struct {
	Name  string `json:"name" bson:"name"`
	Image Image  `json:"image" bson:"image"`
}

// Review отзыв покупателя, хранится внутри документа товара
type Review struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	User    primitive.ObjectID `json:"user" bson:"user"`
	Name    string             `json:"name" bson:"name"`
	Rating  float64            `json:"rating" bson:"rating"`
	Comment string             `json:"comment" bson:"comment"`
}

// Product товар каталога (коллекция products)
// Ratings и NumOfReviews производные от Reviews, см. RecalculateRating
type Product struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Price        float64            `json:"price" bson:"price"`
	CuttedPrice  float64            `json:"cuttedPrice" bson:"cuttedPrice"`
	Offers       []string           `json:"offers" bson:"offers"`
	Highlights   []string           `json:"highlights" bson:"highlights"`
	Warranty     string             `json:"warranty,omitempty" bson:"warranty,omitempty"`
	Ratings      float64            `json:"ratings" bson:"ratings"`
	Images       []Image            `json:"images" bson:"images"`
	Category     string             `json:"category" bson:"category"`
	Brand        Brand              `json:"brand" bson:"brand"`
	Stock        int                `json:"stock" bson:"stock"`
	Discount     float64            `json:"discount" bson:"discount"`
	NumOfReviews int                `json:"numOfReviews" bson:"numOfReviews"`
	Reviews      []Review           `json:"reviews" bson:"reviews"`
	User         primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	Version      int64              `json:"-" bson:"version"`
}

// ProductEvent событие изменения товара или его отзывов для Kafka
type ProductEvent struct {
	EventType    string    `json:"event_type"` // PRODUCT_CREATED, PRODUCT_UPDATED, PRODUCT_DELETED, REVIEW_SUBMITTED, REVIEW_DELETED
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name,omitempty"`
	Price        float64   `json:"price,omitempty"`
	Stock        int       `json:"stock"`
	Ratings      float64   `json:"ratings"`
	NumOfReviews int       `json:"numOfReviews"`
	UserID       string    `json:"user_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

const (
	EventProductCreated  = "PRODUCT_CREATED"
	EventProductUpdated  = "PRODUCT_UPDATED"
	EventProductDeleted  = "PRODUCT_DELETED"
	EventReviewSubmitted = "REVIEW_SUBMITTED"
	EventReviewDeleted   = "REVIEW_DELETED"
)

// NewProductEvent снимок товара для события
func NewProductEvent(eventType string, p *Product, userID string) ProductEvent {
	return ProductEvent{
		EventType:    eventType,
		ProductID:    p.ID.Hex(),
		Name:         p.Name,
		Price:        p.Price,
		Stock:        p.Stock,
		Ratings:      p.Ratings,
		NumOfReviews: p.NumOfReviews,
		UserID:       userID,
		Timestamp:    time.Now(),
	}
}
