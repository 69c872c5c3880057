package entity

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToListEntry превращает ответ каталога в элемент списка пользователя
func (p *ProductSnapshot) ToListEntry() (ListEntry, error) {
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return ListEntry{}, fmt.Errorf("invalid product id %q: %w", p.ID, err)
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0].URL
	}

	return ListEntry{
		Product:      id,
		Name:         p.Name,
		Price:        p.Price,
		Image:        image,
		Rating:       p.Ratings,
		Discount:     p.Discount,
		NumOfReviews: p.NumOfReviews,
		CuttedPrice:  p.CuttedPrice,
	}, nil
}
