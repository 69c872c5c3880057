package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// UpsertReview заменяет отзыв пользователя на месте или добавляет новый в конец.
// Возвращает true, если отзыв добавлен.
// При замене позиция и идентификатор отзыва сохраняются, NumOfReviews не меняется.
func (p *Product) UpsertReview(userID primitive.ObjectID, name string, rating float64, comment string) bool {
	for i := range p.Reviews {
		if p.Reviews[i].User == userID {
			p.Reviews[i].Rating = rating
			p.Reviews[i].Comment = comment
			p.RecalculateRating()
			return false
		}
	}

	p.Reviews = append(p.Reviews, Review{
		ID:      primitive.NewObjectID(),
		User:    userID,
		Name:    name,
		Rating:  rating,
		Comment: comment,
	})
	p.RecalculateRating()
	return true
}

// RemoveReview удаляет отзыв по идентификатору. false, если такого отзыва нет.
func (p *Product) RemoveReview(reviewID primitive.ObjectID) bool {
	kept := make([]Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.ID != reviewID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(p.Reviews) {
		return false
	}

	p.Reviews = kept
	p.RecalculateRating()
	return true
}

// RecalculateRating приводит Ratings и NumOfReviews в соответствие с Reviews
func (p *Product) RecalculateRating() {
	p.NumOfReviews = len(p.Reviews)
	if p.NumOfReviews == 0 {
		p.Ratings = 0
		return
	}

	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(p.NumOfReviews)
}
