package entity

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecentlyViewedCapacity максимальная длина списка недавно просмотренных
const RecentlyViewedCapacity = 10

// ErrAlreadyViewed товар уже есть в списке недавно просмотренных; список не меняется
var ErrAlreadyViewed = errors.New("product already in recently viewed")

// EvictionPolicy какой конец списка вытесняется при переполнении.
// Список хранится от нового к старому: новый элемент всегда первый.
type EvictionPolicy string

const (
	// EvictOldest удаляет самый старый элемент (хвост списка)
	EvictOldest EvictionPolicy = "oldest"
	// EvictNewest удаляет последний добавленный элемент (голову списка)
	EvictNewest EvictionPolicy = "newest"
)

// ParseEvictionPolicy разбирает значение RECENTLY_VIEWED_EVICTION
func ParseEvictionPolicy(value string) (EvictionPolicy, error) {
	switch EvictionPolicy(value) {
	case "", EvictOldest:
		return EvictOldest, nil
	case EvictNewest:
		return EvictNewest, nil
	default:
		return "", fmt.Errorf("unknown eviction policy %q", value)
	}
}

// RecordView добавляет товар в начало списка недавно просмотренных.
// Повторный просмотр возвращает ErrAlreadyViewed без изменений.
// Длина списка никогда не превышает RecentlyViewedCapacity.
func (u *User) RecordView(entry ListEntry, policy EvictionPolicy) error {
	if indexOf(u.RecentlyViewed, entry.Product) >= 0 {
		return ErrAlreadyViewed
	}

	list := u.RecentlyViewed
	for len(list) >= RecentlyViewedCapacity {
		if policy == EvictNewest {
			list = list[1:]
		} else {
			list = list[:len(list)-1]
		}
	}

	updated := make([]ListEntry, 0, len(list)+1)
	updated = append(updated, entry)
	updated = append(updated, list...)
	u.RecentlyViewed = updated

	return nil
}

// ToggleWishList добавляет товар в избранное или убирает его оттуда.
// Возвращает true, если товар был добавлен.
func (u *User) ToggleWishList(entry ListEntry) bool {
	if i := indexOf(u.WishList, entry.Product); i >= 0 {
		u.WishList = append(u.WishList[:i:i], u.WishList[i+1:]...)
		return false
	}

	u.WishList = append(u.WishList, entry)
	return true
}

func indexOf(list []ListEntry, product primitive.ObjectID) int {
	for i := range list {
		if list[i].Product == product {
			return i
		}
	}
	return -1
}
