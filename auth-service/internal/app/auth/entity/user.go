package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User учетная запись покупателя (коллекция users)
type User struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name"`
	Email               string             `json:"email" bson:"email"`
	PasswordHash        string             `json:"-" bson:"password"`
	Role                string             `json:"role" bson:"role"`
	WishList            []ListEntry        `json:"wishList" bson:"wishList"`
	RecentlyViewed      []ListEntry        `json:"recentlyViewed" bson:"recentlyViewed"`
	ResetPasswordToken  string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time         `json:"-" bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	Version             int64              `json:"-" bson:"version"`
}

// ListEntry снимок товара в избранном или в недавно просмотренных.
// Заполняется в момент добавления и дальше не синхронизируется с каталогом.
type ListEntry struct {
	Product      primitive.ObjectID `json:"product" bson:"product"`
	Name         string             `json:"name" bson:"name"`
	Price        float64            `json:"price" bson:"price"`
	Image        string             `json:"image" bson:"image"`
	Rating       float64            `json:"rating" bson:"rating"`
	Discount     float64            `json:"discount,omitempty" bson:"discount,omitempty"`
	NumOfReviews int                `json:"numOfReviews" bson:"numOfReviews"`
	CuttedPrice  float64            `json:"cuttedPrice" bson:"cuttedPrice"`
}

// ClearPasswordReset сбрасывает выданный токен восстановления пароля
func (u *User) ClearPasswordReset() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = nil
}

// ToggleRole переключает роль user <-> admin
func (u *User) ToggleRole() {
	if u.Role == RoleUser {
		u.Role = RoleAdmin
		return
	}
	u.Role = RoleUser
}
