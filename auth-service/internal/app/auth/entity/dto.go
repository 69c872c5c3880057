package entity

import "time"

// RegisterRequest - запрос на регистрацию
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest - запрос на обновление токена
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// UpdatePasswordRequest - смена пароля авторизованным пользователем
type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// UpdateProfileRequest - пустые поля не меняются
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=30"`
	Email string `json:"email" validate:"omitempty,email"`
}

// ProductRequest - тело запросов избранного и недавно просмотренных
type ProductRequest struct {
	ProductID string `json:"productId" validate:"required,len=24,hexadecimal"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// AuthResponse ответ регистрации, входа и обновления токенов
type AuthResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	User         *User  `json:"user,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type UserResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

type UserListResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type RecentlyViewedResponse struct {
	Success        bool        `json:"success"`
	RecentlyViewed []ListEntry `json:"recentlyViewed"`
}

// MessageResponse ответ с сообщением (успех или ошибка)
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProductSnapshot поля товара, которые отдает catalog-service
type ProductSnapshot struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	CuttedPrice  float64 `json:"cuttedPrice"`
	Ratings      float64 `json:"ratings"`
	Discount     float64 `json:"discount"`
	NumOfReviews int     `json:"numOfReviews"`
	Images       []struct {
		URL string `json:"url"`
	} `json:"images"`
}

// UserEvent событие пользователя для Kafka (user_events)
type UserEvent struct {
	EventType string    `json:"event_type"` // USER_REGISTERED, PASSWORD_RESET_REQUESTED
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ResetURL  string    `json:"reset_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventUserRegistered         = "USER_REGISTERED"
	EventPasswordResetRequested = "PASSWORD_RESET_REQUESTED"
)
