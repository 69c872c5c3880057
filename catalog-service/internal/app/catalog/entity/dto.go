package entity

// ProductListResponse ответ поиска по каталогу
type ProductListResponse struct {
	Success               bool      `json:"success"`
	Products              []Product `json:"products"`
	ProductsCount         int64     `json:"productsCount"`
	ResultPerPage         int       `json:"resultPerPage"`
	FilteredProductsCount int64     `json:"filteredProductsCount"`
}

// AdminProductListResponse ответ списка товаров для администратора
type AdminProductListResponse struct {
	Success       bool      `json:"success"`
	Products      []Product `json:"products"`
	OutOfStock    int       `json:"outOfStock"`
	InStock       int       `json:"inStock"`
	ProductsCount int64     `json:"productsCount"`
}

// ProductInput поля товара из multipart формы администратора
type ProductInput struct {
	Name        string   `form:"name" validate:"required,min=2,max=200"`
	Description string   `form:"description" validate:"required"`
	Category    string   `form:"category" validate:"required"`
	Price       float64  `form:"price" validate:"required,gt=0"`
	CuttedPrice float64  `form:"cuttedPrice" validate:"required,gt=0"`
	Discount    float64  `form:"discount" validate:"gte=0,lte=100"`
	Stock       int      `form:"stock" validate:"gte=0,lte=9999"`
	Warranty    string   `form:"warranty"`
	Offers      []string `form:"offers"`
	Highlights  []string `form:"highlights"`
	BrandName   string   `form:"brandname"`
}

// SubmitReviewRequest запрос на создание или замену отзыва
type SubmitReviewRequest struct {
	ProductID string `json:"productId" validate:"required,len=24,hexadecimal"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"` // целое 1..5, дробное значение не декодируется
	Comment   string `json:"comment" validate:"required,max=2000"`
}

// Reviewer автор отзыва из JWT
type Reviewer struct {
	ID   string
	Name string
}

// ReviewListResponse отзывы товара
type ReviewListResponse struct {
	Success bool     `json:"success"`
	Reviews []Review `json:"reviews"`
}

// ProductResponse карточка товара
type ProductResponse struct {
	Success bool     `json:"success"`
	Product *Product `json:"product"`
}

// MessageResponse ответ с сообщением (успех или ошибка)
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
