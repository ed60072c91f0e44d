package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/parapharma/shop/internal/models"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
}

type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
}

type PlaceOrderRequest struct {
	OrderItems      []OrderItemInput       `json:"order_items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	ItemsPrice      float64                `json:"items_price"`
	TaxPrice        float64                `json:"tax_price"`
	ShippingPrice   float64                `json:"shipping_price"`
	TotalPrice      float64                `json:"total_price"`
}

type PaymentResultRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type CreateIntentRequest struct {
	OrderID uuid.UUID `json:"order_id"`
	Amount  int64     `json:"amount"`
}

type CreateIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	CustomerID      string `json:"customer_id"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

type AddressRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ProductView hides the price the caller's role is not entitled to see;
// admins see both.
type ProductView struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Images          []models.Image `json:"images"`
	Price           float64        `json:"price"`
	LambdaUserPrice *float64       `json:"lambda_user_price,omitempty"`
	PharmacistPrice *float64       `json:"pharmacist_price,omitempty"`
	Size            string         `json:"size"`
	Datasheet       string         `json:"datasheet,omitempty"`
	Qty             int            `json:"qty"`
	CategoryID      uuid.UUID      `json:"category_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func NewProductView(p models.Product, role string) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Size:        p.Size,
		Datasheet:   p.Datasheet,
		Qty:         p.Qty,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	switch role {
	case models.RoleAdmin:
		lambda, pharmacist := p.LambdaUserPrice, p.PharmacistPrice
		v.LambdaUserPrice = &lambda
		v.PharmacistPrice = &pharmacist
		v.Price = lambda
	case models.RolePharmacist:
		v.Price = p.PharmacistPrice
	default:
		v.Price = p.LambdaUserPrice
	}
	return v
}

type CartLineView struct {
	Product  ProductView `json:"product"`
	Quantity int         `json:"quantity"`
}

type CartView struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Items     []CartLineView `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StockLineView is the narrow projection the stock endpoints expose: no full
// product, just id, name and quantity.
type StockLineView struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
}

type StockView struct {
	ID           uuid.UUID       `json:"id"`
	PharmacistID uuid.UUID       `json:"pharmacist_id"`
	Items        []StockLineView `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type ListMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
