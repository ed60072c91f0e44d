package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin      = "admin"
	RoleVendor     = "vendor"
	RolePharmacist = "pharmacist"
)

type User struct {
	ID                  uuid.UUID  `gorm:"primaryKey"       json:"id"`
	FirstName           string     `gorm:"not null"         json:"first_name"`
	LastName            string     `gorm:"not null"         json:"last_name"`
	Email               string     `gorm:"unique;not null"  json:"email"`
	Phone               string     `gorm:"not null"         json:"phone"`
	Address             string     `json:"address"`
	PostalCode          string     `json:"postal_code"`
	City                string     `json:"city"`
	Country             string     `json:"country"`
	PasswordHash        string     `gorm:"not null"         json:"-"`
	Role                string     `gorm:"not null;default:pharmacist" json:"role"`
	IsVerified          bool       `gorm:"default:false"    json:"is_verified"`
	VerificationToken   string     `gorm:"index"            json:"-"`
	ResetPasswordToken  string     `gorm:"index"            json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
	StripeCustomerID    string     `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Category struct {
	ID        uuid.UUID `gorm:"primaryKey"      json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Product struct {
	ID              uuid.UUID `gorm:"primaryKey"        json:"id"`
	Name            string    `gorm:"not null"          json:"name"`
	Description     string    `gorm:"not null"          json:"description"`
	Images          []Image   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	LambdaUserPrice float64   `gorm:"not null"          json:"lambda_user_price"`
	PharmacistPrice float64   `gorm:"not null"          json:"pharmacist_price"`
	Size            string    `gorm:"not null"          json:"size"`
	Datasheet       string    `json:"datasheet,omitempty"`
	Qty             int       `gorm:"not null;default:0" json:"qty"`
	CategoryID      uuid.UUID `gorm:"index;not null"    json:"category_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Image struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	ProductID uuid.UUID `gorm:"index;not null" json:"-"`
	Path      string    `gorm:"not null"       json:"path"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Cart is keyed by owner lookup only; the at-most-one-line-per-product rule
// is maintained by the reconciler and backed by idx_cart_product.
type Cart struct {
	ID        uuid.UUID  `gorm:"primaryKey"     json:"id"`
	UserID    uuid.UUID  `gorm:"index;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                              json:"id"`
	CartID    uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"   json:"-"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_cart_product;not null"   json:"product_id"`
	Quantity  int       `gorm:"not null"                                json:"quantity"`
	Position  int       `gorm:"not null"                                json:"-"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Stock is the per-pharmacist inventory ledger. Unlike Cart, ownership here
// is a storage-level uniqueness constraint.
type Stock struct {
	ID           uuid.UUID   `gorm:"primaryKey"           json:"id"`
	PharmacistID uuid.UUID   `gorm:"uniqueIndex;not null" json:"pharmacist_id"`
	Items        []StockItem `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (s *Stock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type StockItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                             json:"id"`
	StockID   uuid.UUID `gorm:"uniqueIndex:idx_stock_product;not null" json:"-"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_stock_product;not null" json:"product_id"`
	Quantity  int       `gorm:"not null"                               json:"quantity"`
	Position  int       `gorm:"not null"                               json:"-"`
}

func (i *StockItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (StockItem) TableName() string {
	return "stock_items"
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentResult struct {
	ProviderID   string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// Order is an immutable snapshot of the submitted payload; only the payment
// and delivery flags change after creation.
type Order struct {
	ID              uuid.UUID       `gorm:"primaryKey"     json:"id"`
	UserID          uuid.UUID       `gorm:"index;not null" json:"user_id"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	ItemsPrice      float64         `json:"items_price"`
	TaxPrice        float64         `json:"tax_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TotalPrice      float64         `json:"total_price"`
	IsPaid          bool            `gorm:"default:false" json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	PaymentResult   PaymentResult   `gorm:"embedded;embeddedPrefix:payment_result_" json:"payment_result"`
	IsDelivered     bool            `gorm:"default:false" json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null" json:"-"`
	ProductID uuid.UUID `gorm:"not null"       json:"product_id"`
	Name      string    `gorm:"not null"       json:"name"`
	Qty       int       `gorm:"not null"       json:"qty"`
	Image     string    `json:"image"`
	Price     float64   `gorm:"not null"       json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type UserAddress struct {
	ID         uuid.UUID `gorm:"primaryKey"     json:"id"`
	UserID     uuid.UUID `gorm:"index;not null" json:"user_id"`
	Address    string    `gorm:"not null"       json:"address"`
	City       string    `gorm:"not null"       json:"city"`
	PostalCode string    `gorm:"not null"       json:"postal_code"`
	Country    string    `gorm:"not null"       json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a *UserAddress) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (UserAddress) TableName() string {
	return "user_addresses"
}

// PaymentMethod is the single persisted representation of a stored card; the
// provider id is not duplicated on User.
type PaymentMethod struct {
	ID               uuid.UUID `gorm:"primaryKey"      json:"id"`
	UserID           uuid.UUID `gorm:"index;not null"  json:"user_id"`
	ProviderMethodID string    `gorm:"unique;not null" json:"provider_method_id"`
	Brand            string    `gorm:"not null"        json:"brand"`
	Last4            string    `gorm:"not null"        json:"last4"`
	ExpMonth         int       `gorm:"not null"        json:"exp_month"`
	ExpYear          int       `gorm:"not null"        json:"exp_year"`
	CreatedAt        time.Time `json:"created_at"`
}

func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (PaymentMethod) TableName() string {
	return "payment_methods"
}

// All lists every model for migration, in dependency order.
func All() []any {
	return []any{
		&User{}, &Category{}, &Product{}, &Image{},
		&Cart{}, &CartItem{}, &Stock{}, &StockItem{},
		&Order{}, &OrderItem{}, &UserAddress{}, &PaymentMethod{},
	}
}
