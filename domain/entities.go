package domain

import (
	"encoding/json"
	"time"
)

// User represents the signed-in user as reported by the upstream API
type User struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session binds a gateway session to the upstream bearer token
type Session struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	UserID     uint      `json:"user_id"`
	Role       Role      `json:"role"`
	Generation int64     `json:"generation"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Credentials represents a login attempt
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration represents a sign-up request forwarded upstream
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginResult is returned after a successful login or registration
type LoginResult struct {
	User         *User
	SessionID    string
	SessionToken string
	Redirect     string
	ExpiresIn    int64
}

// Product mirrors the upstream product resource
type Product struct {
	ID          Int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Float  `json:"price"`
	Stock       Int    `json:"stock"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsActive    Bool   `json:"is_active"`
}

// ProductInput is the payload for creating or updating a product
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	Category    string  `json:"category,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CartItem mirrors one line of the upstream cart
type CartItem struct {
	ID        Int      `json:"id"`
	ProductID Int      `json:"product_id"`
	Quantity  Int      `json:"quantity"`
	Price     Float    `json:"price"`
	Subtotal  Float    `json:"subtotal"`
	Product   *Product `json:"product,omitempty"`
}

// Cart mirrors the upstream cart resource
type Cart struct {
	ID    Int        `json:"id"`
	Items []CartItem `json:"items"`
	Total Float      `json:"total"`
}

// UnmarshalJSON accepts both the items/total and cart_items/total_amount
// spellings used by the backend
func (c *Cart) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          Int        `json:"id"`
		Items       []CartItem `json:"items"`
		CartItems   []CartItem `json:"cart_items"`
		Total       *Float     `json:"total"`
		TotalAmount *Float     `json:"total_amount"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Items = raw.Items
	if c.Items == nil {
		c.Items = raw.CartItems
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	c.Total = 0
	switch {
	case raw.Total != nil:
		c.Total = *raw.Total
	case raw.TotalAmount != nil:
		c.Total = *raw.TotalAmount
	}
	return nil
}

// Summary computes the offline cart summary. An upstream total wins over
// the sum of lines when present.
func (c *Cart) Summary(now time.Time) CartSummary {
	s := CartSummary{UpdatedAt: now}
	var total float64
	for _, item := range c.Items {
		s.ItemCount += int64(item.Quantity)
		line := float64(item.Subtotal)
		if line == 0 {
			line = float64(item.Price) * float64(item.Quantity)
		}
		total += line
	}
	s.Total = total
	if c.Total != 0 {
		s.Total = float64(c.Total)
	}
	return s
}

// CartSummary is the cached cart state shown while the backend is unreachable
type CartSummary struct {
	ItemCount int64     `json:"item_count"`
	Total     float64   `json:"total"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItemInput is the payload for adding or updating a cart line
type CartItemInput struct {
	ProductID uint  `json:"product_id,omitempty"`
	Quantity  int64 `json:"quantity"`
}

// OrderItem mirrors one line of an upstream order
type OrderItem struct {
	ID        Int      `json:"id"`
	ProductID Int      `json:"product_id"`
	Quantity  Int      `json:"quantity"`
	Price     Float    `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

// Order mirrors the upstream order resource
type Order struct {
	ID            Int         `json:"id"`
	UserID        Int         `json:"user_id"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status,omitempty"`
	Total         Float       `json:"total_amount"`
	Items         []OrderItem `json:"items,omitempty"`
	CreatedAt     string      `json:"created_at,omitempty"`
}

// OrderInput is the payload for placing an order
type OrderInput struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// StatusUpdate is the payload for order status and payment transitions
type StatusUpdate struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}

// RequestOrder mirrors a restocking request that needs admin and
// warehouse approval
type RequestOrder struct {
	ID                Int    `json:"id"`
	ProductID         Int    `json:"product_id"`
	Quantity          Int    `json:"quantity"`
	Status            string `json:"status"`
	AdminApproved     Bool   `json:"admin_approved"`
	WarehouseApproved Bool   `json:"warehouse_approved"`
	Notes             string `json:"notes,omitempty"`
}

// Approval is the payload for approving or rejecting a request order
type Approval struct {
	Approved bool   `json:"approved"`
	Notes    string `json:"notes,omitempty"`
}

// Dashboard is the per-role dashboard payload. Its shape differs by role,
// so the body is carried through untouched.
type Dashboard struct {
	Role Role           `json:"role"`
	Data map[string]any `json:"data"`
}
