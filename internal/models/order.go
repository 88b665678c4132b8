package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

type PaymentMethod string

const (
	OrderStatusBooked    OrderStatus = "BOOKED"
	OrderStatusPurchased OrderStatus = "PURCHASED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
	OrderStatusDelivered OrderStatus = "DELIVERED"

	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

// ValidOrderStatus reports whether s is a member of the authoritative enum.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusBooked, OrderStatusPurchased, OrderStatusCancelled,
		OrderStatusExpired, OrderStatusDelivered:
		return true
	}

	return false
}

// OrderItem snapshots a product line at purchase time. UnitPrice and
// ProductName are copied from the catalog so later product edits or
// deletions do not rewrite order history.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
	UnitPrice   float64   `json:"unit_price"`
	LineTotal   float64   `json:"line_total"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	Status        OrderStatus   `json:"status"`
	Items         []OrderItem   `json:"items"`
	TotalAmount   float64       `json:"total_amount"`
	GST           float64       `json:"gst"`
	Shipping      float64       `json:"shipping"`
	GrandTotal    float64       `json:"grand_total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	DeliveryDate  *time.Time    `json:"delivery_date,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type CreateOrderItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type CreateOrderRequest struct {
	Items         []CreateOrderItem `json:"items" validate:"required,min=1,dive"`
	PaymentMethod PaymentMethod     `json:"payment_method" validate:"required,oneof=COD ONLINE"`
}

type UpdateOrderStatusRequest struct {
	Status       OrderStatus `json:"status" validate:"required,oneof=BOOKED PURCHASED CANCELLED EXPIRED DELIVERED"`
	DeliveryDate *time.Time  `json:"delivery_date,omitempty"`
}

// CreateOrderResponse carries the Stripe client secret when the order was
// placed with the ONLINE payment method.
type CreateOrderResponse struct {
	Order        *Order `json:"order"`
	ClientSecret string `json:"client_secret,omitempty"`
}
