package models

import (
	"time"

	"github.com/google/uuid"
)

// CartEntry is one (user, product) row. The carts table carries a unique
// index on (user_id, product_id), so a second add for the same product fails
// at insert time instead of racing a read-then-write duplicate check.
type CartEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartResponse struct {
	Items []CartEntry `json:"items"`
	Total float64     `json:"total"`
}
