package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistEntry mirrors CartEntry without a quantity. Same one-row-per
// (user, product) invariant, enforced by the same kind of unique index.
type WishlistEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AddWishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type WishlistResponse struct {
	Items []WishlistEntry `json:"items"`
}
