package models

import (
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "FIXED"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
)

// Discount is a time-bounded, usage-capped promotional rule. An empty
// ApplicableProducts list means the discount covers the whole catalog.
// UsedBy holds every user that has redeemed it; once len(UsedBy) reaches
// TotalUsersAllowed the row deactivates itself.
type Discount struct {
	ID                 uuid.UUID    `json:"id"`
	Name               string       `json:"name"`
	DiscountType       DiscountType `json:"discount_type"`
	DiscountValue      float64      `json:"discount_value"`
	ApplicableProducts []uuid.UUID  `json:"applicable_products"`
	TotalUsersAllowed  int          `json:"total_users_allowed"`
	UsedBy             []uuid.UUID  `json:"used_by"`
	StartDate          time.Time    `json:"start_date"`
	EndDate            time.Time    `json:"end_date"`
	IsActive           bool         `json:"is_active"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

type CreateDiscountRequest struct {
	Name               string       `json:"name" validate:"required,min=2,max=100"`
	DiscountType       DiscountType `json:"discount_type" validate:"required,oneof=FIXED PERCENTAGE"`
	DiscountValue      float64      `json:"discount_value" validate:"required,gt=0"`
	ApplicableProducts []uuid.UUID  `json:"applicable_products,omitempty"`
	TotalUsersAllowed  int          `json:"total_users_allowed" validate:"required,min=1"`
	StartDate          time.Time    `json:"start_date" validate:"required"`
	EndDate            time.Time    `json:"end_date" validate:"required,gtfield=StartDate"`
}

type ApplyDiscountRequest struct {
	ProductID     uuid.UUID `json:"product_id" validate:"required"`
	OriginalPrice float64   `json:"original_price" validate:"required,gte=0"`
}

type ApplyDiscountResponse struct {
	DiscountID     uuid.UUID `json:"discount_id"`
	DiscountAmount float64   `json:"discount_amount"`
	NewPrice       float64   `json:"new_price"`
}
