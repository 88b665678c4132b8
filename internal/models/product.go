package models

import (
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMen   Gender = "MEN"
	GenderWomen Gender = "WOMEN"
	GenderKids  Gender = "KIDS"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Price           float64     `json:"price"`
	DiscountPercent float64     `json:"discount_percent"`
	Stock           int         `json:"stock"`
	Gender          Gender      `json:"gender"`
	CategoryIDs     []uuid.UUID `json:"category_ids"`
	Images          []string    `json:"images"`
	RatingAverage   float64     `json:"rating_average"`
	RatingCount     int         `json:"rating_count"`
	Reviews         []Review    `json:"reviews,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type CreateProductRequest struct {
	Name            string      `json:"name" validate:"required,min=3,max=200"`
	Description     string      `json:"description,omitempty"`
	Price           float64     `json:"price" validate:"required,gte=0"`
	DiscountPercent float64     `json:"discount_percent" validate:"gte=0,lte=100"`
	Stock           int         `json:"stock" validate:"gte=0"`
	Gender          Gender      `json:"gender" validate:"required,oneof=MEN WOMEN KIDS"`
	CategoryIDs     []uuid.UUID `json:"category_ids,omitempty"`
	Images          []string    `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type UpdateProductRequest struct {
	Name            *string     `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Description     *string     `json:"description,omitempty"`
	Price           *float64    `json:"price,omitempty" validate:"omitempty,gte=0"`
	DiscountPercent *float64    `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	Stock           *int        `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Gender          *Gender     `json:"gender,omitempty" validate:"omitempty,oneof=MEN WOMEN KIDS"`
	CategoryIDs     []uuid.UUID `json:"category_ids,omitempty"`
	Images          []string    `json:"images,omitempty" validate:"omitempty,dive,url"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// ProductFilter narrows catalog listings; zero values mean no filter.
type ProductFilter struct {
	CategoryID uuid.UUID
	Gender     Gender
}
