package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
)

type DiscountService interface {
	CreateDiscount(ctx context.Context, req *models.CreateDiscountRequest) (*models.Discount, error)
	ListDiscounts(ctx context.Context) ([]models.Discount, error)
	DeactivateDiscount(ctx context.Context, id uuid.UUID) error
	ApplyDiscount(ctx context.Context, userID uuid.UUID, req *models.ApplyDiscountRequest) (*models.ApplyDiscountResponse, error)
}

type discountService struct {
	repo repository.DiscountRepository
	now  func() time.Time
}

func NewDiscountService(repo repository.DiscountRepository) DiscountService {
	return &discountService{repo: repo, now: time.Now}
}

func (s *discountService) CreateDiscount(ctx context.Context, req *models.CreateDiscountRequest) (*models.Discount, error) {

	discount := &models.Discount{
		Name:               req.Name,
		DiscountType:       req.DiscountType,
		DiscountValue:      req.DiscountValue,
		ApplicableProducts: req.ApplicableProducts,
		TotalUsersAllowed:  req.TotalUsersAllowed,
		UsedBy:             []uuid.UUID{},
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		IsActive:           true,
	}

	if discount.DiscountType == models.DiscountTypePercentage && discount.DiscountValue > 100 {
		return nil, errors.ValidationError("Percentage discount cannot exceed 100")
	}

	if err := s.repo.CreateDiscount(ctx, discount); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.DuplicateEntryError("A discount with this name already exists").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create discount").WithError(err)
	}

	return discount, nil
}

func (s *discountService) ListDiscounts(ctx context.Context) ([]models.Discount, error) {

	discounts, err := s.repo.ListDiscounts(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list discounts").WithError(err)
	}

	if discounts == nil {
		discounts = []models.Discount{}
	}

	return discounts, nil
}

func (s *discountService) DeactivateDiscount(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeactivateDiscount(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Discount not found").WithError(err)
		}
		return errors.DatabaseError("Failed to deactivate discount").WithError(err)
	}

	return nil
}

// ApplyDiscount finds the active discount covering the product and claims a
// usage slot for the user. The claim is one conditional UPDATE, so two
// concurrent requests for the last slot resolve to exactly one grant.
func (s *discountService) ApplyDiscount(ctx context.Context, userID uuid.UUID, req *models.ApplyDiscountRequest) (*models.ApplyDiscountResponse, error) {

	discount, err := s.repo.FindActiveForProduct(ctx, req.ProductID, s.now())
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NoActiveDiscountError("No active discount is available for this product")
		}
		return nil, errors.DatabaseError("Failed to look up discounts").WithError(err)
	}

	outcome, err := s.repo.ClaimUsage(ctx, discount.ID, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to claim discount").WithError(err)
	}

	switch outcome {
	case repository.ClaimGranted:
	case repository.ClaimAlreadyUsed:
		return nil, errors.DiscountUsedError("You have already used this discount")
	case repository.ClaimExhausted:
		return nil, errors.DiscountExhaustedError("This discount has reached its usage limit")
	default:
		return nil, errors.NoActiveDiscountError("No active discount is available for this product")
	}

	amount := discountAmount(discount, req.OriginalPrice)
	newPrice := req.OriginalPrice - amount
	if newPrice < 0 {
		newPrice = 0
	}

	return &models.ApplyDiscountResponse{
		DiscountID:     discount.ID,
		DiscountAmount: amount,
		NewPrice:       newPrice,
	}, nil
}

func discountAmount(d *models.Discount, price float64) float64 {
	switch d.DiscountType {
	case models.DiscountTypePercentage:
		return price * d.DiscountValue / 100
	default:
		return d.DiscountValue
	}
}
