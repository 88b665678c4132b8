package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/nandanijewellers/storefront-api/internal/utils"
)

// ClaimOutcome is the result of an atomic usage claim on a discount.
type ClaimOutcome int

const (
	ClaimGranted ClaimOutcome = iota
	ClaimAlreadyUsed
	ClaimExhausted
	ClaimInactive
)

type DiscountRepository interface {
	CreateDiscount(ctx context.Context, discount *models.Discount) error
	GetDiscountByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	ListDiscounts(ctx context.Context) ([]models.Discount, error)
	DeactivateDiscount(ctx context.Context, id uuid.UUID) error
	FindActiveForProduct(ctx context.Context, productID uuid.UUID, at time.Time) (*models.Discount, error)
	ClaimUsage(ctx context.Context, discountID, userID uuid.UUID) (ClaimOutcome, error)
}

type discountRepository struct {
	DB *sql.DB
}

func NewDiscountRepo(db *sql.DB) DiscountRepository {
	return &discountRepository{DB: db}
}

const discountColumns = `id, name, discount_type, discount_value, applicable_products,
	total_users_allowed, used_by, start_date, end_date, is_active, created_at, updated_at`

func scanDiscount(row interface{ Scan(...any) error }) (*models.Discount, error) {

	discount := &models.Discount{}

	err := row.Scan(&discount.ID, &discount.Name, &discount.DiscountType,
		&discount.DiscountValue, pq.Array(&discount.ApplicableProducts),
		&discount.TotalUsersAllowed, pq.Array(&discount.UsedBy),
		&discount.StartDate, &discount.EndDate, &discount.IsActive,
		&discount.CreatedAt, &discount.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return discount, nil
}

func (r *discountRepository) CreateDiscount(ctx context.Context, discount *models.Discount) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO discounts (name, discount_type, discount_value, applicable_products,
			total_users_allowed, used_by, start_date, end_date, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, '{}', $6, $7, TRUE, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		discount.Name, discount.DiscountType, discount.DiscountValue,
		pq.Array(discount.ApplicableProducts), discount.TotalUsersAllowed,
		discount.StartDate, discount.EndDate).
		Scan(&discount.ID, &discount.CreatedAt, &discount.UpdatedAt)
}

func (r *discountRepository) GetDiscountByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1`

	return scanDiscount(r.DB.QueryRowContext(dbCtx, query, id))
}

func (r *discountRepository) ListDiscounts(ctx context.Context) ([]models.Discount, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + discountColumns + ` FROM discounts ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	defer rows.Close()

	var discounts []models.Discount

	for rows.Next() {
		discount, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}

		discounts = append(discounts, *discount)
	}

	return discounts, rows.Err()
}

func (r *discountRepository) DeactivateDiscount(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`UPDATE discounts SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate discount: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// FindActiveForProduct expiry is evaluated here, lazily, against the passed
// timestamp; no background job ever sweeps discounts.
func (r *discountRepository) FindActiveForProduct(ctx context.Context, productID uuid.UUID, at time.Time) (*models.Discount, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + discountColumns + `
		FROM discounts
		WHERE is_active = TRUE
		  AND start_date <= $2 AND end_date >= $2
		  AND (cardinality(applicable_products) = 0 OR applicable_products @> ARRAY[$1]::uuid[])
		ORDER BY created_at DESC
		LIMIT 1`

	return scanDiscount(r.DB.QueryRowContext(dbCtx, query, productID, at))
}

// ClaimUsage appends userID to used_by only if it is absent and the cap has
// room, flipping is_active off in the same statement when the append fills
// the cap. One conditional UPDATE, so two racing claims can never both pass
// a stale read of used_by.
func (r *discountRepository) ClaimUsage(ctx context.Context, discountID, userID uuid.UUID) (ClaimOutcome, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	claim := `
		UPDATE discounts
		SET used_by = array_append(used_by, $2),
		    is_active = cardinality(used_by) + 1 < total_users_allowed,
		    updated_at = NOW()
		WHERE id = $1
		  AND is_active = TRUE
		  AND NOT (used_by @> ARRAY[$2]::uuid[])
		  AND cardinality(used_by) < total_users_allowed`

	result, err := r.DB.ExecContext(dbCtx, claim, discountID, userID)
	if err != nil {
		return ClaimInactive, fmt.Errorf("failed to claim discount usage: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return ClaimInactive, fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 1 {
		return ClaimGranted, nil
	}

	// Refused; resolve why, in a deterministic order.
	var alreadyUsed, exhausted bool

	diagnose := `
		SELECT used_by @> ARRAY[$2]::uuid[],
		       cardinality(used_by) >= total_users_allowed
		FROM discounts
		WHERE id = $1`

	if err := r.DB.QueryRowContext(dbCtx, diagnose, discountID, userID).
		Scan(&alreadyUsed, &exhausted); err != nil {
		return ClaimInactive, fmt.Errorf("failed to diagnose refused claim: %w", err)
	}

	switch {
	case alreadyUsed:
		return ClaimAlreadyUsed, nil
	case exhausted:
		// Self-deactivate an exhausted discount that is somehow still active.
		if _, err := r.DB.ExecContext(dbCtx, `
			UPDATE discounts SET is_active = FALSE, updated_at = NOW()
			WHERE id = $1 AND cardinality(used_by) >= total_users_allowed`, discountID); err != nil {
			return ClaimExhausted, fmt.Errorf("failed to deactivate exhausted discount: %w", err)
		}

		return ClaimExhausted, nil
	default:
		return ClaimInactive, nil
	}
}
