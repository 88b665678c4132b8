package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/nandanijewellers/storefront-api/internal/utils"
)

type CartRepository interface {
	AddItem(ctx context.Context, entry *models.CartEntry) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error)
	UpdateQuantity(ctx context.Context, entryID, userID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// AddItem is a single INSERT; the unique index on (user_id, product_id)
// rejects a duplicate pair atomically. Callers detect that case with
// IsUniqueViolation.
func (r *cartRepository) AddItem(ctx context.Context, entry *models.CartEntry) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO carts (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query, entry.UserID, entry.ProductID, entry.Quantity).
		Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *cartRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT c.id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
		       p.name, p.description, p.price, p.discount_percent, p.stock, p.gender
		FROM carts c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	var entries []models.CartEntry

	for rows.Next() {
		var entry models.CartEntry
		product := &models.Product{}

		err := rows.Scan(&entry.ID, &entry.UserID, &entry.ProductID, &entry.Quantity,
			&entry.CreatedAt, &entry.UpdatedAt,
			&product.Name, &product.Description, &product.Price,
			&product.DiscountPercent, &product.Stock, &product.Gender)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart entry: %w", err)
		}

		product.ID = entry.ProductID
		entry.Product = product
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, entryID, userID uuid.UUID, quantity int) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE carts
		SET quantity = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, time.Now(), entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to update the cart entry: %w", err)
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

func (r *cartRepository) RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`DELETE FROM carts WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete the cart entry: %w", err)
	}

	deletedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deletedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
