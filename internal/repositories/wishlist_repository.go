package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/nandanijewellers/storefront-api/internal/utils"
)

type WishlistRepository interface {
	AddItem(ctx context.Context, entry *models.WishlistEntry) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error)
	RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error
	MoveToCart(ctx context.Context, entryID, userID uuid.UUID) (*models.CartEntry, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepo(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) AddItem(ctx context.Context, entry *models.WishlistEntry) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO wishlists (user_id, product_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at`

	return r.DB.QueryRowContext(dbCtx, query, entry.UserID, entry.ProductID).
		Scan(&entry.ID, &entry.CreatedAt)
}

func (r *wishlistRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT w.id, w.user_id, w.product_id, w.created_at,
		       p.name, p.description, p.price, p.discount_percent, p.stock, p.gender
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WishlistEntry

	for rows.Next() {
		var entry models.WishlistEntry
		product := &models.Product{}

		err := rows.Scan(&entry.ID, &entry.UserID, &entry.ProductID, &entry.CreatedAt,
			&product.Name, &product.Description, &product.Price,
			&product.DiscountPercent, &product.Stock, &product.Gender)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}

		product.ID = entry.ProductID
		entry.Product = product
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx,
		`DELETE FROM wishlists WHERE id = $1 AND user_id = $2`, entryID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete the wishlist entry: %w", err)
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

// MoveToCart inserts the cart row and deletes the wishlist row inside one
// transaction; a crash or duplicate-cart conflict leaves both tables
// untouched.
func (r *wishlistRepository) MoveToCart(ctx context.Context, entryID, userID uuid.UUID) (*models.CartEntry, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productID uuid.UUID

	err = tx.QueryRowContext(dbCtx,
		`SELECT product_id FROM wishlists WHERE id = $1 AND user_id = $2`,
		entryID, userID).Scan(&productID)
	if err != nil {
		return nil, err
	}

	cartEntry := &models.CartEntry{
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}

	err = tx.QueryRowContext(dbCtx, `
		INSERT INTO carts (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`,
		cartEntry.UserID, cartEntry.ProductID, cartEntry.Quantity).
		Scan(&cartEntry.ID, &cartEntry.CreatedAt, &cartEntry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(dbCtx,
		`DELETE FROM wishlists WHERE id = $1 AND user_id = $2`, entryID, userID); err != nil {
		return nil, fmt.Errorf("failed to delete the wishlist entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit move: %w", err)
	}

	return cartEntry, nil
}
