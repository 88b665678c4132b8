package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCartRepoTest(t *testing.T) (repository.CartRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewCartRepo(db)
	require.NotNil(t, repo, "NewCartRepo should return a non-nil repository")

	return repo, mock
}

func TestCartRepository(t *testing.T) {
	repo, mock := setupCartRepoTest(t)
	ctx := t.Context()

	userID := uuid.New()
	productID := uuid.New()
	entryID := uuid.New()
	now := time.Now()

	t.Run("Add Item", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`
		INSERT INTO carts (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			entry := &models.CartEntry{UserID: userID, ProductID: productID, Quantity: 1}
			mock.ExpectQuery(expectedSQL).
				WithArgs(userID, productID, 1).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(entryID, now, now))

			// Act
			err := repo.AddItem(ctx, entry)

			// Assert
			require.NoError(t, err, "AddItem should not return an error on success")
			assert.Equal(t, entryID, entry.ID, "Entry ID should be filled from RETURNING")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Duplicate Pair", func(t *testing.T) {
			// Arrange: the unique index on (user_id, product_id) rejects the insert
			entry := &models.CartEntry{UserID: userID, ProductID: productID, Quantity: 1}
			mock.ExpectQuery(expectedSQL).
				WithArgs(userID, productID, 1).
				WillReturnError(&pq.Error{Code: "23505"})

			// Act
			err := repo.AddItem(ctx, entry)

			// Assert
			require.Error(t, err, "AddItem should return an error on a duplicate pair")
			assert.True(t, repository.IsUniqueViolation(err), "Error should be detectable as a unique violation")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("Get By User", func(t *testing.T) {
		expectedSQL := `SELECT c.id, c.user_id, c.product_id, c.quantity`

		t.Run("Success", func(t *testing.T) {
			// Arrange
			rows := sqlmock.NewRows([]string{
				"id", "user_id", "product_id", "quantity", "created_at", "updated_at",
				"name", "description", "price", "discount_percent", "stock", "gender",
			}).AddRow(entryID, userID, productID, 2, now, now,
				"Gold Bangle", "22k gold", 10000.0, 0.0, 5, "WOMEN")

			mock.ExpectQuery(expectedSQL).WithArgs(userID).WillReturnRows(rows)

			// Act
			entries, err := repo.GetByUser(ctx, userID)

			// Assert
			require.NoError(t, err, "GetByUser should not return an error on success")
			require.Len(t, entries, 1, "Expected exactly one cart entry")
			assert.Equal(t, 2, entries[0].Quantity)
			require.NotNil(t, entries[0].Product, "Product snapshot should be joined in")
			assert.Equal(t, "Gold Bangle", entries[0].Product.Name)
			assert.Equal(t, productID, entries[0].Product.ID, "Product ID should be copied from the entry")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Success - Empty Cart", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{
					"id", "user_id", "product_id", "quantity", "created_at", "updated_at",
					"name", "description", "price", "discount_percent", "stock", "gender",
				}))

			// Act
			entries, err := repo.GetByUser(ctx, userID)

			// Assert
			require.NoError(t, err, "An empty cart is not an error")
			assert.Empty(t, entries)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Query Error", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).WithArgs(userID).
				WillReturnError(errors.New("connection refused"))

			// Act
			entries, err := repo.GetByUser(ctx, userID)

			// Assert
			require.Error(t, err, "GetByUser should surface the query error")
			assert.Nil(t, entries)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("Update Quantity", func(t *testing.T) {
		expectedSQL := `UPDATE carts`

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(3, sqlmock.AnyArg(), entryID, userID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.UpdateQuantity(ctx, entryID, userID, 3)

			// Assert
			require.NoError(t, err, "UpdateQuantity should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Entry Not Owned By User", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(3, sqlmock.AnyArg(), entryID, userID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.UpdateQuantity(ctx, entryID, userID, 3)

			// Assert
			require.Error(t, err, "UpdateQuantity should fail when no row matches")
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("Remove Item", func(t *testing.T) {
		expectedSQL := `DELETE FROM carts`

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(entryID, userID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.RemoveItem(ctx, entryID, userID)

			// Assert
			require.NoError(t, err, "RemoveItem should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Already Removed", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(entryID, userID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.RemoveItem(ctx, entryID, userID)

			// Assert
			require.Error(t, err, "RemoveItem should fail when nothing was deleted")
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})
}
