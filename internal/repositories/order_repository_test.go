package repository_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewOrderRepo(db)
	require.NotNil(t, repo, "NewOrderRepo should return a non-nil repository")

	return repo, mock
}

func TestOrderRepository(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	ctx := t.Context()

	userID := uuid.New()
	orderID := uuid.New()
	productID := uuid.New()
	now := time.Now()

	newOrder := func() *models.Order {
		return &models.Order{
			UserID:        userID,
			Status:        models.OrderStatusBooked,
			PaymentMethod: models.PaymentMethodCOD,
			TotalAmount:   20000,
			GST:           600,
			Shipping:      100,
			GrandTotal:    20700,
			Items: []models.OrderItem{{
				ProductID:   productID,
				ProductName: "Gold Bangle",
				Quantity:    2,
				UnitPrice:   10000,
				LineTotal:   20000,
			}},
		}
	}

	insertOrderSQL := `INSERT INTO orders`
	insertItemSQL := `INSERT INTO order_items`
	decrementSQL := `UPDATE products SET stock = stock -`

	t.Run("Create Order", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			// Arrange: order, line item and guarded stock decrement commit together
			order := newOrder()
			itemID := uuid.New()

			mock.ExpectBegin()
			mock.ExpectQuery(insertOrderSQL).
				WithArgs(userID, models.OrderStatusBooked, 20000.0, 600.0, 100.0, 20700.0, models.PaymentMethodCOD).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(orderID, now, now))
			mock.ExpectQuery(insertItemSQL).
				WithArgs(orderID, productID, "Gold Bangle", 2, 10000.0, 20000.0).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(itemID, now))
			mock.ExpectExec(decrementSQL).
				WithArgs(2, productID).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.NoError(t, err, "CreateOrder should not return an error on success")
			assert.Equal(t, orderID, order.ID, "Order ID should be filled from RETURNING")
			assert.Equal(t, orderID, order.Items[0].OrderID, "Line items should be linked to the new order")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Oversell Rolls Back The Whole Checkout", func(t *testing.T) {
			// Arrange: the guarded decrement matches zero rows when stock ran out
			order := newOrder()

			mock.ExpectBegin()
			mock.ExpectQuery(insertOrderSQL).
				WithArgs(userID, models.OrderStatusBooked, 20000.0, 600.0, 100.0, 20700.0, models.PaymentMethodCOD).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
					AddRow(orderID, now, now))
			mock.ExpectQuery(insertItemSQL).
				WithArgs(orderID, productID, "Gold Bangle", 2, 10000.0, 20000.0).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), now))
			mock.ExpectExec(decrementSQL).
				WithArgs(2, productID).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectRollback()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.Error(t, err, "CreateOrder should fail when the decrement matches no rows")
			assert.ErrorIs(t, err, repository.ErrInsufficientStock)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("Cancel Order", func(t *testing.T) {
		cancelSQL := `UPDATE orders SET status`
		restoreSQL := `UPDATE products p SET stock`
		existsSQL := `SELECT EXISTS`

		t.Run("Success - Restores Stock", func(t *testing.T) {
			// Arrange
			mock.ExpectBegin()
			mock.ExpectExec(cancelSQL).
				WithArgs(models.OrderStatusCancelled, orderID, userID, models.OrderStatusBooked).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(restoreSQL).
				WithArgs(orderID).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			// Act
			err := repo.CancelOrder(ctx, orderID, userID)

			// Assert
			require.NoError(t, err, "CancelOrder should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Double Cancel", func(t *testing.T) {
			// Arrange: the status guard matches zero rows, the order still exists
			mock.ExpectBegin()
			mock.ExpectExec(cancelSQL).
				WithArgs(models.OrderStatusCancelled, orderID, userID, models.OrderStatusBooked).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(existsSQL).
				WithArgs(orderID, userID).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			mock.ExpectRollback()

			// Act
			err := repo.CancelOrder(ctx, orderID, userID)

			// Assert
			require.Error(t, err, "A second cancel should be refused")
			assert.ErrorIs(t, err, repository.ErrNotCancellable)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Unknown Order", func(t *testing.T) {
			// Arrange
			mock.ExpectBegin()
			mock.ExpectExec(cancelSQL).
				WithArgs(models.OrderStatusCancelled, orderID, userID, models.OrderStatusBooked).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(existsSQL).
				WithArgs(orderID, userID).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			mock.ExpectRollback()

			// Act
			err := repo.CancelOrder(ctx, orderID, userID)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("Update Order Status", func(t *testing.T) {
		expectedSQL := `UPDATE orders SET status`

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(models.OrderStatusPurchased, nil, sqlmock.AnyArg(), orderID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPurchased, nil)

			// Assert
			require.NoError(t, err, "UpdateOrderStatus should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Unknown Order", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(models.OrderStatusPurchased, nil, sqlmock.AnyArg(), orderID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPurchased, nil)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})
}
