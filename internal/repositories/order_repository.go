package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/nandanijewellers/storefront-api/internal/utils"
)

// ErrNotCancellable marks a cancel attempt on an order that exists but has
// already left the BOOKED state.
var ErrNotCancellable = errors.New("order is not in a cancellable state")

// ErrInsufficientStock marks a checkout that asked for more units than the
// catalog currently holds.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListAllOrders(ctx context.Context, page, size int) ([]models.Order, int, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, deliveryDate *time.Time) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	DeleteAllOrders(ctx context.Context) (int64, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder writes the order, its line items and the stock decrements in
// one transaction. The guarded stock UPDATE makes the decrement fail instead
// of going negative when a concurrent checkout wins the race.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (user_id, status, total_amount, gst, shipping, grand_total,
			payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(dbCtx, query,
		order.UserID, order.Status, order.TotalAmount, order.GST,
		order.Shipping, order.GrandTotal, order.PaymentMethod).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		err := tx.QueryRowContext(dbCtx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, line_total, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING id, created_at`,
			item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.LineTotal).
			Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}

		result, err := tx.ExecContext(dbCtx, `
			UPDATE products SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1`,
			item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		updatedRows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get updated rows: %w", err)
		}

		if updatedRows == 0 {
			return fmt.Errorf("%w for product %s", ErrInsufficientStock, item.ProductID)
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	query := `
		SELECT id, user_id, status, total_amount, gst, shipping, grand_total,
		       payment_method, delivery_date, created_at, updated_at
		FROM orders
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.TotalAmount, &order.GST,
		&order.Shipping, &order.GrandTotal, &order.PaymentMethod,
		&order.DeliveryDate, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(dbCtx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}

	order.Items = items[order.ID]

	return order, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderItem, error) {

	items := make(map[uuid.UUID][]models.OrderItem, len(orderIDs))

	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, line_total, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`

	for _, orderID := range orderIDs {

		rows, err := r.DB.QueryContext(ctx, query, orderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get order items: %w", err)
		}

		for rows.Next() {
			var item models.OrderItem

			err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
				&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan order item: %w", err)
			}

			items[orderID] = append(items[orderID], item)
		}

		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}

		rows.Close()
	}

	return items, nil
}

func (r *orderRepository) listOrders(ctx context.Context, where string, whereArgs []any, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders` + where
	if err := r.DB.QueryRowContext(dbCtx, countQuery, whereArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size
	args := append(append([]any{}, whereArgs...), size, offset)

	query := `
		SELECT id, user_id, status, total_amount, gst, shipping, grand_total,
		       payment_method, delivery_date, created_at, updated_at
		FROM orders` + where + fmt.Sprintf(`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	var orderIDs []uuid.UUID

	for rows.Next() {
		var order models.Order

		err := rows.Scan(&order.ID, &order.UserID, &order.Status, &order.TotalAmount,
			&order.GST, &order.Shipping, &order.GrandTotal, &order.PaymentMethod,
			&order.DeliveryDate, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := r.loadItems(dbCtx, orderIDs)
	if err != nil {
		return nil, 0, err
	}

	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, total, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	return r.listOrders(ctx, ` WHERE user_id = $1`, []any{userID}, page, size)
}

func (r *orderRepository) ListAllOrders(ctx context.Context, page, size int) ([]models.Order, int, error) {
	return r.listOrders(ctx, ``, nil, page, size)
}

// CancelOrder flips BOOKED to CANCELLED and restores stock in one
// transaction. The status guard in the UPDATE makes a double cancel, or a
// cancel after shipment, affect zero rows; the follow-up read distinguishes
// a missing order from a non-cancellable one.
func (r *orderRepository) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(dbCtx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status = $4`,
		models.OrderStatusCancelled, orderID, userID, models.OrderStatusBooked)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {

		var exists bool
		err := tx.QueryRowContext(dbCtx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1 AND user_id = $2)`,
			orderID, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}

		if !exists {
			return sql.ErrNoRows
		}

		return ErrNotCancellable
	}

	if _, err := tx.ExecContext(dbCtx, `
		UPDATE products p SET stock = p.stock + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id`, orderID); err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	return tx.Commit()
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, deliveryDate *time.Time) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `
		UPDATE orders SET status = $1, delivery_date = $2, updated_at = $3 WHERE id = $4`,
		status, deliveryDate, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
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

func (r *orderRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
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

func (r *orderRepository) DeleteAllOrders(ctx context.Context) (int64, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM orders`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orders: %w", err)
	}

	return result.RowsAffected()
}
