package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/config"
	appErrors "github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	service "github.com/nandanijewellers/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	stripeapi "github.com/stripe/stripe-go/v81"
)

type orderTestDeps struct {
	repo         *repository.MockOrderRepository
	productRepo  *repository.MockProductRepository
	userRepo     *repository.MockUserRepository
	paymentRepo  *repository.MockPaymentRepository
	emailLogRepo *repository.MockEmailLogRepository
	stripeClient *mockStripeClient
	emailService *mockEmailService
	service      service.OrderService
}

func newOrderTestDeps() *orderTestDeps {
	d := &orderTestDeps{
		repo:         repository.NewMockOrderRepository(),
		productRepo:  repository.NewMockProductRepository(),
		userRepo:     repository.NewMockUserRepository(),
		paymentRepo:  repository.NewMockPaymentRepository(),
		emailLogRepo: repository.NewMockEmailLogRepository(),
		stripeClient: &mockStripeClient{},
		emailService: &mockEmailService{},
	}

	pricing := &config.Pricing{GSTPercent: 3, ShippingFee: 100, Currency: "inr"}
	d.service = service.NewOrderService(d.repo, d.productRepo, d.userRepo,
		d.paymentRepo, d.emailLogRepo, d.stripeClient, d.emailService, pricing)

	return d
}

func (d *orderTestDeps) expectConfirmationEmail(ctx context.Context, userID uuid.UUID) {
	d.userRepo.On("GetUserByID", ctx, userID).
		Return(&models.User{ID: userID, Email: "buyer@example.com"}, nil).Once()
	d.emailService.On("Send", ctx, mock.AnythingOfType("*models.EmailNotificationRequest")).Return(nil).Once()
	d.emailLogRepo.On("RecordSend", ctx, mock.AnythingOfType("*models.EmailLog")).Return(nil).Once()
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	product := &models.Product{ID: productID, Name: "Gold Bangle", Price: 10000, Stock: 5}

	t.Run("Success - COD Totals", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		d.repo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		d.expectConfirmationEmail(ctx, userID)

		req := &models.CreateOrderRequest{
			Items:         []models.CreateOrderItem{{ProductID: productID, Quantity: 2}},
			PaymentMethod: models.PaymentMethodCOD,
		}

		// Act
		resp, err := d.service.CreateOrder(ctx, userID, req)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Empty(t, resp.ClientSecret)
		order := resp.Order
		assert.Equal(t, models.OrderStatusBooked, order.Status)
		assert.Equal(t, float64(20000), order.TotalAmount)
		assert.Equal(t, float64(600), order.GST)
		assert.Equal(t, float64(100), order.Shipping)
		assert.Equal(t, float64(20700), order.GrandTotal)
		assert.Len(t, order.Items, 1)
		assert.Equal(t, "Gold Bangle", order.Items[0].ProductName)
		assert.Equal(t, float64(10000), order.Items[0].UnitPrice)
		assert.Equal(t, float64(20000), order.Items[0].LineTotal)
		d.repo.AssertExpectations(t)
		d.productRepo.AssertExpectations(t)
	})

	t.Run("Success - Online Creates Payment Intent", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		d.repo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
		d.stripeClient.On("CreatePaymentIntent", int64(1040300), "inr", mock.AnythingOfType("string")).
			Return(&stripeapi.PaymentIntent{ID: "pi_123", Amount: 1040300, ClientSecret: "pi_123_secret"}, nil).Once()
		d.paymentRepo.On("CreatePayment", ctx, mock.AnythingOfType("*models.Payment")).Return(nil).Once()
		d.expectConfirmationEmail(ctx, userID)

		req := &models.CreateOrderRequest{
			Items:         []models.CreateOrderItem{{ProductID: productID, Quantity: 1}},
			PaymentMethod: models.PaymentMethodOnline,
		}

		// Act
		resp, err := d.service.CreateOrder(ctx, userID, req)

		// Assert: 10000 + 3% GST + 100 shipping = 10403, in paise
		assert.NoError(t, err)
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		d.stripeClient.AssertExpectations(t)
		d.paymentRepo.AssertExpectations(t)
	})

	t.Run("Failure - Insufficient Stock Upfront", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()

		req := &models.CreateOrderRequest{
			Items:         []models.CreateOrderItem{{ProductID: productID, Quantity: 50}},
			PaymentMethod: models.PaymentMethodCOD,
		}

		// Act
		resp, err := d.service.CreateOrder(ctx, userID, req)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
	})

	t.Run("Failure - Oversold During Checkout", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		d.repo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).
			Return(repository.ErrInsufficientStock).Once()

		req := &models.CreateOrderRequest{
			Items:         []models.CreateOrderItem{{ProductID: productID, Quantity: 2}},
			PaymentMethod: models.PaymentMethodCOD,
		}

		// Act
		resp, err := d.service.CreateOrder(ctx, userID, req)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		d.repo.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.productRepo.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		req := &models.CreateOrderRequest{
			Items:         []models.CreateOrderItem{{ProductID: productID, Quantity: 1}},
			PaymentMethod: models.PaymentMethodCOD,
		}

		// Act
		resp, err := d.service.CreateOrder(ctx, userID, req)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resp)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("CancelOrder", ctx, orderID, userID).Return(nil).Once()

		// Act
		err := d.service.CancelOrder(ctx, orderID, userID)

		// Assert
		assert.NoError(t, err)
		d.repo.AssertExpectations(t)
	})

	t.Run("Failure - Already Cancelled", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("CancelOrder", ctx, orderID, userID).Return(repository.ErrNotCancellable).Once()

		// Act
		err := d.service.CancelOrder(ctx, orderID, userID)

		// Assert: a second cancel is a conflict, not a success
		assert.Error(t, err)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInvalidTransition, appErr.Code)
		d.repo.AssertExpectations(t)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("CancelOrder", ctx, orderID, userID).Return(sql.ErrNoRows).Once()

		// Act
		err := d.service.CancelOrder(ctx, orderID, userID)

		// Assert
		assert.Error(t, err)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		d.repo.AssertExpectations(t)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	bookedOrder := func() *models.Order {
		return &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusBooked}
	}

	t.Run("Success - Booked To Purchased", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, orderID).Return(bookedOrder(), nil).Once()
		d.repo.On("UpdateOrderStatus", ctx, orderID, models.OrderStatusPurchased, mock.Anything).Return(nil).Once()
		d.expectConfirmationEmail(ctx, userID)

		// Act
		order, err := d.service.UpdateOrderStatus(ctx, orderID, &models.UpdateOrderStatusRequest{
			Status: models.OrderStatusPurchased,
		})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.OrderStatusPurchased, order.Status)
		d.repo.AssertExpectations(t)
	})

	t.Run("Failure - Cancelled Is Terminal", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		cancelled := &models.Order{ID: orderID, UserID: userID, Status: models.OrderStatusCancelled}
		d.repo.On("GetOrderByID", ctx, orderID).Return(cancelled, nil).Once()

		// Act
		order, err := d.service.UpdateOrderStatus(ctx, orderID, &models.UpdateOrderStatusRequest{
			Status: models.OrderStatusDelivered,
		})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, order)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInvalidTransition, appErr.Code)
		d.repo.AssertExpectations(t)
	})

	t.Run("Failure - Booked Cannot Jump To Delivered", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("GetOrderByID", ctx, orderID).Return(bookedOrder(), nil).Once()

		// Act
		order, err := d.service.UpdateOrderStatus(ctx, orderID, &models.UpdateOrderStatusRequest{
			Status: models.OrderStatusDelivered,
		})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, order)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInvalidTransition, appErr.Code)
		d.repo.AssertExpectations(t)
	})
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success - Empty List", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("ListOrdersByUser", ctx, userID, 1, 10).Return(nil, 0, nil).Once()

		// Act
		orders, total, err := d.service.ListOrdersByUser(ctx, userID, 1, 10)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
		assert.Equal(t, 0, total)
		d.repo.AssertExpectations(t)
	})
}

func TestDeleteAllOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Returns Count", func(t *testing.T) {
		// Arrange
		d := newOrderTestDeps()
		d.repo.On("DeleteAllOrders", ctx).Return(int64(7), nil).Once()

		// Act
		count, err := d.service.DeleteAllOrders(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		d.repo.AssertExpectations(t)
	})
}
