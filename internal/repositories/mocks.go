package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// Hand-rolled testify mocks for the repository interfaces, used by the
// service-layer tests.

type MockCartRepository struct{ mock.Mock }

func NewMockCartRepository() *MockCartRepository { return &MockCartRepository{} }

func (m *MockCartRepository) AddItem(ctx context.Context, entry *models.CartEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCartRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.CartEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartEntry), args.Error(1)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, entryID, userID uuid.UUID, quantity int) error {
	args := m.Called(ctx, entryID, userID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error {
	args := m.Called(ctx, entryID, userID)
	return args.Error(0)
}

type MockWishlistRepository struct{ mock.Mock }

func NewMockWishlistRepository() *MockWishlistRepository { return &MockWishlistRepository{} }

func (m *MockWishlistRepository) AddItem(ctx context.Context, entry *models.WishlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWishlistRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistEntry), args.Error(1)
}

func (m *MockWishlistRepository) RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error {
	args := m.Called(ctx, entryID, userID)
	return args.Error(0)
}

func (m *MockWishlistRepository) MoveToCart(ctx context.Context, entryID, userID uuid.UUID) (*models.CartEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartEntry), args.Error(1)
}

type MockDiscountRepository struct{ mock.Mock }

func NewMockDiscountRepository() *MockDiscountRepository { return &MockDiscountRepository{} }

func (m *MockDiscountRepository) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	args := m.Called(ctx, discount)
	return args.Error(0)
}

func (m *MockDiscountRepository) GetDiscountByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Discount), args.Error(1)
}

func (m *MockDiscountRepository) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Discount), args.Error(1)
}

func (m *MockDiscountRepository) DeactivateDiscount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDiscountRepository) FindActiveForProduct(ctx context.Context, productID uuid.UUID, at time.Time) (*models.Discount, error) {
	args := m.Called(ctx, productID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Discount), args.Error(1)
}

func (m *MockDiscountRepository) ClaimUsage(ctx context.Context, discountID, userID uuid.UUID) (ClaimOutcome, error) {
	args := m.Called(ctx, discountID, userID)
	return args.Get(0).(ClaimOutcome), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func NewMockOrderRepository() *MockOrderRepository { return &MockOrderRepository{} }

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) ListAllOrders(ctx context.Context, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error {
	args := m.Called(ctx, orderID, userID)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, deliveryDate *time.Time) error {
	args := m.Called(ctx, id, status, deliveryDate)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteAllOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func NewMockProductRepository() *MockProductRepository { return &MockProductRepository{} }

func (m *MockProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) AddReview(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockProductRepository) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockProductRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func NewMockUserRepository() *MockUserRepository { return &MockUserRepository{} }

func (m *MockUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockRateLimitRepository struct{ mock.Mock }

func NewMockRateLimitRepository() *MockRateLimitRepository { return &MockRateLimitRepository{} }

func (m *MockRateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

type MockEmailLogRepository struct{ mock.Mock }

func NewMockEmailLogRepository() *MockEmailLogRepository { return &MockEmailLogRepository{} }

func (m *MockEmailLogRepository) RecordSend(ctx context.Context, entry *models.EmailLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEmailLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.EmailLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EmailLog), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func NewMockPaymentRepository() *MockPaymentRepository { return &MockPaymentRepository{} }

func (m *MockPaymentRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetPaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, intentID string, status models.PaymentStatus) error {
	args := m.Called(ctx, intentID, status)
	return args.Error(0)
}
