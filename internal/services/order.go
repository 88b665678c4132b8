package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/config"
	"github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	"github.com/nandanijewellers/storefront-api/pkg/sendgrid"
	"github.com/nandanijewellers/storefront-api/pkg/stripe"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListAllOrders(ctx context.Context, page, size int) ([]models.Order, int, error)
	CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	DeleteAllOrders(ctx context.Context) (int64, error)
}

type orderService struct {
	repo         repository.OrderRepository
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	paymentRepo  repository.PaymentRepository
	emailLogRepo repository.EmailLogRepository
	stripeClient stripe.Client
	emailService sendgrid.EmailService
	pricing      *config.Pricing
}

func NewOrderService(
	repo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	emailLogRepo repository.EmailLogRepository,
	stripeClient stripe.Client,
	emailService sendgrid.EmailService,
	pricing *config.Pricing,
) OrderService {
	return &orderService{
		repo:         repo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		emailLogRepo: emailLogRepo,
		stripeClient: stripeClient,
		emailService: emailService,
		pricing:      pricing,
	}
}

// CreateOrder snapshots the catalog lines into the order, computes totals
// and books the order. Stock decrements happen inside the repository
// transaction, so an oversell fails the whole checkout. ONLINE orders also
// get a Stripe payment intent and a pending payment row; the order stays
// BOOKED until the webhook confirms the charge.
func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {

	order := &models.Order{
		UserID:        userID,
		Status:        models.OrderStatusBooked,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]models.OrderItem, 0, len(req.Items)),
	}

	var total float64

	for _, line := range req.Items {

		product, err := s.productRepo.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, errors.NotFoundError(fmt.Sprintf("Product %s not found", line.ProductID)).WithError(err)
		}

		if product.Stock < line.Quantity {
			return nil, errors.InsufficientStockError(fmt.Sprintf("Not enough stock for %s", product.Name))
		}

		lineTotal := product.Price * float64(line.Quantity)
		total += lineTotal

		order.Items = append(order.Items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
			LineTotal:   lineTotal,
		})
	}

	order.TotalAmount = total
	order.GST = total * s.pricing.GSTPercent / 100
	order.Shipping = s.pricing.ShippingFee
	order.GrandTotal = order.TotalAmount + order.GST + order.Shipping

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if stderrors.Is(err, repository.ErrInsufficientStock) {
			return nil, errors.InsufficientStockError("One of the items sold out during checkout").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	resp := &models.CreateOrderResponse{Order: order}

	if req.PaymentMethod == models.PaymentMethodOnline {

		intent, err := s.stripeClient.CreatePaymentIntent(
			int64(math.Round(order.GrandTotal*100)),
			s.pricing.Currency,
			fmt.Sprintf("Order %s", order.ID))
		if err != nil {
			return nil, errors.ThirdPartyError("Failed to initiate payment").WithError(err)
		}

		payment := &models.Payment{
			OrderID:        order.ID,
			UserID:         userID,
			StripeIntentID: intent.ID,
			Amount:         intent.Amount,
			Currency:       s.pricing.Currency,
			Status:         models.PaymentStatusPending,
		}

		if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
			return nil, errors.DatabaseError("Failed to record payment").WithError(err)
		}

		resp.ClientSecret = intent.ClientSecret
	}

	s.sendOrderEmail(ctx, order, "Order confirmation",
		fmt.Sprintf("Your order %s for ₹%.2f has been placed.", order.ID, order.GrandTotal))

	return resp, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.repo.ListOrdersByUser(ctx, userID, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	if orders == nil {
		orders = []models.Order{}
	}

	return orders, total, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, page, size int) ([]models.Order, int, error) {

	orders, total, err := s.repo.ListAllOrders(ctx, page, size)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	if orders == nil {
		orders = []models.Order{}
	}

	return orders, total, nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID, userID uuid.UUID) error {

	err := s.repo.CancelOrder(ctx, orderID, userID)

	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, sql.ErrNoRows):
		return errors.NotFoundError("Order not found").WithError(err)
	case stderrors.Is(err, repository.ErrNotCancellable):
		return errors.InvalidTransitionError("Only booked orders can be cancelled").WithError(err)
	default:
		return errors.DatabaseError("Failed to cancel order").WithError(err)
	}
}

// UpdateOrderStatus applies an admin status change. Terminal states stay
// terminal: an order that is CANCELLED, EXPIRED or DELIVERED cannot move
// again.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *models.UpdateOrderStatusRequest) (*models.Order, error) {

	if !models.ValidOrderStatus(req.Status) {
		return nil, errors.ValidationError("Unknown order status")
	}

	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	if !validTransition(order.Status, req.Status) {
		return nil, errors.InvalidTransitionError(
			fmt.Sprintf("Cannot move order from %s to %s", order.Status, req.Status))
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, req.Status, req.DeliveryDate); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to update order status").WithError(err)
	}

	order.Status = req.Status
	order.DeliveryDate = req.DeliveryDate

	s.sendOrderEmail(ctx, order, "Order status update",
		fmt.Sprintf("Your order %s is now %s.", order.ID, order.Status))

	return order, nil
}

// validTransition encodes the order lifecycle:
// BOOKED -> PURCHASED | CANCELLED | EXPIRED, PURCHASED -> DELIVERED.
func validTransition(from, to models.OrderStatus) bool {
	if from == to {
		return false
	}

	switch from {
	case models.OrderStatusBooked:
		return to == models.OrderStatusPurchased ||
			to == models.OrderStatusCancelled ||
			to == models.OrderStatusExpired
	case models.OrderStatusPurchased:
		return to == models.OrderStatusDelivered
	}

	return false
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {

	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Order not found").WithError(err)
		}
		return errors.DatabaseError("Failed to delete order").WithError(err)
	}

	return nil
}

func (s *orderService) DeleteAllOrders(ctx context.Context) (int64, error) {

	count, err := s.repo.DeleteAllOrders(ctx)
	if err != nil {
		return 0, errors.DatabaseError("Failed to delete orders").WithError(err)
	}

	return count, nil
}

// sendOrderEmail delivers a transactional email and records the attempt in
// the audit log. Email failures never fail the order operation.
func (s *orderService) sendOrderEmail(ctx context.Context, order *models.Order, subject, body string) {

	user, err := s.userRepo.GetUserByID(ctx, order.UserID)
	if err != nil {
		slog.Warn("skipping order email, user lookup failed",
			slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
		return
	}

	entry := &models.EmailLog{
		UserID:  order.UserID,
		To:      user.Email,
		Subject: subject,
		Status:  models.EmailStatusSent,
	}

	err = s.emailService.Send(ctx, &models.EmailNotificationRequest{
		To:      user.Email,
		Subject: subject,
		Content: body,
	})
	if err != nil {
		entry.Status = models.EmailStatusFailed
		entry.Error = err.Error()
		slog.Warn("order email failed",
			slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
	}

	if err := s.emailLogRepo.RecordSend(ctx, entry); err != nil {
		slog.Warn("failed to record email log",
			slog.String("orderId", order.ID.String()), slog.String("error", err.Error()))
	}
}
