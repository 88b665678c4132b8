package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	"github.com/nandanijewellers/storefront-api/pkg/stripe"
)

type PaymentService interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error)
}

type paymentService struct {
	repo         repository.PaymentRepository
	orderRepo    repository.OrderRepository
	stripeClient stripe.Client
}

func NewPaymentService(repo repository.PaymentRepository, orderRepo repository.OrderRepository, stripeClient stripe.Client) PaymentService {
	return &paymentService{repo: repo, orderRepo: orderRepo, stripeClient: stripeClient}
}

// ProcessWebhook verifies the Stripe signature and applies the event to the
// payment row. A succeeded charge also moves the order from BOOKED to
// PURCHASED.
func (s *paymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (stripe.Event, error) {

	event, err := s.stripeClient.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return stripe.Event{}, errors.ThirdPartyError("Webhook signature verification failed").WithError(err)
	}

	switch event.Type {
	case "payment_intent.succeeded":

		intentID, appErr := intentIDFromEvent(event)
		if appErr != nil {
			return event, appErr
		}

		if err := s.repo.UpdatePaymentStatus(ctx, intentID, models.PaymentStatusSucceeded); err != nil {
			return event, errors.DatabaseError("Failed to update payment status").WithError(err)
		}

		if err := s.markOrderPurchased(ctx, intentID); err != nil {
			return event, err
		}

	case "payment_intent.payment_failed":

		intentID, appErr := intentIDFromEvent(event)
		if appErr != nil {
			return event, appErr
		}

		if err := s.repo.UpdatePaymentStatus(ctx, intentID, models.PaymentStatusFailed); err != nil {
			return event, errors.DatabaseError("Failed to update payment status").WithError(err)
		}

	case "charge.refunded":

		intentID, ok := event.Data.Object["payment_intent"].(string)
		if !ok || intentID == "" {
			return event, errors.ThirdPartyError("Missing payment intent ID in webhook")
		}

		if err := s.repo.UpdatePaymentStatus(ctx, intentID, models.PaymentStatusRefunded); err != nil {
			return event, errors.DatabaseError("Failed to update payment status").WithError(err)
		}

	default:
		slog.Debug("ignoring stripe event", slog.String("type", string(event.Type)))
	}

	return event, nil
}

func (s *paymentService) markOrderPurchased(ctx context.Context, intentID string) error {

	payment, err := s.repo.GetPaymentByIntentID(ctx, intentID)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("No payment on record for this intent").WithError(err)
		}
		return errors.DatabaseError("Failed to look up payment").WithError(err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, payment.OrderID)
	if err != nil {
		return errors.DatabaseError("Failed to look up order").WithError(err)
	}

	// A cancelled order can still receive a late success event; leave it
	// terminal and let the refund flow reconcile.
	if order.Status != models.OrderStatusBooked {
		slog.Warn("payment succeeded for a non-booked order",
			slog.String("orderId", order.ID.String()), slog.String("status", string(order.Status)))
		return nil
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, models.OrderStatusPurchased, order.DeliveryDate); err != nil {
		return errors.DatabaseError("Failed to update order status").WithError(err)
	}

	return nil
}

func intentIDFromEvent(event stripe.Event) (string, *errors.AppError) {

	raw, ok := event.Data.Object["id"]
	if !ok {
		return "", errors.InternalError("Payment intent ID not found in webhook payload")
	}

	intentID, ok := raw.(string)
	if !ok || intentID == "" {
		return "", errors.ThirdPartyError("Missing payment intent ID in webhook")
	}

	return intentID, nil
}
