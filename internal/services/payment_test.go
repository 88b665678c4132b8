package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	service "github.com/nandanijewellers/storefront-api/internal/services"
	pkgstripe "github.com/nandanijewellers/storefront-api/pkg/stripe"
	"github.com/stretchr/testify/assert"
	stripeapi "github.com/stripe/stripe-go/v81"
)

func stripeEvent(eventType string, object map[string]interface{}) pkgstripe.Event {
	return pkgstripe.Event{
		Type: stripeapi.EventType(eventType),
		Data: &stripeapi.EventData{Object: object},
	}
}

func TestProcessWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"id":"evt_1"}`)
	signature := "t=1,v1=abc"

	newService := func() (*repository.MockPaymentRepository, *repository.MockOrderRepository, *mockStripeClient, service.PaymentService) {
		repo := repository.NewMockPaymentRepository()
		orderRepo := repository.NewMockOrderRepository()
		stripeClient := &mockStripeClient{}
		return repo, orderRepo, stripeClient, service.NewPaymentService(repo, orderRepo, stripeClient)
	}

	t.Run("Failure - Bad Signature", func(t *testing.T) {
		// Arrange
		repo, _, stripeClient, svc := newService()
		stripeClient.On("VerifyWebhookSignature", payload, signature).
			Return(pkgstripe.Event{}, errors.New("no signatures found matching the expected signature")).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.Error(t, err)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeThirdPartyError, appErr.Code)
		repo.AssertNotCalled(t, "UpdatePaymentStatus")
	})

	t.Run("Success - Payment Succeeded Moves Order To Purchased", func(t *testing.T) {
		// Arrange
		repo, orderRepo, stripeClient, svc := newService()
		orderID := uuid.New()
		event := stripeEvent("payment_intent.succeeded", map[string]interface{}{"id": "pi_123"})

		stripeClient.On("VerifyWebhookSignature", payload, signature).Return(event, nil).Once()
		repo.On("UpdatePaymentStatus", ctx, "pi_123", models.PaymentStatusSucceeded).Return(nil).Once()
		repo.On("GetPaymentByIntentID", ctx, "pi_123").
			Return(&models.Payment{OrderID: orderID, StripeIntentID: "pi_123"}, nil).Once()
		orderRepo.On("GetOrderByID", ctx, orderID).
			Return(&models.Order{ID: orderID, Status: models.OrderStatusBooked}, nil).Once()
		orderRepo.On("UpdateOrderStatus", ctx, orderID, models.OrderStatusPurchased, (*time.Time)(nil)).Return(nil).Once()

		// Act
		got, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, event.Type, got.Type)
		repo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Success - Late Event On Cancelled Order Leaves It Terminal", func(t *testing.T) {
		// Arrange
		repo, orderRepo, stripeClient, svc := newService()
		orderID := uuid.New()
		event := stripeEvent("payment_intent.succeeded", map[string]interface{}{"id": "pi_123"})

		stripeClient.On("VerifyWebhookSignature", payload, signature).Return(event, nil).Once()
		repo.On("UpdatePaymentStatus", ctx, "pi_123", models.PaymentStatusSucceeded).Return(nil).Once()
		repo.On("GetPaymentByIntentID", ctx, "pi_123").
			Return(&models.Payment{OrderID: orderID, StripeIntentID: "pi_123"}, nil).Once()
		orderRepo.On("GetOrderByID", ctx, orderID).
			Return(&models.Order{ID: orderID, Status: models.OrderStatusCancelled}, nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.NoError(t, err)
		orderRepo.AssertNotCalled(t, "UpdateOrderStatus")
		repo.AssertExpectations(t)
		orderRepo.AssertExpectations(t)
	})

	t.Run("Success - Payment Failed", func(t *testing.T) {
		// Arrange
		repo, orderRepo, stripeClient, svc := newService()
		event := stripeEvent("payment_intent.payment_failed", map[string]interface{}{"id": "pi_123"})

		stripeClient.On("VerifyWebhookSignature", payload, signature).Return(event, nil).Once()
		repo.On("UpdatePaymentStatus", ctx, "pi_123", models.PaymentStatusFailed).Return(nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.NoError(t, err)
		orderRepo.AssertNotCalled(t, "GetOrderByID")
		repo.AssertExpectations(t)
	})

	t.Run("Success - Charge Refunded", func(t *testing.T) {
		// Arrange
		repo, _, stripeClient, svc := newService()
		event := stripeEvent("charge.refunded", map[string]interface{}{"payment_intent": "pi_123"})

		stripeClient.On("VerifyWebhookSignature", payload, signature).Return(event, nil).Once()
		repo.On("UpdatePaymentStatus", ctx, "pi_123", models.PaymentStatusRefunded).Return(nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Failure - Succeeded Event Without Intent ID", func(t *testing.T) {
		// Arrange
		_, _, stripeClient, svc := newService()
		event := stripeEvent("payment_intent.succeeded", map[string]interface{}{})

		stripeClient.On("VerifyWebhookSignature", payload, signature).Return(event, nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.Error(t, err)
	})

	t.Run("Success - Unknown Event Type Is Ignored", func(t *testing.T) {
		// Arrange
		repo, _, stripeClient, svc := newService()
		event := stripeEvent("customer.created", map[string]interface{}{"id": "cus_1"})

		stripeClient.On("VerifyWebhookSignature", payload, signature).Return(event, nil).Once()

		// Act
		_, err := svc.ProcessWebhook(ctx, payload, signature)

		// Assert
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "UpdatePaymentStatus")
	})
}
