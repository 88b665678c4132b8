package service_test

import (
	"context"

	"github.com/lib/pq"
	"github.com/nandanijewellers/storefront-api/internal/models"
	pkgstripe "github.com/nandanijewellers/storefront-api/pkg/stripe"
	"github.com/stretchr/testify/mock"
	stripeapi "github.com/stripe/stripe-go/v81"
)

// uniqueViolation mimics the error lib/pq returns when a unique index
// rejects an insert.
func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

type mockStripeClient struct{ mock.Mock }

func (m *mockStripeClient) CreatePaymentIntent(amount int64, currency string, description string) (*stripeapi.PaymentIntent, error) {
	args := m.Called(amount, currency, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripeapi.PaymentIntent), args.Error(1)
}

func (m *mockStripeClient) RefundPayment(paymentIntentID string, amount int64) (*stripeapi.Refund, error) {
	args := m.Called(paymentIntentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripeapi.Refund), args.Error(1)
}

func (m *mockStripeClient) VerifyWebhookSignature(payload []byte, signature string) (pkgstripe.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(pkgstripe.Event), args.Error(1)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
