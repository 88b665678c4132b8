package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/nandanijewellers/storefront-api/internal/api/middleware"
	"github.com/nandanijewellers/storefront-api/internal/errors"
	service "github.com/nandanijewellers/storefront-api/internal/services"
	"github.com/nandanijewellers/storefront-api/internal/utils/response"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// HandleStripeWebhook godoc
//	@Summary		Stripe webhook endpoint
//	@Description	Receives payment events from Stripe. Authenticated by the Stripe-Signature header, not a bearer token.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	response.APIResponse	"Event processed"
//	@Failure		400	{object}	response.ErrorResponse	"Missing or invalid signature"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/payments/webhook [post]
func (h *PaymentHandler) HandleStripeWebhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error("Error reading webhook body", slog.Any("error", err))
			response.Error(w, errors.BadRequestError("Failed to read request body"))
			return
		}

		signature := r.Header.Get("Stripe-Signature")
		if signature == "" {
			logger.Warn("Missing Stripe signature")
			response.Error(w, errors.BadRequestError("Stripe signature is required"))
			return
		}

		event, err := h.paymentService.ProcessWebhook(r.Context(), payload, signature)
		if err != nil {
			logger.Error("Failed to process payment webhook",
				slog.String("eventId", event.ID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment webhook processed",
			slog.String("eventId", event.ID), slog.String("type", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]bool{"success": true})
	}
}
