package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nandanijewellers/storefront-api/internal/api/middleware"
	"github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	service "github.com/nandanijewellers/storefront-api/internal/services"
	"github.com/nandanijewellers/storefront-api/internal/utils"
	"github.com/nandanijewellers/storefront-api/internal/utils/response"
)

type DiscountHandler struct {
	discountService service.DiscountService
	validator       *validator.Validate
}

func NewDiscountHandler(discountService service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService, validator: validator.New()}
}

// CreateDiscount godoc
//	@Summary		Create a discount
//	@Description	Creates a time-bounded, usage-capped discount. Admin only.
//	@Tags			Discounts
//	@Accept			json
//	@Produce		json
//	@Param			discount	body		models.CreateDiscountRequest	true	"Discount rule"
//	@Success		201			{object}	models.Discount					"Created discount"
//	@Failure		400			{object}	response.ErrorResponse			"Validation error"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		403			{object}	response.ErrorResponse			"Admin privileges required"
//	@Failure		409			{object}	response.ErrorResponse			"Discount name already exists"
//	@Security		BearerAuth
//	@Router			/discounts [post]
func (h *DiscountHandler) CreateDiscount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateDiscountRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create discount input")
			return
		}

		discount, err := h.discountService.CreateDiscount(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create discount", slog.String("name", req.Name), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Discount created", slog.String("discountId", discount.ID.String()))
		response.Success(w, http.StatusCreated, discount)
	}
}

// ListDiscounts godoc
//	@Summary		List discounts
//	@Description	Lists every discount including inactive ones. Admin only.
//	@Tags			Discounts
//	@Produce		json
//	@Success		200	{array}		models.Discount			"Discounts"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Admin privileges required"
//	@Security		BearerAuth
//	@Router			/discounts [get]
func (h *DiscountHandler) ListDiscounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		discounts, err := h.discountService.ListDiscounts(r.Context())
		if err != nil {
			logger.Error("Failed to list discounts", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, discounts)
	}
}

// DeactivateDiscount godoc
//	@Summary		Deactivate a discount
//	@Description	Turns a discount off without deleting its redemption history. Admin only.
//	@Tags			Discounts
//	@Produce		json
//	@Param			id	path		string					true	"Discount ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse	"Deactivated"
//	@Failure		404	{object}	response.ErrorResponse	"Discount not found"
//	@Security		BearerAuth
//	@Router			/discounts/{id} [delete]
func (h *DiscountHandler) DeactivateDiscount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.discountService.DeactivateDiscount(r.Context(), id); err != nil {
			logger.Error("Failed to deactivate discount", slog.String("discountId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Discount deactivated", slog.String("discountId", id.String()))
		response.Success(w, http.StatusOK, map[string]bool{"deactivated": true})
	}
}

// ApplyDiscount godoc
//	@Summary		Apply a discount to a product
//	@Description	Claims a usage slot on the active discount covering the product and returns the discounted price. Each user can redeem a given discount once.
//	@Tags			Discounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.ApplyDiscountRequest		true	"Product and price"
//	@Success		200		{object}	models.ApplyDiscountResponse	"Discounted price"
//	@Failure		400		{object}	response.ErrorResponse			"No active discount, already used, or exhausted"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Security		BearerAuth
//	@Router			/discounts/apply [post]
func (h *DiscountHandler) ApplyDiscount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized discount apply attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.ApplyDiscountRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid apply discount input")
			return
		}

		resp, err := h.discountService.ApplyDiscount(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Discount apply rejected",
				slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Discount applied",
			slog.String("discountId", resp.DiscountID.String()),
			slog.String("userId", claims.UserID.String()))
		response.Success(w, http.StatusOK, resp)
	}
}
