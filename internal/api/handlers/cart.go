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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds a product with quantity 1. Adding a product already in the cart returns 409.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddCartItemRequest	true	"Product to add"
//	@Success		201		{object}	models.CartEntry			"Created cart entry"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or out of stock"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		409		{object}	response.ErrorResponse		"Product already in cart"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add cart item input")
			return
		}

		entry, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add cart item",
				slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item added", slog.String("entryId", entry.ID.String()))
		response.Success(w, http.StatusCreated, entry)
	}
}

// GetCart godoc
//	@Summary		Get the cart
//	@Description	Returns the caller's cart items with the running total. An empty cart is a 200 with an empty list.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.CartResponse		"Cart contents"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to fetch cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateQuantity godoc
//	@Summary		Update a cart entry's quantity
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Cart entry ID (UUID)"	Format(uuid)
//	@Param			item	body		models.UpdateCartQuantityRequest	true	"New quantity"
//	@Success		200		{object}	response.APIResponse				"Updated"
//	@Failure		400		{object}	response.ErrorResponse				"Validation error or insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse				"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse				"Cart entry not found"
//	@Security		BearerAuth
//	@Router			/cart/items/{id} [put]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		entryID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCartQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		if err := h.cartService.UpdateQuantity(r.Context(), entryID, claims.UserID, &req); err != nil {
			logger.Warn("Failed to update cart entry",
				slog.String("entryId", entryID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

// RemoveItem godoc
//	@Summary		Remove a cart entry
//	@Tags			Cart
//	@Produce		json
//	@Param			id	path		string					true	"Cart entry ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse	"Removed"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Cart entry not found"
//	@Security		BearerAuth
//	@Router			/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		entryID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.RemoveItem(r.Context(), entryID, claims.UserID); err != nil {
			logger.Warn("Failed to remove cart entry",
				slog.String("entryId", entryID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"removed": true})
	}
}
