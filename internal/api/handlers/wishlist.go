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

type WishlistHandler struct {
	wishlistService service.WishlistService
	validator       *validator.Validate
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService, validator: validator.New()}
}

// AddItem godoc
//	@Summary		Add a product to the wishlist
//	@Tags			Wishlist
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddWishlistItemRequest	true	"Product to add"
//	@Success		201		{object}	models.WishlistEntry			"Created wishlist entry"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Product not found"
//	@Failure		409		{object}	response.ErrorResponse			"Product already in wishlist"
//	@Security		BearerAuth
//	@Router			/wishlist/items [post]
func (h *WishlistHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		var req models.AddWishlistItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add wishlist item input")
			return
		}

		entry, err := h.wishlistService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add wishlist item",
				slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Wishlist item added", slog.String("entryId", entry.ID.String()))
		response.Success(w, http.StatusCreated, entry)
	}
}

// GetWishlist godoc
//	@Summary		Get the wishlist
//	@Tags			Wishlist
//	@Produce		json
//	@Success		200	{object}	models.WishlistResponse	"Wishlist contents"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/wishlist [get]
func (h *WishlistHandler) GetWishlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		wishlist, err := h.wishlistService.GetWishlist(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to fetch wishlist", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, wishlist)
	}
}

// RemoveItem godoc
//	@Summary		Remove a wishlist entry
//	@Tags			Wishlist
//	@Produce		json
//	@Param			id	path		string					true	"Wishlist entry ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse	"Removed"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Wishlist entry not found"
//	@Security		BearerAuth
//	@Router			/wishlist/items/{id} [delete]
func (h *WishlistHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		entryID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.wishlistService.RemoveItem(r.Context(), entryID, claims.UserID); err != nil {
			logger.Warn("Failed to remove wishlist entry",
				slog.String("entryId", entryID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]bool{"removed": true})
	}
}

// MoveToCart godoc
//	@Summary		Move a wishlist entry to the cart
//	@Description	Removes the entry from the wishlist and adds the product to the cart in one transaction.
//	@Tags			Wishlist
//	@Produce		json
//	@Param			id	path		string					true	"Wishlist entry ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.CartEntry		"New cart entry"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Wishlist entry not found"
//	@Failure		409	{object}	response.ErrorResponse	"Product already in cart"
//	@Security		BearerAuth
//	@Router			/wishlist/items/{id}/move-to-cart [post]
func (h *WishlistHandler) MoveToCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Warn("Unauthorized wishlist access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		entryID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		entry, err := h.wishlistService.MoveToCart(r.Context(), entryID, claims.UserID)
		if err != nil {
			logger.Warn("Failed to move wishlist entry to cart",
				slog.String("entryId", entryID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Wishlist entry moved to cart", slog.String("cartEntryId", entry.ID.String()))
		response.Success(w, http.StatusOK, entry)
	}
}
