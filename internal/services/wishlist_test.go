package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	appErrors "github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
	service "github.com/nandanijewellers/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWishlistAddItem(t *testing.T) {
	mockRepo := repository.NewMockWishlistRepository()
	mockProductRepo := repository.NewMockProductRepository()
	wishlistService := service.NewWishlistService(mockRepo, mockProductRepo)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	product := &models.Product{ID: productID, Name: "Diamond Pendant", Price: 48000, Stock: 2}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockProductRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mockRepo.On("AddItem", ctx, mock.AnythingOfType("*models.WishlistEntry")).Return(nil).Once()

		// Act
		entry, err := wishlistService.AddItem(ctx, userID, &models.AddWishlistItemRequest{ProductID: productID})

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, entry)
		assert.Equal(t, userID, entry.UserID)
		assert.Equal(t, product, entry.Product)
		mockRepo.AssertExpectations(t)
		mockProductRepo.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Add", func(t *testing.T) {
		// Arrange
		mockProductRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		mockRepo.On("AddItem", ctx, mock.AnythingOfType("*models.WishlistEntry")).Return(uniqueViolation()).Once()

		// Act
		entry, err := wishlistService.AddItem(ctx, userID, &models.AddWishlistItemRequest{ProductID: productID})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, entry)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Not Found", func(t *testing.T) {
		// Arrange
		mockProductRepo.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		entry, err := wishlistService.AddItem(ctx, userID, &models.AddWishlistItemRequest{ProductID: productID})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, entry)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockProductRepo.AssertExpectations(t)
	})
}

func TestGetWishlist(t *testing.T) {
	mockRepo := repository.NewMockWishlistRepository()
	mockProductRepo := repository.NewMockProductRepository()
	wishlistService := service.NewWishlistService(mockRepo, mockProductRepo)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success - Empty Wishlist", func(t *testing.T) {
		// Arrange
		mockRepo.On("GetByUser", ctx, userID).Return(nil, nil).Once()

		// Act
		wishlist, err := wishlistService.GetWishlist(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, wishlist.Items)
		assert.Empty(t, wishlist.Items)
		mockRepo.AssertExpectations(t)
	})
}

func TestMoveToCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	entryID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockWishlistRepository()
		mockProductRepo := repository.NewMockProductRepository()
		wishlistService := service.NewWishlistService(mockRepo, mockProductRepo)
		cartEntry := &models.CartEntry{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1}
		mockRepo.On("MoveToCart", ctx, entryID, userID).Return(cartEntry, nil).Once()

		// Act
		entry, err := wishlistService.MoveToCart(ctx, entryID, userID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, cartEntry, entry)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Entry Not Found", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockWishlistRepository()
		mockProductRepo := repository.NewMockProductRepository()
		wishlistService := service.NewWishlistService(mockRepo, mockProductRepo)
		mockRepo.On("MoveToCart", ctx, entryID, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		entry, err := wishlistService.MoveToCart(ctx, entryID, userID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, entry)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Already In Cart", func(t *testing.T) {
		// Arrange
		mockRepo := repository.NewMockWishlistRepository()
		mockProductRepo := repository.NewMockProductRepository()
		wishlistService := service.NewWishlistService(mockRepo, mockProductRepo)
		mockRepo.On("MoveToCart", ctx, entryID, userID).Return(nil, uniqueViolation()).Once()

		// Act
		entry, err := wishlistService.MoveToCart(ctx, entryID, userID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, entry)
		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, appErr.Code)
		mockRepo.AssertExpectations(t)
	})
}
