package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/api/handlers"
	appErrors "github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/nandanijewellers/storefront-api/internal/services/mocks"
	"github.com/nandanijewellers/storefront-api/internal/testutils"
	"github.com/nandanijewellers/storefront-api/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupCartTest() (*mocks.CartService, *handlers.CartHandler) {
	mockCartService := new(mocks.CartService)
	cartHandler := handlers.NewCartHandler(mockCartService)

	return mockCartService, cartHandler
}

func TestAddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	body := []byte(fmt.Sprintf(`{"product_id": %q}`, productID))

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/cart/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		entry := &models.CartEntry{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: 1}
		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddCartItemRequest")).
			Return(entry, nil).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithoutContext("POST", "/api/v1/cart/items", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		mockCartService.AssertNotCalled(t, "AddItem")
	})

	t.Run("Failure - Missing Product ID", func(t *testing.T) {
		// Arrange
		_, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/cart/items", bytes.NewBufferString(`{}`), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})

	t.Run("Failure - Already In Cart", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("POST", "/api/v1/cart/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddCartItemRequest")).
			Return(nil, appErrors.DuplicateEntryError("Product is already in the cart")).Once()

		// Act
		cartHandler.AddItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusConflict, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, resp.Error.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestGetCart(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("GET", "/api/v1/cart", nil, userID, nil)
		recorder := httptest.NewRecorder()

		cart := &models.CartResponse{
			Items: []models.CartEntry{{ID: uuid.New(), UserID: userID, Quantity: 2}},
			Total: 20000,
		}
		mockCartService.On("GetCart", mock.Anything, userID).Return(cart, nil).Once()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithoutContext("GET", "/api/v1/cart", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.GetCart()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var resp response.APIResponse
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error.Message, "Authentication required")
		mockCartService.AssertNotCalled(t, "GetCart")
	})
}

func TestRemoveItem(t *testing.T) {
	userID := uuid.New()
	entryID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/cart/items/"+entryID.String(), nil,
			userID, map[string]string{"id": entryID.String()})
		recorder := httptest.NewRecorder()

		mockCartService.On("RemoveItem", mock.Anything, entryID, userID).Return(nil).Once()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid ID", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/cart/items/not-a-uuid", nil,
			userID, map[string]string{"id": "not-a-uuid"})
		recorder := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem")
	})

	t.Run("Failure - Entry Not Found", func(t *testing.T) {
		// Arrange
		mockCartService, cartHandler := setupCartTest()
		req := testutils.CreateTestRequestWithContext("DELETE", "/api/v1/cart/items/"+entryID.String(), nil,
			userID, map[string]string{"id": entryID.String()})
		recorder := httptest.NewRecorder()

		mockCartService.On("RemoveItem", mock.Anything, entryID, userID).
			Return(appErrors.NotFoundError("Cart entry not found")).Once()

		// Act
		cartHandler.RemoveItem()(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		mockCartService.AssertExpectations(t)
	})
}
