package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/cache"
	"github.com/nandanijewellers/storefront-api/internal/config"
	"github.com/nandanijewellers/storefront-api/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (cache.Cache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{
		DefaultTTL: 10 * time.Minute,
		ProductTTL: 5 * time.Minute,
	}

	return cache.NewRedisCache(client, cfg), mock
}

func TestGet(t *testing.T) {
	ctx := t.Context()
	product := models.Product{ID: uuid.New(), Name: "Gold Bangle", Price: 10000, Stock: 5}
	key := cache.Key(cache.ProductKeyPrefix, product.ID.String())

	jsonData, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		var result models.Product

		mock.ExpectGet(key).SetVal(string(jsonData))

		// Act
		found, err := productCache.Get(ctx, key, &result)

		// Assert
		require.NoError(t, err, "Get should not return an error on success")
		assert.True(t, found, "Get should return found=true when key exists")
		assert.Equal(t, product.Name, result.Name, "Get should correctly unmarshal the data")
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Success - Cache Miss", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		var result models.Product

		mock.ExpectGet(key).SetErr(redis.Nil)

		// Act
		found, err := productCache.Get(ctx, key, &result)

		// Assert
		require.NoError(t, err, "A cache miss is not an error")
		assert.False(t, found, "Get should return found=false on cache miss")
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		var result models.Product

		expectedErr := errors.New("redis connection error")

		mock.ExpectGet(key).SetErr(expectedErr)

		// Act
		found, err := productCache.Get(ctx, key, &result)

		// Assert
		require.Error(t, err, "Get should return an error when Redis fails")
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr, "Error should wrap the original Redis error")
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Failure - Corrupt Payload", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		var result models.Product

		mock.ExpectGet(key).SetVal(`{"price": "not_a_number"}`)

		// Act
		found, err := productCache.Get(ctx, key, &result)

		// Assert
		require.Error(t, err, "Get should return an error on unmarshal failure")
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})
}

func TestSet(t *testing.T) {
	ctx := t.Context()
	product := models.Product{ID: uuid.New(), Name: "Gold Bangle", Price: 10000, Stock: 5}
	key := cache.Key(cache.ProductKeyPrefix, product.ID.String())

	jsonData, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		mock.ExpectSet(key, jsonData, 5*time.Minute).SetVal("OK")

		// Act
		err := productCache.Set(ctx, key, product, 5*time.Minute)

		// Assert
		require.NoError(t, err, "Set should not return an error on success")
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Success - Zero TTL Falls Back To Default", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		mock.ExpectSet(key, jsonData, 10*time.Minute).SetVal("OK")

		// Act
		err := productCache.Set(ctx, key, product, 0)

		// Assert
		require.NoError(t, err, "Set should fall back to the configured default TTL")
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		expectedErr := errors.New("redis write error")

		mock.ExpectSet(key, jsonData, 5*time.Minute).SetErr(expectedErr)

		// Act
		err := productCache.Set(ctx, key, product, 5*time.Minute)

		// Assert
		require.Error(t, err, "Set should return an error when Redis fails")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})
}

func TestDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, uuid.New().String())

	t.Run("Success", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		mock.ExpectDel(key).SetVal(1)

		// Act
		err := productCache.Delete(ctx, key)

		// Assert
		require.NoError(t, err, "Delete should not return an error on success")
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		productCache, mock := setup(t)

		expectedErr := errors.New("redis delete error")

		mock.ExpectDel(key).SetErr(expectedErr)

		// Act
		err := productCache.Delete(ctx, key)

		// Assert
		require.Error(t, err, "Delete should return an error when Redis fails")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet(), "Redis mock expectations not met")
	})
}
