package service

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/nandanijewellers/storefront-api/internal/errors"
	"github.com/nandanijewellers/storefront-api/internal/models"
	repository "github.com/nandanijewellers/storefront-api/internal/repositories"
)

type WishlistService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddWishlistItemRequest) (*models.WishlistEntry, error)
	GetWishlist(ctx context.Context, userID uuid.UUID) (*models.WishlistResponse, error)
	RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error
	MoveToCart(ctx context.Context, entryID, userID uuid.UUID) (*models.CartEntry, error)
}

type wishlistService struct {
	repo        repository.WishlistRepository
	productRepo repository.ProductRepository
}

func NewWishlistService(repo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{repo: repo, productRepo: productRepo}
}

func (s *wishlistService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddWishlistItemRequest) (*models.WishlistEntry, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	entry := &models.WishlistEntry{
		UserID:    userID,
		ProductID: req.ProductID,
	}

	if err := s.repo.AddItem(ctx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.DuplicateEntryError("Product is already in the wishlist").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to add item to wishlist").WithError(err)
	}

	entry.Product = product

	return entry, nil
}

func (s *wishlistService) GetWishlist(ctx context.Context, userID uuid.UUID) (*models.WishlistResponse, error) {

	entries, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to retrieve wishlist").WithError(err)
	}

	if entries == nil {
		entries = []models.WishlistEntry{}
	}

	return &models.WishlistResponse{Items: entries}, nil
}

func (s *wishlistService) RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error {

	if err := s.repo.RemoveItem(ctx, entryID, userID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Wishlist entry not found").WithError(err)
		}
		return errors.DatabaseError("Failed to remove wishlist entry").WithError(err)
	}

	return nil
}

// MoveToCart delegates to a single transaction so the wishlist delete and the
// cart insert land together or not at all.
func (s *wishlistService) MoveToCart(ctx context.Context, entryID, userID uuid.UUID) (*models.CartEntry, error) {

	entry, err := s.repo.MoveToCart(ctx, entryID, userID)
	if err != nil {
		switch {
		case stderrors.Is(err, sql.ErrNoRows):
			return nil, errors.NotFoundError("Wishlist entry not found").WithError(err)
		case repository.IsUniqueViolation(err):
			return nil, errors.DuplicateEntryError("Product is already in the cart").WithError(err)
		default:
			return nil, errors.DatabaseError("Failed to move item to cart").WithError(err)
		}
	}

	return entry, nil
}
