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

type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartEntry, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, error)
	UpdateQuantity(ctx context.Context, entryID, userID uuid.UUID, req *models.UpdateCartQuantityRequest) error
	RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{repo: repo, productRepo: productRepo}
}

// AddItem creates the (user, product) row with quantity 1. Duplicate adds
// surface as a unique violation from the single INSERT, never as a
// read-then-write race.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartEntry, error) {

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, errors.NotFoundError("Product not found").WithError(err)
	}

	if product.Stock < 1 {
		return nil, errors.InsufficientStockError("Product is out of stock")
	}

	entry := &models.CartEntry{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  1,
	}

	if err := s.repo.AddItem(ctx, entry); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.DuplicateEntryError("Product is already in the cart").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	entry.Product = product

	return entry, nil
}

// GetCart returns an empty item list for an empty cart; absence of rows is
// not an error.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, error) {

	entries, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if entries == nil {
		entries = []models.CartEntry{}
	}

	var total float64
	for _, entry := range entries {
		if entry.Product != nil {
			total += entry.Product.Price * float64(entry.Quantity)
		}
	}

	return &models.CartResponse{Items: entries, Total: total}, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, entryID, userID uuid.UUID, req *models.UpdateCartQuantityRequest) error {

	entries, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return errors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	var entry *models.CartEntry
	for i := range entries {
		if entries[i].ID == entryID {
			entry = &entries[i]
			break
		}
	}

	if entry == nil {
		return errors.NotFoundError("Cart entry not found")
	}

	if entry.Product != nil && req.Quantity > entry.Product.Stock {
		return errors.InsufficientStockError("Requested quantity exceeds available stock")
	}

	if err := s.repo.UpdateQuantity(ctx, entryID, userID, req.Quantity); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Cart entry not found").WithError(err)
		}
		return errors.DatabaseError("Failed to update cart entry").WithError(err)
	}

	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, entryID, userID uuid.UUID) error {

	if err := s.repo.RemoveItem(ctx, entryID, userID); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("Cart entry not found").WithError(err)
		}
		return errors.DatabaseError("Failed to remove cart entry").WithError(err)
	}

	return nil
}
