package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nandanijewellers/storefront-api/internal/config"
)

// Repositories bundles every SQL-backed repository over one pool.
type Repositories struct {
	DB *sql.DB

	User     UserRepository
	Product  ProductRepository
	Cart     CartRepository
	Wishlist WishlistRepository
	Discount DiscountRepository
	Order    OrderRepository
	Payment  PaymentRepository
	EmailLog EmailLogRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repositories{
		DB:       db,
		User:     NewUserRepo(db),
		Product:  NewProductRepo(db),
		Cart:     NewCartRepo(db),
		Wishlist: NewWishlistRepo(db),
		Discount: NewDiscountRepo(db),
		Order:    NewOrderRepo(db),
		Payment:  NewPaymentRepo(db),
		EmailLog: NewEmailLogRepo(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// IsUniqueViolation reports whether err is a Postgres unique-index violation.
// The cart and wishlist tables rely on this to turn their compound unique
// indexes into duplicate-entry failures without a read-then-write check.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
