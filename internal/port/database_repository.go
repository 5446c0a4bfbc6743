package port

import (
	"context"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

type UserRepository interface {
	// CreateUser persists a new account; fails if the email is taken
	CreateUser(ctx context.Context, user domain.User) error

	// GetUserByEmail returns nil when no account matches
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUserAccess loads the current role and status for the admin gate
	GetUserAccess(ctx context.Context, userID int64) (domain.UserRole, domain.UserStatus, error)

	// SetUserStatus applies an idempotent active/locked transition
	SetUserStatus(ctx context.Context, userID int64, status domain.UserStatus) error

	ListUsers(ctx context.Context) ([]domain.User, error)
}

type CatalogRepository interface {
	// ListBooks returns approved books matching the filter
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error)

	// GetBookDetail returns an approved book with its reviews, nil if absent
	GetBookDetail(ctx context.Context, bookID int64) (*domain.BookDetail, error)

	// SetBookStatus applies an idempotent pending/approved/hidden transition
	SetBookStatus(ctx context.Context, bookID int64, status domain.BookStatus) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type OrderRepository interface {
	// CreateOrder commits the order, its lines and the stock reservations as
	// one transaction. The total is recomputed from stored prices; the new
	// order id and persisted total are returned.
	CreateOrder(ctx context.Context, order domain.Order, lines []domain.OrderLine) (int64, float64, error)

	ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type ReviewRepository interface {
	// AddReview appends the review and recomputes the book's mean rating in
	// the same transaction
	AddReview(ctx context.Context, review domain.Review) error
}

type StatsRepository interface {
	Stats(ctx context.Context) (domain.Stats, error)
}
