package service

import (
	"context"
	"log/slog"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
	"github.com/phuc2705/Project-Sach/internal/port"
)

// AdminService exposes the privileged state transitions. Every operation
// takes the calling principal and re-checks role and status through the
// auth gate before touching anything.
type AdminService struct {
	auth    *AuthService
	users   port.UserRepository
	catalog port.CatalogRepository
	orders  port.OrderRepository
	stats   port.StatsRepository
	cache   port.CacheRepository
}

func NewAdminService(
	auth *AuthService,
	users port.UserRepository,
	catalog port.CatalogRepository,
	orders port.OrderRepository,
	stats port.StatsRepository,
	cache port.CacheRepository,
) *AdminService {
	return &AdminService{
		auth:    auth,
		users:   users,
		catalog: catalog,
		orders:  orders,
		stats:   stats,
		cache:   cache,
	}
}

// LockUser transitions the account to locked. Locking an already-locked
// account succeeds and re-asserts the state.
func (s *AdminService) LockUser(ctx context.Context, adminID, userID int64) error {
	return s.setUserStatus(ctx, adminID, userID, domain.UserStatusLocked)
}

func (s *AdminService) UnlockUser(ctx context.Context, adminID, userID int64) error {
	return s.setUserStatus(ctx, adminID, userID, domain.UserStatusActive)
}

func (s *AdminService) setUserStatus(ctx context.Context, adminID, userID int64, status domain.UserStatus) error {
	if err := s.auth.RequireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.users.SetUserStatus(ctx, userID, status); err != nil {
		return domain.StoreError(err)
	}
	return nil
}

// ApproveBook makes the listing visible to buyers. Approving an approved or
// hidden book succeeds; any state is reachable through approve/hide.
func (s *AdminService) ApproveBook(ctx context.Context, adminID, bookID int64) error {
	return s.setBookStatus(ctx, adminID, bookID, domain.BookStatusApproved)
}

func (s *AdminService) HideBook(ctx context.Context, adminID, bookID int64) error {
	return s.setBookStatus(ctx, adminID, bookID, domain.BookStatusHidden)
}

func (s *AdminService) setBookStatus(ctx context.Context, adminID, bookID int64, status domain.BookStatus) error {
	if err := s.auth.RequireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.catalog.SetBookStatus(ctx, bookID, status); err != nil {
		return domain.StoreError(err)
	}
	if err := s.cache.Delete(ctx, bookCacheKey(bookID)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate book cache", "book_id", bookID, "error", err)
	}
	return nil
}

func (s *AdminService) Stats(ctx context.Context, adminID int64) (domain.Stats, error) {
	if err := s.auth.RequireAdmin(ctx, adminID); err != nil {
		return domain.Stats{}, err
	}
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return domain.Stats{}, domain.StoreError(err)
	}
	return stats, nil
}

func (s *AdminService) ListUsers(ctx context.Context, adminID int64) ([]domain.User, error) {
	if err := s.auth.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return users, nil
}

func (s *AdminService) ListOrders(ctx context.Context, adminID int64) ([]domain.Order, error) {
	if err := s.auth.RequireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return orders, nil
}
