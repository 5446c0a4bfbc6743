package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
	"github.com/phuc2705/Project-Sach/internal/port"
)

type AuthService struct {
	users  port.UserRepository
	tokens port.TokenManager
}

func NewAuthService(users port.UserRepository, tokens port.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, fullname, email, phone, password string) error {
	if fullname == "" || email == "" || phone == "" || password == "" {
		return domain.Validationf("fullname, email, phone and password are required")
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.StoreError(err)
	}
	if existing != nil {
		return domain.Validationf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Fullname:     fullname,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleBuyer,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.StoreError(err)
	}
	return nil
}

// Login checks the password against the stored digest and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.Validationf("email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.StoreError(err)
	}
	if user == nil {
		return nil, "", domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrUnauthenticated
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", domain.ErrForbidden
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, tok, nil
}

// RequireAdmin loads the principal's current role and status. Unknown,
// inactive and non-admin principals all collapse into the same refusal so
// the response never reveals which condition failed; the detail is logged.
func (s *AuthService) RequireAdmin(ctx context.Context, userID int64) error {
	role, status, err := s.users.GetUserAccess(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			slog.WarnContext(ctx, "admin check for unknown principal", "user_id", userID)
			return domain.ErrForbidden
		}
		return domain.StoreError(err)
	}
	if status != domain.UserStatusActive {
		slog.WarnContext(ctx, "admin check for inactive account", "user_id", userID)
		return domain.ErrForbidden
	}
	if role != domain.RoleAdmin {
		slog.WarnContext(ctx, "admin check for non-admin role", "user_id", userID)
		return domain.ErrForbidden
	}
	return nil
}
