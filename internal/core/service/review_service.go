package service

import (
	"context"
	"log/slog"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
	"github.com/phuc2705/Project-Sach/internal/port"
)

type ReviewService struct {
	reviews port.ReviewRepository
	cache   port.CacheRepository
}

func NewReviewService(reviews port.ReviewRepository, cache port.CacheRepository) *ReviewService {
	return &ReviewService{reviews: reviews, cache: cache}
}

// AddReview appends a review and recomputes the book's mean rating in one
// transaction. Repeated reviews by the same user are allowed.
func (s *ReviewService) AddReview(ctx context.Context, bookID, userID int64, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.Validationf("rating must be between 1 and 5")
	}

	review := domain.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviews.AddReview(ctx, review); err != nil {
		return domain.StoreError(err)
	}

	if err := s.cache.Delete(ctx, bookCacheKey(bookID)); err != nil {
		slog.WarnContext(ctx, "failed to invalidate book cache", "book_id", bookID, "error", err)
	}
	return nil
}
