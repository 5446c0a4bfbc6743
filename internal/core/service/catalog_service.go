package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
	"github.com/phuc2705/Project-Sach/internal/port"
)

const (
	bookCacheKeyPrefix = "book:"
	categoriesCacheKey = "categories"

	bookCacheTTL       = 5 * time.Minute
	categoriesCacheTTL = time.Hour
)

func bookCacheKey(bookID int64) string {
	return bookCacheKeyPrefix + strconv.FormatInt(bookID, 10)
}

// CatalogService serves the buyer-facing read side. Book detail and the
// category list are cached; every mutation path deletes the affected keys,
// so a cache failure only means a store round trip.
type CatalogService struct {
	catalog port.CatalogRepository
	cache   port.CacheRepository
}

func NewCatalogService(catalog port.CatalogRepository, cache port.CacheRepository) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache}
}

// ListBooks is not cached: the filter space is too wide for useful keys.
func (s *CatalogService) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	books, err := s.catalog.ListBooks(ctx, filter)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, bookID int64) (*domain.BookDetail, error) {
	key := bookCacheKey(bookID)

	if cached, err := s.cache.Get(ctx, key); err != nil {
		slog.WarnContext(ctx, "book cache read failed", "book_id", bookID, "error", err)
	} else if cached != "" {
		var detail domain.BookDetail
		if err := json.Unmarshal([]byte(cached), &detail); err == nil {
			return &detail, nil
		}
		slog.WarnContext(ctx, "dropping undecodable book cache entry", "book_id", bookID)
	}

	detail, err := s.catalog.GetBookDetail(ctx, bookID)
	if err != nil {
		return nil, domain.StoreError(err)
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}

	if payload, err := json.Marshal(detail); err == nil {
		if err := s.cache.Set(ctx, key, string(payload), bookCacheTTL); err != nil {
			slog.WarnContext(ctx, "book cache write failed", "book_id", bookID, "error", err)
		}
	}
	return detail, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if cached, err := s.cache.Get(ctx, categoriesCacheKey); err != nil {
		slog.WarnContext(ctx, "categories cache read failed", "error", err)
	} else if cached != "" {
		var categories []domain.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, domain.StoreError(err)
	}

	if payload, err := json.Marshal(categories); err == nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, string(payload), categoriesCacheTTL); err != nil {
			slog.WarnContext(ctx, "categories cache write failed", "error", err)
		}
	}
	return categories, nil
}
