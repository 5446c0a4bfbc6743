package handler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

// memStore backs the handler tests with the same contract the MySQL adapter
// honors: availability checks before reservation, recomputed totals, and
// all-or-nothing stock application.
type memStore struct {
	mu sync.Mutex

	users      map[int64]domain.User
	nextUserID int64

	books      map[int64]*domain.Book
	nextBookID int64

	orders      []domain.Order
	orderLines  map[int64][]domain.OrderLine
	nextOrderID int64

	reviews []domain.Review

	categories []domain.Category
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[int64]domain.User),
		books:       make(map[int64]*domain.Book),
		orderLines:  make(map[int64][]domain.OrderLine),
		nextUserID:  1,
		nextBookID:  1,
		nextOrderID: 1,
		categories:  []domain.Category{{ID: 1, Name: "Fiction"}, {ID: 2, Name: "Science"}},
	}
}

func (m *memStore) CreateUser(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.Validationf("email already registered")
		}
	}
	user.ID = m.nextUserID
	m.nextUserID++
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetUserAccess(_ context.Context, userID int64) (domain.UserRole, domain.UserStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return "", "", fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return u.Role, u.Status, nil
}

func (m *memStore) SetUserStatus(_ context.Context, userID int64, status domain.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	u.Status = status
	m.users[userID] = u
	return nil
}

func (m *memStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *memStore) ListBooks(_ context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []domain.Book
	for _, b := range m.books {
		if b.Status != domain.BookStatusApproved {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(filter.Search)) {
			continue
		}
		books = append(books, *b)
	}
	return books, nil
}

func (m *memStore) GetBookDetail(_ context.Context, bookID int64) (*domain.BookDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok || b.Status != domain.BookStatusApproved {
		return nil, nil
	}
	detail := &domain.BookDetail{Book: *b}
	if seller, ok := m.users[b.SellerID]; ok {
		detail.SellerName = seller.Fullname
	}
	for _, rv := range m.reviews {
		if rv.BookID == bookID {
			detail.Reviews = append(detail.Reviews, rv)
		}
	}
	return detail, nil
}

func (m *memStore) SetBookStatus(_ context.Context, bookID int64, status domain.BookStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok {
		return fmt.Errorf("book %d: %w", bookID, domain.ErrNotFound)
	}
	b.Status = status
	return nil
}

func (m *memStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Category(nil), m.categories...), nil
}

func (m *memStore) CreateOrder(_ context.Context, order domain.Order, lines []domain.OrderLine) (int64, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, line := range lines {
		b, ok := m.books[line.BookID]
		if !ok {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrNotFound)
		}
		if b.Status != domain.BookStatusApproved {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrItemUnavailable)
		}
	}

	staged := make(map[int64]int)
	var total float64
	for i := range lines {
		b := m.books[lines[i].BookID]
		if b.Stock-staged[lines[i].BookID]-lines[i].Quantity < 0 {
			return 0, 0, fmt.Errorf("book %d: %w", lines[i].BookID, domain.ErrInsufficientStock)
		}
		staged[lines[i].BookID] += lines[i].Quantity
		lines[i].Price = b.Price
		total += b.Price * float64(lines[i].Quantity)
	}
	for id, qty := range staged {
		m.books[id].Stock -= qty
	}

	order.ID = m.nextOrderID
	m.nextOrderID++
	order.TotalAmount = total
	order.CreatedAt = time.Now()
	m.orders = append(m.orders, order)
	m.orderLines[order.ID] = lines
	return order.ID, total, nil
}

func (m *memStore) ListOrdersByBuyer(_ context.Context, buyerID int64) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []domain.Order
	for _, o := range m.orders {
		if o.BuyerID == buyerID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (m *memStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

func (m *memStore) AddReview(_ context.Context, review domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[review.BookID]
	if !ok {
		return fmt.Errorf("book %d: %w", review.BookID, domain.ErrNotFound)
	}
	if b.Status != domain.BookStatusApproved {
		return fmt.Errorf("book %d: %w", review.BookID, domain.ErrItemUnavailable)
	}

	if u, ok := m.users[review.UserID]; ok {
		review.UserName = u.Fullname
	}
	review.CreatedAt = time.Now()
	m.reviews = append(m.reviews, review)

	var sum, count int
	for _, rv := range m.reviews {
		if rv.BookID == review.BookID {
			sum += rv.Rating
			count++
		}
	}
	b.Rating = float64(sum) / float64(count)
	return nil
}

func (m *memStore) Stats(_ context.Context) (domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var revenue float64
	for _, o := range m.orders {
		revenue += o.TotalAmount
	}
	return domain.Stats{
		Users:   int64(len(m.users)),
		Books:   int64(len(m.books)),
		Orders:  int64(len(m.orders)),
		Revenue: revenue,
	}, nil
}

// memCache is a plain map behind the cache port.
type memCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}
