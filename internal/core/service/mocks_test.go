package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

// mockStore is an in-memory stand-in for the MySQL adapter. CreateOrder
// mirrors the real adapter's contract: status check before any reservation,
// total recomputed from stored prices, and all-or-nothing application.
type mockStore struct {
	mu sync.Mutex

	users      map[int64]domain.User
	nextUserID int64

	books map[int64]*mockBook

	orders      []domain.Order
	orderLines  [][]domain.OrderLine
	nextOrderID int64

	reviews []domain.Review

	failCreateOrder error
}

type mockBook struct {
	price  float64
	stock  int
	status domain.BookStatus
	rating float64
}

func newMockStore() *mockStore {
	return &mockStore{
		users:       make(map[int64]domain.User),
		books:       make(map[int64]*mockBook),
		nextUserID:  1,
		nextOrderID: 1,
	}
}

func (m *mockStore) addBook(id int64, price float64, stock int, status domain.BookStatus) {
	m.books[id] = &mockBook{price: price, stock: stock, status: status}
}

func (m *mockStore) stock(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.books[id].stock
}

// ---- port.UserRepository ----

func (m *mockStore) CreateUser(_ context.Context, user domain.User) error {
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

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
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

func (m *mockStore) GetUserAccess(_ context.Context, userID int64) (domain.UserRole, domain.UserStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return "", "", fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return u.Role, u.Status, nil
}

func (m *mockStore) SetUserStatus(_ context.Context, userID int64, status domain.UserStatus) error {
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

func (m *mockStore) ListUsers(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

// ---- port.CatalogRepository ----

func (m *mockStore) ListBooks(_ context.Context, _ domain.BookFilter) ([]domain.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []domain.Book
	for id, b := range m.books {
		if b.status != domain.BookStatusApproved {
			continue
		}
		books = append(books, domain.Book{ID: id, Price: b.price, Stock: b.stock, Rating: b.rating})
	}
	return books, nil
}

func (m *mockStore) GetBookDetail(_ context.Context, bookID int64) (*domain.BookDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok || b.status != domain.BookStatusApproved {
		return nil, nil
	}
	return &domain.BookDetail{
		Book: domain.Book{ID: bookID, Price: b.price, Stock: b.stock, Rating: b.rating},
	}, nil
}

func (m *mockStore) SetBookStatus(_ context.Context, bookID int64, status domain.BookStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[bookID]
	if !ok {
		return fmt.Errorf("book %d: %w", bookID, domain.ErrNotFound)
	}
	b.status = status
	return nil
}

func (m *mockStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Fiction"}}, nil
}

// ---- port.OrderRepository ----

func (m *mockStore) CreateOrder(_ context.Context, order domain.Order, lines []domain.OrderLine) (int64, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateOrder != nil {
		return 0, 0, m.failCreateOrder
	}

	for _, line := range lines {
		b, ok := m.books[line.BookID]
		if !ok {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrNotFound)
		}
		if b.status != domain.BookStatusApproved {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrItemUnavailable)
		}
	}

	// Stage the decrements so a failing line leaves earlier lines untouched.
	staged := make(map[int64]int)
	var total float64
	for _, line := range lines {
		b := m.books[line.BookID]
		if b.stock-staged[line.BookID]-line.Quantity < 0 {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrInsufficientStock)
		}
		staged[line.BookID] += line.Quantity
		total += b.price * float64(line.Quantity)
	}
	for id, qty := range staged {
		m.books[id].stock -= qty
	}

	order.ID = m.nextOrderID
	m.nextOrderID++
	order.TotalAmount = total
	order.CreatedAt = time.Now()
	m.orders = append(m.orders, order)
	m.orderLines = append(m.orderLines, lines)
	return order.ID, total, nil
}

func (m *mockStore) ListOrdersByBuyer(_ context.Context, buyerID int64) ([]domain.Order, error) {
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

func (m *mockStore) ListOrders(_ context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

// ---- port.ReviewRepository ----

func (m *mockStore) AddReview(_ context.Context, review domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.books[review.BookID]
	if !ok {
		return fmt.Errorf("book %d: %w", review.BookID, domain.ErrNotFound)
	}
	if b.status != domain.BookStatusApproved {
		return fmt.Errorf("book %d: %w", review.BookID, domain.ErrItemUnavailable)
	}

	m.reviews = append(m.reviews, review)
	var sum int
	var count int
	for _, r := range m.reviews {
		if r.BookID == review.BookID {
			sum += r.Rating
			count++
		}
	}
	b.rating = float64(sum) / float64(count)
	return nil
}

// ---- port.StatsRepository ----

func (m *mockStore) Stats(_ context.Context) (domain.Stats, error) {
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

// mockCache records deletions so invalidation can be asserted.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]string
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (c *mockCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[key], nil
}

func (c *mockCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *mockCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

// stubTokenManager issues predictable tokens for auth tests.
type stubTokenManager struct{}

func (stubTokenManager) Issue(userID int64) (string, error) {
	return fmt.Sprintf("token-%d", userID), nil
}

func (stubTokenManager) Verify(token string) (int64, error) {
	var id int64
	if _, err := fmt.Sscanf(token, "token-%d", &id); err != nil {
		return 0, fmt.Errorf("invalid token")
	}
	return id, nil
}
