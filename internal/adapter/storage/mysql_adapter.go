package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

const mysqlDuplicateEntry = 1062

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// ---- users ----

func (m *MySQLAdapter) CreateUser(ctx context.Context, user domain.User) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO users (fullname, email, phone, password, role, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())`,
		user.Fullname, user.Email, user.Phone, user.PasswordHash, user.Role, user.Status,
	)
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: email already registered", domain.ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := m.db.QueryRowContext(ctx, `
		SELECT user_id, fullname, email, phone, password, role, status, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Fullname, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (m *MySQLAdapter) GetUserAccess(ctx context.Context, userID int64) (domain.UserRole, domain.UserStatus, error) {
	var role domain.UserRole
	var status domain.UserStatus
	err := m.db.QueryRowContext(ctx,
		`SELECT role, status FROM users WHERE user_id = ?`, userID,
	).Scan(&role, &status)

	if errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("query user access: %w", err)
	}
	return role, status, nil
}

func (m *MySQLAdapter) SetUserStatus(ctx context.Context, userID int64, status domain.UserStatus) error {
	result, err := m.db.ExecContext(ctx,
		`UPDATE users SET status = ? WHERE user_id = ?`, status, userID)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}

	// MySQL reports zero affected rows for a no-op update, so a second lock
	// of an already-locked account looks identical to an unknown id. Probe
	// existence to keep the transition idempotent without hiding bad ids.
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := m.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE user_id = ?)`, userID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("probe user: %w", err)
		}
		if !exists {
			return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
	}
	return nil
}

func (m *MySQLAdapter) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT user_id, fullname, email, phone, role, status, created_at
		FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Fullname, &u.Email, &u.Phone, &u.Role, &u.Status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ---- books ----

const bookColumns = "b.book_id, b.title, b.author, b.price, b.old_price, " +
	"COALESCE(b.description, ''), b.stock, b.rating, b.image_url, " +
	"COALESCE(c.category_name, ''), b.isbn, b.`condition`, b.publisher, b.publish_year"

func (m *MySQLAdapter) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.category_id
		WHERE b.status = ?`
	args := []any{domain.BookStatusApproved}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query += " AND (b.title LIKE ? OR b.author LIKE ? OR b.isbn LIKE ?)"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.ISBN != "" {
		query += " AND b.isbn = ?"
		args = append(args, filter.ISBN)
	}
	if filter.Author != "" {
		query += " AND b.author LIKE ?"
		args = append(args, "%"+filter.Author+"%")
	}
	if filter.Category != "" {
		query += " AND c.category_name = ?"
		args = append(args, filter.Category)
	}
	if filter.MinPrice != nil {
		query += " AND b.price >= ?"
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += " AND b.price <= ?"
		args = append(args, *filter.MaxPrice)
	}
	if filter.Condition != "" {
		query += " AND b.`condition` = ?"
		args = append(args, filter.Condition)
	}

	switch filter.SortBy {
	case "price_asc":
		query += " ORDER BY b.price ASC"
	case "price_desc":
		query += " ORDER BY b.price DESC"
	case "rating":
		query += " ORDER BY b.rating DESC"
	case "name":
		query += " ORDER BY b.title ASC"
	default:
		query += " ORDER BY b.created_at DESC"
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Price, &b.OldPrice,
			&b.Description, &b.Stock, &b.Rating, &b.ImageURL,
			&b.Category, &b.ISBN, &b.Condition, &b.Publisher, &b.PublishYear,
		); err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (m *MySQLAdapter) GetBookDetail(ctx context.Context, bookID int64) (*domain.BookDetail, error) {
	var d domain.BookDetail
	err := m.db.QueryRowContext(ctx, `
		SELECT `+bookColumns+`, COALESCE(u.fullname, '')
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.category_id
		LEFT JOIN users u ON b.seller_id = u.user_id
		WHERE b.book_id = ? AND b.status = ?`, bookID, domain.BookStatusApproved,
	).Scan(
		&d.ID, &d.Title, &d.Author, &d.Price, &d.OldPrice,
		&d.Description, &d.Stock, &d.Rating, &d.ImageURL,
		&d.Category, &d.ISBN, &d.Condition, &d.Publisher, &d.PublishYear,
		&d.SellerName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query book: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT r.rating, COALESCE(r.comment, ''), r.created_at, COALESCE(u.fullname, '')
		FROM reviews r
		LEFT JOIN users u ON r.user_id = u.user_id
		WHERE r.book_id = ?
		ORDER BY r.created_at DESC`, bookID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.Rating, &r.Comment, &r.CreatedAt, &r.UserName); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.BookID = bookID
		d.Reviews = append(d.Reviews, r)
	}
	return &d, rows.Err()
}

func (m *MySQLAdapter) SetBookStatus(ctx context.Context, bookID int64, status domain.BookStatus) error {
	result, err := m.db.ExecContext(ctx,
		`UPDATE books SET status = ? WHERE book_id = ?`, status, bookID)
	if err != nil {
		return fmt.Errorf("update book status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := m.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM books WHERE book_id = ?)`, bookID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("probe book: %w", err)
		}
		if !exists {
			return fmt.Errorf("book %d: %w", bookID, domain.ErrNotFound)
		}
	}
	return nil
}

func (m *MySQLAdapter) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT category_id, category_name FROM categories ORDER BY category_name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ---- orders ----

// CreateOrder commits the order header, its lines and the stock reservations
// as one transaction. Each referenced book row is locked up front so the
// status check and the price snapshot are serialized against concurrent
// orders, then stock is reserved with a conditional decrement. Any failure
// rolls back everything.
func (m *MySQLAdapter) CreateOrder(ctx context.Context, order domain.Order, lines []domain.OrderLine) (int64, float64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	prices := make(map[int64]float64, len(lines))
	for _, line := range lines {
		if _, ok := prices[line.BookID]; ok {
			continue
		}
		var price float64
		var status domain.BookStatus
		err := tx.QueryRowContext(ctx,
			`SELECT price, status FROM books WHERE book_id = ? FOR UPDATE`, line.BookID,
		).Scan(&price, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrNotFound)
		}
		if err != nil {
			return 0, 0, fmt.Errorf("lock book %d: %w", line.BookID, err)
		}
		if status != domain.BookStatusApproved {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrItemUnavailable)
		}
		prices[line.BookID] = price
	}

	// The total is always recomputed from stored prices; the client-supplied
	// total and line prices are never trusted.
	var total float64
	for _, line := range lines {
		total += prices[line.BookID] * float64(line.Quantity)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (buyer_id, total_amount, status, shipping_address, phone, payment_method, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())`,
		order.BuyerID, total, domain.OrderStatusPending,
		order.ShippingAddress, order.Phone, order.PaymentMethod, order.Notes,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("order id: %w", err)
	}

	for _, line := range lines {
		// Duplicate book ids within one request are separate lines; each
		// decrement is applied independently against the remaining stock.
		result, err := tx.ExecContext(ctx, `
			UPDATE books
			SET stock = stock - ?
			WHERE book_id = ? AND stock >= ?`,
			line.Quantity, line.BookID, line.Quantity,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("reserve stock for book %d: %w", line.BookID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return 0, 0, fmt.Errorf("book %d: %w", line.BookID, domain.ErrInsufficientStock)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_details (order_id, book_id, quantity, price)
			VALUES (?, ?, ?, ?)`,
			orderID, line.BookID, line.Quantity, prices[line.BookID],
		); err != nil {
			return 0, 0, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit order: %w", err)
	}
	return orderID, total, nil
}

func (m *MySQLAdapter) ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT order_id, buyer_id, total_amount, status, shipping_address, phone, payment_method, notes, created_at
		FROM orders
		WHERE buyer_id = ?
		ORDER BY created_at DESC`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (m *MySQLAdapter) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT order_id, buyer_id, total_amount, status, shipping_address, phone, payment_method, notes, created_at
		FROM orders
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.TotalAmount, &o.Status,
			&o.ShippingAddress, &o.Phone, &o.PaymentMethod, &o.Notes, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ---- reviews ----

// AddReview appends the review and recomputes the book's mean rating inside
// the same transaction, so the aggregate is never observably stale relative
// to the review that caused it.
func (m *MySQLAdapter) AddReview(ctx context.Context, review domain.Review) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var status domain.BookStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM books WHERE book_id = ? FOR UPDATE`, review.BookID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("book %d: %w", review.BookID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock book %d: %w", review.BookID, err)
	}
	if status != domain.BookStatusApproved {
		return fmt.Errorf("book %d: %w", review.BookID, domain.ErrItemUnavailable)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO reviews (book_id, user_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		review.BookID, review.UserID, review.Rating, review.Comment,
	); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE books
		SET rating = (SELECT AVG(rating) FROM reviews WHERE book_id = ?)
		WHERE book_id = ?`,
		review.BookID, review.BookID,
	); err != nil {
		return fmt.Errorf("update rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit review: %w", err)
	}
	return nil
}

// ---- stats ----

func (m *MySQLAdapter) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	err := m.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)`,
	).Scan(&s.Users, &s.Books, &s.Orders, &s.Revenue)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return s, nil
}
