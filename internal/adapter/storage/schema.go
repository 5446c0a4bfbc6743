package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the DDL applied once on startup. Statements are idempotent.
// The columns that used to be nullable in older dumps (isbn, condition,
// publisher, publish_year) are NOT NULL with explicit defaults so row
// decoding never has to tolerate missing values.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id    BIGINT AUTO_INCREMENT PRIMARY KEY,
		fullname   VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL,
		phone      VARCHAR(32)  NOT NULL,
		password   VARCHAR(255) NOT NULL,
		role       VARCHAR(16)  NOT NULL DEFAULT 'buyer',
		status     VARCHAR(16)  NOT NULL DEFAULT 'active',
		created_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	)`,

	`CREATE TABLE IF NOT EXISTS categories (
		category_id   BIGINT AUTO_INCREMENT PRIMARY KEY,
		category_name VARCHAR(255) NOT NULL,
		UNIQUE KEY uq_categories_name (category_name)
	)`,

	`CREATE TABLE IF NOT EXISTS books (
		book_id      BIGINT AUTO_INCREMENT PRIMARY KEY,
		title        VARCHAR(255)  NOT NULL,
		author       VARCHAR(255)  NOT NULL DEFAULT '',
		price        DECIMAL(12,2) NOT NULL DEFAULT 0,
		old_price    DECIMAL(12,2) NOT NULL DEFAULT 0,
		description  TEXT,
		stock        INT           NOT NULL DEFAULT 0,
		rating       DECIMAL(3,2)  NOT NULL DEFAULT 0,
		image_url    VARCHAR(512)  NOT NULL DEFAULT '',
		category_id  BIGINT,
		seller_id    BIGINT,
		isbn         VARCHAR(32)   NOT NULL DEFAULT '',
		` + "`condition`" + ` VARCHAR(16) NOT NULL DEFAULT 'new',
		publisher    VARCHAR(255)  NOT NULL DEFAULT '',
		publish_year INT           NOT NULL DEFAULT 0,
		status       VARCHAR(16)   NOT NULL DEFAULT 'pending',
		created_at   DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_books_status (status),
		CONSTRAINT chk_books_stock CHECK (stock >= 0),
		CONSTRAINT fk_books_category FOREIGN KEY (category_id) REFERENCES categories (category_id),
		CONSTRAINT fk_books_seller FOREIGN KEY (seller_id) REFERENCES users (user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		order_id         BIGINT AUTO_INCREMENT PRIMARY KEY,
		buyer_id         BIGINT        NOT NULL,
		total_amount     DECIMAL(12,2) NOT NULL,
		status           VARCHAR(16)   NOT NULL DEFAULT 'pending',
		shipping_address VARCHAR(512)  NOT NULL,
		phone            VARCHAR(32)   NOT NULL,
		payment_method   VARCHAR(32)   NOT NULL DEFAULT 'COD',
		notes            VARCHAR(512)  NOT NULL DEFAULT '',
		created_at       DATETIME      NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_orders_buyer (buyer_id, created_at),
		CONSTRAINT fk_orders_buyer FOREIGN KEY (buyer_id) REFERENCES users (user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS order_details (
		order_detail_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id        BIGINT        NOT NULL,
		book_id         BIGINT        NOT NULL,
		quantity        INT           NOT NULL,
		price           DECIMAL(12,2) NOT NULL,
		KEY idx_order_details_order (order_id),
		CONSTRAINT chk_order_details_quantity CHECK (quantity > 0),
		CONSTRAINT fk_order_details_order FOREIGN KEY (order_id) REFERENCES orders (order_id),
		CONSTRAINT fk_order_details_book FOREIGN KEY (book_id) REFERENCES books (book_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reviews (
		review_id  BIGINT AUTO_INCREMENT PRIMARY KEY,
		book_id    BIGINT   NOT NULL,
		user_id    BIGINT   NOT NULL,
		rating     INT      NOT NULL,
		comment    TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_reviews_book (book_id, created_at),
		CONSTRAINT chk_reviews_rating CHECK (rating BETWEEN 1 AND 5),
		CONSTRAINT fk_reviews_book FOREIGN KEY (book_id) REFERENCES books (book_id),
		CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users (user_id)
	)`,
}

// ApplySchema creates the tables if they do not exist yet. The MySQL driver
// executes one statement per call, so the DDL is a slice rather than a blob.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
