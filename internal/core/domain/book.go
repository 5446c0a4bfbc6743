package domain

import "time"

type BookStatus string

const (
	BookStatusPending  BookStatus = "pending"
	BookStatusApproved BookStatus = "approved"
	BookStatusHidden   BookStatus = "hidden"
)

type Book struct {
	ID          int64
	Title       string
	Author      string
	Price       float64
	OldPrice    float64
	Description string
	Stock       int
	Rating      float64 // materialized mean of all reviews
	ImageURL    string
	Category    string
	ISBN        string
	Condition   string
	Publisher   string
	PublishYear int
	SellerID    int64
	Status      BookStatus
	CreatedAt   time.Time
}

// BookDetail is a Book joined with its seller name and reviews.
type BookDetail struct {
	Book
	SellerName string
	Reviews    []Review
}

// BookFilter narrows the buyer-facing listing. Zero values mean "no filter".
type BookFilter struct {
	Search    string
	ISBN      string
	Author    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	Condition string
	SortBy    string // price_asc, price_desc, rating, name; default newest first
}

type Category struct {
	ID   int64
	Name string
}
