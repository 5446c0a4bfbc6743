package domain

import "time"

// Review is append-only; a user may review the same book more than once.
type Review struct {
	ID        int64
	BookID    int64
	UserID    int64
	Rating    int
	Comment   string
	UserName  string
	CreatedAt time.Time
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	Users   int64
	Books   int64
	Orders  int64
	Revenue float64
}
