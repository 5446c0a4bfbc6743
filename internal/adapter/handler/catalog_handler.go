package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

type bookResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	OldPrice    float64 `json:"old_price"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Rating      float64 `json:"rating"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	ISBN        string  `json:"isbn"`
	Condition   string  `json:"condition"`
	Publisher   string  `json:"publisher"`
	PublishYear int     `json:"publish_year"`
}

func mapBook(b domain.Book) bookResponse {
	return bookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		OldPrice:    b.OldPrice,
		Description: b.Description,
		Stock:       b.Stock,
		Rating:      b.Rating,
		ImageURL:    b.ImageURL,
		Category:    b.Category,
		ISBN:        b.ISBN,
		Condition:   b.Condition,
		Publisher:   b.Publisher,
		PublishYear: b.PublishYear,
	}
}

func (h *HTTPHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.BookFilter{
		Search:    q.Get("search"),
		ISBN:      q.Get("isbn"),
		Author:    q.Get("author"),
		Category:  q.Get("category"),
		Condition: q.Get("condition"),
		SortBy:    q.Get("sort_by"),
	}

	if raw := q.Get("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid min_price")
			return
		}
		filter.MinPrice = &price
	}
	if raw := q.Get("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPrice = &price
	}

	books, err := h.catalog.ListBooks(r.Context(), filter)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"books": lo.Map(books, func(b domain.Book, _ int) bookResponse {
			return mapBook(b)
		}),
	})
}

type reviewResponse struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
	UserName  string `json:"user_name"`
}

type bookDetailResponse struct {
	bookResponse
	SellerName string           `json:"seller_name"`
	Reviews    []reviewResponse `json:"reviews"`
}

func (h *HTTPHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	detail, err := h.catalog.GetBook(r.Context(), bookID)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, bookDetailResponse{
		bookResponse: mapBook(detail.Book),
		SellerName:   detail.SellerName,
		Reviews: lo.Map(detail.Reviews, func(rv domain.Review, _ int) reviewResponse {
			return reviewResponse{
				Rating:    rv.Rating,
				Comment:   rv.Comment,
				CreatedAt: rv.CreatedAt.Format(createdAtLayout),
				UserName:  rv.UserName,
			}
		}),
	})
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	type categoryResponse struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": lo.Map(categories, func(c domain.Category, _ int) categoryResponse {
			return categoryResponse{ID: c.ID, Name: c.Name}
		}),
	})
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *HTTPHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	bookID, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.reviews.AddReview(r.Context(), bookID, userID, req.Rating, req.Comment); err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "review added")
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
