package handler

import (
	"encoding/json"
	"net/http"

	"github.com/samber/lo"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

type orderItemRequest struct {
	BookID   int64   `json:"book_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	Total           float64            `json:"total"`
	ShippingAddress string             `json:"shipping_address"`
	Phone           string             `json:"phone"`
	PaymentMethod   string             `json:"payment_method"`
	Notes           string             `json:"notes"`
}

type createOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

// CreateOrder places a multi-line order. The client still sends per-item
// prices and a total for display purposes, but both are recomputed from the
// store inside the order transaction.
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := lo.Map(req.Items, func(it orderItemRequest, _ int) domain.OrderLine {
		return domain.OrderLine{
			BookID:   it.BookID,
			Quantity: it.Quantity,
		}
	})

	orderID, _, err := h.orders.PlaceOrder(
		r.Context(), buyerID, lines,
		req.ShippingAddress, req.Phone, req.PaymentMethod, req.Notes,
	)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createOrderResponse{
		Message: "order placed successfully",
		OrderID: orderID,
	})
}

type orderResponse struct {
	OrderID         int64   `json:"order_id"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	ShippingAddress string  `json:"shipping_address"`
	Phone           string  `json:"phone"`
	PaymentMethod   string  `json:"payment_method"`
	CreatedAt       string  `json:"created_at"`
}

func mapOrder(o domain.Order) orderResponse {
	return orderResponse{
		OrderID:         o.ID,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		Phone:           o.Phone,
		PaymentMethod:   o.PaymentMethod,
		CreatedAt:       o.CreatedAt.Format(createdAtLayout),
	}
}

func (h *HTTPHandler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), buyerID)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders": lo.Map(orders, func(o domain.Order, _ int) orderResponse {
			return mapOrder(o)
		}),
	})
}
