package handler

import (
	"context"
	"net/http"

	"github.com/samber/lo"

	"github.com/phuc2705/Project-Sach/internal/core/domain"
)

func (h *HTTPHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	adminID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	stats, err := h.admin.Stats(r.Context(), adminID)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users":   stats.Users,
		"books":   stats.Books,
		"orders":  stats.Orders,
		"revenue": stats.Revenue,
	})
}

type adminUserResponse struct {
	ID        int64  `json:"id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (h *HTTPHandler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	adminID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	users, err := h.admin.ListUsers(r.Context(), adminID)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": lo.Map(users, func(u domain.User, _ int) adminUserResponse {
			return adminUserResponse{
				ID:        u.ID,
				Fullname:  u.Fullname,
				Email:     u.Email,
				Phone:     u.Phone,
				Role:      string(u.Role),
				Status:    string(u.Status),
				CreatedAt: u.CreatedAt.Format(createdAtLayout),
			}
		}),
	})
}

type adminOrderResponse struct {
	OrderID     int64   `json:"order_id"`
	BuyerID     int64   `json:"buyer_id"`
	TotalAmount float64 `json:"total_amount"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

func (h *HTTPHandler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	adminID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	orders, err := h.admin.ListOrders(r.Context(), adminID)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"orders": lo.Map(orders, func(o domain.Order, _ int) adminOrderResponse {
			return adminOrderResponse{
				OrderID:     o.ID,
				BuyerID:     o.BuyerID,
				TotalAmount: o.TotalAmount,
				Status:      string(o.Status),
				CreatedAt:   o.CreatedAt.Format(createdAtLayout),
			}
		}),
	})
}

func (h *HTTPHandler) AdminLockUser(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, "user locked", h.admin.LockUser)
}

func (h *HTTPHandler) AdminUnlockUser(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, "user unlocked", h.admin.UnlockUser)
}

func (h *HTTPHandler) AdminApproveBook(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, "book approved", h.admin.ApproveBook)
}

func (h *HTTPHandler) AdminHideBook(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, "book hidden", h.admin.HideBook)
}

// adminTransition is the shared shape of the four single-row state
// transitions: resolve the principal, parse the target id, apply.
func (h *HTTPHandler) adminTransition(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	apply func(ctx context.Context, adminID, targetID int64) error,
) {
	adminID, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Token is missing!")
		return
	}

	targetID, err := pathID(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}

	if err := apply(r.Context(), adminID, targetID); err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeMessage(w, http.StatusOK, message)
}
