package handler

import (
	"encoding/json"
	"net/http"

	"github.com/phuc2705/Project-Sach/internal/core/service"
)

// createdAtLayout is the timestamp format the frontend expects.
const createdAtLayout = "2006-01-02 15:04:05"

type HTTPHandler struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	orders  *service.OrderService
	reviews *service.ReviewService
	admin   *service.AdminService
}

func NewHTTPHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	orders *service.OrderService,
	reviews *service.ReviewService,
	admin *service.AdminService,
) *HTTPHandler {
	return &HTTPHandler{
		auth:    auth,
		catalog: catalog,
		orders:  orders,
		reviews: reviews,
		admin:   admin,
	}
}

type registerRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.auth.Register(r.Context(), req.Fullname, req.Email, req.Phone, req.Password); err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "registration successful")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   token,
		User: loginUser{
			ID:       user.ID,
			Fullname: user.Fullname,
			Email:    user.Email,
			Phone:    user.Phone,
			Role:     string(user.Role),
		},
	})
}
