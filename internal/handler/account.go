package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/mmeshcher/airline-booking/internal/model"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileResponse struct {
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

func profileOf(c *model.Customer) profileResponse {
	return profileResponse{
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		CreatedAt: c.CreatedAt,
	}
}

// Register обрабатывает регистрацию нового клиента и сразу выполняет вход.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.authMiddleware.SetAuthCookie(w, c.UserID, c.Role)
	h.writeJSON(w, http.StatusOK, profileOf(c))
}

// Login выполняет аутентификацию пользователя и устанавливает cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.authMiddleware.SetAuthCookie(w, c.UserID, c.Role)
	h.writeJSON(w, http.StatusOK, profileOf(c))
}

// ListCustomers возвращает администратору список учётных записей.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Accounts.ListCustomers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]profileResponse, 0, len(customers))
	for i := range customers {
		resp = append(resp, profileOf(&customers[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}
