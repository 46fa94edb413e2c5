package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmeshcher/airline-booking/internal/model"
	"github.com/mmeshcher/airline-booking/internal/service"
)

type redeemRequest struct {
	Points     int64  `json:"points"`
	RewardType string `json:"rewardType"`
}

type programRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits"`
}

func (p programRequest) input() service.ProgramInput {
	return service.ProgramInput{Name: p.Name, Description: p.Description, Benefits: p.Benefits}
}

// Enroll подключает текущего клиента к программе лояльности.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	m, err := h.svc.Loyalty.Enroll(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

// LoyaltyStatus возвращает сводку по счёту лояльности.
func (h *Handler) LoyaltyStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	st, err := h.svc.Loyalty.Status(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

// Redeem обменивает баллы на вознаграждение.
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req redeemRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Loyalty.Redeem(r.Context(), userID, req.Points, model.RewardType(req.RewardType))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// ListRedemptions возвращает историю списаний баллов.
func (h *Handler) ListRedemptions(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Loyalty.ListRedemptions(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, res)
}

// ListPrograms возвращает программы лояльности.
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.svc.Programs.ListPrograms(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, programs)
}

// CreateProgram создаёт программу лояльности.
func (h *Handler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.svc.Programs.CreateProgram(r.Context(), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

// UpdateProgram заменяет поля программы лояльности.
func (h *Handler) UpdateProgram(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.svc.Programs.UpdateProgram(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// DeleteProgram удаляет программу лояльности.
func (h *Handler) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Programs.DeleteProgram(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
