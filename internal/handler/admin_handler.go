package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tessera/internal/auth"
	"tessera/internal/domain"
	"tessera/internal/service"
)

type AdminHandler struct {
	userService  *service.UserService
	auditService *service.AuditService
}

func NewAdminHandler(userService *service.UserService, auditService *service.AuditService) *AdminHandler {
	return &AdminHandler{userService: userService, auditService: auditService}
}

type approvalRequest struct {
	Approved      bool   `json:"approved"`
	Role          string `json:"role"`
	AdminComments string `json:"adminComments"`
}

type statusRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *AdminHandler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ListPendentes(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListPendentes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	user, err := h.userService.Approve(r.Context(), identity, userID, req.Approved, domain.Role(req.Role), req.AdminComments)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("[Admin] %s decided approval of user %d: approved=%t", identity.Username, userID, req.Approved)
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	user, err := h.userService.UpdateStatus(r.Context(), identity, userID, req.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	if err := h.userService.Delete(r.Context(), identity, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (h *AdminHandler) Auditoria(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.auditService.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
