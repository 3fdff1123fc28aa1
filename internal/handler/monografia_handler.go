package handler

import (
	"encoding/json"
	"net/http"

	"tessera/internal/auth"
	"tessera/internal/service"
)

type MonografiaHandler struct {
	monografiaService *service.MonografiaService
}

func NewMonografiaHandler(monografiaService *service.MonografiaService) *MonografiaHandler {
	return &MonografiaHandler{monografiaService: monografiaService}
}

func (h *MonografiaHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.FromContext(r.Context())

	monografias, err := h.monografiaService.ListMine(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, monografias)
}

func (h *MonografiaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.MonografiaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	m, err := h.monografiaService.Create(r.Context(), identity, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (h *MonografiaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid monografia ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	m, err := h.monografiaService.Get(r.Context(), identity, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (h *MonografiaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid monografia ID", http.StatusBadRequest)
		return
	}

	var req service.MonografiaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	m, err := h.monografiaService.Update(r.Context(), identity, id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}
