package handler

import (
	"encoding/json"
	"net/http"

	"tessera/internal/auth"
	"tessera/internal/service"
)

type ComentarioHandler struct {
	comentarioService *service.ComentarioService
}

func NewComentarioHandler(comentarioService *service.ComentarioService) *ComentarioHandler {
	return &ComentarioHandler{comentarioService: comentarioService}
}

type respostaRequest struct {
	Comentario string `json:"comentario"`
}

type resolverRequest struct {
	Resolvido bool `json:"resolvido"`
}

func (h *ComentarioHandler) ListByVersao(w http.ResponseWriter, r *http.Request) {
	versaoID, err := pathID(r, "versaoId")
	if err != nil {
		http.Error(w, "Invalid versao ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	comentarios, err := h.comentarioService.ListByVersao(r.Context(), identity, versaoID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comentarios)
}

func (h *ComentarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.NovoComentarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	comentario, err := h.comentarioService.Create(r.Context(), identity, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comentario)
}

func (h *ComentarioHandler) Responder(w http.ResponseWriter, r *http.Request) {
	comentarioID, err := pathID(r, "comentarioId")
	if err != nil {
		http.Error(w, "Invalid comentario ID", http.StatusBadRequest)
		return
	}

	var req respostaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	resposta, err := h.comentarioService.Responder(r.Context(), identity, comentarioID, req.Comentario)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resposta)
}

func (h *ComentarioHandler) Resolver(w http.ResponseWriter, r *http.Request) {
	comentarioID, err := pathID(r, "comentarioId")
	if err != nil {
		http.Error(w, "Invalid comentario ID", http.StatusBadRequest)
		return
	}

	var req resolverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	comentario, err := h.comentarioService.Resolver(r.Context(), identity, comentarioID, req.Resolvido)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comentario)
}

func (h *ComentarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	comentarioID, err := pathID(r, "comentarioId")
	if err != nil {
		http.Error(w, "Invalid comentario ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	if err := h.comentarioService.Excluir(r.Context(), identity, comentarioID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
