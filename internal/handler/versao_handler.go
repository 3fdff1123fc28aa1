package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"tessera/internal/auth"
	"tessera/internal/service"
)

type VersaoHandler struct {
	versaoService *service.VersaoService
	diffService   *service.DiffService
}

func NewVersaoHandler(versaoService *service.VersaoService, diffService *service.DiffService) *VersaoHandler {
	return &VersaoHandler{versaoService: versaoService, diffService: diffService}
}

func (h *VersaoHandler) ListByMonografia(w http.ResponseWriter, r *http.Request) {
	monografiaID, err := pathID(r, "monografiaId")
	if err != nil {
		http.Error(w, "Invalid monografia ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	versoes, err := h.versaoService.ListByMonografia(r.Context(), identity, monografiaID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, versoes)
}

func (h *VersaoHandler) Get(w http.ResponseWriter, r *http.Request) {
	versaoID, err := pathID(r, "versaoId")
	if err != nil {
		http.Error(w, "Invalid versao ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	versao, err := h.versaoService.Get(r.Context(), identity, versaoID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, versao)
}

// GetConteudo devolve o HTML bruto como text/html, não JSON
func (h *VersaoHandler) GetConteudo(w http.ResponseWriter, r *http.Request) {
	versaoID, err := pathID(r, "versaoId")
	if err != nil {
		http.Error(w, "Invalid versao ID", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	conteudo, err := h.versaoService.GetConteudo(r.Context(), identity, versaoID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(conteudo)); err != nil {
		log.Printf("[Versao] Failed to write content response: %v", err)
	}
}

func (h *VersaoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.NovaVersaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	versao, err := h.versaoService.Create(r.Context(), identity, req)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("[Versao] %s created version %s of monografia %d", identity.Username, versao.NumeroVersao, versao.MonografiaID)
	writeJSON(w, http.StatusCreated, versao)
}

func (h *VersaoHandler) Diff(w http.ResponseWriter, r *http.Request) {
	baseID, err := strconv.ParseInt(r.URL.Query().Get("versaoBaseId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid versaoBaseId", http.StatusBadRequest)
		return
	}
	novaID, err := strconv.ParseInt(r.URL.Query().Get("versaoNovaId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid versaoNovaId", http.StatusBadRequest)
		return
	}

	identity := auth.FromContext(r.Context())
	diff, err := h.diffService.Comparar(r.Context(), identity, baseID, novaID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, diff)
}
