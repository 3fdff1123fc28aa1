package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"tessera/internal/repository"
	"tessera/internal/service"
	"tessera/internal/session"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// writeError traduz os erros de domínio para o status HTTP e um corpo
// {message} legível, que o frontend exibe diretamente.
func writeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: err.Error()})

	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "recurso não encontrado"})

	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})

	case errors.Is(err, service.ErrCredenciaisInvalidas):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})

	case errors.Is(err, service.ErrContaInativa):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})

	case errors.Is(err, session.ErrSessionNotFound):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "sessão expirada, faça login novamente"})

	case errors.Is(err, service.ErrUsuarioExistente),
		errors.Is(err, service.ErrMesmaVersao),
		errors.Is(err, service.ErrRespostaAninhada):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Message: err.Error()})

	default:
		log.Printf("[HTTP] Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "erro interno do servidor"})
	}
}
