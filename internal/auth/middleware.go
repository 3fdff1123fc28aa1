package auth

import (
	"context"
	"net/http"
	"strings"

	"tessera/internal/domain"
)

type contextKey string

const claimsKey contextKey = "tessera.claims"

// Identity é a identidade autenticada disponível nos handlers
type Identity struct {
	UserID   int64
	Nome     string
	Username string
	Role     domain.Role
}

// Middleware valida o bearer token e injeta a identidade no contexto.
// Requisições sem token válido morrem aqui com 401.
func Middleware(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := tm.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			identity := &Identity{
				UserID:   userID,
				Nome:     claims.Nome,
				Username: claims.Username,
				Role:     domain.Role(claims.Role),
			}

			ctx := context.WithValue(r.Context(), claimsKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole limita a rota a um papel específico
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := FromContext(r.Context())
			if identity == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if identity.Role != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext recupera a identidade injetada pelo middleware; nil se ausente
func FromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(claimsKey).(*Identity)
	return identity
}
