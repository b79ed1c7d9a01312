package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/core/ports"
)

type contextKey string

const AdminClaimsKey contextKey = "admin_claims"

type AuthHandler struct {
	authService ports.AdminAuthService
}

func NewAuthHandler(authService ports.AdminAuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RequireAdmin rejects requests without a valid admin bearer token and
// stores the verified claims under AdminClaimsKey.
func (h *AuthHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		claims, err := h.authService.Verify(r.Context(), token)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("admin token rejected")
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
			writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), AdminClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminFromContext returns the claims stored by RequireAdmin.
func AdminFromContext(ctx context.Context) (*ports.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminClaimsKey).(*ports.AdminClaims)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
