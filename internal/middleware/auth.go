package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/store"
	"github.com/dukerupert/recipebox/internal/units"
)

// SessionCookieName holds the signed session token.
const SessionCookieName = "recipebox_session"

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// tokenFromRequest reads the session cookie, then a Bearer header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

// RequireAuth validates the session token, loads the user and populates
// AuthContext. Tokens for deleted users are rejected.
func RequireAuth(tokens *auth.Tokens, users *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			userID, tokenID, err := tokens.Parse(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			u, err := users.GetByID(userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "operation failed, try again")
				return
			}
			if u == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			ac := auth.AuthContext{
				UserID:   u.ID,
				Username: u.Username,
				Units:    units.System(u.Units),
				TokenID:  tokenID,
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
