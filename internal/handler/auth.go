package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/recipebox/internal/account"
	"github.com/dukerupert/recipebox/internal/auth"
	"github.com/dukerupert/recipebox/internal/middleware"
	"github.com/dukerupert/recipebox/internal/model"
	"github.com/dukerupert/recipebox/internal/store"
)

type AuthHandler struct {
	accounts     *account.Service
	users        *store.UserStore
	tokens       *auth.Tokens
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(accounts *account.Service, users *store.UserStore, tokens *auth.Tokens, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		users:        users,
		tokens:       tokens,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) setSession(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, status int, u *model.User) {
	token, expires, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Error("issue session", "error", err, "user_id", u.ID)
		writeError(w, http.StatusInternalServerError, genericError)
		return
	}
	h.setSession(w, token, expires)
	writeJSON(w, status, sessionResponse{User: u, Token: token, ExpiresAt: expires})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.accounts.CreateUser(req.Username, req.Password)
	if err != nil {
		writeStoreError(w, h.logger, "register", err)
		return
	}
	h.startSession(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, ok, err := h.accounts.VerifyUser(req.Username, req.Password)
	if err != nil {
		h.logger.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, genericError)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	u, err := h.users.GetByID(id)
	if err != nil || u == nil {
		h.logger.Error("login load user", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, genericError)
		return
	}
	h.startSession(w, http.StatusOK, u)
}

// Logout clears the cookie. Tokens are stateless, so a copied token stays
// valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetByID(auth.UserID(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "get current user", err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}
