package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
	"github.com/bazzingacoder/webaide-server/internal/auth"
)

// AuthHandler manages the operator login session.
//
//	POST /auth/login  → verify the admin password, set the session cookie
//	POST /auth/logout → clear the session cookie
//
// There is a single operator identity ("admin"); the credential is the
// bcrypt hash configured via ADMIN_PASSWORD_HASH.
type AuthHandler struct {
	passwords    *auth.PasswordService
	tokens       *auth.TokenService
	passwordHash string
	logger       *slog.Logger
}

// NewAuthHandler creates an AuthHandler. passwordHash is the stored bcrypt
// hash of the admin password.
func NewAuthHandler(passwords *auth.PasswordService, tokens *auth.TokenService, passwordHash string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		passwords:    passwords,
		tokens:       tokens,
		passwordHash: passwordHash,
		logger:       logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// HandleLogin verifies the admin password and issues a session cookie.
//
// HTTP: POST /auth/login
// BODY: {"password": "..."}
//
// The cookie is HttpOnly (JavaScript can't read it) and SameSite=Lax.
// Wrong passwords get the same 401 regardless of why they failed.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("password", "request body must be JSON with a password field"))
		return
	}

	if err := h.passwords.Verify(h.passwordHash, req.Password); err != nil {
		h.logger.Warn("failed admin login attempt")
		writeError(w, apperror.Unauthorized("invalid password"))
		return
	}

	token, err := h.tokens.Generate("admin")
	if err != nil {
		h.logger.Error("failed to issue session token", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(12 * time.Hour),
	})

	h.logger.Info("admin logged in")
	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged in"})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1, // delete immediately
	})

	writeJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}
