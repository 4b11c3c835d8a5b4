package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flowbenchhq/flowbench/internal/auth"
	"github.com/flowbenchhq/flowbench/internal/config"
)

// SessionStore covers the session methods of repository.UserRepository.
type SessionStore interface {
	UpdateSession(userID int64, sessionID string, expiry time.Time) error
	ClearSessionBySessionID(sessionID string) error
}

type UsersController struct {
	AuthController
	Auth     *auth.Service
	Sessions SessionStore
}

func NewUsersController(authService *auth.Service, sessions SessionStore, userRepo UserRepo) *UsersController {
	return &UsersController{
		Auth:     authService,
		Sessions: sessions,
		AuthController: AuthController{
			UserRepo: userRepo,
		},
	}
}

// RegisterRoutes wires the HTTP routes for this controller.
func (c *UsersController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/register", c.handleRegister)
	mux.HandleFunc("POST /api/login", c.handleLogin)
	mux.HandleFunc("POST /api/logout", c.handleLogout)
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Plan     string `json:"plan"`
}

func (c *UsersController) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if req.Plan == "" {
		req.Plan = "free"
	}

	u, err := c.Auth.Register(req.Email, req.Name, req.Password, req.Plan)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeJSONError(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("Registration failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *UsersController) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := c.Auth.Authenticate(req.Email, req.Password)
	if err != nil {
		slog.Error("Authentication failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if u == nil {
		// Same signal for unknown email and wrong password.
		writeJSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		slog.Error("rand.Read failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}
	sessionID := hex.EncodeToString(buf)
	expiryHours := config.GetSystemSettingInteger(config.WEB_SESSION_EXPIRY_HOURS)
	expires := time.Now().UTC().Add(time.Duration(expiryHours) * time.Hour)
	if err := c.Sessions.UpdateSession(u.ID, sessionID, expires); err != nil {
		slog.Error("UpdateSession failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "sessionId",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}

func (c *UsersController) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("sessionId"); err == nil && cookie.Value != "" {
		if err := c.Sessions.ClearSessionBySessionID(cookie.Value); err != nil {
			slog.Warn("Failed to clear session", "error", err)
		}
		http.SetCookie(w, &http.Cookie{
			Name:     "sessionId",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}
