package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/flowbenchhq/flowbench/internal/domain"
)

type ctxKey string

// CtxKeyUserEmail carries the authenticated user's email in the request context.
const CtxKeyUserEmail ctxKey = "userEmail"

// UserRepo defines the persistence methods the auth middleware needs,
// matching repository.UserRepository.
type UserRepo interface {
	FindBySessionID(sessionID string, now time.Time) (*domain.User, error)
}

type AuthController struct {
	UserRepo UserRepo
}

// RequireAuth validates the session cookie and stashes the user's email
// in the request context. API paths get a 401; browser paths are
// redirected to the login page.
func (ac *AuthController) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("sessionId"); err == nil && c.Value != "" {
			u, err := ac.UserRepo.FindBySessionID(c.Value, time.Now().UTC())
			if err == nil && u != nil {
				ctx := context.WithValue(r.Context(), CtxKeyUserEmail, u.Email)
				next(w, r.WithContext(ctx))
				return
			}
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
