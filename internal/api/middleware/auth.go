package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/auth"
)

type contextKey string

const scopeContextKey contextKey = "scope"

// Scope is the resolved identity of a request. Parent accounts arrive with a
// trusted X-User-ID header set by the auth proxy in front of the server; PIN
// sessions arrive as bearer tokens and are bound to a single child profile.
type Scope struct {
	UserID     model.UserID
	ChildID    model.ProfileID
	PinSession *model.PinSession
}

// IsPin reports whether this scope came from a PIN session
func (s *Scope) IsPin() bool {
	return s.PinSession != nil
}

// Actor returns the identity to record on events created by this scope
func (s *Scope) Actor() model.UserID {
	if s.UserID != "" {
		return s.UserID
	}
	return model.UserID("pin:" + string(s.ChildID))
}

// CanAccess reports whether the scope may touch the given child profile
// without consulting family records. Parent scopes defer to the profile
// service; PIN scopes are locked to their own child.
func (s *Scope) CanAccess(childID model.ProfileID) bool {
	if s.IsPin() {
		return s.ChildID == childID
	}
	return true
}

// Auth creates authentication middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := resolveScope(r, authService)
			if scope == nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), scopeContextKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveScope(r *http.Request, authService *auth.Service) *Scope {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return &Scope{UserID: model.UserID(userID)}
	}

	token := extractToken(r)
	if token == "" {
		return nil
	}
	session, err := authService.ValidatePinSession(r.Context(), token)
	if err != nil {
		return nil
	}
	return &Scope{ChildID: session.ChildID, PinSession: session}
}

// extractToken extracts the PIN session token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie("pin_session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetScope returns the request scope from the context
func GetScope(ctx context.Context) *Scope {
	scope, _ := ctx.Value(scopeContextKey).(*Scope)
	return scope
}

// MustGetScope returns the request scope or panics
func MustGetScope(ctx context.Context) *Scope {
	scope := GetScope(ctx)
	if scope == nil {
		panic("no scope in context - auth middleware not applied?")
	}
	return scope
}
