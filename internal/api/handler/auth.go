package handler

import (
	"net/http"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/api/request"
	"github.com/ollieshotz/shotz/internal/api/response"
	"github.com/ollieshotz/shotz/internal/services/auth"
)

// AuthHandler serves PIN verification and session endpoints
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// VerifyPin handles POST /auth/pin/verify
func (h *AuthHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var req request.PinVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	session, profile, err := h.auth.VerifyPin(r.Context(), req.Pin, req.DeviceInfo, sourceIP(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PinVerifyResponse{
		SessionToken: session.Token,
		Profile:      response.ProfileFromModel(profile),
	})
}

// GetSession handles GET /auth/pin/session
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	if !scope.IsPin() {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Not a PIN session"))
		return
	}

	session := scope.PinSession
	response.JSON(w, http.StatusOK, response.PinSessionResponse{
		ChildID:    string(session.ChildID),
		DeviceInfo: session.DeviceInfo,
		CreatedAt:  session.CreatedAt,
		LastUsedAt: session.LastUsedAt,
	})
}

// RevokeSession handles POST /auth/pin/revoke
func (h *AuthHandler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	if !scope.IsPin() {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Not a PIN session"))
		return
	}

	if err := h.auth.RevokePinSession(r.Context(), scope.PinSession.Token); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}
