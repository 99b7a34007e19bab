package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/profile"
)

// Access levels for child profiles
type accessLevel int

const (
	accessView accessLevel = iota
	accessEdit
	accessOwner
)

// decodeJSON decodes a request body, mapping failures to invalid-request
// errors
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierr.NewInvalidRequestError("Invalid JSON body")
	}
	return nil
}

// sourceIP resolves the client address for rate limiting, honoring the
// nearest proxy's X-Forwarded-For entry
func sourceIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// access resolves whether a request scope may touch a child profile
type access struct {
	profiles *profile.Service
}

// require checks the scope against the profile at the given level. PIN
// scopes are locked to their own child and can view and edit but never hold
// owner rights.
func (a *access) require(r *http.Request, scope *middleware.Scope, childID model.ProfileID, level accessLevel) error {
	if scope.IsPin() {
		if scope.ChildID != childID || level == accessOwner {
			return apierr.NewForbiddenError()
		}
		return nil
	}

	role, err := a.profiles.Authorize(r.Context(), scope.UserID, childID)
	if err != nil {
		return err
	}

	switch level {
	case accessOwner:
		if role != model.FamilyRoleOwner {
			return apierr.NewForbiddenError()
		}
	case accessEdit:
		if !role.CanEdit() {
			return apierr.NewForbiddenError()
		}
	}
	return nil
}
