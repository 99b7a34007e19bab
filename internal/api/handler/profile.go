package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/middleware"
	"github.com/ollieshotz/shotz/internal/api/request"
	"github.com/ollieshotz/shotz/internal/api/response"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/auth"
	"github.com/ollieshotz/shotz/internal/services/profile"
)

// ProfileHandler serves child profile and family endpoints
type ProfileHandler struct {
	profiles *profile.Service
	auth     *auth.Service
	access   access
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *profile.Service, authService *auth.Service) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		auth:     authService,
		access:   access{profiles: profiles},
	}
}

// Create handles POST /profiles
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	if scope.IsPin() {
		apierr.WriteError(w, apierr.NewForbiddenError())
		return
	}

	var req request.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}
	if req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Name is required"))
		return
	}

	created, err := h.profiles.CreateProfile(r.Context(), scope.UserID, profile.CreateProfileParams{
		Name:           req.Name,
		TeamName:       req.TeamName,
		JerseyNumber:   req.JerseyNumber,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.ProfileFromModel(created))
}

// List handles GET /profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())

	if scope.IsPin() {
		p, err := h.profiles.GetProfile(r.Context(), scope.ChildID)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		response.JSON(w, http.StatusOK, []response.Profile{response.ProfileFromModel(p)})
		return
	}

	profiles, err := h.profiles.ListProfiles(r.Context(), scope.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfilesFromModels(profiles))
}

// Get handles GET /profiles/{id}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	p, err := h.profiles.GetProfile(r.Context(), childID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}

// Update handles PUT /profiles/{id}
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	updated, err := h.profiles.UpdateProfile(r.Context(), childID, profile.CreateProfileParams{
		Name:           req.Name,
		TeamName:       req.TeamName,
		JerseyNumber:   req.JerseyNumber,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ProfileFromModel(updated))
}

// Delete handles DELETE /profiles/{id}
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.profiles.DeleteProfile(r.Context(), childID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// SetPin handles PUT /profiles/{id}/pin
func (h *ProfileHandler) SetPin(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.SetPinRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.auth.SetPin(r.Context(), childID, req.Pin); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// DisablePin handles DELETE /profiles/{id}/pin
func (h *ProfileHandler) DisablePin(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.auth.DisablePin(r.Context(), childID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// InviteFamilyMember handles POST /profiles/{id}/family
func (h *ProfileHandler) InviteFamilyMember(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	var req request.InviteFamilyMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	role := model.FamilyRole(req.Role)
	if role != model.FamilyRoleEditor && role != model.FamilyRoleViewer {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Role must be editor or viewer"))
		return
	}
	if req.Email == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Email is required"))
		return
	}

	member, err := h.profiles.InviteFamilyMember(r.Context(), childID, req.Email, role)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.FamilyMemberFromModel(member))
}

// ListFamilyMembers handles GET /profiles/{id}/family
func (h *ProfileHandler) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	childID := model.ProfileID(mux.Vars(r)["id"])

	if err := h.access.require(r, scope, childID, accessView); err != nil {
		apierr.WriteError(w, err)
		return
	}

	members, err := h.profiles.ListFamilyMembers(r.Context(), childID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.FamilyMembersFromModels(members))
}

// AcceptInvite handles POST /family/{member_id}/accept
func (h *ProfileHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())
	if scope.IsPin() {
		apierr.WriteError(w, apierr.NewForbiddenError())
		return
	}

	memberID := model.FamilyMemberID(mux.Vars(r)["member_id"])
	member, err := h.profiles.AcceptInvite(r.Context(), memberID, scope.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.FamilyMemberFromModel(member))
}

// RemoveFamilyMember handles DELETE /family/{member_id}
func (h *ProfileHandler) RemoveFamilyMember(w http.ResponseWriter, r *http.Request) {
	scope := middleware.MustGetScope(r.Context())

	memberID := model.FamilyMemberID(mux.Vars(r)["member_id"])
	existing, err := h.profiles.GetFamilyMember(r.Context(), memberID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.access.require(r, scope, existing.ChildID, accessOwner); err != nil {
		apierr.WriteError(w, err)
		return
	}

	if err := h.profiles.RemoveFamilyMember(r.Context(), memberID); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}
