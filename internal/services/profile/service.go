// Package profile manages child profiles, family sharing, and access
// resolution.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/dependencies/random"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Service provides profile and family management operations
type Service struct {
	store  store.Store
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// New creates a new profile service
func New(st store.Store, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		clock:  clk,
		random: rnd,
		logger: logger,
	}
}

// CreateProfileParams holds the caller-supplied fields for a new profile
type CreateProfileParams struct {
	Name           string
	TeamName       string
	JerseyNumber   string
	PrimaryColor   string
	SecondaryColor string
}

// CreateProfile creates a child profile owned by the given user
func (s *Service) CreateProfile(ctx context.Context, owner model.UserID, params CreateProfileParams) (*model.ChildProfile, error) {
	profile := &model.ChildProfile{
		ID:             model.ProfileID(random.ID(s.random, "child_")),
		OwnerID:        owner,
		Name:           params.Name,
		TeamName:       params.TeamName,
		JerseyNumber:   params.JerseyNumber,
		PrimaryColor:   params.PrimaryColor,
		SecondaryColor: params.SecondaryColor,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile created",
		slog.String("child_id", string(profile.ID)),
		slog.String("owner_id", string(owner)))
	return profile, nil
}

// GetProfile fetches a profile by id
func (s *Service) GetProfile(ctx context.Context, id model.ProfileID) (*model.ChildProfile, error) {
	return s.store.GetProfile(ctx, id)
}

// ListProfiles returns the profiles owned by a user
func (s *Service) ListProfiles(ctx context.Context, owner model.UserID) ([]*model.ChildProfile, error) {
	return s.store.ListProfilesByOwner(ctx, owner)
}

// UpdateProfile applies the given fields to an existing profile
func (s *Service) UpdateProfile(ctx context.Context, id model.ProfileID, params CreateProfileParams) (*model.ChildProfile, error) {
	profile, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *profile
	updated.Name = params.Name
	updated.TeamName = params.TeamName
	updated.JerseyNumber = params.JerseyNumber
	updated.PrimaryColor = params.PrimaryColor
	updated.SecondaryColor = params.SecondaryColor

	if err := s.store.SaveProfile(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProfile removes a profile and its family records
func (s *Service) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	members, err := s.store.ListFamilyMembers(ctx, id)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := s.store.DeleteFamilyMember(ctx, m.ID); err != nil {
			return err
		}
	}
	return s.store.DeleteProfile(ctx, id)
}

// InviteFamilyMember records a pending invitation for an email address.
// Inviting an address that already has a record for the child is an error.
func (s *Service) InviteFamilyMember(ctx context.Context, childID model.ProfileID, email string, role model.FamilyRole) (*model.FamilyMember, error) {
	if _, err := s.store.GetProfile(ctx, childID); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.store.ListFamilyMembers(ctx, childID)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if m.Email == email {
			return nil, model.ErrAlreadyInvited
		}
	}

	member := &model.FamilyMember{
		ID:        model.FamilyMemberID(random.ID(s.random, "fam_")),
		ChildID:   childID,
		Email:     email,
		Status:    model.FamilyStatusPending,
		Role:      role,
		InvitedAt: s.clock.Now(),
	}

	if err := s.store.SaveFamilyMember(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("family member invited",
		slog.String("child_id", string(childID)),
		slog.String("role", string(role)))
	return member, nil
}

// AcceptInvite binds a pending invitation to the accepting user's account
func (s *Service) AcceptInvite(ctx context.Context, memberID model.FamilyMemberID, userID model.UserID) (*model.FamilyMember, error) {
	member, err := s.store.GetFamilyMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	updated := *member
	updated.UserID = userID
	updated.Status = model.FamilyStatusAccepted
	updated.AcceptedAt = s.clock.Now()

	if err := s.store.SaveFamilyMember(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetFamilyMember fetches a family record by id
func (s *Service) GetFamilyMember(ctx context.Context, memberID model.FamilyMemberID) (*model.FamilyMember, error) {
	return s.store.GetFamilyMember(ctx, memberID)
}

// ListFamilyMembers returns the family records for a child profile
func (s *Service) ListFamilyMembers(ctx context.Context, childID model.ProfileID) ([]*model.FamilyMember, error) {
	return s.store.ListFamilyMembers(ctx, childID)
}

// RemoveFamilyMember revokes a family member's access
func (s *Service) RemoveFamilyMember(ctx context.Context, memberID model.FamilyMemberID) error {
	return s.store.DeleteFamilyMember(ctx, memberID)
}

// Authorize resolves a user's role for a child profile. The owner is always
// an owner; accepted family members carry their granted role; everyone else
// is ErrUnauthorized.
func (s *Service) Authorize(ctx context.Context, userID model.UserID, childID model.ProfileID) (model.FamilyRole, error) {
	profile, err := s.store.GetProfile(ctx, childID)
	if err != nil {
		return "", err
	}
	if profile.OwnerID == userID {
		return model.FamilyRoleOwner, nil
	}

	members, err := s.store.ListFamilyMembers(ctx, childID)
	if err != nil {
		return "", err
	}
	for _, m := range members {
		if m.UserID == userID && m.Status == model.FamilyStatusAccepted {
			return m.Role, nil
		}
	}
	return "", model.ErrUnauthorized
}

// CanEdit reports whether the user may record and edit events for the child
func (s *Service) CanEdit(ctx context.Context, userID model.UserID, childID model.ProfileID) (bool, error) {
	role, err := s.Authorize(ctx, userID, childID)
	if errors.Is(err, model.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role.CanEdit(), nil
}
