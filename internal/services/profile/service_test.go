package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ollieshotz/shotz/internal/dependencies/mocks"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store/memory"
	"github.com/ollieshotz/shotz/internal/testutil"
)

type ProfileServiceSuite struct {
	suite.Suite
	storage *memory.Store
	service *Service
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	ctx     context.Context
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 10, 18, 30, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.storage = memory.New(s.clock, s.random)
	s.service = New(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ProfileServiceSuite) createProfile(id string) *model.ChildProfile {
	s.random.QueueString(id)
	profile, err := s.service.CreateProfile(s.ctx, "user-1", CreateProfileParams{
		Name:         "Ollie",
		TeamName:     "Thunder",
		JerseyNumber: "31",
	})
	s.Require().NoError(err)
	return profile
}

func (s *ProfileServiceSuite) TestCreateProfile() {
	profile := s.createProfile("p1")

	s.Equal(model.ProfileID("child_p1"), profile.ID)
	s.Equal(model.UserID("user-1"), profile.OwnerID)
	s.Equal("Ollie", profile.Name)
	s.False(profile.PinEnabled)
}

func (s *ProfileServiceSuite) TestUpdateProfile() {
	profile := s.createProfile("p1")

	updated, err := s.service.UpdateProfile(s.ctx, profile.ID, CreateProfileParams{
		Name:         "Ollie",
		TeamName:     "Lightning",
		JerseyNumber: "1",
		PrimaryColor: "#003366",
	})
	s.Require().NoError(err)
	s.Equal("Lightning", updated.TeamName)
	s.Equal("#003366", updated.PrimaryColor)
}

func (s *ProfileServiceSuite) TestDeleteProfileRemovesFamily() {
	profile := s.createProfile("p1")
	s.random.QueueString("f1")
	member, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleViewer)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteProfile(s.ctx, profile.ID))

	_, err = s.storage.GetProfile(s.ctx, profile.ID)
	s.ErrorIs(err, model.ErrProfileNotFound)
	_, err = s.storage.GetFamilyMember(s.ctx, member.ID)
	s.ErrorIs(err, model.ErrFamilyMemberNotFound)
}

func (s *ProfileServiceSuite) TestInviteFamilyMember() {
	profile := s.createProfile("p1")

	s.random.QueueString("f1")
	member, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "  Nana@Example.com ", model.FamilyRoleEditor)
	s.Require().NoError(err)
	s.Equal("nana@example.com", member.Email)
	s.Equal(model.FamilyStatusPending, member.Status)
	s.Empty(member.UserID)
}

func (s *ProfileServiceSuite) TestInviteDuplicateEmail() {
	profile := s.createProfile("p1")
	s.random.QueueString("f1")
	_, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleViewer)
	s.Require().NoError(err)

	s.random.QueueString("f2")
	_, err = s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleEditor)
	s.ErrorIs(err, model.ErrAlreadyInvited)
}

func (s *ProfileServiceSuite) TestAcceptInvite() {
	profile := s.createProfile("p1")
	s.random.QueueString("f1")
	member, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleEditor)
	s.Require().NoError(err)

	s.clock.Advance(time.Hour)
	accepted, err := s.service.AcceptInvite(s.ctx, member.ID, "user-2")
	s.Require().NoError(err)
	s.Equal(model.FamilyStatusAccepted, accepted.Status)
	s.Equal(model.UserID("user-2"), accepted.UserID)
	s.Equal(s.clock.Now(), accepted.AcceptedAt)
}

func (s *ProfileServiceSuite) TestAuthorizeOwner() {
	profile := s.createProfile("p1")

	role, err := s.service.Authorize(s.ctx, "user-1", profile.ID)
	s.Require().NoError(err)
	s.Equal(model.FamilyRoleOwner, role)
}

func (s *ProfileServiceSuite) TestAuthorizeAcceptedMember() {
	profile := s.createProfile("p1")
	s.random.QueueString("f1")
	member, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleViewer)
	s.Require().NoError(err)
	_, err = s.service.AcceptInvite(s.ctx, member.ID, "user-2")
	s.Require().NoError(err)

	role, err := s.service.Authorize(s.ctx, "user-2", profile.ID)
	s.Require().NoError(err)
	s.Equal(model.FamilyRoleViewer, role)
}

func (s *ProfileServiceSuite) TestAuthorizePendingMemberDenied() {
	profile := s.createProfile("p1")
	s.random.QueueString("f1")
	_, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleEditor)
	s.Require().NoError(err)

	// Invitation not accepted yet, so no user is bound to it
	_, err = s.service.Authorize(s.ctx, "user-2", profile.ID)
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ProfileServiceSuite) TestAuthorizeStranger() {
	profile := s.createProfile("p1")

	_, err := s.service.Authorize(s.ctx, "user-9", profile.ID)
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ProfileServiceSuite) TestCanEdit() {
	profile := s.createProfile("p1")

	s.random.QueueString("f1")
	viewer, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleViewer)
	s.Require().NoError(err)
	_, err = s.service.AcceptInvite(s.ctx, viewer.ID, "user-2")
	s.Require().NoError(err)

	ok, err := s.service.CanEdit(s.ctx, "user-1", profile.ID)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.CanEdit(s.ctx, "user-2", profile.ID)
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.service.CanEdit(s.ctx, "user-9", profile.ID)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ProfileServiceSuite) TestRemoveFamilyMember() {
	profile := s.createProfile("p1")
	s.random.QueueString("f1")
	member, err := s.service.InviteFamilyMember(s.ctx, profile.ID, "nana@example.com", model.FamilyRoleEditor)
	s.Require().NoError(err)
	_, err = s.service.AcceptInvite(s.ctx, member.ID, "user-2")
	s.Require().NoError(err)

	s.Require().NoError(s.service.RemoveFamilyMember(s.ctx, member.ID))

	_, err = s.service.Authorize(s.ctx, "user-2", profile.ID)
	s.ErrorIs(err, model.ErrUnauthorized)
}
