package model

import "time"

// ProfileID uniquely identifies a child profile
type ProfileID string

// UserID identifies an authenticated account (parent or family member)
type UserID string

// ChildProfile represents one tracked goalie
type ChildProfile struct {
	ID           ProfileID
	OwnerID      UserID
	Name         string
	TeamName     string
	JerseyNumber string

	PrimaryColor   string
	SecondaryColor string

	// PinHash holds the bcrypt hash of the quick-access PIN, empty when no
	// PIN has been set.
	PinHash    string
	PinEnabled bool

	CreatedAt time.Time
}

// FamilyMemberID uniquely identifies a family member record
type FamilyMemberID string

// FamilyRole controls what a family member may do with a profile
type FamilyRole string

const (
	FamilyRoleOwner  FamilyRole = "owner"
	FamilyRoleEditor FamilyRole = "editor"
	FamilyRoleViewer FamilyRole = "viewer"
)

// FamilyStatus is the invitation state of a family member
type FamilyStatus string

const (
	FamilyStatusPending  FamilyStatus = "pending"
	FamilyStatusAccepted FamilyStatus = "accepted"
)

// FamilyMember grants another account access to a child profile
type FamilyMember struct {
	ID      FamilyMemberID
	ChildID ProfileID

	// UserID is empty until the invitee accepts
	UserID UserID
	Email  string

	Status FamilyStatus
	Role   FamilyRole

	InvitedAt  time.Time
	AcceptedAt time.Time
}

// CanEdit reports whether the role permits recording and editing events
func (r FamilyRole) CanEdit() bool {
	return r == FamilyRoleOwner || r == FamilyRoleEditor
}

// PinSessionID uniquely identifies a PIN session
type PinSessionID string

// PinSession is a device session created by a successful PIN login
type PinSession struct {
	ID         PinSessionID
	ChildID    ProfileID
	Token      string
	DeviceInfo string
	CreatedAt  time.Time
	LastUsedAt time.Time
	Revoked    bool
	RevokedAt  time.Time
}
