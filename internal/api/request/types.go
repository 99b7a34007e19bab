package request

import "time"

// PinVerifyRequest is the request body for PIN verification
type PinVerifyRequest struct {
	Pin        string `json:"pin"`
	DeviceInfo string `json:"device_info,omitempty"`
}

// SetPinRequest is the request body for setting a profile's PIN
type SetPinRequest struct {
	Pin string `json:"pin"`
}

// CreateProfileRequest is the request body for creating a child profile
type CreateProfileRequest struct {
	Name           string `json:"name"`
	TeamName       string `json:"team_name,omitempty"`
	JerseyNumber   string `json:"jersey_number,omitempty"`
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
}

// InviteFamilyMemberRequest is the request body for inviting a family member
type InviteFamilyMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	ChildID  string    `json:"child_id"`
	GameDate time.Time `json:"game_date,omitempty"`
	Opponent string    `json:"opponent"`
	Location string    `json:"location,omitempty"`
	Periods  []string  `json:"periods,omitempty"`
	Status   string    `json:"status,omitempty"`
}

// UpdateStatusRequest is the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateNotesRequest is the request body for replacing game notes
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// AddPeriodRequest is the request body for appending a period label
type AddPeriodRequest struct {
	Label string `json:"label"`
}

// AddEventRequest is the request body for recording a save or goal
type AddEventRequest struct {
	Type   string `json:"type"`
	Period string `json:"period"`
}
