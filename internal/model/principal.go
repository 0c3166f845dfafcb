package model

import "github.com/google/uuid"

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsOfficer() bool {
	return p.Role == RoleTPSOfficer
}

func (p Principal) IsDriver() bool {
	return p.Role == RoleDriver
}
