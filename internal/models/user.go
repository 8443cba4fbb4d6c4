package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser     Role = "user"     // customer booking appointments
	RoleStations Role = "stations" // station owner
	RoleAdmin    Role = "admin"
)

// ParseRole maps a raw string onto the role enum. Empty defaults to RoleUser;
// anything else unknown is rejected.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleStations, RoleAdmin:
		return Role(s), nil
	default:
		return "", NewValidationError("role", "invalid role: "+s)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleStations, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID             uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Username       string     `bun:",unique" json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	Role           Role       `json:"role"`
	Phone          *string    `json:"phone"`
	ProfilePicture *string    `json:"profile_picture"`
	TokenVersion   int        `bun:"token_version" json:"-"`
	CreatedAt      time.Time  `bun:",nullzero,default:now()" json:"created_at"`
	LastLoginAt    *time.Time `json:"last_login_at"`
}

type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens"`

	ID         uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID `bun:"type:uuid" json:"user_id"`
	JTI        string    `json:"jti"`
	TokenHash  string    `json:"token_hash"`
	DeviceInfo *string   `json:"device_info"`
	Revoked    bool      `json:"revoked"`
	CreatedAt  time.Time `bun:",nullzero,default:now()" json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
