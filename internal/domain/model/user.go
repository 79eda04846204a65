package model

import (
	"strings"
	"time"

	"umrah-booking-platform/internal/domain"

	"github.com/google/uuid"
)

type Role string

const (
	RolePilgrim Role = "pilgrim"
	RoleAgent   Role = "agent"
	RoleAdmin   Role = "admin"
)

// User is a domain entity representing an account in the platform:
// a pilgrim buying packages, a travel agent selling them, or an admin.
type User struct {
	ID           string
	Email        string
	FullName     string
	Role         Role
	RegisteredAt time.Time
}

func NewUser(id, email, fullName string, role Role) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	if fullName == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch role {
	case RolePilgrim, RoleAgent, RoleAdmin:
	default:
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           id,
		Email:        email,
		FullName:     fullName,
		Role:         role,
		RegisteredAt: time.Now(),
	}, nil
}

func (u *User) IsZero() bool  { return u == nil || u.ID == "" }
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
