package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/authz"
)

type User struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	Email          string
	HashedPassword string
	Role           authz.Role
}

// Stripped returns the user without the password hash.
// Services return this form so the hash never crosses the auth boundary.
func (u User) Stripped() User {
	u.HashedPassword = ""
	return u
}

func (u User) SubjectType() authz.SubjectType {
	return authz.SubjectUser
}

func (u User) SubjectField(name string) (any, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "email":
		return u.Email, true
	default:
		return nil, false
	}
}
