package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/authz"
)

type Category struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Name        string
	Description string
	UserID      uuid.UUID
}

func (c Category) SubjectType() authz.SubjectType {
	return authz.SubjectCategory
}

func (c Category) SubjectField(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "name":
		return c.Name, true
	case "userId":
		return c.UserID, true
	default:
		return nil, false
	}
}
