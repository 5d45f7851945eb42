package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkravets/shopcore/internal/authz"
)

type Product struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Name        string
	Description string
	Price       decimal.Decimal
	AuthorID    uuid.UUID
}

func (p Product) SubjectType() authz.SubjectType {
	return authz.SubjectProduct
}

func (p Product) SubjectField(name string) (any, bool) {
	switch name {
	case "id":
		return p.ID, true
	case "name":
		return p.Name, true
	case "authorId":
		return p.AuthorID, true
	default:
		return nil, false
	}
}
