package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSubject is a minimal Subject implementation for rule matching tests
type testSubject struct {
	subjectType SubjectType
	fields      map[string]any
}

func (s testSubject) SubjectType() SubjectType {
	return s.subjectType
}

func (s testSubject) SubjectField(name string) (any, bool) {
	v, ok := s.fields[name]
	return v, ok
}

func ownProduct(authorID uuid.UUID) testSubject {
	return testSubject{
		subjectType: SubjectProduct,
		fields:      map[string]any{"id": uuid.New(), "authorId": authorID},
	}
}

func Test_Ability_Admin(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	ability := NewAbility(adminID, RoleAdmin)

	t.Run("manage all supersedes every check", func(t *testing.T) {
		for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage} {
			for _, subject := range []SubjectType{SubjectUser, SubjectProduct, SubjectCategory, SubjectAll} {
				assert.True(t, ability.Can(action, subject), "admin should be able to %s %s", action, subject)
			}
		}
	})

	t.Run("any instance allowed regardless of ownership", func(t *testing.T) {
		product := ownProduct(uuid.New()) // owned by someone else

		assert.True(t, ability.CanSubject(ActionUpdate, product))
		assert.True(t, ability.CanSubject(ActionDelete, product))
	})
}

func Test_Ability_User(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ability := NewAbility(userID, RoleUser)

	t.Run("type level checks", func(t *testing.T) {
		tests := []struct {
			name    string
			action  Action
			subject SubjectType
			allowed bool
		}{
			{"read users", ActionRead, SubjectUser, true},
			{"read products", ActionRead, SubjectProduct, true},
			{"read categories", ActionRead, SubjectCategory, true},
			{"create categories denied", ActionCreate, SubjectCategory, false},
			{"update categories denied", ActionUpdate, SubjectCategory, false},
			// Conditional rules grant nothing at the type level:
			// being allowed to update own products says nothing about products in general
			{"update products in general denied", ActionUpdate, SubjectProduct, false},
			{"delete products in general denied", ActionDelete, SubjectProduct, false},
			{"manage all denied", ActionManage, SubjectAll, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.allowed, ability.Can(tt.action, tt.subject))
			})
		}
	})

	t.Run("owns product instance", func(t *testing.T) {
		own := ownProduct(userID)
		foreign := ownProduct(uuid.New())

		assert.True(t, ability.CanSubject(ActionUpdate, own), "user should update own product")
		assert.True(t, ability.CanSubject(ActionDelete, own), "user should delete own product")
		assert.False(t, ability.CanSubject(ActionUpdate, foreign), "user should not update foreign product")
		assert.False(t, ability.CanSubject(ActionDelete, foreign), "user should not delete foreign product")
	})

	t.Run("manages own user record", func(t *testing.T) {
		self := testSubject{subjectType: SubjectUser, fields: map[string]any{"id": userID}}
		other := testSubject{subjectType: SubjectUser, fields: map[string]any{"id": uuid.New()}}

		assert.True(t, ability.CanSubject(ActionUpdate, self))
		assert.True(t, ability.CanSubject(ActionDelete, self))
		assert.True(t, ability.CanSubject(ActionRead, other), "reading others is unconditional")
		assert.False(t, ability.CanSubject(ActionUpdate, other))
	})

	t.Run("condition key missing on instance denies", func(t *testing.T) {
		// A product that does not expose authorId can't satisfy the ownership condition
		anonymous := testSubject{subjectType: SubjectProduct, fields: map[string]any{"id": uuid.New()}}

		assert.False(t, ability.CanSubject(ActionUpdate, anonymous))
		assert.True(t, ability.CanSubject(ActionRead, anonymous), "unconditional read still applies")
	})

	t.Run("fail closed", func(t *testing.T) {
		unknown := testSubject{subjectType: SubjectType("Order"), fields: map[string]any{"id": uuid.New()}}

		require.False(t, ability.CanSubject(ActionRead, unknown), "unknown subject types resolve to nothing, not to a wildcard")
		require.False(t, ability.CanSubject(ActionRead, nil), "nil instance must deny")
	})
}
