package authz

import (
	"github.com/google/uuid"
)

// Role of the user
// Stored on the user record and embedded in access tokens
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Action that a rule allows
type Action string

const (
	ActionManage Action = "manage" // matches any action
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// SubjectType names a kind of domain object rules may refer to
type SubjectType string

const (
	SubjectAll      SubjectType = "all" // matches any subject type
	SubjectUser     SubjectType = "User"
	SubjectProduct  SubjectType = "Product"
	SubjectCategory SubjectType = "Category"
)

// Subject is a domain object that can be checked against rules.
// Domain models declare their type at construction time, so there is no
// runtime shape sniffing: an object either is a known subject or it is not.
type Subject interface {
	SubjectType() SubjectType

	// SubjectField returns the named field used in rule conditions.
	// Implementations must return comparable values only.
	SubjectField(name string) (any, bool)
}

// Rule allows an action on a subject type.
// Conditions, when set, restrict the rule to instances whose fields equal
// every condition value. A nil Conditions map means the rule is unconditional.
type Rule struct {
	Action     Action
	Subject    SubjectType
	Conditions map[string]any
}

// Ability is the computed permission set of a single user.
// It is cheap to build and is recomputed per request, never stored.
type Ability struct {
	rules []Rule
}

// NewAbility derives the permission set from the user's role and id.
// Those two values are the only inputs: ADMIN gets a single unconditional
// manage-all rule, USER gets the fixed read/ownership rule set.
func NewAbility(userID uuid.UUID, role Role) Ability {
	if role == RoleAdmin {
		return Ability{rules: []Rule{
			{Action: ActionManage, Subject: SubjectAll},
		}}
	}

	return Ability{rules: []Rule{
		{Action: ActionRead, Subject: SubjectUser},
		{Action: ActionRead, Subject: SubjectProduct},
		{Action: ActionRead, Subject: SubjectCategory},
		{Action: ActionManage, Subject: SubjectUser, Conditions: map[string]any{"id": userID}},
		{Action: ActionUpdate, Subject: SubjectProduct, Conditions: map[string]any{"authorId": userID}},
		{Action: ActionDelete, Subject: SubjectProduct, Conditions: map[string]any{"authorId": userID}},
	}}
}

// Can reports whether the action is allowed on the subject type as a whole.
// Only unconditional rules can grant a type-level check: a rule scoped to
// owned instances says nothing about the type in general.
func (a Ability) Can(action Action, subject SubjectType) bool {
	for _, r := range a.rules {
		if r.matchesAction(action) && r.matchesSubject(subject) && r.Conditions == nil {
			return true
		}
	}
	return false
}

// CanSubject reports whether the action is allowed on a concrete instance.
// A nil instance is denied: unknown objects resolve to nothing rather than
// to a permissive wildcard bucket.
func (a Ability) CanSubject(action Action, subject Subject) bool {
	if subject == nil {
		return false
	}
	for _, r := range a.rules {
		if r.matchesAction(action) && r.matchesSubject(subject.SubjectType()) && r.matchesConditions(subject) {
			return true
		}
	}
	return false
}

func (r Rule) matchesAction(action Action) bool {
	return r.Action == ActionManage || r.Action == action
}

func (r Rule) matchesSubject(subject SubjectType) bool {
	return r.Subject == SubjectAll || r.Subject == subject
}

// matchesConditions checks every condition key against the instance field
// with strict equality. No conditions means the rule always matches.
func (r Rule) matchesConditions(subject Subject) bool {
	for key, want := range r.Conditions {
		got, ok := subject.SubjectField(key)
		if !ok || got != want {
			return false
		}
	}
	return true
}
