// Package access is the single authorization gate every workflow action
// passes through before it reads or mutates state.
package access

import (
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

// Actor is the authenticated user performing an action.
type Actor struct {
	UserID uint
	Role   models.Role
}

// ActorFor is the actor a signed-in user acts as.
func ActorFor(u *models.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role}
}

func (a Actor) IsAdmin() bool    { return a.Role == models.RoleAdmin }
func (a Actor) IsCustomer() bool { return a.Role == models.RoleCustomer }

// Authenticated reports whether the actor came from a real session.
func (a Actor) Authenticated() bool {
	return a.UserID != 0 && a.Role.Valid()
}

// Policy decides whether an actor may perform an action.
type Policy func(Actor) bool

// AnyUser admits every authenticated actor.
func AnyUser() Policy {
	return func(a Actor) bool { return true }
}

// AdminOnly admits administrators.
func AdminOnly() Policy {
	return func(a Actor) bool { return a.IsAdmin() }
}

// Owner admits only the customer that owns the record. An unowned record
// (nil owner) admits nobody.
func Owner(ownerID *uint) Policy {
	return func(a Actor) bool {
		return ownerID != nil && *ownerID == a.UserID
	}
}

// Participant admits administrators and the owning customer.
func Participant(ownerID *uint) Policy {
	owner := Owner(ownerID)
	return func(a Actor) bool { return a.IsAdmin() || owner(a) }
}

// Authorize returns utils.ErrForbidden unless the actor is authenticated
// and satisfies p.
func Authorize(a Actor, p Policy) error {
	if !a.Authenticated() || !p(a) {
		return utils.ErrForbidden
	}
	return nil
}
