package models

type Permission uint8

const (
	PermissionNone  Permission = 0
	PermissionAdmin Permission = 1
)

// Decision is the outcome of an authorization check, Reason is safe to show to the caller
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonUnknownUser = "unknown user"
	ReasonAdmin       = "admin"
	ReasonOwner       = "owner"
	ReasonNoOwner     = "entry has no owner"
	ReasonNotOwner    = "not the owner"
	ReasonAdminOnly   = "admin only"
)

// CanMutate decides whether actor may change a resource owned by ownerID.
// Admins may change anything, owners their own resources. Resources without an owner are admin only.
func CanMutate(actor *User, ownerID *uint64) Decision {
	switch {
	case actor == nil || actor.ID == 0:
		return Decision{false, ReasonUnknownUser}
	case actor.IsAdmin:
		return Decision{true, ReasonAdmin}
	case ownerID == nil:
		return Decision{false, ReasonNoOwner}
	case *ownerID == actor.ID:
		return Decision{true, ReasonOwner}
	}
	return Decision{false, ReasonNotOwner}
}

// Err converts a denied decision to an ErrForbidden carrying the reason
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return forbidden(d.Reason)
}

// RequireAdmin guards operations that have no owner at all, such as moderation
func RequireAdmin(actor *User) error {
	if actor == nil || actor.ID == 0 {
		return forbidden(ReasonUnknownUser)
	}
	if !actor.IsAdmin {
		return forbidden(ReasonAdminOnly)
	}
	return nil
}

// System acts on behalf of local administration tools, it never exists in the users table
var System = &User{ID: ^uint64(0), Username: "system", IsAdmin: true}
