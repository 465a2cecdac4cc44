package entity

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

// RolePredicate decides whether a role may perform an operation.
type RolePredicate func(Role) bool

// AnyStaff admits every valid role.
func AnyStaff(r Role) bool { return r.Valid() }

func ManagerOrAdmin(r Role) bool { return r == RoleAdmin || r == RoleManager }

func AdminOnly(r Role) bool { return r == RoleAdmin }
