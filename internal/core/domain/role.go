package domain

import "strings"

// Role is a privilege level in the fixed, totally ordered hierarchy.
// A holder of rank N may perform any operation gated at rank <= N.
type Role int

const (
	RoleUser Role = iota + 1
	RoleSales
	RoleSupervisor
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUser:       "user",
	RoleSales:      "sales",
	RoleSupervisor: "supervisor",
	RoleAdmin:      "admin",
}

var rolesByName = map[string]Role{
	"user":       RoleUser,
	"sales":      RoleSales,
	"supervisor": RoleSupervisor,
	"admin":      RoleAdmin,
}

// ParseRole resolves a role name case-insensitively. Unknown or empty
// names resolve to RoleUser with ok=false so callers can fall back.
func ParseRole(name string) (Role, bool) {
	r, ok := rolesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return RoleUser, false
	}
	return r, true
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "user"
}

// Rank returns the integer rank used for permission comparisons.
func (r Role) Rank() int { return int(r) }

// Meets reports whether a holder of r may perform an operation gated
// at required.
func (r Role) Meets(required Role) bool { return r >= required }

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}
