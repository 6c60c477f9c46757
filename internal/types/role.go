//nolint:revive // types is a standard Go package name pattern
package types

// Role identifies an employee's job function for capability lookups.
// Roles come from the caller's authenticated identity; the engine never
// assigns or mutates them.
type Role string

// Employee roles. RoleDefault is the fail-closed entry every
// unrecognized role string maps to.
const (
	RoleAdmin            Role = "Admin"
	RoleSalesExecutive   Role = "Sales_Executive"
	RoleSeniorRecruiter  Role = "Senior_Recruiter"
	RoleRecruiter        Role = "Recruiter"
	RoleResumeWriter     Role = "Resume_Writer"
	RoleMarketingManager Role = "Marketing_Manager"
	RoleDefault          Role = "default"
)

// AllRoles lists every named role, excluding RoleDefault.
var AllRoles = []Role{
	RoleAdmin,
	RoleSalesExecutive,
	RoleSeniorRecruiter,
	RoleRecruiter,
	RoleResumeWriter,
	RoleMarketingManager,
}

// ParseRole converts an identity-provider role string to a Role.
// Unknown strings map to RoleDefault so that unrecognized callers
// fail closed instead of silently gaining access.
func ParseRole(s string) Role {
	role := Role(s)
	for _, known := range AllRoles {
		if role == known {
			return role
		}
	}
	return RoleDefault
}

// String returns the role's wire representation.
func (r Role) String() string {
	return string(r)
}
