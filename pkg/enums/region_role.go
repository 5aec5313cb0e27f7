package enums

import "fmt"

// RegionRole represents a member's role inside a region.
type RegionRole string

const (
	RegionRoleMember RegionRole = "member"
	RegionRoleAdmin  RegionRole = "admin"
)

var validRegionRoles = []RegionRole{RegionRoleMember, RegionRoleAdmin}

// String implements fmt.Stringer.
func (r RegionRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RegionRole.
func (r RegionRole) IsValid() bool {
	for _, candidate := range validRegionRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegionRole converts raw input into a RegionRole.
func ParseRegionRole(value string) (RegionRole, error) {
	for _, candidate := range validRegionRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid region role %q", value)
}
