package models

import "fmt"

type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a stored or submitted role name to a Role. Empty input is
// the default member role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleMember, nil
	case RoleMember, RoleModerator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsElevated reports whether the role may act on objects it does not own.
func (r Role) IsElevated() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Role         Role     `json:"role"`
	Age          *int     `json:"age"`
	Locations    []string `json:"location"`
}

// Anonymous reports whether u is the zero user, i.e. no credential was given.
func (u User) Anonymous() bool { return u.ID == 0 }
