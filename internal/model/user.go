package model

import "time"

// Roles ordered from least to most privileged.
const (
	RoleFree    = "free"
	RolePremium = "premium"
	RoleAdmin   = "admin"
)

// roleRanks defines the total order free < premium < admin used for
// authorization checks.
var roleRanks = map[string]int{
	RoleFree:    0,
	RolePremium: 1,
	RoleAdmin:   2,
}

// RoleRank returns the rank of a role claim. Unknown roles rank as free so
// that a forged or stale claim never grants elevated access.
func RoleRank(role string) int {
	if r, ok := roleRanks[role]; ok {
		return r
	}
	return 0
}

// RoleAtLeast reports whether the claimed role satisfies the required
// minimum role.
func RoleAtLeast(claimed, required string) bool {
	return RoleRank(claimed) >= RoleRank(required)
}

// ValidRole reports whether the given string is one of the defined roles.
func ValidRole(role string) bool {
	_, ok := roleRanks[role]
	return ok
}

// User is an identity record. The password hash never leaves the server; the
// JSON shape below is what the auth and admin endpoints return.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
