package entities

import (
	"regexp"
	"time"
)

// RoleName is an upper-case role identifier such as ROLE_ADMIN.
type RoleName string

var roleNamePattern = regexp.MustCompile(`^ROLE_[A-Z][A-Z0-9_]{1,30}$`)

const (
	RoleUser      RoleName = "ROLE_USER"
	RoleModerator RoleName = "ROLE_MODERATOR"
	RoleAdmin     RoleName = "ROLE_ADMIN"
)

// KnownRoleNames lists the built-in role names in seed order.
func KnownRoleNames() []RoleName {
	return []RoleName{RoleUser, RoleModerator, RoleAdmin}
}

// Valid reports whether n is well formed.
func (n RoleName) Valid() bool {
	return roleNamePattern.MatchString(string(n))
}

type Role struct {
	ID          int64     `json:"id"`
	Name        RoleName  `json:"name"`
	Description string    `json:"description"`
	Deleted     bool      `json:"deleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Permission is one object/action pair granted to a role.
type Permission struct {
	Object string `json:"object"`
	Action string `json:"action"`
}
