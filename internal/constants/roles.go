package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role mirrors the users.role column
type Role string

const (
	RoleVolunteer   Role = "volunteer"
	RoleBoardMember Role = "board_member"
	RoleAdmin       Role = "admin"
)

// RolePublic is never persisted. It stands for a request without a session.
const RolePublic Role = ""

// String is convenient for fmt and logs
func (r Role) String() string { return string(r) }

// Rank orders roles from least to most privileged. Public is 0.
func (r Role) Rank() int {
	switch r {
	case RoleVolunteer:
		return 1
	case RoleBoardMember:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r carries every permission of min.
func (r Role) AtLeast(min Role) bool { return r.Rank() >= min.Rank() }

func (r Role) IsValid() bool {
	switch r {
	case RoleVolunteer, RoleBoardMember, RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts only persisted role values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return RolePublic, fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

/* ---------- DB adapters so gorm/sqlx scan and write the enum cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// AccountType separates people who can sign in from sponsor prospects
// created by the public application form.
type AccountType string

const (
	AccountMember   AccountType = "member"
	AccountProspect AccountType = "prospect"
)
