package gorm

import (
	"strings"
	"time"

	"riverbend/portal/internal/constants"
)

type User struct {
	ID              string                `gorm:"column:id;primaryKey;type:uuid"`
	Email           string                `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash    *string               `gorm:"column:password_hash"`
	FirstName       string                `gorm:"column:first_name"`
	LastName        string                `gorm:"column:last_name"`
	Phone           string                `gorm:"column:phone"`
	Role            constants.Role        `gorm:"column:role;type:varchar(32);not null"`
	AccountType     constants.AccountType `gorm:"column:account_type;type:varchar(16);not null"`
	IsActive        bool                  `gorm:"column:is_active;not null"`
	EmailVerifiedAt *time.Time            `gorm:"column:email_verified_at"`
	Title           string                `gorm:"column:title"`
	Bio             string                `gorm:"column:bio;type:text"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	VolunteerProfile *VolunteerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Sponsor          *Sponsor          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Signups          []VolunteerSignup `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CanSignIn is false for sponsor prospects and accounts without a password.
func (u *User) CanSignIn() bool {
	return u.AccountType == constants.AccountMember && u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsVerified() bool { return u.EmailVerifiedAt != nil }
