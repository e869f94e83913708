package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// SponsorApplicationRequest is the public sponsor form. Every field is
// re-validated on submit no matter which step the client was on.
type SponsorApplicationRequest struct {
	Tier          string `json:"tier" validate:"required,oneof=gold silver bronze"`
	SponsorType   string `json:"sponsorType" validate:"omitempty,oneof=individual company"`
	CompanyName   string `json:"companyName" validate:"notblank,max=200"`
	ContactName   string `json:"contactName" validate:"notblank,max=200"`
	ContactEmail  string `json:"contactEmail" validate:"required,email,max=254"`
	ContactPhone  string `json:"contactPhone" validate:"notblank,max=40"`
	StreetAddress string `json:"streetAddress" validate:"notblank,max=200"`
	City          string `json:"city" validate:"notblank,max=100"`
	State         string `json:"state" validate:"notblank,max=50"`
	ZipCode       string `json:"zipCode" validate:"notblank,max=20"`
	Website       string `json:"website" validate:"omitempty,url,max=300"`
	Message       string `json:"message" validate:"max=2000"`
}

// StepValidationRequest asks the server to validate a single form step.
type StepValidationRequest struct {
	Step string                    `json:"step"`
	Form SponsorApplicationRequest `json:"form"`
}

type RegisterRequest struct {
	Email        string   `json:"email" validate:"required,email,max=254"`
	Password     string   `json:"password" validate:"required,min=8,max=72"`
	FirstName    string   `json:"firstName" validate:"notblank,max=100"`
	LastName     string   `json:"lastName" validate:"notblank,max=100"`
	Phone        string   `json:"phone" validate:"max=40"`
	Skills       []string `json:"skills" validate:"max=30,dive,max=50"`
	Interests    []string `json:"interests" validate:"max=30,dive,max=50"`
	Availability string   `json:"availability" validate:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateMeRequest is a partial update; nil fields are left alone.
type UpdateMeRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Title     *string `json:"title" validate:"omitempty,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=4000"`
}

type VolunteerProfileRequest struct {
	Skills           []string `json:"skills" validate:"max=30,dive,max=50"`
	Interests        []string `json:"interests" validate:"max=30,dive,max=50"`
	Availability     string   `json:"availability" validate:"max=500"`
	EmergencyContact string   `json:"emergencyContact" validate:"max=200"`
}

// AdminCreateUserRequest creates a member account. Without a password the
// user receives a set-password email.
type AdminCreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName string `json:"firstName" validate:"notblank,max=100"`
	LastName  string `json:"lastName" validate:"notblank,max=100"`
	Phone     string `json:"phone" validate:"max=40"`
	Role      string `json:"role" validate:"required,oneof=volunteer board_member admin"`
	Title     string `json:"title" validate:"max=100"`
	Bio       string `json:"bio" validate:"max=4000"`
}

type AdminUpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"firstName" validate:"omitempty,notblank,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,notblank,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=40"`
	Role      *string `json:"role" validate:"omitempty,oneof=volunteer board_member admin"`
	IsActive  *bool   `json:"isActive"`
	Title     *string `json:"title" validate:"omitempty,max=100"`
	Bio       *string `json:"bio" validate:"omitempty,max=4000"`

	VolunteerStatus *string `json:"volunteerStatus" validate:"omitempty,oneof=pending approved rejected"`
}

// AdminSponsorRequest creates a sponsor together with its prospect user.
type AdminSponsorRequest struct {
	SponsorType   string           `json:"sponsorType" validate:"required,oneof=individual company"`
	CompanyName   string           `json:"companyName" validate:"max=200"`
	ContactName   string           `json:"contactName" validate:"notblank,max=200"`
	ContactEmail  string           `json:"contactEmail" validate:"required,email,max=254"`
	ContactPhone  string           `json:"contactPhone" validate:"max=40"`
	StreetAddress string           `json:"streetAddress" validate:"max=200"`
	City          string           `json:"city" validate:"max=100"`
	State         string           `json:"state" validate:"max=50"`
	ZipCode       string           `json:"zipCode" validate:"max=20"`
	TotalAmount   *decimal.Decimal `json:"totalAmount" validate:"omitempty,gte=0"`
	TierOverride  string           `json:"tierOverride" validate:"omitempty,oneof=gold silver bronze"`
	Status        string           `json:"status" validate:"omitempty,oneof=pending active former"`
	LogoURL       string           `json:"logoUrl" validate:"omitempty,url,max=500"`
	Website       string           `json:"website" validate:"omitempty,url,max=300"`
	Message       string           `json:"message" validate:"max=2000"`
}

// AdminUpdateSponsorRequest is a partial update. An empty tierOverride
// clears the override so the tier follows totalAmount again.
type AdminUpdateSponsorRequest struct {
	SponsorType   *string          `json:"sponsorType" validate:"omitempty,oneof=individual company"`
	CompanyName   *string          `json:"companyName" validate:"omitempty,max=200"`
	ContactName   *string          `json:"contactName" validate:"omitempty,notblank,max=200"`
	ContactEmail  *string          `json:"contactEmail" validate:"omitempty,email,max=254"`
	ContactPhone  *string          `json:"contactPhone" validate:"omitempty,max=40"`
	StreetAddress *string          `json:"streetAddress" validate:"omitempty,max=200"`
	City          *string          `json:"city" validate:"omitempty,max=100"`
	State         *string          `json:"state" validate:"omitempty,max=50"`
	ZipCode       *string          `json:"zipCode" validate:"omitempty,max=20"`
	TotalAmount   *decimal.Decimal `json:"totalAmount" validate:"omitempty,gte=0"`
	TierOverride  *string          `json:"tierOverride" validate:"omitempty,oneof=gold silver bronze"`
	Status        *string          `json:"status" validate:"omitempty,oneof=pending active former"`
	LogoURL       *string          `json:"logoUrl" validate:"omitempty,max=500"`
	Website       *string          `json:"website" validate:"omitempty,max=300"`
	Message       *string          `json:"message" validate:"omitempty,max=2000"`
}

type EventRequest struct {
	Title       string     `json:"title" validate:"notblank,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Category    string     `json:"category" validate:"max=50"`
	Location    string     `json:"location" validate:"max=200"`
	StartsAt    time.Time  `json:"startsAt" validate:"required"`
	EndsAt      *time.Time `json:"endsAt" validate:"omitempty,gtfield=StartsAt"`
	Capacity    int        `json:"capacity" validate:"gte=0,lte=10000"`
	IsPublished bool       `json:"isPublished"`
}

type SignupUpdateRequest struct {
	Status     string  `json:"status" validate:"required,oneof=pending approved checked_in cancelled"`
	ShiftNotes *string `json:"shiftNotes" validate:"omitempty,max=1000"`
}

// AnnouncementRequest: publish=true with no publishedAt publishes now; a
// future publishedAt schedules it; neither leaves a draft.
type AnnouncementRequest struct {
	Title          string     `json:"title" validate:"notblank,max=200"`
	Body           string     `json:"body" validate:"notblank,max=20000"`
	TargetAudience string     `json:"targetAudience" validate:"required,oneof=all volunteers board"`
	Publish        bool       `json:"publish"`
	PublishedAt    *time.Time `json:"publishedAt"`
}

// DocumentUploadRequest carries the multipart form fields of an upload.
type DocumentUploadRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=50"`
	AccessLevel string `json:"accessLevel" validate:"required,oneof=public volunteer board admin"`
}
