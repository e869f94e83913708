package dtos

import (
	"time"

	"github.com/shopspring/decimal"
)

// APIResponse is the envelope for generic endpoints.
type APIResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success      bool              `json:"success"`
	Error        string            `json:"error"`
	Fields       map[string]string `json:"fields,omitempty"`
	ResponseTime string            `json:"response_time"`
}

type PagedResponse[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

type PaymentInstructions struct {
	PayableTo      string          `json:"payableTo"`
	MailingAddress string          `json:"mailingAddress"`
	OnlineURL      string          `json:"onlineUrl"`
	Memo           string          `json:"memo"`
	AmountDue      decimal.Decimal `json:"amountDue"`
	Tier           string          `json:"tier"`
}

// SponsorApplicationResponse is written without the generic envelope.
type SponsorApplicationResponse struct {
	Success             bool                `json:"success"`
	SponsorID           string              `json:"sponsorId"`
	PaymentInstructions PaymentInstructions `json:"paymentInstructions"`
}

type StepValidationResponse struct {
	Step     string            `json:"step"`
	Valid    bool              `json:"valid"`
	Errors   map[string]string `json:"errors,omitempty"`
	NextStep string            `json:"nextStep,omitempty"`
	PrevStep string            `json:"prevStep,omitempty"`
}

// SponsorResponse is the admin view. Tier is the effective tier: the
// override when set, otherwise computedTier.
type SponsorResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	SponsorType   string          `json:"sponsorType"`
	DisplayName   string          `json:"displayName"`
	CompanyName   string          `json:"companyName"`
	ContactName   string          `json:"contactName"`
	ContactEmail  string          `json:"contactEmail"`
	ContactPhone  string          `json:"contactPhone"`
	StreetAddress string          `json:"streetAddress"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zipCode"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Tier          string          `json:"tier"`
	TierName      string          `json:"tierName"`
	TierColor     string          `json:"tierColor"`
	ComputedTier  string          `json:"computedTier"`
	TierOverride  *string         `json:"tierOverride"`
	Status        string          `json:"status"`
	LogoURL       string          `json:"logoUrl"`
	Website       string          `json:"website"`
	Message       string          `json:"message"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PublicSponsorResponse is one entry on the public sponsor wall.
type PublicSponsorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	TierName  string `json:"tierName"`
	TierColor string `json:"tierColor"`
	LogoURL   string `json:"logoUrl,omitempty"`
	Website   string `json:"website,omitempty"`
}

type VolunteerProfileResponse struct {
	Skills            []string `json:"skills"`
	Interests         []string `json:"interests"`
	Availability      string   `json:"availability"`
	EmergencyContact  string   `json:"emergencyContact"`
	HoursCompleted    float64  `json:"hoursCompleted"`
	ApplicationStatus string   `json:"applicationStatus"`
}

type UserResponse struct {
	ID               string                    `json:"id"`
	Email            string                    `json:"email"`
	FirstName        string                    `json:"firstName"`
	LastName         string                    `json:"lastName"`
	Phone            string                    `json:"phone"`
	Role             string                    `json:"role"`
	AccountType      string                    `json:"accountType"`
	IsActive         bool                      `json:"isActive"`
	EmailVerified    bool                      `json:"emailVerified"`
	Title            string                    `json:"title"`
	Bio              string                    `json:"bio"`
	CreatedAt        time.Time                 `json:"createdAt"`
	VolunteerProfile *VolunteerProfileResponse `json:"volunteerProfile,omitempty"`
}

type BoardMemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type EventResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	StartsAt       time.Time  `json:"startsAt"`
	EndsAt         *time.Time `json:"endsAt"`
	Capacity       int        `json:"capacity"`
	SeatsTaken     int        `json:"seatsTaken"`
	SeatsRemaining *int       `json:"seatsRemaining"`
	IsPublished    bool       `json:"isPublished"`
}

type VolunteerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SignupResponse struct {
	ID          string            `json:"id"`
	EventID     string            `json:"eventId"`
	UserID      string            `json:"userId"`
	Status      string            `json:"status"`
	ShiftNotes  string            `json:"shiftNotes"`
	CheckedInAt *time.Time        `json:"checkedInAt"`
	CreatedAt   time.Time         `json:"createdAt"`
	Event       *EventResponse    `json:"event,omitempty"`
	Volunteer   *VolunteerSummary `json:"volunteer,omitempty"`
}

type DocumentResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	AccessLevel string    `json:"accessLevel"`
	FileName    string    `json:"fileName"`
	DownloadURL string    `json:"downloadUrl"`
	MimeType    string    `json:"mimeType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AnnouncementResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	TargetAudience string     `json:"targetAudience"`
	PublishedAt    *time.Time `json:"publishedAt"`
	IsDraft        bool       `json:"isDraft"`
	AuthorID       string     `json:"authorId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
