package gorm

import (
	"time"

	"riverbend/portal/internal/constants"
)

type Event struct {
	ID          string     `gorm:"column:id;primaryKey;type:uuid"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;type:text"`
	Category    string     `gorm:"column:category;index"`
	Location    string     `gorm:"column:location"`
	StartsAt    time.Time  `gorm:"column:starts_at;not null;index"`
	EndsAt      *time.Time `gorm:"column:ends_at"`
	Capacity    int        `gorm:"column:capacity;not null"`
	IsPublished bool       `gorm:"column:is_published;not null"`
	CreatedBy   string     `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Signups []VolunteerSignup `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
}

func (Event) TableName() string {
	return "events"
}

// ShiftHours is the credit granted on check-in. Events without an end time
// count as two hours.
func (e *Event) ShiftHours() float64 {
	if e.EndsAt == nil || !e.EndsAt.After(e.StartsAt) {
		return 2
	}
	return e.EndsAt.Sub(e.StartsAt).Hours()
}

type VolunteerSignup struct {
	ID          string                 `gorm:"column:id;primaryKey;type:uuid"`
	EventID     string                 `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_signup_event_user"`
	UserID      string                 `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_signup_event_user"`
	Status      constants.SignupStatus `gorm:"column:status;type:varchar(16);not null"`
	ShiftNotes  string                 `gorm:"column:shift_notes"`
	CheckedInAt *time.Time             `gorm:"column:checked_in_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Event *Event `gorm:"foreignKey:EventID"`
	User  *User  `gorm:"foreignKey:UserID"`
}

func (VolunteerSignup) TableName() string {
	return "volunteer_signups"
}
