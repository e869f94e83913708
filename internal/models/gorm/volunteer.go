package gorm

import (
	"time"

	"gorm.io/datatypes"

	"riverbend/portal/internal/constants"
)

type VolunteerProfile struct {
	ID                string                      `gorm:"column:id;primaryKey;type:uuid"`
	UserID            string                      `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	Skills            datatypes.JSONSlice[string] `gorm:"column:skills"`
	Interests         datatypes.JSONSlice[string] `gorm:"column:interests"`
	Availability      string                      `gorm:"column:availability"`
	EmergencyContact  string                      `gorm:"column:emergency_contact"`
	HoursCompleted    float64                     `gorm:"column:hours_completed;not null"`
	ApplicationStatus constants.ApplicationStatus `gorm:"column:application_status;type:varchar(16);not null"`
	CreatedAt         time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (VolunteerProfile) TableName() string {
	return "volunteer_profiles"
}
