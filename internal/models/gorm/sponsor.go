package gorm

import (
	"time"

	"github.com/shopspring/decimal"

	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/tiers"
)

type Sponsor struct {
	ID            string                  `gorm:"column:id;primaryKey;type:uuid"`
	UserID        string                  `gorm:"column:user_id;type:uuid;uniqueIndex;not null"`
	SponsorType   constants.SponsorType   `gorm:"column:sponsor_type;type:varchar(16);not null"`
	CompanyName   string                  `gorm:"column:company_name"`
	ContactName   string                  `gorm:"column:contact_name;not null"`
	ContactEmail  string                  `gorm:"column:contact_email;not null"`
	ContactPhone  string                  `gorm:"column:contact_phone"`
	StreetAddress string                  `gorm:"column:street_address"`
	City          string                  `gorm:"column:city"`
	State         string                  `gorm:"column:state"`
	ZipCode       string                  `gorm:"column:zip_code"`
	TotalAmount   decimal.Decimal         `gorm:"column:total_amount;type:numeric(12,2);not null"`
	TierOverride  *string                 `gorm:"column:tier_override;type:varchar(16)"`
	Status        constants.SponsorStatus `gorm:"column:status;type:varchar(16);not null"`
	LogoURL       string                  `gorm:"column:logo_url"`
	Website       string                  `gorm:"column:website"`
	Message       string                  `gorm:"column:message;type:text"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	User *User `gorm:"foreignKey:UserID"`
}

func (Sponsor) TableName() string {
	return "sponsors"
}

// DisplayName is the company for company sponsors, the contact otherwise.
func (s *Sponsor) DisplayName() string {
	if s.SponsorType == constants.SponsorCompany && s.CompanyName != "" {
		return s.CompanyName
	}
	return s.ContactName
}

func (s *Sponsor) Override() *tiers.ID {
	if s.TierOverride == nil || *s.TierOverride == "" {
		return nil
	}
	id := tiers.ID(*s.TierOverride)
	return &id
}

// ComputedTier is derived from TotalAmount on every read.
func (s *Sponsor) ComputedTier() tiers.Band {
	b, _ := tiers.Classify(s.TotalAmount)
	return b
}

func (s *Sponsor) EffectiveTier() tiers.Band {
	return tiers.Effective(s.Override(), s.TotalAmount)
}
