package gorm

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func assignID(id *string) error {
	if *id == "" {
		*id = uuid.NewString()
	}
	return nil
}

// BeforeCreate hooks assign UUIDs in Go so the models behave the same on
// Postgres and on the in-memory SQLite used by tests.

func (u *User) BeforeCreate(*gorm.DB) error { return assignID(&u.ID) }
func (s *Sponsor) BeforeCreate(*gorm.DB) error { return assignID(&s.ID) }
func (p *VolunteerProfile) BeforeCreate(*gorm.DB) error { return assignID(&p.ID) }
func (e *Event) BeforeCreate(*gorm.DB) error { return assignID(&e.ID) }
func (s *VolunteerSignup) BeforeCreate(*gorm.DB) error { return assignID(&s.ID) }
func (d *Document) BeforeCreate(*gorm.DB) error { return assignID(&d.ID) }
func (a *Announcement) BeforeCreate(*gorm.DB) error { return assignID(&a.ID) }

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Sponsor{},
		&VolunteerProfile{},
		&Event{},
		&VolunteerSignup{},
		&Document{},
		&Announcement{},
	}
}
