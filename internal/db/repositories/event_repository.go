package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) WithTx(tx *gorm.DB) *EventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) Create(ctx context.Context, event *gormModels.Event) error {
	return wrap(r.db.WithContext(ctx).Omit("Signups").Create(event).Error, "create event")
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*gormModels.Event, error) {
	var event gormModels.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, wrap(err, "fetch event")
	}
	return &event, nil
}

func (r *EventRepository) Save(ctx context.Context, event *gormModels.Event) error {
	return wrap(r.db.WithContext(ctx).Omit("Signups").Save(event).Error, "update event")
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&gormModels.VolunteerSignup{}).Error; err != nil {
			return wrap(err, "delete event signups")
		}
		res := tx.Where("id = ?", id).Delete(&gormModels.Event{})
		if res.Error != nil {
			return wrap(res.Error, "delete event")
		}
		if res.RowsAffected == 0 {
			return wrap(gorm.ErrRecordNotFound, "delete event")
		}
		return nil
	})
}

// ListUpcoming returns events starting at or after since. Unpublished
// events are included only when includeDrafts is set.
func (r *EventRepository) ListUpcoming(ctx context.Context, since time.Time, category string, includeDrafts bool) ([]gormModels.Event, error) {
	q := r.db.WithContext(ctx).Where("starts_at >= ?", since)
	if !includeDrafts {
		q = q.Where("is_published = ?", true)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var events []gormModels.Event
	if err := q.Order("starts_at ASC").Find(&events).Error; err != nil {
		return nil, wrap(err, "list events")
	}
	return events, nil
}

var seatStatuses = []constants.SignupStatus{constants.SignupPending, constants.SignupApproved, constants.SignupCheckedIn}

// CountSeats returns the number of signups occupying capacity per event id.
func (r *EventRepository) CountSeats(ctx context.Context, eventIDs ...string) (map[string]int, error) {
	out := make(map[string]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		EventID string
		Seats   int
	}
	err := r.db.WithContext(ctx).
		Model(&gormModels.VolunteerSignup{}).
		Select("event_id, COUNT(*) AS seats").
		Where("event_id IN ? AND status IN ?", eventIDs, seatStatuses).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap(err, "count event seats")
	}
	for _, row := range rows {
		out[row.EventID] = row.Seats
	}
	return out, nil
}

func (r *EventRepository) CreateSignup(ctx context.Context, signup *gormModels.VolunteerSignup) error {
	return wrap(r.db.WithContext(ctx).Omit("Event", "User").Create(signup).Error, "create signup")
}

func (r *EventRepository) GetSignup(ctx context.Context, id string) (*gormModels.VolunteerSignup, error) {
	var signup gormModels.VolunteerSignup
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Where("id = ?", id).
		First(&signup).Error
	if err != nil {
		return nil, wrap(err, "fetch signup")
	}
	return &signup, nil
}

func (r *EventRepository) GetSignupFor(ctx context.Context, eventID, userID string) (*gormModels.VolunteerSignup, error) {
	var signup gormModels.VolunteerSignup
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&signup).Error
	if err != nil {
		return nil, wrap(err, "fetch signup")
	}
	return &signup, nil
}

func (r *EventRepository) SaveSignup(ctx context.Context, signup *gormModels.VolunteerSignup) error {
	return wrap(r.db.WithContext(ctx).Omit("Event", "User").Save(signup).Error, "update signup")
}

func (r *EventRepository) ListSignupsByEvent(ctx context.Context, eventID string) ([]gormModels.VolunteerSignup, error) {
	var signups []gormModels.VolunteerSignup
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&signups).Error
	if err != nil {
		return nil, wrap(err, "list event signups")
	}
	return signups, nil
}

func (r *EventRepository) ListSignupsByUser(ctx context.Context, userID string) ([]gormModels.VolunteerSignup, error) {
	var signups []gormModels.VolunteerSignup
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&signups).Error
	if err != nil {
		return nil, wrap(err, "list user signups")
	}
	return signups, nil
}

// GetByIDForUpdate locks the event row for the rest of the transaction so
// concurrent signups serialize on the capacity check. SQLite ignores the
// locking clause.
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, id string) (*gormModels.Event, error) {
	var event gormModels.Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, wrap(err, "fetch event")
	}
	return &event, nil
}
