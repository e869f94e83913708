package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

type EventService struct {
	db         *gorm.DB
	events     *repositories.EventRepository
	users      *repositories.UserRepository
	volunteers *repositories.VolunteerRepository
	notifier   *Notifier
	validate   *validator.Validator
	metrics    *metrics.MetricsRegistry
	now        func() time.Time
}

func NewEventService(
	db *gorm.DB,
	events *repositories.EventRepository,
	users *repositories.UserRepository,
	volunteers *repositories.VolunteerRepository,
	notifier *Notifier,
	validate *validator.Validator,
	m *metrics.MetricsRegistry,
) *EventService {
	return &EventService{
		db:         db,
		events:     events,
		users:      users,
		volunteers: volunteers,
		notifier:   notifier,
		validate:   validate,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// ListPublic returns published upcoming events with seat counts.
func (s *EventService) ListPublic(ctx context.Context, category string) ([]dtos.EventResponse, error) {
	return s.list(ctx, s.now(), strings.TrimSpace(category), false)
}

// ListAdmin includes drafts and past events.
func (s *EventService) ListAdmin(ctx context.Context, category string) ([]dtos.EventResponse, error) {
	return s.list(ctx, time.Time{}, strings.TrimSpace(category), true)
}

func (s *EventService) list(ctx context.Context, since time.Time, category string, includeDrafts bool) ([]dtos.EventResponse, error) {
	events, err := s.events.ListUpcoming(ctx, since, category, includeDrafts)
	if err != nil {
		return nil, Internal(err)
	}

	ids := make([]string, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}
	seats, err := s.events.CountSeats(ctx, ids...)
	if err != nil {
		return nil, Internal(err)
	}

	out := make([]dtos.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i], seats[events[i].ID]))
	}
	return out, nil
}

// Get returns one event. Drafts are visible only when includeDrafts is set.
func (s *EventService) Get(ctx context.Context, id string, includeDrafts bool) (*dtos.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Event not found")
	}
	if !event.IsPublished && !includeDrafts {
		return nil, NotFound("Event not found", nil)
	}
	seats, err := s.events.CountSeats(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	resp := toEventResponse(event, seats[id])
	return &resp, nil
}

func (s *EventService) Create(ctx context.Context, actorID string, req dtos.EventRequest) (*dtos.EventResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	event := &gormModels.Event{CreatedBy: actorID}
	applyEventRequest(event, req)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, Internal(err)
	}

	resp := toEventResponse(event, 0)
	return &resp, nil
}

func (s *EventService) Update(ctx context.Context, id string, req dtos.EventRequest) (*dtos.EventResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Event not found")
	}
	applyEventRequest(event, req)
	if err := s.events.Save(ctx, event); err != nil {
		return nil, Internal(err)
	}

	seats, err := s.events.CountSeats(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	resp := toEventResponse(event, seats[id])
	return &resp, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	return fromRepo(s.events.Delete(ctx, id), "Event not found")
}

// applyEventRequest stores times in UTC so range queries compare correctly
// on every driver.
func applyEventRequest(e *gormModels.Event, req dtos.EventRequest) {
	e.Title = strings.TrimSpace(req.Title)
	e.Description = strings.TrimSpace(req.Description)
	e.Category = strings.ToLower(strings.TrimSpace(req.Category))
	e.Location = strings.TrimSpace(req.Location)
	e.StartsAt = req.StartsAt.UTC()
	e.EndsAt = nil
	if req.EndsAt != nil {
		ends := req.EndsAt.UTC()
		e.EndsAt = &ends
	}
	e.Capacity = req.Capacity
	e.IsPublished = req.IsPublished
}

// Signup reserves a seat for userID. The event row is locked while seats
// are counted so capacity holds under concurrent signups.
func (s *EventService) Signup(ctx context.Context, userID, eventID string) (*dtos.SignupResponse, error) {
	var signup *gormModels.VolunteerSignup
	var event *gormModels.Event

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)

		var err error
		event, err = events.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			return fromRepo(err, "Event not found")
		}
		if !event.IsPublished {
			return NotFound("Event not found", nil)
		}
		if event.StartsAt.Before(s.now()) {
			return Validation("This event has already started", nil)
		}

		existing, err := events.GetSignupFor(ctx, eventID, userID)
		switch {
		case err == nil && existing.Status.Counted():
			return Conflict(constants.MsgAlreadySignedUp, nil)
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return err
		}

		if err := s.checkCapacity(ctx, events, event); err != nil {
			return err
		}

		if existing != nil {
			existing.Status = constants.SignupPending
			existing.CheckedInAt = nil
			signup = existing
			return events.SaveSignup(ctx, signup)
		}
		signup = &gormModels.VolunteerSignup{
			EventID: eventID,
			UserID:  userID,
			Status:  constants.SignupPending,
		}
		return events.CreateSignup(ctx, signup)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict(constants.MsgAlreadySignedUp, err)
		}
		return nil, asServiceError(err)
	}
	s.metrics.EventSignupsTotal.WithLabelValues(string(signup.Status)).Inc()

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		_ = s.notifier.Send(ctx, Email{
			Template: common.EmailEventSignup,
			To:       user.Email,
			Data: common.EmailData{
				Name:       user.FirstName,
				EventTitle: event.Title,
				When:       common.FormatEventTime(event.StartsAt),
				Location:   event.Location,
			},
		})
	}

	signup.Event = event
	resp := toSignupResponse(signup)
	return &resp, nil
}

func (s *EventService) checkCapacity(ctx context.Context, events *repositories.EventRepository, event *gormModels.Event) error {
	if event.Capacity <= 0 {
		return nil
	}
	seats, err := events.CountSeats(ctx, event.ID)
	if err != nil {
		return err
	}
	if seats[event.ID] >= event.Capacity {
		return Conflict(constants.MsgEventFull, nil)
	}
	return nil
}

// Cancel releases the caller's seat.
func (s *EventService) Cancel(ctx context.Context, userID, eventID string) error {
	signup, err := s.events.GetSignupFor(ctx, eventID, userID)
	if err != nil {
		return fromRepo(err, "Signup not found")
	}
	if signup.Status == constants.SignupCheckedIn {
		return Validation("Checked-in signups cannot be cancelled", nil)
	}
	if signup.Status == constants.SignupCancelled {
		return nil
	}

	signup.Status = constants.SignupCancelled
	if err := s.events.SaveSignup(ctx, signup); err != nil {
		return Internal(err)
	}
	s.metrics.EventSignupsTotal.WithLabelValues(string(signup.Status)).Inc()
	return nil
}

func (s *EventService) MySignups(ctx context.Context, userID string) ([]dtos.SignupResponse, error) {
	signups, err := s.events.ListSignupsByUser(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]dtos.SignupResponse, 0, len(signups))
	for i := range signups {
		out = append(out, toSignupResponse(&signups[i]))
	}
	return out, nil
}

func (s *EventService) ListSignups(ctx context.Context, eventID string) ([]dtos.SignupResponse, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, fromRepo(err, "Event not found")
	}
	signups, err := s.events.ListSignupsByEvent(ctx, eventID)
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]dtos.SignupResponse, 0, len(signups))
	for i := range signups {
		out = append(out, toSignupResponse(&signups[i]))
	}
	return out, nil
}

// UpdateSignup is the coordinator's status change. Approval emails the
// shift assignment; check-in credits the shift hours once; undoing a
// check-in takes them back.
func (s *EventService) UpdateSignup(ctx context.Context, signupID string, req dtos.SignupUpdateRequest) (*dtos.SignupResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}
	next := constants.SignupStatus(req.Status)

	var signup *gormModels.VolunteerSignup
	var prev constants.SignupStatus

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		volunteers := s.volunteers.WithTx(tx)

		var err error
		signup, err = events.GetSignup(ctx, signupID)
		if err != nil {
			return fromRepo(err, "Signup not found")
		}
		prev = signup.Status

		if !prev.Counted() && next.Counted() {
			event, err := events.GetByIDForUpdate(ctx, signup.EventID)
			if err != nil {
				return err
			}
			if err := s.checkCapacity(ctx, events, event); err != nil {
				return err
			}
		}

		hours := signup.Event.ShiftHours()
		switch {
		case next == constants.SignupCheckedIn && prev != constants.SignupCheckedIn:
			now := s.now()
			signup.CheckedInAt = &now
			if err := volunteers.AddHours(ctx, signup.UserID, hours); err != nil {
				return err
			}
		case prev == constants.SignupCheckedIn && next != constants.SignupCheckedIn:
			signup.CheckedInAt = nil
			if err := volunteers.AddHours(ctx, signup.UserID, -hours); err != nil {
				return err
			}
		}

		signup.Status = next
		if req.ShiftNotes != nil {
			signup.ShiftNotes = strings.TrimSpace(*req.ShiftNotes)
		}
		return events.SaveSignup(ctx, signup)
	})
	if err != nil {
		return nil, asServiceError(err)
	}

	if prev != next {
		s.metrics.EventSignupsTotal.WithLabelValues(string(next)).Inc()
		logging.Info("Signup status changed",
			"signup_id", signup.ID,
			"from", string(prev),
			"to", string(next),
		)
	}

	if next == constants.SignupApproved && prev != constants.SignupApproved && signup.User != nil {
		_ = s.notifier.Send(ctx, Email{
			Template: common.EmailShiftAssignment,
			To:       signup.User.Email,
			Data: common.EmailData{
				Name:       signup.User.FirstName,
				EventTitle: signup.Event.Title,
				When:       common.FormatEventTime(signup.Event.StartsAt),
				Location:   signup.Event.Location,
				Notes:      signup.ShiftNotes,
			},
		})
	}

	resp := toSignupResponse(signup)
	return &resp, nil
}
