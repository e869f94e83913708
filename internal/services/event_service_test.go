package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
)

func TestSignup_EnforcesCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.seedEvent(t, 1, 24*time.Hour)
	first := env.seedMember(t, "first@riverbend.test", constants.RoleVolunteer)
	second := env.seedMember(t, "second@riverbend.test", constants.RoleVolunteer)

	signup, err := env.eventSvc.Signup(ctx, first.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, string(constants.SignupPending), signup.Status)
	assert.Contains(t, env.mailer.templates(), common.EmailEventSignup)

	_, err = env.eventSvc.Signup(ctx, first.ID, event.ID)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), constants.MsgAlreadySignedUp)

	_, err = env.eventSvc.Signup(ctx, second.ID, event.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), constants.MsgEventFull)

	require.NoError(t, env.eventSvc.Cancel(ctx, first.ID, event.ID))
	_, err = env.eventSvc.Signup(ctx, second.ID, event.ID)
	require.NoError(t, err)

	got, err := env.eventSvc.Get(ctx, event.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SeatsTaken)
	require.NotNil(t, got.SeatsRemaining)
	assert.Equal(t, 0, *got.SeatsRemaining)
}

func TestSignup_CancelledSignupCanRejoin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.seedEvent(t, 0, 24*time.Hour)
	user := env.seedMember(t, "vol@riverbend.test", constants.RoleVolunteer)

	first, err := env.eventSvc.Signup(ctx, user.ID, event.ID)
	require.NoError(t, err)
	require.NoError(t, env.eventSvc.Cancel(ctx, user.ID, event.ID))

	again, err := env.eventSvc.Signup(ctx, user.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, string(constants.SignupPending), again.Status)

	mine, err := env.eventSvc.MySignups(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "River cleanup", mine[0].Event.Title)
}

func TestSignup_RejectsPastAndDraftEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.seedMember(t, "vol@riverbend.test", constants.RoleVolunteer)

	past := env.seedEvent(t, 0, -time.Hour)
	_, err := env.eventSvc.Signup(ctx, user.ID, past.ID)
	assert.Equal(t, KindValidation, KindOf(err))

	draft := env.seedEvent(t, 0, time.Hour)
	draft.IsPublished = false
	require.NoError(t, env.events.Save(ctx, draft))
	_, err = env.eventSvc.Signup(ctx, user.ID, draft.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = env.eventSvc.Signup(ctx, user.ID, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUpdateSignup_ApproveAndCheckIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	event := env.seedEvent(t, 5, 24*time.Hour)
	user := env.seedMember(t, "vol@riverbend.test", constants.RoleVolunteer)
	signup, err := env.eventSvc.Signup(ctx, user.ID, event.ID)
	require.NoError(t, err)

	notes := "Bring gloves"
	approved, err := env.eventSvc.UpdateSignup(ctx, signup.ID, dtos.SignupUpdateRequest{Status: "approved", ShiftNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	assert.Equal(t, "Bring gloves", approved.ShiftNotes)
	assert.Contains(t, env.mailer.templates(), common.EmailShiftAssignment)

	checked, err := env.eventSvc.UpdateSignup(ctx, signup.ID, dtos.SignupUpdateRequest{Status: "checked_in"})
	require.NoError(t, err)
	assert.NotNil(t, checked.CheckedInAt)

	profile, err := env.volunteerSvc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, profile.HoursCompleted, 0.001)

	_, err = env.eventSvc.UpdateSignup(ctx, signup.ID, dtos.SignupUpdateRequest{Status: "checked_in"})
	require.NoError(t, err)
	profile, err = env.volunteerSvc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, profile.HoursCompleted, 0.001)

	_, err = env.eventSvc.UpdateSignup(ctx, signup.ID, dtos.SignupUpdateRequest{Status: "approved"})
	require.NoError(t, err)
	profile, err = env.volunteerSvc.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, profile.HoursCompleted, 0.001)

	list, err := env.eventSvc.ListSignups(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Volunteer)
	assert.Equal(t, "vol@riverbend.test", list[0].Volunteer.Email)

	// A member with no profile row still has the shift credited.
	board := env.seedMember(t, "board@riverbend.test", constants.RoleBoardMember)
	require.NoError(t, env.db.Where("user_id = ?", board.ID).Delete(&gormModels.VolunteerProfile{}).Error)
	boardSignup, err := env.eventSvc.Signup(ctx, board.ID, event.ID)
	require.NoError(t, err)
	_, err = env.eventSvc.UpdateSignup(ctx, boardSignup.ID, dtos.SignupUpdateRequest{Status: "checked_in"})
	require.NoError(t, err)
	profile, err = env.volunteerSvc.Profile(ctx, board.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, profile.HoursCompleted, 0.001)
}

func TestEventCRUD_NormalizesTimes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin := env.seedMember(t, "admin@riverbend.test", constants.RoleAdmin)

	loc := time.FixedZone("PDT", -7*3600)
	starts := time.Now().In(loc).Add(48 * time.Hour).Truncate(time.Second)
	req := dtos.EventRequest{
		Title:       "Gala",
		Category:    " Fundraiser ",
		StartsAt:    starts,
		Capacity:    100,
		IsPublished: false,
	}

	created, err := env.eventSvc.Create(ctx, admin.ID, req)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.StartsAt.Location())
	assert.Equal(t, "fundraiser", created.Category)

	public, err := env.eventSvc.ListPublic(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, public)

	req.IsPublished = true
	ends := starts.Add(-time.Hour)
	req.EndsAt = &ends
	_, err = env.eventSvc.Update(ctx, created.ID, req)
	assert.Equal(t, KindValidation, KindOf(err))

	req.EndsAt = nil
	_, err = env.eventSvc.Update(ctx, created.ID, req)
	require.NoError(t, err)

	public, err = env.eventSvc.ListPublic(ctx, "fundraiser")
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.NotNil(t, public[0].SeatsRemaining)
	assert.Equal(t, 100, *public[0].SeatsRemaining)

	require.NoError(t, env.eventSvc.Delete(ctx, created.ID))
	assert.Equal(t, KindNotFound, KindOf(env.eventSvc.Delete(ctx, created.ID)))
}
