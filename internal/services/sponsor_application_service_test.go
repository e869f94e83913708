package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
)

func acmeApplication() dtos.SponsorApplicationRequest {
	return dtos.SponsorApplicationRequest{
		Tier:          "gold",
		CompanyName:   "Acme Corp",
		ContactName:   "Jane Doe",
		ContactEmail:  "Jane@Acme.example",
		ContactPhone:  "555-0100",
		StreetAddress: "1 Main St",
		City:          "Riverbend",
		State:         "CA",
		ZipCode:       "90001",
	}
}

func TestApply_CreatesProspectAndSponsor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.applicationSvc.Apply(ctx, acmeApplication())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.SponsorID)
	assert.Equal(t, "gold", resp.PaymentInstructions.Tier)
	assert.Equal(t, "Gold Sponsor - Acme Corp", resp.PaymentInstructions.Memo)
	assert.True(t, decimal.NewFromInt(5000).Equal(resp.PaymentInstructions.AmountDue))
	assert.Equal(t, "Riverbend Community Fund", resp.PaymentInstructions.PayableTo)

	var users []gormModels.User
	require.NoError(t, env.db.Find(&users).Error)
	require.Len(t, users, 1)
	user := users[0]
	assert.Equal(t, "jane@acme.example", user.Email)
	assert.Equal(t, constants.AccountProspect, user.AccountType)
	assert.Nil(t, user.PasswordHash)
	assert.False(t, user.IsActive)
	assert.False(t, user.CanSignIn())

	var sponsors []gormModels.Sponsor
	require.NoError(t, env.db.Find(&sponsors).Error)
	require.Len(t, sponsors, 1)
	sponsor := sponsors[0]
	assert.Equal(t, user.ID, sponsor.UserID)
	assert.Equal(t, resp.SponsorID, sponsor.ID)
	assert.True(t, sponsor.TotalAmount.IsZero())
	require.NotNil(t, sponsor.TierOverride)
	assert.Equal(t, "gold", *sponsor.TierOverride)
	assert.Equal(t, constants.SponsorPending, sponsor.Status)
	assert.Equal(t, constants.SponsorCompany, sponsor.SponsorType)

	assert.ElementsMatch(t,
		[]common.EmailTemplate{common.EmailAdminSponsorApp, common.EmailSponsorConfirm},
		env.mailer.templates())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SponsorApplicationsTotal.WithLabelValues("created")))
}

func TestApply_DuplicateEmailConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.applicationSvc.Apply(ctx, acmeApplication())
	require.NoError(t, err)

	again := acmeApplication()
	again.ContactEmail = "  JANE@acme.example "
	_, err = env.applicationSvc.Apply(ctx, again)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), constants.MsgSponsorExists)

	var count int64
	require.NoError(t, env.db.Model(&gormModels.Sponsor{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SponsorApplicationsTotal.WithLabelValues("duplicate")))
}

// A concurrent application for the same email can commit between the
// existence check and the insert; the unique index must still yield 409.
func TestApply_UniqueIndexConflictAfterCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raced := false
	require.NoError(t, env.db.Callback().Create().Before("gorm:create").Register("test:concurrent_signup", func(tx *gorm.DB) {
		user, ok := tx.Statement.Dest.(*gormModels.User)
		if !ok || raced || user.AccountType != constants.AccountProspect {
			return
		}
		raced = true
		tx.AddError(tx.Session(&gorm.Session{NewDB: true}).Create(&gormModels.User{
			Email:       user.Email,
			FirstName:   "Other",
			Role:        constants.RoleVolunteer,
			AccountType: constants.AccountMember,
			IsActive:    true,
		}).Error)
	}))

	_, err := env.applicationSvc.Apply(ctx, acmeApplication())
	require.Error(t, err)
	assert.True(t, raced)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), constants.MsgSponsorExists)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SponsorApplicationsTotal.WithLabelValues("duplicate")))

	var sponsors int64
	require.NoError(t, env.db.Model(&gormModels.Sponsor{}).Count(&sponsors).Error)
	assert.Zero(t, sponsors)
	assert.Empty(t, env.mailer.templates())
}

func TestApply_InvalidFieldsNamed(t *testing.T) {
	env := newTestEnv(t)

	req := acmeApplication()
	req.Tier = "platinum"
	req.ContactEmail = "not-an-email"
	req.City = "   "

	_, err := env.applicationSvc.Apply(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	se := err.(*ServiceError)
	assert.Contains(t, se.Fields, "tier")
	assert.Contains(t, se.Fields, "contactEmail")
	assert.Contains(t, se.Fields, "city")
	assert.Empty(t, env.mailer.templates())
}

func TestApply_MailFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	env.mailer.err = assert.AnError

	resp, err := env.applicationSvc.Apply(context.Background(), acmeApplication())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.SponsorID)
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.EmailsTotal.WithLabelValues(string(common.EmailAdminSponsorApp), "failed"))+
		testutil.ToFloat64(env.metrics.EmailsTotal.WithLabelValues(string(common.EmailSponsorConfirm), "failed")))
}

func TestValidateStep_AdvancesOnlyWhenClean(t *testing.T) {
	env := newTestEnv(t)

	form := dtos.SponsorApplicationRequest{Tier: "silver"}
	resp, err := env.applicationSvc.ValidateStep(dtos.StepValidationRequest{Step: "tier_selection", Form: form})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, string(StepContactInfo), resp.NextStep)

	resp, err = env.applicationSvc.ValidateStep(dtos.StepValidationRequest{Step: "contact_info", Form: form})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Empty(t, resp.NextStep)
	assert.Equal(t, string(StepTierSelection), resp.PrevStep)
	assert.Contains(t, resp.Errors, "contactName")
	assert.NotContains(t, resp.Errors, "city")

	_, err = env.applicationSvc.ValidateStep(dtos.StepValidationRequest{Step: "payment", Form: form})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestStepMachine(t *testing.T) {
	assert.Equal(t, StepAddress, NextStep(StepContactInfo, nil))
	assert.Equal(t, StepContactInfo, NextStep(StepContactInfo, map[string]string{"city": "required"}))
	assert.Equal(t, StepConfirmation, NextStep(StepConfirmation, nil))
	assert.Equal(t, StepTierSelection, PrevStep(StepTierSelection))
	assert.Equal(t, StepAddress, PrevStep(StepReview))
}
