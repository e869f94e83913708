package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/config"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/tiers"
	"riverbend/portal/internal/validator"
)

// SponsorApplicationService handles the public sponsor application.
type SponsorApplicationService struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	sponsors *repositories.SponsorRepository
	notifier *Notifier
	validate *validator.Validator
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
	payment  config.PaymentConfig
}

func NewSponsorApplicationService(
	db *gorm.DB,
	users *repositories.UserRepository,
	sponsors *repositories.SponsorRepository,
	notifier *Notifier,
	validate *validator.Validator,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
	payment config.PaymentConfig,
) *SponsorApplicationService {
	return &SponsorApplicationService{
		db:       db,
		users:    users,
		sponsors: sponsors,
		notifier: notifier,
		validate: validate,
		cache:    cache,
		metrics:  m,
		payment:  payment,
	}
}

// ValidateStep backs the per-step client validation endpoint.
func (s *SponsorApplicationService) ValidateStep(req dtos.StepValidationRequest) (*dtos.StepValidationResponse, error) {
	step, ok := ParseStep(req.Step)
	if !ok {
		return nil, Validation("Unknown application step", map[string]string{"step": "Must be one of: tier_selection, contact_info, address, review, confirmation"})
	}

	errs := ValidateStep(s.validate, step, req.Form)
	resp := &dtos.StepValidationResponse{
		Step:   string(step),
		Valid:  len(errs) == 0,
		Errors: errs,
	}
	if next := NextStep(step, errs); next != step {
		resp.NextStep = string(next)
	}
	if prev := PrevStep(step); prev != step {
		resp.PrevStep = string(prev)
	}
	return resp, nil
}

// Apply validates the full form, creates the prospect user and sponsor in
// one transaction and then notifies the admin and the applicant. Email
// failures do not undo the application.
func (s *SponsorApplicationService) Apply(ctx context.Context, req dtos.SponsorApplicationRequest) (*dtos.SponsorApplicationResponse, error) {
	req = normalizeApplication(req)

	if err := s.validate.Struct(req); err != nil {
		s.metrics.SponsorApplicationsTotal.WithLabelValues("invalid").Inc()
		return nil, FromValidation(err)
	}

	tierID, _ := tiers.Parse(req.Tier)
	band, _ := tiers.Lookup(tierID)
	override := string(tierID)

	sponsor := &gormModels.Sponsor{
		SponsorType:   constants.SponsorType(req.SponsorType),
		CompanyName:   req.CompanyName,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		TierOverride:  &override,
		Status:        constants.SponsorPending,
		Website:       req.Website,
		Message:       req.Message,
	}

	if err := createProspectSponsor(ctx, s.db, s.users, s.sponsors, sponsor); err != nil {
		if errors.Is(err, errSponsorExists) || errors.Is(err, repositories.ErrDuplicate) {
			s.metrics.SponsorApplicationsTotal.WithLabelValues("duplicate").Inc()
			return nil, Conflict(constants.MsgSponsorExists, err)
		}
		s.metrics.SponsorApplicationsTotal.WithLabelValues("error").Inc()
		return nil, Internal(err)
	}
	s.metrics.SponsorApplicationsTotal.WithLabelValues("created").Inc()
	s.cache.Delete(ctx, string(constants.CachePrefixSponsorWall))

	instructions := s.paymentInstructions(sponsor, band)

	logging.Info("Sponsor application created",
		"sponsor_id", sponsor.ID,
		"user_id", sponsor.UserID,
		"tier", string(band.ID),
	)

	if err := s.notifier.SendAll(ctx, s.applicationEmails(sponsor, band, instructions)...); err != nil {
		logging.Warn("Sponsor application saved but a notification failed",
			"sponsor_id", sponsor.ID,
			"error", err.Error(),
		)
	}

	return &dtos.SponsorApplicationResponse{
		Success:             true,
		SponsorID:           sponsor.ID,
		PaymentInstructions: instructions,
	}, nil
}

func (s *SponsorApplicationService) paymentInstructions(sponsor *gormModels.Sponsor, band tiers.Band) dtos.PaymentInstructions {
	return dtos.PaymentInstructions{
		PayableTo:      s.payment.PayableTo,
		MailingAddress: s.payment.MailingAddress,
		OnlineURL:      s.payment.OnlineURL,
		Memo:           fmt.Sprintf("%s - %s", band.Name, sponsor.DisplayName()),
		AmountDue:      band.MinAmount,
		Tier:           string(band.ID),
	}
}

func (s *SponsorApplicationService) applicationEmails(sponsor *gormModels.Sponsor, band tiers.Band, pay dtos.PaymentInstructions) []Email {
	address := fmt.Sprintf("%s, %s, %s %s", sponsor.StreetAddress, sponsor.City, sponsor.State, sponsor.ZipCode)
	return []Email{
		{
			Template: common.EmailAdminSponsorApp,
			To:       s.notifier.AdminAddress(),
			Data: common.EmailData{
				Sponsor:  sponsor.DisplayName(),
				TierName: band.Name,
				Name:     sponsor.ContactName,
				Email:    sponsor.ContactEmail,
				Phone:    sponsor.ContactPhone,
				Address:  address,
				Website:  sponsor.Website,
				Message:  sponsor.Message,
				Link:     s.notifier.Link("/admin/sponsors/" + sponsor.ID),
			},
		},
		{
			Template: common.EmailSponsorConfirm,
			To:       sponsor.ContactEmail,
			Data: common.EmailData{
				Name:           sponsor.ContactName,
				TierName:       band.Name,
				AmountDue:      "$" + pay.AmountDue.StringFixed(2),
				PayableTo:      pay.PayableTo,
				MailingAddress: pay.MailingAddress,
				OnlineURL:      pay.OnlineURL,
				Memo:           pay.Memo,
			},
		},
	}
}

// normalizeApplication trims every field, lower-cases the email and
// defaults the sponsor type.
func normalizeApplication(req dtos.SponsorApplicationRequest) dtos.SponsorApplicationRequest {
	req.Tier = strings.ToLower(strings.TrimSpace(req.Tier))
	req.SponsorType = strings.ToLower(strings.TrimSpace(req.SponsorType))
	if req.SponsorType == "" {
		req.SponsorType = string(constants.SponsorCompany)
	}
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.ContactName = strings.TrimSpace(req.ContactName)
	req.ContactEmail = common.NormalizeEmail(req.ContactEmail)
	req.ContactPhone = strings.TrimSpace(req.ContactPhone)
	req.StreetAddress = strings.TrimSpace(req.StreetAddress)
	req.City = strings.TrimSpace(req.City)
	req.State = strings.TrimSpace(req.State)
	req.ZipCode = strings.TrimSpace(req.ZipCode)
	req.Website = strings.TrimSpace(req.Website)
	req.Message = strings.TrimSpace(req.Message)
	return req
}
