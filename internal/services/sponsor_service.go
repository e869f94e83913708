package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/tiers"
	"riverbend/portal/internal/validator"
)

var errSponsorExists = errors.New("sponsor email already registered")

// createProspectSponsor inserts a prospect user for the sponsor contact and
// the sponsor itself in one transaction. Prospects have no password and
// cannot sign in.
func createProspectSponsor(ctx context.Context, db *gorm.DB, users *repositories.UserRepository, sponsors *repositories.SponsorRepository, sponsor *gormModels.Sponsor) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := users.WithTx(tx)

		exists, err := txUsers.EmailExists(ctx, sponsor.ContactEmail)
		if err != nil {
			return err
		}
		if exists {
			return errSponsorExists
		}

		first, last := splitName(sponsor.ContactName)
		user := &gormModels.User{
			Email:       common.NormalizeEmail(sponsor.ContactEmail),
			FirstName:   first,
			LastName:    last,
			Phone:       sponsor.ContactPhone,
			Role:        constants.RoleVolunteer,
			AccountType: constants.AccountProspect,
			IsActive:    false,
		}
		if err := txUsers.Create(ctx, user); err != nil {
			return err
		}

		sponsor.UserID = user.ID
		return sponsors.WithTx(tx).Create(ctx, sponsor)
	})
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if i := strings.LastIndex(full, " "); i > 0 {
		return strings.TrimSpace(full[:i]), full[i+1:]
	}
	return full, ""
}

type SponsorService struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	sponsors *repositories.SponsorRepository
	validate *validator.Validator
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
}

func NewSponsorService(
	db *gorm.DB,
	users *repositories.UserRepository,
	sponsors *repositories.SponsorRepository,
	validate *validator.Validator,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
) *SponsorService {
	return &SponsorService{
		db:       db,
		users:    users,
		sponsors: sponsors,
		validate: validate,
		cache:    cache,
		metrics:  m,
	}
}

// Tiers is the band table for the donate and sponsor pages.
func (s *SponsorService) Tiers(ctx context.Context) ([]tiers.Band, error) {
	return cached(ctx, s.cache, s.metrics, constants.CachePrefixTiers, func() ([]tiers.Band, error) {
		return tiers.All(), nil
	})
}

// Wall lists active sponsors for the public sponsor wall, highest tier
// first. Pending applications stay off it until an admin activates them.
func (s *SponsorService) Wall(ctx context.Context) ([]dtos.PublicSponsorResponse, error) {
	wall, err := cached(ctx, s.cache, s.metrics, constants.CachePrefixSponsorWall, func() ([]dtos.PublicSponsorResponse, error) {
		sponsors, err := s.sponsors.ListActive(ctx)
		if err != nil {
			return nil, err
		}

		slices.SortStableFunc(sponsors, func(a, b gormModels.Sponsor) int {
			return b.EffectiveTier().Rank() - a.EffectiveTier().Rank()
		})

		out := make([]dtos.PublicSponsorResponse, 0, len(sponsors))
		for i := range sponsors {
			out = append(out, toPublicSponsor(&sponsors[i]))
		}
		return out, nil
	})
	if err != nil {
		return nil, Internal(err)
	}
	return wall, nil
}

func (s *SponsorService) List(ctx context.Context, f repositories.SponsorFilter) (*dtos.PagedResponse[dtos.SponsorResponse], error) {
	sponsors, total, err := s.sponsors.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}

	items := make([]dtos.SponsorResponse, 0, len(sponsors))
	for i := range sponsors {
		items = append(items, toSponsorResponse(&sponsors[i]))
	}
	return &dtos.PagedResponse[dtos.SponsorResponse]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

func (s *SponsorService) Get(ctx context.Context, id string) (*dtos.SponsorResponse, error) {
	sponsor, err := s.sponsors.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Sponsor not found")
	}
	resp := toSponsorResponse(sponsor)
	return &resp, nil
}

// Create adds a sponsor on behalf of an admin through the same path as a
// public application.
func (s *SponsorService) Create(ctx context.Context, req dtos.AdminSponsorRequest) (*dtos.SponsorResponse, error) {
	req.ContactEmail = common.NormalizeEmail(req.ContactEmail)
	req.ContactName = strings.TrimSpace(req.ContactName)
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	sponsor := &gormModels.Sponsor{
		SponsorType:   constants.SponsorType(req.SponsorType),
		CompanyName:   strings.TrimSpace(req.CompanyName),
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		StreetAddress: strings.TrimSpace(req.StreetAddress),
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		ZipCode:       strings.TrimSpace(req.ZipCode),
		TotalAmount:   decimal.Zero,
		Status:        constants.SponsorActive,
		LogoURL:       req.LogoURL,
		Website:       req.Website,
		Message:       req.Message,
	}
	if req.TotalAmount != nil {
		sponsor.TotalAmount = req.TotalAmount.Round(2)
	}
	if req.TierOverride != "" {
		override := req.TierOverride
		sponsor.TierOverride = &override
	}
	if req.Status != "" {
		sponsor.Status = constants.SponsorStatus(req.Status)
	}

	if err := createProspectSponsor(ctx, s.db, s.users, s.sponsors, sponsor); err != nil {
		if errors.Is(err, errSponsorExists) || errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict(constants.MsgSponsorExists, err)
		}
		return nil, Internal(err)
	}
	s.invalidateWall(ctx)

	resp := toSponsorResponse(sponsor)
	return &resp, nil
}

// Update applies a partial edit. Changing totalAmount moves the computed
// tier; the override, if any, still wins. A new contact email moves the
// linked prospect's email with it; a member's sponsor contact follows the
// member account and cannot be changed here.
func (s *SponsorService) Update(ctx context.Context, id string, req dtos.AdminUpdateSponsorRequest) (*dtos.SponsorResponse, error) {
	// An empty override clears it and skips the oneof check.
	clearOverride := req.TierOverride != nil && *req.TierOverride == ""
	if clearOverride {
		req.TierOverride = nil
	}

	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	sponsor, err := s.sponsors.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Sponsor not found")
	}

	setString(&sponsor.CompanyName, req.CompanyName)
	setString(&sponsor.ContactName, req.ContactName)
	setString(&sponsor.ContactPhone, req.ContactPhone)
	setString(&sponsor.StreetAddress, req.StreetAddress)
	setString(&sponsor.City, req.City)
	setString(&sponsor.State, req.State)
	setString(&sponsor.ZipCode, req.ZipCode)
	setString(&sponsor.LogoURL, req.LogoURL)
	setString(&sponsor.Website, req.Website)
	setString(&sponsor.Message, req.Message)

	emailChanged := req.ContactEmail != nil && common.NormalizeEmail(*req.ContactEmail) != sponsor.ContactEmail
	if emailChanged {
		if sponsor.User != nil && sponsor.User.AccountType != constants.AccountProspect {
			return nil, Validation("Validation failed", map[string]string{
				"contactEmail": "Linked to a member account; change the email on that account instead",
			})
		}
		sponsor.ContactEmail = common.NormalizeEmail(*req.ContactEmail)
	}
	if req.SponsorType != nil {
		sponsor.SponsorType = constants.SponsorType(*req.SponsorType)
	}
	if req.Status != nil {
		sponsor.Status = constants.SponsorStatus(*req.Status)
	}
	if req.TotalAmount != nil {
		sponsor.TotalAmount = req.TotalAmount.Round(2)
	}
	switch {
	case clearOverride:
		sponsor.TierOverride = nil
	case req.TierOverride != nil:
		override := *req.TierOverride
		sponsor.TierOverride = &override
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if emailChanged && sponsor.UserID != "" {
			txUsers := s.users.WithTx(tx)
			exists, err := txUsers.EmailExists(ctx, sponsor.ContactEmail)
			if err != nil {
				return err
			}
			if exists {
				return errSponsorExists
			}
			if err := txUsers.UpdateFields(ctx, sponsor.UserID, map[string]interface{}{"email": sponsor.ContactEmail}); err != nil {
				return err
			}
			if sponsor.User != nil {
				sponsor.User.Email = sponsor.ContactEmail
			}
		}
		return s.sponsors.WithTx(tx).Save(ctx, sponsor)
	})
	if err != nil {
		if errors.Is(err, errSponsorExists) || errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict(constants.MsgSponsorExists, err)
		}
		return nil, Internal(err)
	}
	s.invalidateWall(ctx)

	resp := toSponsorResponse(sponsor)
	return &resp, nil
}

// Delete removes the sponsor. A prospect user created for it goes too;
// member accounts are kept.
func (s *SponsorService) Delete(ctx context.Context, id string) error {
	sponsor, err := s.sponsors.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err, "Sponsor not found")
	}

	if sponsor.User != nil && sponsor.User.AccountType == constants.AccountProspect {
		err = s.users.Delete(ctx, sponsor.UserID)
	} else {
		err = s.sponsors.Delete(ctx, id)
	}
	if err != nil {
		return fromRepo(err, "Sponsor not found")
	}

	s.invalidateWall(ctx)
	return nil
}

func (s *SponsorService) invalidateWall(ctx context.Context) {
	s.cache.Delete(ctx, string(constants.CachePrefixSponsorWall))
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
