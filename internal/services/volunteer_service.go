package services

import (
	"context"
	"errors"
	"strings"

	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

type VolunteerService struct {
	volunteers *repositories.VolunteerRepository
	validate   *validator.Validator
}

func NewVolunteerService(volunteers *repositories.VolunteerRepository, validate *validator.Validator) *VolunteerService {
	return &VolunteerService{volunteers: volunteers, validate: validate}
}

func (s *VolunteerService) Profile(ctx context.Context, userID string) (*dtos.VolunteerProfileResponse, error) {
	profile, err := s.volunteers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "Volunteer profile not found")
	}
	resp := toVolunteerProfileResponse(profile)
	return &resp, nil
}

// UpdateProfile replaces the editable fields, creating the profile on
// first save. Hours and application status are admin-managed.
func (s *VolunteerService) UpdateProfile(ctx context.Context, userID string, req dtos.VolunteerProfileRequest) (*dtos.VolunteerProfileResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	profile, err := s.volunteers.GetByUserID(ctx, userID)
	isNew := errors.Is(err, repositories.ErrNotFound)
	if err != nil && !isNew {
		return nil, Internal(err)
	}
	if isNew {
		profile = &gormModels.VolunteerProfile{UserID: userID, ApplicationStatus: constants.ApplicationPending}
	}

	profile.Skills = common.NormalizeTags(req.Skills)
	profile.Interests = common.NormalizeTags(req.Interests)
	profile.Availability = strings.TrimSpace(req.Availability)
	profile.EmergencyContact = strings.TrimSpace(req.EmergencyContact)

	if isNew {
		err = s.volunteers.Create(ctx, profile)
	} else {
		err = s.volunteers.Save(ctx, profile)
	}
	if err != nil {
		return nil, Internal(err)
	}

	resp := toVolunteerProfileResponse(profile)
	return &resp, nil
}
