package services

import (
	"context"
	"strings"
	"time"

	"riverbend/portal/internal/access"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

const announcementFeedLimit = 50

type AnnouncementService struct {
	announcements *repositories.AnnouncementRepository
	validate      *validator.Validator
	now           func() time.Time
}

func NewAnnouncementService(announcements *repositories.AnnouncementRepository, validate *validator.Validator) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		validate:      validate,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Visible is the reader feed: published announcements addressed to role.
func (s *AnnouncementService) Visible(ctx context.Context, role constants.Role) ([]dtos.AnnouncementResponse, error) {
	now := s.now()
	rows, err := s.announcements.ListPublished(ctx, access.Audiences(role), now, announcementFeedLimit)
	if err != nil {
		return nil, Internal(err)
	}

	out := make([]dtos.AnnouncementResponse, 0, len(rows))
	for i := range rows {
		if !access.AnnouncementVisible(role, rows[i].TargetAudience, rows[i].PublishedAt, now) {
			continue
		}
		out = append(out, toAnnouncementResponse(&rows[i], false))
	}
	return out, nil
}

// ListAll is the authoring view and includes drafts and scheduled posts.
func (s *AnnouncementService) ListAll(ctx context.Context, page repositories.Page) ([]dtos.AnnouncementResponse, error) {
	rows, err := s.announcements.ListAll(ctx, page)
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]dtos.AnnouncementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, toAnnouncementResponse(&rows[i], true))
	}
	return out, nil
}

func (s *AnnouncementService) Create(ctx context.Context, authorID string, req dtos.AnnouncementRequest) (*dtos.AnnouncementResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	a := &gormModels.Announcement{AuthorID: authorID}
	s.apply(a, req)
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, Internal(err)
	}
	resp := toAnnouncementResponse(a, true)
	return &resp, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id string, req dtos.AnnouncementRequest) (*dtos.AnnouncementResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Announcement not found")
	}
	s.apply(a, req)
	if err := s.announcements.Save(ctx, a); err != nil {
		return nil, Internal(err)
	}
	resp := toAnnouncementResponse(a, true)
	return &resp, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	return fromRepo(s.announcements.Delete(ctx, id), "Announcement not found")
}

// apply sets the publish time: an explicit publishedAt wins, publish alone
// means now, and neither leaves a draft. Updating an already published
// announcement with publish set keeps its original time.
func (s *AnnouncementService) apply(a *gormModels.Announcement, req dtos.AnnouncementRequest) {
	a.Title = strings.TrimSpace(req.Title)
	a.Body = strings.TrimSpace(req.Body)
	a.TargetAudience = constants.Audience(req.TargetAudience)

	switch {
	case req.PublishedAt != nil:
		at := req.PublishedAt.UTC()
		a.PublishedAt = &at
	case req.Publish:
		if a.PublishedAt == nil {
			now := s.now()
			a.PublishedAt = &now
		}
	default:
		a.PublishedAt = nil
	}
}
