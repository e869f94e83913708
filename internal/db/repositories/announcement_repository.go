package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

type AnnouncementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *gormModels.Announcement) error {
	return wrap(r.db.WithContext(ctx).Create(a).Error, "create announcement")
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*gormModels.Announcement, error) {
	var a gormModels.Announcement
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, wrap(err, "fetch announcement")
	}
	return &a, nil
}

func (r *AnnouncementRepository) Save(ctx context.Context, a *gormModels.Announcement) error {
	return wrap(r.db.WithContext(ctx).Save(a).Error, "update announcement")
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Announcement{})
	if res.Error != nil {
		return wrap(res.Error, "delete announcement")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete announcement")
	}
	return nil
}

// ListPublished returns announcements published at or before now and
// addressed to one of audiences, newest first.
func (r *AnnouncementRepository) ListPublished(ctx context.Context, audiences []constants.Audience, now time.Time, limit int) ([]gormModels.Announcement, error) {
	out := []gormModels.Announcement{}
	if len(audiences) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at <= ?", now).
		Where("target_audience IN ?", audiences).
		Order("published_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list announcements")
	}
	return out, nil
}

// ListAll is the authoring view: drafts included.
func (r *AnnouncementRepository) ListAll(ctx context.Context, page Page) ([]gormModels.Announcement, error) {
	out := []gormModels.Announcement{}
	err := page.apply(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap(err, "list announcements")
	}
	return out, nil
}
