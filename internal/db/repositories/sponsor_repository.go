package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

type SponsorRepository struct {
	db *gorm.DB
}

func NewSponsorRepository(db *gorm.DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

func (r *SponsorRepository) WithTx(tx *gorm.DB) *SponsorRepository {
	return &SponsorRepository{db: tx}
}

func (r *SponsorRepository) Create(ctx context.Context, sponsor *gormModels.Sponsor) error {
	return wrap(r.db.WithContext(ctx).Omit("User").Create(sponsor).Error, "create sponsor")
}

func (r *SponsorRepository) GetByID(ctx context.Context, id string) (*gormModels.Sponsor, error) {
	var sponsor gormModels.Sponsor
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&sponsor).Error
	if err != nil {
		return nil, wrap(err, "fetch sponsor")
	}
	return &sponsor, nil
}

func (r *SponsorRepository) GetByUserID(ctx context.Context, userID string) (*gormModels.Sponsor, error) {
	var sponsor gormModels.Sponsor
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sponsor).Error
	if err != nil {
		return nil, wrap(err, "fetch sponsor by user")
	}
	return &sponsor, nil
}

// SponsorFilter narrows the admin sponsor list
type SponsorFilter struct {
	Status constants.SponsorStatus
	Type   constants.SponsorType
	Search string
	Page   Page
}

func (r *SponsorRepository) List(ctx context.Context, f SponsorFilter) ([]gormModels.Sponsor, int64, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.Sponsor{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("sponsor_type = ?", f.Type)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(company_name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(contact_email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count sponsors")
	}

	var sponsors []gormModels.Sponsor
	if err := f.Page.apply(q).Order("created_at DESC").Find(&sponsors).Error; err != nil {
		return nil, 0, wrap(err, "list sponsors")
	}
	return sponsors, total, nil
}

// ListActive returns every active sponsor for the public sponsor wall.
func (r *SponsorRepository) ListActive(ctx context.Context) ([]gormModels.Sponsor, error) {
	var sponsors []gormModels.Sponsor
	err := r.db.WithContext(ctx).
		Where("status = ?", constants.SponsorActive).
		Order("total_amount DESC, company_name ASC").
		Find(&sponsors).Error
	if err != nil {
		return nil, wrap(err, "list active sponsors")
	}
	return sponsors, nil
}

func (r *SponsorRepository) Save(ctx context.Context, sponsor *gormModels.Sponsor) error {
	return wrap(r.db.WithContext(ctx).Omit("User").Save(sponsor).Error, "update sponsor")
}

func (r *SponsorRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Sponsor{})
	if res.Error != nil {
		return wrap(res.Error, "delete sponsor")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "delete sponsor")
	}
	return nil
}
