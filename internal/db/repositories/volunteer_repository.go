package repositories

import (
	"context"

	"gorm.io/gorm"

	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

type VolunteerRepository struct {
	db *gorm.DB
}

func NewVolunteerRepository(db *gorm.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

func (r *VolunteerRepository) WithTx(tx *gorm.DB) *VolunteerRepository {
	return &VolunteerRepository{db: tx}
}

func (r *VolunteerRepository) GetByUserID(ctx context.Context, userID string) (*gormModels.VolunteerProfile, error) {
	var profile gormModels.VolunteerProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, wrap(err, "fetch volunteer profile")
	}
	return &profile, nil
}

func (r *VolunteerRepository) Create(ctx context.Context, profile *gormModels.VolunteerProfile) error {
	return wrap(r.db.WithContext(ctx).Create(profile).Error, "create volunteer profile")
}

func (r *VolunteerRepository) Save(ctx context.Context, profile *gormModels.VolunteerProfile) error {
	return wrap(r.db.WithContext(ctx).Save(profile).Error, "update volunteer profile")
}

// AddHours increments hours_completed in SQL so concurrent check-ins do not
// overwrite each other. A member without a profile gets one holding the
// credited hours.
func (r *VolunteerRepository) AddHours(ctx context.Context, userID string, hours float64) error {
	res := r.db.WithContext(ctx).
		Model(&gormModels.VolunteerProfile{}).
		Where("user_id = ?", userID).
		Update("hours_completed", gorm.Expr("hours_completed + ?", hours))
	if res.Error != nil {
		return wrap(res.Error, "add volunteer hours")
	}
	if res.RowsAffected > 0 {
		return nil
	}

	return r.Create(ctx, &gormModels.VolunteerProfile{
		UserID:            userID,
		HoursCompleted:    max(hours, 0),
		ApplicationStatus: constants.ApplicationApproved,
	})
}
