package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"riverbend/portal/internal/constants"
	gormModels "riverbend/portal/internal/models/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a repository bound to an open transaction
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	return wrap(r.db.WithContext(ctx).Create(user).Error, "create user")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Preload("VolunteerProfile").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, wrap(err, "fetch user")
	}
	return &user, nil
}

// GetByEmail matches case-insensitively; emails are stored lower-cased.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*gormModels.User, error) {
	var user gormModels.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, wrap(err, "fetch user by email")
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	if err != nil {
		return false, wrap(err, "check email")
	}
	return count > 0, nil
}

// UserFilter narrows the admin user list.
type UserFilter struct {
	Role        constants.Role
	AccountType constants.AccountType
	Search      string
	Page        Page
}

func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]gormModels.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&gormModels.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.AccountType != "" {
		q = q.Where("account_type = ?", f.AccountType)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "count users")
	}

	var users []gormModels.User
	if err := f.Page.apply(q).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, wrap(err, "list users")
	}
	return users, total, nil
}

// ListBoardMembers returns active board members for the public bios page.
func (r *UserRepository) ListBoardMembers(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ? AND account_type = ?", constants.RoleBoardMember, true, constants.AccountMember).
		Order("last_name ASC, first_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, wrap(err, "list board members")
	}
	return users, nil
}

// Save writes every column of user
func (r *UserRepository) Save(ctx context.Context, user *gormModels.User) error {
	return wrap(r.db.WithContext(ctx).Omit("VolunteerProfile", "Sponsor", "Signups").Save(user).Error, "update user")
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&gormModels.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrap(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return wrap(gorm.ErrRecordNotFound, "update user")
	}
	return nil
}

// Delete hard-deletes a user and everything that hangs off it in one
// transaction.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&gormModels.VolunteerSignup{},
			&gormModels.VolunteerProfile{},
			&gormModels.Sponsor{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(model).Error; err != nil {
				return wrap(err, "delete user dependents")
			}
		}
		res := tx.Where("id = ?", id).Delete(&gormModels.User{})
		if res.Error != nil {
			return wrap(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return wrap(gorm.ErrRecordNotFound, "delete user")
		}
		return nil
	})
}
