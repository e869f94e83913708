package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"riverbend/portal/internal/auth"
	"riverbend/portal/internal/common"
	"riverbend/portal/internal/constants"
	"riverbend/portal/internal/db/repositories"
	"riverbend/portal/internal/metrics"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

type UserService struct {
	db         *gorm.DB
	users      *repositories.UserRepository
	volunteers *repositories.VolunteerRepository
	auth       *AuthService
	validate   *validator.Validator
	cache      common.CacheInterface
	metrics    *metrics.MetricsRegistry
}

func NewUserService(
	db *gorm.DB,
	users *repositories.UserRepository,
	volunteers *repositories.VolunteerRepository,
	authSvc *AuthService,
	validate *validator.Validator,
	cache common.CacheInterface,
	m *metrics.MetricsRegistry,
) *UserService {
	return &UserService{
		db:         db,
		users:      users,
		volunteers: volunteers,
		auth:       authSvc,
		validate:   validate,
		cache:      cache,
		metrics:    m,
	}
}

func (s *UserService) Me(ctx context.Context, userID string) (*dtos.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// UpdateMe is the self-service profile edit. Role, email and status are
// admin-only.
func (s *UserService) UpdateMe(ctx context.Context, userID string, req dtos.UpdateMeRequest) (*dtos.UserResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}

	setString(&user.FirstName, req.FirstName)
	setString(&user.LastName, req.LastName)
	setString(&user.Phone, req.Phone)
	setString(&user.Title, req.Title)
	setString(&user.Bio, req.Bio)

	if err := s.users.Save(ctx, user); err != nil {
		return nil, Internal(err)
	}
	if user.Role == constants.RoleBoardMember {
		s.invalidateBoard(ctx)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Board lists board member bios for the public about page.
func (s *UserService) Board(ctx context.Context) ([]dtos.BoardMemberResponse, error) {
	board, err := cached(ctx, s.cache, s.metrics, constants.CachePrefixBoard, func() ([]dtos.BoardMemberResponse, error) {
		users, err := s.users.ListBoardMembers(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]dtos.BoardMemberResponse, 0, len(users))
		for i := range users {
			out = append(out, dtos.BoardMemberResponse{
				ID:    users[i].ID,
				Name:  users[i].FullName(),
				Title: users[i].Title,
				Bio:   users[i].Bio,
			})
		}
		return out, nil
	})
	if err != nil {
		return nil, Internal(err)
	}
	return board, nil
}

func (s *UserService) List(ctx context.Context, f repositories.UserFilter) (*dtos.PagedResponse[dtos.UserResponse], error) {
	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, Internal(err)
	}
	items := make([]dtos.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}
	return &dtos.PagedResponse[dtos.UserResponse]{Items: items, Total: total, Limit: f.Page.Limit, Offset: f.Page.Offset}, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*dtos.UserResponse, error) {
	return s.Me(ctx, id)
}

// Create adds a member account. Admin-created accounts count as verified.
// Without a password the user is emailed a link to choose one.
func (s *UserService) Create(ctx context.Context, req dtos.AdminCreateUserRequest) (*dtos.UserResponse, error) {
	req.Email = common.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	now := time.Now().UTC()
	user := &gormModels.User{
		Email:           req.Email,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Phone:           strings.TrimSpace(req.Phone),
		Role:            constants.Role(req.Role),
		AccountType:     constants.AccountMember,
		IsActive:        true,
		EmailVerifiedAt: &now,
		Title:           strings.TrimSpace(req.Title),
		Bio:             strings.TrimSpace(req.Bio),
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, Internal(err)
		}
		user.PasswordHash = &hash
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := s.users.WithTx(tx)
		exists, err := txUsers.EmailExists(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return repositories.ErrDuplicate
		}
		if err := txUsers.Create(ctx, user); err != nil {
			return err
		}
		// Every member gets a profile to hold shift hours.
		profile := &gormModels.VolunteerProfile{
			UserID:            user.ID,
			ApplicationStatus: constants.ApplicationApproved,
		}
		user.VolunteerProfile = profile
		return s.volunteers.WithTx(tx).Create(ctx, profile)
	})
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}

	if user.PasswordHash == nil {
		_ = s.auth.sendReset(ctx, user, constants.VerifyTokenTTL)
	}
	if user.Role == constants.RoleBoardMember {
		s.invalidateBoard(ctx)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Update applies an admin edit. actorID is the admin making the change;
// admins cannot demote or deactivate themselves.
func (s *UserService) Update(ctx context.Context, actorID, id string, req dtos.AdminUpdateUserRequest) (*dtos.UserResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "User not found")
	}

	if actorID == id {
		if (req.Role != nil && *req.Role != string(constants.RoleAdmin)) || (req.IsActive != nil && !*req.IsActive) {
			return nil, Validation("You cannot remove your own admin access", nil)
		}
	}

	wasBoard := user.Role == constants.RoleBoardMember

	setString(&user.FirstName, req.FirstName)
	setString(&user.LastName, req.LastName)
	setString(&user.Phone, req.Phone)
	setString(&user.Title, req.Title)
	setString(&user.Bio, req.Bio)
	if req.Email != nil {
		user.Email = common.NormalizeEmail(*req.Email)
	}
	if req.Role != nil {
		user.Role = constants.Role(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Save(ctx, user); err != nil {
			return err
		}
		if req.VolunteerStatus == nil {
			return nil
		}

		txVolunteers := s.volunteers.WithTx(tx)
		status := constants.ApplicationStatus(*req.VolunteerStatus)
		profile, err := txVolunteers.GetByUserID(ctx, user.ID)
		if errors.Is(err, repositories.ErrNotFound) {
			profile = &gormModels.VolunteerProfile{UserID: user.ID, ApplicationStatus: status}
			err = txVolunteers.Create(ctx, profile)
		} else if err == nil {
			profile.ApplicationStatus = status
			err = txVolunteers.Save(ctx, profile)
		}
		user.VolunteerProfile = profile
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict(constants.MsgUserExists, err)
		}
		return nil, Internal(err)
	}

	if wasBoard || user.Role == constants.RoleBoardMember {
		s.invalidateBoard(ctx)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// Delete hard-deletes a user with its profile, sponsor record and signups.
func (s *UserService) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return Validation("You cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return fromRepo(err, "User not found")
	}
	s.invalidateBoard(ctx)
	s.cache.Delete(ctx, string(constants.CachePrefixSponsorWall))
	return nil
}

func (s *UserService) invalidateBoard(ctx context.Context) {
	s.cache.Delete(ctx, string(constants.CachePrefixBoard))
}
