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
	"riverbend/portal/internal/logging"
	"riverbend/portal/internal/models/dtos"
	gormModels "riverbend/portal/internal/models/gorm"
	"riverbend/portal/internal/validator"
)

// AuthService covers volunteer self-registration, sign-in and the email
// verification and password reset flows.
type AuthService struct {
	db         *gorm.DB
	users      *repositories.UserRepository
	volunteers *repositories.VolunteerRepository
	tokens     *common.TokenStore
	issuer     *auth.TokenIssuer
	notifier   *Notifier
	validate   *validator.Validator
}

func NewAuthService(
	db *gorm.DB,
	users *repositories.UserRepository,
	volunteers *repositories.VolunteerRepository,
	tokens *common.TokenStore,
	issuer *auth.TokenIssuer,
	notifier *Notifier,
	validate *validator.Validator,
) *AuthService {
	return &AuthService{
		db:         db,
		users:      users,
		volunteers: volunteers,
		tokens:     tokens,
		issuer:     issuer,
		notifier:   notifier,
		validate:   validate,
	}
}

// Register creates a volunteer account and sends the verification email.
// A sponsor prospect registering with the same email claims that user
// instead of creating a second one.
func (s *AuthService) Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.UserResponse, error) {
	req.Email = common.NormalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, Internal(err)
	}

	var user *gormModels.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := s.users.WithTx(tx)

		existing, err := txUsers.GetByEmail(ctx, req.Email)
		switch {
		case err == nil && existing.AccountType != constants.AccountProspect:
			return Conflict(constants.MsgUserExists, nil)
		case err == nil:
			user = existing
		case errors.Is(err, repositories.ErrNotFound):
			user = &gormModels.User{Email: req.Email, Role: constants.RoleVolunteer}
		default:
			return err
		}

		user.PasswordHash = &hash
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		if req.Phone != "" {
			user.Phone = strings.TrimSpace(req.Phone)
		}
		user.AccountType = constants.AccountMember
		user.IsActive = true
		user.EmailVerifiedAt = nil

		if user.ID == "" {
			err = txUsers.Create(ctx, user)
		} else {
			err = txUsers.Save(ctx, user)
		}
		if err != nil {
			return err
		}

		profile := &gormModels.VolunteerProfile{
			UserID:            user.ID,
			Skills:            common.NormalizeTags(req.Skills),
			Interests:         common.NormalizeTags(req.Interests),
			Availability:      strings.TrimSpace(req.Availability),
			ApplicationStatus: constants.ApplicationPending,
		}
		if err := s.volunteers.WithTx(tx).Create(ctx, profile); err != nil {
			return err
		}
		user.VolunteerProfile = profile
		return nil
	})
	if err != nil {
		if KindOf(err) == KindConflict || errors.Is(err, repositories.ErrDuplicate) {
			return nil, Conflict(constants.MsgUserExists, err)
		}
		return nil, Internal(err)
	}

	logging.Info("Volunteer registered", "user_id", user.ID)

	token, err := s.tokens.Issue(ctx, constants.CachePrefixVerifyToken, user.ID, constants.VerifyTokenTTL)
	if err != nil {
		logging.Error("Failed to issue verification token", "user_id", user.ID, "error", err.Error())
	}

	emails := []Email{{
		Template: common.EmailAdminNewVolunteer,
		To:       s.notifier.AdminAddress(),
		Data: common.EmailData{
			Name:  user.FullName(),
			Email: user.Email,
			Link:  s.notifier.Link("/admin/users/" + user.ID),
		},
	}}
	if token != "" {
		emails = append(emails, Email{
			Template: common.EmailVerification,
			To:       user.Email,
			Data: common.EmailData{
				Name: user.FirstName,
				Link: s.notifier.Link("/verify-email?token=" + token),
			},
		})
	}
	_ = s.notifier.SendAll(ctx, emails...)

	resp := toUserResponse(user)
	return &resp, nil
}

// Login checks credentials and issues a session token. Prospects and
// accounts without a password never match.
func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.AuthResponse, error) {
	req.Email = common.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, FromValidation(err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, Unauthorized(constants.MsgInvalidCredentials)
		}
		return nil, Internal(err)
	}

	if !user.CanSignIn() || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, Unauthorized(constants.MsgInvalidCredentials)
	}
	if !user.IsActive {
		return nil, Unauthorized(constants.MsgAccountInactive)
	}
	if !user.IsVerified() {
		return nil, Unauthorized(constants.MsgEmailNotVerified)
	}

	token, expiresAt, err := s.issuer.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, Internal(err)
	}

	return &dtos.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

// VerifyEmail consumes a verification token and sends the welcome email.
func (s *AuthService) VerifyEmail(ctx context.Context, req dtos.VerifyEmailRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return FromValidation(err)
	}

	userID, ok := s.tokens.Consume(ctx, constants.CachePrefixVerifyToken, req.Token)
	if !ok {
		return Validation(constants.MsgInvalidToken, nil)
	}

	now := time.Now().UTC()
	if err := s.users.UpdateFields(ctx, userID, map[string]interface{}{"email_verified_at": now}); err != nil {
		return fromRepo(err, constants.MsgInvalidToken)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fromRepo(err, constants.MsgInvalidToken)
	}

	_ = s.notifier.Send(ctx, Email{
		Template: common.EmailWelcome,
		To:       user.Email,
		Data: common.EmailData{
			Name: user.FirstName,
			Link: s.notifier.Link("/portal"),
		},
	})
	return nil
}

// ForgotPassword always succeeds so callers cannot probe which emails have
// accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, req dtos.ForgotPasswordRequest) error {
	req.Email = common.NormalizeEmail(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return FromValidation(err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logging.Error("Password reset lookup failed", "error", err.Error())
		}
		return nil
	}
	if user.AccountType != constants.AccountMember || !user.IsActive {
		return nil
	}

	return s.sendReset(ctx, user, constants.ResetTokenTTL)
}

func (s *AuthService) sendReset(ctx context.Context, user *gormModels.User, ttl time.Duration) error {
	token, err := s.tokens.Issue(ctx, constants.CachePrefixResetToken, user.ID, ttl)
	if err != nil {
		return Internal(err)
	}

	_ = s.notifier.Send(ctx, Email{
		Template: common.EmailPasswordReset,
		To:       user.Email,
		Data: common.EmailData{
			Name: user.FirstName,
			Link: s.notifier.Link("/reset-password?token=" + token),
		},
	})
	return nil
}

// ResetPassword consumes a reset token and sets the new password. Following
// an emailed link also proves the address, so the email is marked verified.
func (s *AuthService) ResetPassword(ctx context.Context, req dtos.ResetPasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return FromValidation(err)
	}

	userID, ok := s.tokens.Consume(ctx, constants.CachePrefixResetToken, req.Token)
	if !ok {
		return Validation(constants.MsgInvalidToken, nil)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return Internal(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fromRepo(err, constants.MsgInvalidToken)
	}

	fields := map[string]interface{}{"password_hash": hash}
	if user.EmailVerifiedAt == nil {
		fields["email_verified_at"] = time.Now().UTC()
	}
	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return fromRepo(err, constants.MsgInvalidToken)
	}

	logging.Info("Password reset", "user_id", userID)
	return nil
}
