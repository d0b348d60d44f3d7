// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/config"
	"github.com/wareflow/wareflow-backend/internal/database"
	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotVerified    = errors.New("account is not verified")
	ErrUserInactive       = errors.New("account is deactivated")
	ErrOTPCooldown        = errors.New("a code was sent recently, wait before requesting another")
	ErrInvalidOTP         = errors.New("invalid or expired code")
)

// AuthService handles registration, verification, login and password
// recovery. New accounts receive a short-lived invite token by email
// and set their password through it.
type AuthService struct {
	db     *gorm.DB
	mailer EmailSender
	cfg    *config.Config
}

type SignupRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,strong_password"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required,strong_password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewAuthService(db *gorm.DB, mailer EmailSender, cfg *config.Config) *AuthService {
	return &AuthService{
		db:     db,
		mailer: mailer,
		cfg:    cfg,
	}
}

// Signup registers a new manager account and emails an invite link.
// The account stays unverified and without a password until the invite
// is redeemed.
func (s *AuthService) Signup(req *SignupRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  models.UserRoleManager,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendInvite(user.Email); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Warn("Failed to send invite email")
	}

	return user, nil
}

// ResendInvite issues a fresh invite link for an unverified account.
func (s *AuthService) ResendInvite(email string) error {
	var user models.User
	err := s.db.Where("email = ? AND deleted = ?", email, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.New("user not found")
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if user.Verified {
		return errors.New("account is already verified")
	}
	return s.sendInvite(user.Email)
}

// Verify redeems an invite token and marks the account verified.
func (s *AuthService) Verify(token string) (*models.User, error) {
	email, err := utils.ValidateInviteToken(token)
	if err != nil {
		return nil, errors.New("invalid or expired invite link")
	}

	var user models.User
	if err := s.db.Where("email = ? AND deleted = ?", email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !user.Verified {
		if err := s.db.Model(&user).Update("verified", true).Error; err != nil {
			return nil, fmt.Errorf("failed to verify user: %w", err)
		}
		user.Verified = true
	}

	return &user, nil
}

// SetPassword stores the password for an account reached through a
// valid invite token. It also verifies the account if the verify step
// was skipped.
func (s *AuthService) SetPassword(req *SetPasswordRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	email, err := utils.ValidateInviteToken(req.Token)
	if err != nil {
		return nil, errors.New("invalid or expired invite link")
	}

	var user models.User
	if err := s.db.Where("email = ? AND deleted = ?", email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": user.PasswordHash,
		"verified":      true,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to set password: %w", err)
	}
	user.Verified = true

	return &user, nil
}

// Login checks credentials and issues an access/refresh token pair.
func (s *AuthService) Login(req *LoginRequest) (*models.User, *TokenPair, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	err := s.db.Where("email = ? AND deleted = ?", req.Email, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.Verified {
		return nil, nil, ErrUserNotVerified
	}
	if !user.Active {
		return nil, nil, ErrUserInactive
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login_at", &now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}
	user.LastLoginAt = &now

	return &user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, errors.New("invalid refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, nil, errors.New("invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("user not found")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if user.Deleted || !user.Active {
		return nil, nil, ErrUserInactive
	}

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokens, nil
}

// SendOTP issues a one-time code for password recovery. Requests
// inside the cooldown window are rejected with ErrOTPCooldown.
func (s *AuthService) SendOTP(email string) error {
	var user models.User
	err := s.db.Where("email = ? AND deleted = ?", email, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No account enumeration: report success for unknown addresses.
		logrus.WithField("email", email).Info("OTP requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	cooldown := time.Duration(s.cfg.OTP.CooldownSeconds) * time.Second

	var existing models.OTP
	err = s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if now.Sub(existing.CreatedAt) < cooldown {
			return ErrOTPCooldown
		}
		if err := s.db.Unscoped().Delete(&existing).Error; err != nil {
			return fmt.Errorf("failed to replace code: %w", err)
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database error: %w", err)
	}

	code, err := utils.GenerateOTPCode(6)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	otp := &models.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(time.Duration(s.cfg.OTP.TTLMinutes) * time.Minute),
	}
	if err := s.db.Create(otp).Error; err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %d minutes.",
		code, s.cfg.OTP.TTLMinutes)
	if err := s.mailer.Send(email, "Password reset code", body); err != nil {
		logrus.WithError(err).WithField("email", email).Warn("Failed to send OTP email")
	}

	return nil
}

// ResetPassword redeems a one-time code and sets the new password.
// The code is consumed on success.
func (s *AuthService) ResetPassword(req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var otp models.OTP
	err := s.db.Where("email = ?", req.Email).First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if otp.Expired(time.Now()) || otp.Code != req.Code {
		return ErrInvalidOTP
	}

	var user models.User
	if err := s.db.Where("email = ? AND deleted = ?", req.Email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := user.SetPassword(req.Password); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password_hash", user.PasswordHash).Error; err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.Unscoped().Delete(&otp).Error; err != nil {
			return fmt.Errorf("failed to consume code: %w", err)
		}
		return nil
	})
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := utils.GenerateAccessToken(user.ID, string(user.Role), s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refresh, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) sendInvite(email string) error {
	token, err := utils.GenerateInviteToken(email, s.cfg.JWT.InviteTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to sign invite token: %w", err)
	}

	body := fmt.Sprintf(
		"Welcome to Wareflow. Use this token to verify your account and set a password: %s\nIt expires in %d minutes.",
		token, s.cfg.JWT.InviteTokenTTL)
	return s.mailer.Send(email, "Verify your Wareflow account", body)
}
