// internal/services/auth_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	mailer  *fakeMailer
	service *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	db, err := newTestDB()
	suite.Require().NoError(err)
	suite.db = db

	cfg := testConfig()
	utils.SetJWTSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)

	suite.mailer = newFakeMailer()
	suite.service = NewAuthService(db, suite.mailer, cfg)
}

func (suite *AuthServiceTestSuite) TestSignupSendsInvite() {
	user, err := suite.service.Signup(&SignupRequest{
		Name:  "Dana Smith",
		Email: "dana@example.com",
	})
	suite.Require().NoError(err)
	suite.False(user.Verified)
	suite.Equal(models.UserRoleManager, user.Role)
	suite.Empty(user.PasswordHash)

	suite.Len(suite.mailer.sentTo("dana@example.com"), 1)
}

func (suite *AuthServiceTestSuite) TestSignupRejectsDuplicateEmail() {
	_, err := suite.service.Signup(&SignupRequest{Name: "Dana Smith", Email: "dana@example.com"})
	suite.Require().NoError(err)

	_, err = suite.service.Signup(&SignupRequest{Name: "Other Dana", Email: "dana@example.com"})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestInviteFlowEndsWithLogin() {
	_, err := suite.service.Signup(&SignupRequest{Name: "Dana Smith", Email: "dana@example.com"})
	suite.Require().NoError(err)

	token, err := utils.GenerateInviteToken("dana@example.com", 5)
	suite.Require().NoError(err)

	user, err := suite.service.Verify(token)
	suite.Require().NoError(err)
	suite.True(user.Verified)

	_, err = suite.service.SetPassword(&SetPasswordRequest{
		Token:    token,
		Password: "Sunny1234",
	})
	suite.Require().NoError(err)

	loggedIn, tokens, err := suite.service.Login(&LoginRequest{
		Email:    "dana@example.com",
		Password: "Sunny1234",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(tokens.AccessToken)
	suite.NotEmpty(tokens.RefreshToken)
	suite.NotNil(loggedIn.LastLoginAt)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsWrongPassword() {
	_, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)

	_, _, err = suite.service.Login(&LoginRequest{
		Email:    "dana@example.com",
		Password: "WrongPass1",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsUnverified() {
	user, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(user).Update("verified", false).Error)

	_, _, err = suite.service.Login(&LoginRequest{
		Email:    "dana@example.com",
		Password: "Password123",
	})
	suite.ErrorIs(err, ErrUserNotVerified)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsDeactivated() {
	user, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(user).Update("active", false).Error)

	_, _, err = suite.service.Login(&LoginRequest{
		Email:    "dana@example.com",
		Password: "Password123",
	})
	suite.ErrorIs(err, ErrUserInactive)
}

func (suite *AuthServiceTestSuite) TestRefreshIssuesNewPair() {
	user, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)

	refresh, err := utils.GenerateRefreshToken(user.ID, 24)
	suite.Require().NoError(err)

	refreshed, tokens, err := suite.service.Refresh(refresh)
	suite.Require().NoError(err)
	suite.Equal(user.ID, refreshed.ID)
	suite.NotEmpty(tokens.AccessToken)
}

func (suite *AuthServiceTestSuite) TestSendOTPEnforcesCooldown() {
	_, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.SendOTP("dana@example.com"))
	suite.Len(suite.mailer.sentTo("dana@example.com"), 1)

	err = suite.service.SendOTP("dana@example.com")
	suite.ErrorIs(err, ErrOTPCooldown)
}

func (suite *AuthServiceTestSuite) TestSendOTPHidesUnknownEmails() {
	suite.NoError(suite.service.SendOTP("nobody@example.com"))
	suite.Empty(suite.mailer.sentTo("nobody@example.com"))
}

func (suite *AuthServiceTestSuite) TestResetPasswordConsumesCode() {
	_, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.service.SendOTP("dana@example.com"))

	var otp models.OTP
	suite.Require().NoError(suite.db.Where("email = ?", "dana@example.com").First(&otp).Error)

	err = suite.service.ResetPassword(&ResetPasswordRequest{
		Email:    "dana@example.com",
		Code:     otp.Code,
		Password: "Fresh12345",
	})
	suite.Require().NoError(err)

	_, _, err = suite.service.Login(&LoginRequest{
		Email:    "dana@example.com",
		Password: "Fresh12345",
	})
	suite.NoError(err)

	// The code is single-use.
	err = suite.service.ResetPassword(&ResetPasswordRequest{
		Email:    "dana@example.com",
		Code:     otp.Code,
		Password: "Again12345",
	})
	suite.ErrorIs(err, ErrInvalidOTP)
}

func (suite *AuthServiceTestSuite) TestResetPasswordRejectsExpiredCode() {
	_, err := createTestUser(suite.db, "dana@example.com", models.UserRoleManager)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.service.SendOTP("dana@example.com"))

	var otp models.OTP
	suite.Require().NoError(suite.db.Where("email = ?", "dana@example.com").First(&otp).Error)
	suite.Require().NoError(suite.db.Model(&otp).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	err = suite.service.ResetPassword(&ResetPasswordRequest{
		Email:    "dana@example.com",
		Code:     otp.Code,
		Password: "Fresh12345",
	})
	suite.ErrorIs(err, ErrInvalidOTP)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
