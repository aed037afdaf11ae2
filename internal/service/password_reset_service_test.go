package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pkgtrack/internal/auth"
	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/model"
)

func newResetFixture() (*MockUserRepository, *MockOtpRepository, *MockResetTokenStore, *MockMailer, *auth.JWTService, PasswordResetService) {
	userRepo := new(MockUserRepository)
	otpRepo := new(MockOtpRepository)
	tokenStore := new(MockResetTokenStore)
	mailer := new(MockMailer)
	jwtService := auth.NewJWTService("test-secret")
	svc := NewPasswordResetService(userRepo, otpRepo, jwtService, tokenStore, mailer)
	return userRepo, otpRepo, tokenStore, mailer, jwtService, svc
}

func TestPasswordResetService_RequestOtp(t *testing.T) {
	t.Run("unknown email is a silent no-op", func(t *testing.T) {
		userRepo, otpRepo, _, mailer, _, svc := newResetFixture()
		userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		otp, err := svc.RequestOtp(context.Background(), "ghost@example.com", "10.0.0.1")

		assert.NoError(t, err)
		assert.Empty(t, otp)
		otpRepo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known email stores challenge and mails the code", func(t *testing.T) {
		userRepo, otpRepo, _, mailer, _, svc := newResetFixture()
		userRepo.On("FindByEmail", mock.Anything, "nat@example.com").Return(&model.User{
			UserID: 3, Email: "nat@example.com",
		}, nil)

		var stored *model.PasswordResetOtp
		otpRepo.On("Replace", mock.Anything, mock.AnythingOfType("*model.PasswordResetOtp")).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*model.PasswordResetOtp)
			}).Return(nil)
		mailer.On("Send", "nat@example.com", mock.Anything, mock.Anything).Return(nil)

		otp, err := svc.RequestOtp(context.Background(), "nat@example.com", "10.0.0.1")

		assert.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), otp)
		assert.NotNil(t, stored)
		assert.Equal(t, uint(3), stored.UserID)
		assert.Equal(t, otp, stored.OtpCode)
		assert.Equal(t, "10.0.0.1", stored.IPAddress)
		assert.False(t, stored.Used)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), stored.ExpiresAt, 5*time.Second)
		mailer.AssertExpectations(t)
	})

	t.Run("mail dispatch failure is surfaced", func(t *testing.T) {
		userRepo, otpRepo, _, mailer, _, svc := newResetFixture()
		userRepo.On("FindByEmail", mock.Anything, "nat@example.com").Return(&model.User{
			UserID: 3, Email: "nat@example.com",
		}, nil)
		otpRepo.On("Replace", mock.Anything, mock.Anything).Return(nil)
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		otp, err := svc.RequestOtp(context.Background(), "nat@example.com", "")

		assert.ErrorIs(t, err, apperrors.ErrMailDispatch)
		assert.Empty(t, otp)
	})
}

func TestPasswordResetService_VerifyOtp(t *testing.T) {
	t.Run("no matching challenge", func(t *testing.T) {
		_, otpRepo, _, _, _, svc := newResetFixture()
		otpRepo.On("FindLatestUnused", mock.Anything, "nat@example.com", "000000").
			Return(nil, gorm.ErrRecordNotFound)

		token, err := svc.VerifyOtp(context.Background(), "nat@example.com", "000000")

		assert.ErrorIs(t, err, ErrOtpInvalid)
		assert.Empty(t, token)
	})

	t.Run("expired challenge stays unused", func(t *testing.T) {
		_, otpRepo, _, _, _, svc := newResetFixture()
		otpRepo.On("FindLatestUnused", mock.Anything, "nat@example.com", "123456").
			Return(&model.PasswordResetOtp{
				ID: 9, UserID: 3, Email: "nat@example.com", OtpCode: "123456",
				ExpiresAt: time.Now().Add(-time.Minute),
			}, nil)

		token, err := svc.VerifyOtp(context.Background(), "nat@example.com", "123456")

		assert.ErrorIs(t, err, ErrOtpExpired)
		assert.Empty(t, token)
		otpRepo.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything)
	})

	t.Run("valid challenge yields a reset token and burns the row", func(t *testing.T) {
		_, otpRepo, _, _, jwtService, svc := newResetFixture()
		otpRepo.On("FindLatestUnused", mock.Anything, "nat@example.com", "123456").
			Return(&model.PasswordResetOtp{
				ID: 9, UserID: 3, Email: "nat@example.com", OtpCode: "123456",
				ExpiresAt: time.Now().Add(5 * time.Minute),
			}, nil)
		otpRepo.On("MarkUsed", mock.Anything, uint(9)).Return(nil)

		token, err := svc.VerifyOtp(context.Background(), "nat@example.com", "123456")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateResetToken(token)
		assert.NoError(t, err)
		assert.Equal(t, uint(3), claims.UserID)
		assert.Equal(t, auth.ResetPurpose, claims.Purpose)
		otpRepo.AssertExpectations(t)
	})
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	t.Run("garbage token", func(t *testing.T) {
		_, _, _, _, _, svc := newResetFixture()

		err := svc.ResetPassword(context.Background(), "not-a-token", "newpassword123")

		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("session token is not a reset token", func(t *testing.T) {
		_, _, _, _, jwtService, svc := newResetFixture()
		sessionToken, err := jwtService.GenerateSessionToken(3, model.RoleUser)
		assert.NoError(t, err)

		err = svc.ResetPassword(context.Background(), sessionToken, "newpassword123")

		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		_, _, _, _, _, svc := newResetFixture()
		_, forged, err := auth.NewJWTService("other-secret").GenerateResetToken(3)
		assert.NoError(t, err)

		err = svc.ResetPassword(context.Background(), forged, "newpassword123")

		assert.ErrorIs(t, err, ErrResetTokenInvalid)
	})

	t.Run("valid token rotates the password and burns the token", func(t *testing.T) {
		userRepo, _, tokenStore, _, jwtService, svc := newResetFixture()
		tokenID, token, err := jwtService.GenerateResetToken(3)
		assert.NoError(t, err)

		var storedHash string
		tokenStore.On("IsConsumed", mock.Anything, tokenID).Return(false, nil)
		userRepo.On("UpdatePassword", mock.Anything, uint(3), mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				storedHash = args.String(2)
			}).Return(nil)
		tokenStore.On("MarkConsumed", mock.Anything, tokenID, mock.Anything).Return(nil)

		err = svc.ResetPassword(context.Background(), token, "newpassword123")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newpassword123")))
		tokenStore.AssertExpectations(t)
	})

	t.Run("replayed token is rejected", func(t *testing.T) {
		userRepo, _, tokenStore, _, jwtService, svc := newResetFixture()
		tokenID, token, err := jwtService.GenerateResetToken(3)
		assert.NoError(t, err)

		tokenStore.On("IsConsumed", mock.Anything, tokenID).Return(true, nil)

		err = svc.ResetPassword(context.Background(), token, "newpassword123")

		assert.ErrorIs(t, err, ErrResetTokenInvalid)
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

// End to end through the services: request, verify, reset, old password dead.
func TestPasswordResetService_FullFlow(t *testing.T) {
	userRepo, otpRepo, tokenStore, mailer, jwtService, svc := newResetFixture()

	oldHash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &model.User{UserID: 3, Username: "nat", Email: "nat@example.com", Password: string(oldHash), Role: model.RoleUser}

	userRepo.On("FindByEmail", mock.Anything, "nat@example.com").Return(user, nil)
	var challenge *model.PasswordResetOtp
	otpRepo.On("Replace", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		challenge = args.Get(1).(*model.PasswordResetOtp)
		challenge.ID = 1
	}).Return(nil)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	otp, err := svc.RequestOtp(context.Background(), "nat@example.com", "10.0.0.1")
	assert.NoError(t, err)

	otpRepo.On("FindLatestUnused", mock.Anything, "nat@example.com", otp).Return(challenge, nil)
	otpRepo.On("MarkUsed", mock.Anything, uint(1)).Return(nil)

	resetToken, err := svc.VerifyOtp(context.Background(), "nat@example.com", otp)
	assert.NoError(t, err)

	tokenStore.On("IsConsumed", mock.Anything, mock.Anything).Return(false, nil)
	tokenStore.On("MarkConsumed", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	var newHash string
	userRepo.On("UpdatePassword", mock.Anything, uint(3), mock.Anything).Run(func(args mock.Arguments) {
		newHash = args.String(2)
	}).Return(nil)

	assert.NoError(t, svc.ResetPassword(context.Background(), resetToken, "newpassword123"))

	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("secret123")))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("newpassword123")))

	// the session issuer still works against the rotated credential
	loginRepo := new(MockUserRepository)
	rotated := *user
	rotated.Password = newHash
	loginRepo.On("FindByUsername", mock.Anything, "nat").Return(&rotated, nil)
	authSvc := NewAuthService(loginRepo, jwtService)

	_, _, err = authSvc.Login(context.Background(), "nat", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, _, err := authSvc.Login(context.Background(), "nat", "newpassword123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}
