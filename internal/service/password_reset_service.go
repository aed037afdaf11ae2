package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pkgtrack/internal/auth"
	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/model"
	"pkgtrack/internal/repository"
)

var (
	// ErrOtpInvalid is returned for a wrong code, an already-used code, or a
	// code issued to a different email. The cases are not distinguished.
	ErrOtpInvalid = errors.New("OTP incorrect or already used")
	// ErrOtpExpired is returned when the matching challenge is past its expiry.
	ErrOtpExpired = errors.New("OTP has expired")
	// ErrResetTokenInvalid is returned for an invalid, expired, or replayed
	// reset token.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")
)

// otpValidity is how long a password reset challenge stays redeemable.
const otpValidity = 10 * time.Minute

// Mailer dispatches transactional email.
type Mailer interface {
	Send(to, subject, body string) error
}

// PasswordResetService drives the OTP-based password recovery flow:
// request a code by email, trade the code for a reset token, trade the
// reset token for a new password.
type PasswordResetService interface {
	// RequestOtp issues a challenge for the account behind email and mails
	// the code. It returns the code so non-production configurations can
	// echo it; for an unknown email it returns "" with no error, so the
	// caller's response is identical either way.
	RequestOtp(ctx context.Context, email, ipAddress string) (otp string, err error)
	// VerifyOtp redeems a challenge for a signed reset token.
	VerifyOtp(ctx context.Context, email, code string) (resetToken string, err error)
	// ResetPassword sets a new password for the user a reset token belongs to.
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type passwordResetService struct {
	userRepo   repository.UserRepository
	otpRepo    repository.OtpRepository
	jwtService *auth.JWTService
	tokenStore auth.ResetTokenStore
	mailer     Mailer
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(
	userRepo repository.UserRepository,
	otpRepo repository.OtpRepository,
	jwtService *auth.JWTService,
	tokenStore auth.ResetTokenStore,
	mailer Mailer,
) PasswordResetService {
	return &passwordResetService{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		mailer:     mailer,
	}
}

func (s *passwordResetService) RequestOtp(ctx context.Context, email, ipAddress string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown email: no challenge, but the caller must not be able
			// to tell the difference.
			return "", nil
		}
		return "", fmt.Errorf("find user by email: %w", err)
	}

	code, err := generateOtpCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	otp := &model.PasswordResetOtp{
		UserID:    user.UserID,
		Email:     user.Email,
		OtpCode:   code,
		ExpiresAt: time.Now().Add(otpValidity),
		IPAddress: ipAddress,
	}

	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	body := fmt.Sprintf(
		"Your password reset OTP is %s (valid for 10 minutes).\n\n"+
			"If you did not request a password reset, you can ignore this email.", code)
	if err := s.mailer.Send(user.Email, "Password reset OTP", body); err != nil {
		logrus.WithError(err).WithField("email", user.Email).Error("otp email dispatch failed")
		return "", apperrors.ErrMailDispatch
	}

	return code, nil
}

func (s *passwordResetService) VerifyOtp(ctx context.Context, email, code string) (string, error) {
	otp, err := s.otpRepo.FindLatestUnused(ctx, email, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrOtpInvalid
		}
		return "", fmt.Errorf("find otp: %w", err)
	}

	if time.Now().After(otp.ExpiresAt) {
		// The row stays unused: audit wants to see that an expired code
		// was presented, and FindLatestUnused can never redeem it anyway.
		return "", ErrOtpExpired
	}

	if err := s.otpRepo.MarkUsed(ctx, otp.ID); err != nil {
		return "", fmt.Errorf("mark otp used: %w", err)
	}

	_, token, err := s.jwtService.GenerateResetToken(otp.UserID)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	return token, nil
}

func (s *passwordResetService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.jwtService.ValidateResetToken(resetToken)
	if err != nil {
		return ErrResetTokenInvalid
	}

	consumed, _ := s.tokenStore.IsConsumed(ctx, claims.ID)
	if consumed {
		return ErrResetTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, claims.UserID, string(hashed)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("update password: %w", err)
	}

	// Burn the token for the remainder of its lifetime.
	ttl := auth.ResetTokenExpiry
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := s.tokenStore.MarkConsumed(ctx, claims.ID, ttl); err != nil {
		logrus.WithError(err).Warn("could not mark reset token consumed")
	}

	return nil
}

// generateOtpCode draws a uniformly random 6-digit code (100000-999999).
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
