package repository

import (
	"context"

	"gorm.io/gorm"

	"pkgtrack/internal/model"
)

// OtpRepository defines persistence operations for password reset challenges.
type OtpRepository interface {
	// Replace atomically removes any earlier challenges for the owning user
	// and inserts the new one, so at most one challenge is authoritative.
	Replace(ctx context.Context, otp *model.PasswordResetOtp) error
	// FindLatestUnused returns the most recent unused challenge matching
	// email and code exactly, or gorm.ErrRecordNotFound.
	FindLatestUnused(ctx context.Context, email, code string) (*model.PasswordResetOtp, error)
	MarkUsed(ctx context.Context, id uint) error
}

type otpRepository struct {
	db *gorm.DB
}

// NewOtpRepository builds a GORM-backed repository.
func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Replace(ctx context.Context, otp *model.PasswordResetOtp) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", otp.UserID).Delete(&model.PasswordResetOtp{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
}

func (r *otpRepository) FindLatestUnused(ctx context.Context, email, code string) (*model.PasswordResetOtp, error) {
	var otp model.PasswordResetOtp
	err := r.db.WithContext(ctx).
		Where("email = ? AND otp_code = ? AND used = ?", email, code, false).
		Order("id DESC").
		First(&otp).Error
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) MarkUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.PasswordResetOtp{}).
		Where("id = ?", id).
		Update("used", true).Error
}
