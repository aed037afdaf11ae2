package model

import "time"

// PasswordResetOtp is a short-lived challenge proving control of an email
// address. The code is stored in clear: it is single-use and expires after
// ten minutes. Rows are kept after use or expiry for audit.
type PasswordResetOtp struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	Email     string    `json:"email" gorm:"size:255;not null;index"` // denormalized for lookup without a join
	OtpCode   string    `json:"otp_code" gorm:"size:6;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
	IPAddress string    `json:"ip_address" gorm:"size:64"`
}

// TableName keeps the original schema's table name.
func (PasswordResetOtp) TableName() string { return "PasswordResetOtp" }
