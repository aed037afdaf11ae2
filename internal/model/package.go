package model

import "time"

// Package statuses the OCR pipeline can leave a package in. Other status
// values (In_Transit, Delivered, ...) pass through untouched.
const (
	StatusOCRFail   = "OCR_Fail"
	StatusOCRUpdate = "OCR_Update"
)

// Package is a tracked parcel record.
type Package struct {
	PackageID    uint      `json:"package_id" gorm:"column:package_id;primaryKey"`
	Height       *float64  `json:"height"`
	Width        *float64  `json:"width"`
	SenderName   string    `json:"sender_name" gorm:"size:255"`
	ReceiverName string    `json:"receiver_name" gorm:"size:255"`
	SenderTel    string    `json:"sender_tel" gorm:"size:50"`
	ReceiverTel  string    `json:"receiver_tel" gorm:"size:50"`
	Address      string    `json:"address" gorm:"size:512"`
	Status       string    `json:"status" gorm:"size:100;index"`
	MaterialType string    `json:"material_type" gorm:"size:100"`
	Province     string    `json:"province" gorm:"size:100"`
	PostCode     string    `json:"post_code" gorm:"size:20"`
	Fragile      bool      `json:"fragile" gorm:"not null;default:false"`
	OcrResult    string    `json:"ocr_result" gorm:"type:text"`
	CreatedTime  time.Time `json:"created_time" gorm:"column:created_time;autoCreateTime;index"`
	UpdatedTime  time.Time `json:"updated_time" gorm:"column:updated_time;autoUpdateTime"`
	PackageImg   string    `json:"package_img" gorm:"type:text"`
	ModifyBy     *string   `json:"modify_by" gorm:"column:modify_by;size:255"`
}

// TableName keeps the original schema's table name.
func (Package) TableName() string { return "Package" }
