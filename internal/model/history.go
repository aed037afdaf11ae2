package model

import "time"

// History records that a user looked up a package.
type History struct {
	HistoryID  uint      `json:"history_id" gorm:"column:history_id;primaryKey"`
	UserID     uint      `json:"user_id" gorm:"column:user_id;not null;index"`
	PackageID  uint      `json:"package_id" gorm:"column:package_id;not null"`
	SearchTime time.Time `json:"search_time" gorm:"column:search_time;autoCreateTime"`
}

// TableName keeps the original schema's table name.
func (History) TableName() string { return "History" }

// HistoryEntry is a history row joined with the package it refers to,
// shaped for the history listing.
type HistoryEntry struct {
	HistoryID    uint      `json:"history_id"`
	PackageID    uint      `json:"package_id"`
	SearchTime   time.Time `json:"search_time"`
	SenderName   string    `json:"sender_name"`
	ReceiverName string    `json:"receiver_name"`
	Status       string    `json:"status"`
	Province     string    `json:"province"`
	PostCode     string    `json:"post_code"`
	ImageURL     string    `json:"image_url"`
}
