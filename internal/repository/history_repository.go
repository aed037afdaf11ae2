package repository

import (
	"context"

	"gorm.io/gorm"

	"pkgtrack/internal/model"
)

// HistoryRepository defines search-history persistence operations.
type HistoryRepository interface {
	Create(ctx context.Context, history *model.History) error
	// ListByUser returns the user's history joined with package details,
	// newest first.
	ListByUser(ctx context.Context, userID uint) ([]model.HistoryEntry, error)
	// DeleteOwned removes a history row only if it belongs to the user.
	// Returns gorm.ErrRecordNotFound when nothing was deleted.
	DeleteOwned(ctx context.Context, historyID, userID uint) error
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository builds a GORM-backed repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, history *model.History) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *historyRepository) ListByUser(ctx context.Context, userID uint) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	err := r.db.WithContext(ctx).
		Table("History AS h").
		Select(`h.history_id, h.package_id, h.search_time,
			p.sender_name, p.receiver_name, p.status, p.province, p.post_code,
			p.package_img AS image_url`).
		Joins("LEFT JOIN Package AS p ON h.package_id = p.package_id").
		Where("h.user_id = ?", userID).
		Order("h.search_time DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) DeleteOwned(ctx context.Context, historyID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("history_id = ? AND user_id = ?", historyID, userID).
		Delete(&model.History{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
