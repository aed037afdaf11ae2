package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/model"
	"pkgtrack/internal/repository"
)

// HistoryService exposes search-history operations for the owning user.
type HistoryService interface {
	AddEntry(ctx context.Context, userID, packageID uint) (*model.History, error)
	ListEntries(ctx context.Context, userID uint) ([]model.HistoryEntry, error)
	// DeleteEntry removes a history row; rows owned by other users look
	// exactly like missing rows.
	DeleteEntry(ctx context.Context, historyID, userID uint) error
}

type historyService struct {
	repo repository.HistoryRepository
}

// NewHistoryService builds a HistoryService.
func NewHistoryService(repo repository.HistoryRepository) HistoryService {
	return &historyService{repo: repo}
}

func (s *historyService) AddEntry(ctx context.Context, userID, packageID uint) (*model.History, error) {
	history := &model.History{UserID: userID, PackageID: packageID}
	if err := s.repo.Create(ctx, history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *historyService) ListEntries(ctx context.Context, userID uint) ([]model.HistoryEntry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *historyService) DeleteEntry(ctx context.Context, historyID, userID uint) error {
	if err := s.repo.DeleteOwned(ctx, historyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrHistoryNotFound
		}
		return err
	}
	return nil
}
