package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pkgtrack/internal/cache"
	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/model"
	"pkgtrack/internal/repository"
)

const (
	packageCacheTTL = 5 * time.Minute

	// ListMaxLimit caps page sizes on the public listings.
	ListMaxLimit = 200
	// ListDefaultLimit is the page size when the caller does not ask for one.
	ListDefaultLimit = 50
)

// PackagePage is one page of a package listing.
type PackagePage struct {
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Order  string          `json:"order"`
	Data   []model.Package `json:"data"`
}

// PackageUpdate carries the fields an operator may change on a package.
// Nil fields are left untouched.
type PackageUpdate struct {
	Height       *float64
	Width        *float64
	SenderName   *string
	ReceiverName *string
	SenderTel    *string
	ReceiverTel  *string
	Address      *string
	Status       *string
	MaterialType *string
	Province     *string
	PostCode     *string
	OcrResult    *string
	PackageImg   *string
}

// PackageService exposes package operations.
type PackageService interface {
	CreatePackage(ctx context.Context, pkg *model.Package) (*model.Package, error)
	GetPackage(ctx context.Context, id uint) (*model.Package, error)
	// GetPackageTracked is GetPackage plus a History record for the caller.
	GetPackageTracked(ctx context.Context, id, userID uint) (*model.Package, error)
	ListPackages(ctx context.Context, limit, offset int, order string) (*PackagePage, error)
	// ListOcrFailed pages over packages the OCR pipeline flagged.
	ListOcrFailed(ctx context.Context, limit, offset int, order string) (*PackagePage, error)
	// ListEdited returns operator-modified packages, most recent first.
	ListEdited(ctx context.Context) ([]model.Package, error)
	// UpdatePackage applies an operator edit and stamps modify_by.
	UpdatePackage(ctx context.Context, id uint, update *PackageUpdate, editorID uint) (*model.Package, error)
}

type packageService struct {
	pkgRepo     repository.PackageRepository
	historyRepo repository.HistoryRepository
	cache       *cache.Client
}

// NewPackageService builds a PackageService with repositories and cache.
func NewPackageService(pkgRepo repository.PackageRepository, historyRepo repository.HistoryRepository, cache *cache.Client) PackageService {
	return &packageService{pkgRepo: pkgRepo, historyRepo: historyRepo, cache: cache}
}

func (s *packageService) cacheKey(id uint) string {
	return fmt.Sprintf("package:%d", id)
}

func (s *packageService) CreatePackage(ctx context.Context, pkg *model.Package) (*model.Package, error) {
	if err := s.pkgRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *packageService) GetPackage(ctx context.Context, id uint) (*model.Package, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Package
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPackageNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(pkg); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, packageCacheTTL)
	}
	return pkg, nil
}

func (s *packageService) GetPackageTracked(ctx context.Context, id, userID uint) (*model.Package, error) {
	pkg, err := s.GetPackage(ctx, id)
	if err != nil {
		return nil, err
	}

	// The lookup succeeded; a failed history write must not take the
	// response down with it.
	history := &model.History{UserID: userID, PackageID: pkg.PackageID}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":    userID,
			"package_id": pkg.PackageID,
		}).Error("history insert failed")
	}

	return pkg, nil
}

func (s *packageService) ListPackages(ctx context.Context, limit, offset int, order string) (*PackagePage, error) {
	return s.list(ctx, limit, offset, order, nil)
}

func (s *packageService) ListOcrFailed(ctx context.Context, limit, offset int, order string) (*PackagePage, error) {
	return s.list(ctx, limit, offset, order, []string{model.StatusOCRFail, model.StatusOCRUpdate})
}

func (s *packageService) list(ctx context.Context, limit, offset int, order string, statuses []string) (*PackagePage, error) {
	if limit <= 0 {
		limit = ListDefaultLimit
	}
	if limit > ListMaxLimit {
		limit = ListMaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	ascending := order == "asc"
	if !ascending {
		order = "desc"
	}

	pkgs, total, err := s.pkgRepo.List(ctx, limit, offset, ascending, statuses)
	if err != nil {
		return nil, err
	}

	return &PackagePage{
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Order:  order,
		Data:   pkgs,
	}, nil
}

func (s *packageService) ListEdited(ctx context.Context) ([]model.Package, error) {
	return s.pkgRepo.ListEdited(ctx)
}

func (s *packageService) UpdatePackage(ctx context.Context, id uint, update *PackageUpdate, editorID uint) (*model.Package, error) {
	pkg, err := s.pkgRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPackageNotFound
		}
		return nil, err
	}

	applyPackageUpdate(pkg, update)
	editor := fmt.Sprintf("%d", editorID)
	pkg.ModifyBy = &editor

	if err := s.pkgRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	return pkg, nil
}

func applyPackageUpdate(pkg *model.Package, update *PackageUpdate) {
	if update.Height != nil {
		pkg.Height = update.Height
	}
	if update.Width != nil {
		pkg.Width = update.Width
	}
	if update.SenderName != nil {
		pkg.SenderName = *update.SenderName
	}
	if update.ReceiverName != nil {
		pkg.ReceiverName = *update.ReceiverName
	}
	if update.SenderTel != nil {
		pkg.SenderTel = *update.SenderTel
	}
	if update.ReceiverTel != nil {
		pkg.ReceiverTel = *update.ReceiverTel
	}
	if update.Address != nil {
		pkg.Address = *update.Address
	}
	if update.Status != nil {
		pkg.Status = *update.Status
	}
	if update.MaterialType != nil {
		pkg.MaterialType = *update.MaterialType
	}
	if update.Province != nil {
		pkg.Province = *update.Province
	}
	if update.PostCode != nil {
		pkg.PostCode = *update.PostCode
	}
	if update.OcrResult != nil {
		pkg.OcrResult = *update.OcrResult
	}
	if update.PackageImg != nil {
		pkg.PackageImg = *update.PackageImg
	}
}
