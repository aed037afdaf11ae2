package repository

import (
	"context"

	"gorm.io/gorm"

	"pkgtrack/internal/model"
)

// PackageRepository defines package persistence operations.
type PackageRepository interface {
	Create(ctx context.Context, pkg *model.Package) error
	FindByID(ctx context.Context, id uint) (*model.Package, error)
	Update(ctx context.Context, pkg *model.Package) error
	// List returns a page of packages ordered by creation time plus the
	// total row count. Statuses, when non-empty, filters by status.
	List(ctx context.Context, limit, offset int, ascending bool, statuses []string) ([]model.Package, int64, error)
	// ListEdited returns packages touched by an operator, most recent first.
	ListEdited(ctx context.Context) ([]model.Package, error)
}

type packageRepository struct {
	db *gorm.DB
}

// NewPackageRepository builds a GORM-backed repository.
func NewPackageRepository(db *gorm.DB) PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) Create(ctx context.Context, pkg *model.Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *packageRepository) FindByID(ctx context.Context, id uint) (*model.Package, error) {
	var pkg model.Package
	if err := r.db.WithContext(ctx).Where("package_id = ?", id).First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *packageRepository) Update(ctx context.Context, pkg *model.Package) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

func (r *packageRepository) List(ctx context.Context, limit, offset int, ascending bool, statuses []string) ([]model.Package, int64, error) {
	order := "created_time DESC"
	if ascending {
		order = "created_time ASC"
	}

	query := r.db.WithContext(ctx).Model(&model.Package{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pkgs []model.Package
	if err := query.Order(order).Limit(limit).Offset(offset).Find(&pkgs).Error; err != nil {
		return nil, 0, err
	}
	return pkgs, total, nil
}

func (r *packageRepository) ListEdited(ctx context.Context) ([]model.Package, error) {
	var pkgs []model.Package
	err := r.db.WithContext(ctx).
		Where("modify_by IS NOT NULL AND TRIM(modify_by) <> ''").
		Order("COALESCE(updated_time, created_time) DESC").
		Find(&pkgs).Error
	if err != nil {
		return nil, err
	}
	return pkgs, nil
}
