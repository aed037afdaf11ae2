package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "pkgtrack/internal/errors"
	"pkgtrack/internal/model"
)

func TestPackageService_ListPackages_Clamping(t *testing.T) {
	tests := []struct {
		name           string
		limit, offset  int
		order          string
		expectedLimit  int
		expectedOffset int
		expectedAsc    bool
	}{
		{"defaults", 0, 0, "", ListDefaultLimit, 0, false},
		{"limit capped", 1000, 0, "desc", ListMaxLimit, 0, false},
		{"negative offset reset", 10, -5, "asc", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgRepo := new(MockPackageRepository)
			pkgRepo.On("List", mock.Anything, tt.expectedLimit, tt.expectedOffset, tt.expectedAsc, []string(nil)).
				Return([]model.Package{}, int64(0), nil)

			svc := NewPackageService(pkgRepo, new(MockHistoryRepository), nil)
			page, err := svc.ListPackages(context.Background(), tt.limit, tt.offset, tt.order)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedLimit, page.Limit)
			assert.Equal(t, tt.expectedOffset, page.Offset)
			pkgRepo.AssertExpectations(t)
		})
	}
}

func TestPackageService_ListOcrFailed_FiltersStatuses(t *testing.T) {
	pkgRepo := new(MockPackageRepository)
	pkgRepo.On("List", mock.Anything, ListDefaultLimit, 0, false,
		[]string{model.StatusOCRFail, model.StatusOCRUpdate}).
		Return([]model.Package{{PackageID: 1, Status: model.StatusOCRFail}}, int64(1), nil)

	svc := NewPackageService(pkgRepo, new(MockHistoryRepository), nil)
	page, err := svc.ListOcrFailed(context.Background(), 0, 0, "")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Data, 1)
	pkgRepo.AssertExpectations(t)
}

func TestPackageService_GetPackage_NotFound(t *testing.T) {
	pkgRepo := new(MockPackageRepository)
	pkgRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewPackageService(pkgRepo, new(MockHistoryRepository), nil)
	pkg, err := svc.GetPackage(context.Background(), 99)

	assert.ErrorIs(t, err, apperrors.ErrPackageNotFound)
	assert.Nil(t, pkg)
}

func TestPackageService_GetPackageTracked(t *testing.T) {
	t.Run("records history for the caller", func(t *testing.T) {
		pkgRepo := new(MockPackageRepository)
		historyRepo := new(MockHistoryRepository)
		pkgRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.Package{PackageID: 7}, nil)
		historyRepo.On("Create", mock.Anything, mock.MatchedBy(func(h *model.History) bool {
			return h.UserID == 3 && h.PackageID == 7
		})).Return(nil)

		svc := NewPackageService(pkgRepo, historyRepo, nil)
		pkg, err := svc.GetPackageTracked(context.Background(), 7, 3)

		assert.NoError(t, err)
		assert.Equal(t, uint(7), pkg.PackageID)
		historyRepo.AssertExpectations(t)
	})

	t.Run("history failure does not fail the lookup", func(t *testing.T) {
		pkgRepo := new(MockPackageRepository)
		historyRepo := new(MockHistoryRepository)
		pkgRepo.On("FindByID", mock.Anything, uint(7)).Return(&model.Package{PackageID: 7}, nil)
		historyRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrInvalidDB)

		svc := NewPackageService(pkgRepo, historyRepo, nil)
		pkg, err := svc.GetPackageTracked(context.Background(), 7, 3)

		assert.NoError(t, err)
		assert.NotNil(t, pkg)
	})
}

func TestPackageService_UpdatePackage(t *testing.T) {
	pkgRepo := new(MockPackageRepository)
	existing := &model.Package{PackageID: 7, Status: "OCR_Fail", Province: "Bangkok"}
	pkgRepo.On("FindByID", mock.Anything, uint(7)).Return(existing, nil)

	var saved *model.Package
	pkgRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Package")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*model.Package)
		}).Return(nil)

	status := "OCR_Update"
	svc := NewPackageService(pkgRepo, new(MockHistoryRepository), nil)
	pkg, err := svc.UpdatePackage(context.Background(), 7, &PackageUpdate{Status: &status}, 3)

	assert.NoError(t, err)
	assert.Equal(t, "OCR_Update", pkg.Status)
	assert.Equal(t, "Bangkok", pkg.Province) // untouched field survives
	assert.NotNil(t, saved.ModifyBy)
	assert.Equal(t, "3", *saved.ModifyBy)
}
