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

func TestUserService_GetUser(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "existing user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).
					Return(&model.User{UserID: 7, Username: "nat"}, nil)
			},
			expectedError: nil,
		},
		{
			name: "unknown user",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo)
			user, err := svc.GetUser(context.Background(), 7)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, uint(7), user.UserID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_UpdatePhone(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "phone updated",
			setupMock: func(m *MockUserRepository) {
				m.On("UpdatePhone", mock.Anything, uint(7), "0899999999").Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "unknown user",
			setupMock: func(m *MockUserRepository) {
				m.On("UpdatePhone", mock.Anything, uint(7), "0899999999").
					Return(gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			svc := NewUserService(mockRepo)
			err := svc.UpdatePhone(context.Background(), 7, "0899999999")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_ListUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("List", mock.Anything).Return([]model.User{
		{UserID: 1, Username: "admin01", Role: model.RoleAdmin},
		{UserID: 2, Username: "user01", Role: model.RoleUser},
	}, nil)

	svc := NewUserService(mockRepo)
	users, err := svc.ListUsers(context.Background())

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	mockRepo.AssertExpectations(t)
}
