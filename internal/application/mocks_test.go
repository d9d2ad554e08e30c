package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"farmaid-portal/internal/domain"
)

type noopLogger struct{}

func (noopLogger) Info(context.Context, string, ...any)  {}
func (noopLogger) Warn(context.Context, string, ...any)  {}
func (noopLogger) Error(context.Context, string, ...any) {}
func (noopLogger) Debug(context.Context, string, ...any) {}

type adminRepoMock struct{ mock.Mock }

func (m *adminRepoMock) IsAdmin(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

type cropRepoMock struct{ mock.Mock }

func (m *cropRepoMock) Create(ctx context.Context, crop domain.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *cropRepoMock) Update(ctx context.Context, crop domain.Crop) error {
	args := m.Called(ctx, crop)
	return args.Error(0)
}

func (m *cropRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *cropRepoMock) List(ctx context.Context) ([]domain.Crop, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Crop), args.Error(1)
}

type schemeRepoMock struct{ mock.Mock }

func (m *schemeRepoMock) Create(ctx context.Context, scheme domain.Scheme) error {
	args := m.Called(ctx, scheme)
	return args.Error(0)
}

func (m *schemeRepoMock) Update(ctx context.Context, scheme domain.Scheme) error {
	args := m.Called(ctx, scheme)
	return args.Error(0)
}

func (m *schemeRepoMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *schemeRepoMock) GetByID(ctx context.Context, id string) (domain.Scheme, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Scheme), args.Error(1)
}

func (m *schemeRepoMock) List(ctx context.Context) ([]domain.Scheme, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Scheme), args.Error(1)
}

type grantRepoMock struct{ mock.Mock }

func (m *grantRepoMock) Create(ctx context.Context, app domain.GrantApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *grantRepoMock) ListByUser(ctx context.Context, userID string) ([]domain.GrantApplication, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.GrantApplication), args.Error(1)
}

func (m *grantRepoMock) ListAll(ctx context.Context) ([]domain.GrantApplication, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.GrantApplication), args.Error(1)
}

func (m *grantRepoMock) UpdateStatus(ctx context.Context, userID, schemeID string, status domain.GrantStatus) error {
	args := m.Called(ctx, userID, schemeID, status)
	return args.Error(0)
}

func adminSession() domain.Session {
	return domain.Session{
		Identity: domain.Identity{UID: "admin-1", Email: "admin@example.com", Name: "Admin"},
		Role:     domain.RoleAdmin,
	}
}

func userSession() domain.Session {
	return domain.Session{
		Identity: domain.Identity{UID: "farmer-1", Email: "farmer@example.com", Name: "Ravi Kumar"},
		Role:     domain.RoleUser,
	}
}
