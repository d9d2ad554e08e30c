package ports

import (
	"context"

	"farmaid-portal/internal/domain"
)

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Debug(ctx context.Context, msg string, args ...any)
}

// AdminRepository probes the admin markers collection. Presence of a
// record keyed by the uid is the only thing that makes someone an admin.
type AdminRepository interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

type CropRepository interface {
	Create(ctx context.Context, crop domain.Crop) error
	Update(ctx context.Context, crop domain.Crop) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Crop, error)
}

type SchemeRepository interface {
	Create(ctx context.Context, scheme domain.Scheme) error
	Update(ctx context.Context, scheme domain.Scheme) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (domain.Scheme, error)
	List(ctx context.Context) ([]domain.Scheme, error)
}

type GrantRepository interface {
	// Create fails with domain.ErrDuplicateApplication when an
	// application already exists for the same user and scheme.
	Create(ctx context.Context, app domain.GrantApplication) error
	ListByUser(ctx context.Context, userID string) ([]domain.GrantApplication, error)
	ListAll(ctx context.Context) ([]domain.GrantApplication, error)
	// UpdateStatus transitions a pending application and fails with
	// domain.ErrInvalidTransition when the record is no longer pending,
	// or domain.ErrNotFound when it does not exist.
	UpdateStatus(ctx context.Context, userID, schemeID string, status domain.GrantStatus) error
}
