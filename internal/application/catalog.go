package application

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"farmaid-portal/internal/domain"
	"farmaid-portal/internal/ports"
)

// byCreation orders catalog listings by creation time, oldest first,
// with the id as tiebreak. The store's partition order is an encoding
// detail and not exposed to callers.
func byCreation[T any](createdAt func(T) time.Time, id func(T) string) func(a, b T) int {
	return func(a, b T) int {
		if c := createdAt(a).Compare(createdAt(b)); c != 0 {
			return c
		}
		return compareStrings(id(a), id(b))
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CropService is the catalog layer for crop reference data: anyone
// authenticated may read, only admins may write.
type CropService struct {
	repo   ports.CropRepository
	logger ports.Logger
}

func NewCropService(repo ports.CropRepository, logger ports.Logger) *CropService {
	return &CropService{repo: repo, logger: logger}
}

func validateCrop(crop domain.Crop) error {
	if crop.Name == "" || crop.Season == "" || crop.Location == "" ||
		crop.Pesticides == "" || crop.Description == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *CropService) Create(ctx context.Context, session domain.Session, crop domain.Crop) (domain.Crop, error) {
	if err := requireAdmin(session); err != nil {
		return domain.Crop{}, err
	}
	if err := validateCrop(crop); err != nil {
		return domain.Crop{}, err
	}
	crop.ID = uuid.NewString()
	crop.CreatedAt = time.Now().UTC()
	if err := callStore(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, crop)
	}); err != nil {
		return domain.Crop{}, err
	}
	s.logger.Info(ctx, "crop created", "crop_id", crop.ID, "by", session.Identity.UID)
	return crop, nil
}

func (s *CropService) Update(ctx context.Context, session domain.Session, crop domain.Crop) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if crop.ID == "" {
		return domain.ErrInvalidInput
	}
	if err := validateCrop(crop); err != nil {
		return err
	}
	return callStore(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, crop)
	})
}

func (s *CropService) Delete(ctx context.Context, session domain.Session, id string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	return callStore(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *CropService) List(ctx context.Context, session domain.Session) ([]domain.Crop, error) {
	if err := requireAuthenticated(session); err != nil {
		return nil, err
	}
	crops, err := fetchStore(ctx, func(ctx context.Context) ([]domain.Crop, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(crops, byCreation(
		func(c domain.Crop) time.Time { return c.CreatedAt },
		func(c domain.Crop) string { return c.ID },
	))
	return crops, nil
}

// SchemeService is the catalog layer for government aid schemes, with
// the same read-all, admin-write rules as crops.
type SchemeService struct {
	repo   ports.SchemeRepository
	logger ports.Logger
}

func NewSchemeService(repo ports.SchemeRepository, logger ports.Logger) *SchemeService {
	return &SchemeService{repo: repo, logger: logger}
}

func validateScheme(scheme domain.Scheme) error {
	if scheme.Title == "" || scheme.Provider == "" || scheme.Eligibility == "" ||
		scheme.Benefits == "" || scheme.Deadline == "" {
		return domain.ErrInvalidInput
	}
	if _, err := time.Parse(time.DateOnly, scheme.Deadline); err != nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *SchemeService) Create(ctx context.Context, session domain.Session, scheme domain.Scheme) (domain.Scheme, error) {
	if err := requireAdmin(session); err != nil {
		return domain.Scheme{}, err
	}
	if err := validateScheme(scheme); err != nil {
		return domain.Scheme{}, err
	}
	scheme.ID = uuid.NewString()
	scheme.CreatedAt = time.Now().UTC()
	if err := callStore(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, scheme)
	}); err != nil {
		return domain.Scheme{}, err
	}
	s.logger.Info(ctx, "scheme created", "scheme_id", scheme.ID, "by", session.Identity.UID)
	return scheme, nil
}

func (s *SchemeService) Update(ctx context.Context, session domain.Session, scheme domain.Scheme) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if scheme.ID == "" {
		return domain.ErrInvalidInput
	}
	if err := validateScheme(scheme); err != nil {
		return err
	}
	return callStore(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, scheme)
	})
}

func (s *SchemeService) Delete(ctx context.Context, session domain.Session, id string) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	return callStore(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

func (s *SchemeService) List(ctx context.Context, session domain.Session) ([]domain.Scheme, error) {
	if err := requireAuthenticated(session); err != nil {
		return nil, err
	}
	schemes, err := fetchStore(ctx, func(ctx context.Context) ([]domain.Scheme, error) {
		return s.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(schemes, byCreation(
		func(sc domain.Scheme) time.Time { return sc.CreatedAt },
		func(sc domain.Scheme) string { return sc.ID },
	))
	return schemes, nil
}
