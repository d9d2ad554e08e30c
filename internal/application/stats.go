package application

import (
	"context"

	"farmaid-portal/internal/domain"
	"farmaid-portal/internal/ports"
)

// Overview carries the dashboard counts. Admins see portal-wide totals;
// users see the catalog sizes plus their own application breakdown.
type Overview struct {
	Crops        int `json:"crops"`
	Schemes      int `json:"schemes"`
	Applications int `json:"applications"`
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
}

type StatsService struct {
	crops   ports.CropRepository
	schemes ports.SchemeRepository
	grants  ports.GrantRepository
	logger  ports.Logger
}

func NewStatsService(crops ports.CropRepository, schemes ports.SchemeRepository, grants ports.GrantRepository, logger ports.Logger) *StatsService {
	return &StatsService{crops: crops, schemes: schemes, grants: grants, logger: logger}
}

func (s *StatsService) Overview(ctx context.Context, session domain.Session) (Overview, error) {
	if err := requireAuthenticated(session); err != nil {
		return Overview{}, err
	}
	crops, err := fetchStore(ctx, func(ctx context.Context) ([]domain.Crop, error) {
		return s.crops.List(ctx)
	})
	if err != nil {
		return Overview{}, err
	}
	schemes, err := fetchStore(ctx, func(ctx context.Context) ([]domain.Scheme, error) {
		return s.schemes.List(ctx)
	})
	if err != nil {
		return Overview{}, err
	}
	apps, err := fetchStore(ctx, func(ctx context.Context) ([]domain.GrantApplication, error) {
		if session.IsAdmin() {
			return s.grants.ListAll(ctx)
		}
		return s.grants.ListByUser(ctx, session.Identity.UID)
	})
	if err != nil {
		return Overview{}, err
	}

	overview := Overview{
		Crops:        len(crops),
		Schemes:      len(schemes),
		Applications: len(apps),
	}
	for _, app := range apps {
		switch app.Status {
		case domain.StatusPending:
			overview.Pending++
		case domain.StatusApproved:
			overview.Approved++
		case domain.StatusRejected:
			overview.Rejected++
		}
	}
	return overview, nil
}
