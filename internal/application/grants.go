package application

import (
	"context"
	"slices"
	"time"

	"farmaid-portal/internal/domain"
	"farmaid-portal/internal/ports"
)

// fallbackUserName is snapshotted into an application when the identity
// provider has no display name for the caller.
const fallbackUserName = "Farmer"

// GrantService is the application workflow engine. Users apply to a
// scheme at most once; admins adjudicate pending applications into the
// terminal approved or rejected states. Records are never deleted.
type GrantService struct {
	grants  ports.GrantRepository
	schemes ports.SchemeRepository
	logger  ports.Logger
}

func NewGrantService(grants ports.GrantRepository, schemes ports.SchemeRepository, logger ports.Logger) *GrantService {
	return &GrantService{grants: grants, schemes: schemes, logger: logger}
}

// Apply creates a pending application for the caller, snapshotting the
// scheme title and the caller's name and email as they are right now.
// Uniqueness per (user, scheme) is enforced by the store's conditional
// create on the composite id, not by a read beforehand.
func (s *GrantService) Apply(ctx context.Context, session domain.Session, schemeID string) (domain.GrantApplication, error) {
	if err := requireAuthenticated(session); err != nil {
		return domain.GrantApplication{}, err
	}
	if schemeID == "" {
		return domain.GrantApplication{}, domain.ErrInvalidInput
	}
	scheme, err := fetchStore(ctx, func(ctx context.Context) (domain.Scheme, error) {
		return s.schemes.GetByID(ctx, schemeID)
	})
	if err != nil {
		return domain.GrantApplication{}, err
	}

	name := session.Identity.Name
	if name == "" {
		name = fallbackUserName
	}
	app := domain.GrantApplication{
		ID:          domain.GrantID(session.Identity.UID, scheme.ID),
		SchemeID:    scheme.ID,
		SchemeTitle: scheme.Title,
		UserID:      session.Identity.UID,
		UserName:    name,
		UserEmail:   session.Identity.Email,
		Status:      domain.StatusPending,
		AppliedAt:   time.Now().UTC(),
	}
	if err := callStore(ctx, func(ctx context.Context) error {
		return s.grants.Create(ctx, app)
	}); err != nil {
		return domain.GrantApplication{}, err
	}
	s.logger.Info(ctx, "application submitted",
		"application_id", app.ID, "scheme_id", scheme.ID, "user_id", app.UserID)
	return app, nil
}

// ListMine returns the caller's applications, most recent first. The
// descending order is guaranteed here regardless of store order.
func (s *GrantService) ListMine(ctx context.Context, session domain.Session) ([]domain.GrantApplication, error) {
	if err := requireAuthenticated(session); err != nil {
		return nil, err
	}
	apps, err := fetchStore(ctx, func(ctx context.Context) ([]domain.GrantApplication, error) {
		return s.grants.ListByUser(ctx, session.Identity.UID)
	})
	if err != nil {
		return nil, err
	}
	sortByAppliedAtDesc(apps)
	return apps, nil
}

// ListAll returns every application for the admin request queue, most
// recent first.
func (s *GrantService) ListAll(ctx context.Context, session domain.Session) ([]domain.GrantApplication, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	apps, err := fetchStore(ctx, func(ctx context.Context) ([]domain.GrantApplication, error) {
		return s.grants.ListAll(ctx)
	})
	if err != nil {
		return nil, err
	}
	sortByAppliedAtDesc(apps)
	return apps, nil
}

// SetStatus adjudicates a pending application. Only approved and
// rejected are legal targets, and a settled record cannot move again.
func (s *GrantService) SetStatus(ctx context.Context, session domain.Session, applicationID string, status domain.GrantStatus) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	if !status.Terminal() {
		return domain.ErrInvalidInput
	}
	userID, schemeID, err := domain.SplitGrantID(applicationID)
	if err != nil {
		return err
	}
	if err := callStore(ctx, func(ctx context.Context) error {
		return s.grants.UpdateStatus(ctx, userID, schemeID, status)
	}); err != nil {
		return err
	}
	s.logger.Info(ctx, "application adjudicated",
		"application_id", applicationID, "status", status, "by", session.Identity.UID)
	return nil
}

func sortByAppliedAtDesc(apps []domain.GrantApplication) {
	slices.SortFunc(apps, func(a, b domain.GrantApplication) int {
		if c := b.AppliedAt.Compare(a.AppliedAt); c != 0 {
			return c
		}
		return compareStrings(a.ID, b.ID)
	})
}
