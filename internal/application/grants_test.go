package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"farmaid-portal/internal/domain"
)

func storedScheme() domain.Scheme {
	scheme := validScheme()
	scheme.ID = "scheme-1"
	scheme.CreatedAt = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return scheme
}

func TestGrantService_ApplySnapshotsSchemeAndIdentity(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	schemes.On("GetByID", mock.Anything, "scheme-1").Return(storedScheme(), nil)
	grants.On("Create", mock.Anything, mock.MatchedBy(func(a domain.GrantApplication) bool {
		return a.ID == domain.GrantID("farmer-1", "scheme-1") &&
			a.SchemeTitle == "Drip Irrigation Subsidy" &&
			a.UserName == "Ravi Kumar" &&
			a.UserEmail == "farmer@example.com" &&
			a.Status == domain.StatusPending &&
			!a.AppliedAt.IsZero()
	})).Return(nil)

	app, err := svc.Apply(context.Background(), userSession(), "scheme-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, app.Status)
	grants.AssertExpectations(t)
}

func TestGrantService_ApplyDefaultsDisplayName(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	schemes.On("GetByID", mock.Anything, "scheme-1").Return(storedScheme(), nil)
	grants.On("Create", mock.Anything, mock.MatchedBy(func(a domain.GrantApplication) bool {
		return a.UserName == "Farmer"
	})).Return(nil)

	sess := userSession()
	sess.Identity.Name = ""
	_, err := svc.Apply(context.Background(), sess, "scheme-1")
	require.NoError(t, err)
	grants.AssertExpectations(t)
}

func TestGrantService_ApplyTwiceIsDuplicate(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	schemes.On("GetByID", mock.Anything, "scheme-1").Return(storedScheme(), nil)
	grants.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	grants.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateApplication).Once()

	_, err := svc.Apply(context.Background(), userSession(), "scheme-1")
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), userSession(), "scheme-1")
	assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
	grants.AssertExpectations(t)
}

func TestGrantService_ApplyUnknownScheme(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})
	schemes.On("GetByID", mock.Anything, "nope").Return(domain.Scheme{}, domain.ErrNotFound)

	_, err := svc.Apply(context.Background(), userSession(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	grants.AssertNotCalled(t, "Create")
}

func TestGrantService_ApplyRequiresAuthentication(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	_, err := svc.Apply(context.Background(), domain.Session{}, "scheme-1")
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestGrantService_ListMineOrderedNewestFirst(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	grants.On("ListByUser", mock.Anything, "farmer-1").Return([]domain.GrantApplication{
		{ID: "farmer-1:s1", UserID: "farmer-1", AppliedAt: base},
		{ID: "farmer-1:s3", UserID: "farmer-1", AppliedAt: base.Add(48 * time.Hour)},
		{ID: "farmer-1:s2", UserID: "farmer-1", AppliedAt: base.Add(24 * time.Hour)},
	}, nil)

	apps, err := svc.ListMine(context.Background(), userSession())
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "farmer-1:s3", apps[0].ID)
	assert.Equal(t, "farmer-1:s2", apps[1].ID)
	assert.Equal(t, "farmer-1:s1", apps[2].ID)
	for _, app := range apps {
		assert.Equal(t, "farmer-1", app.UserID)
	}
}

func TestGrantService_ListAllIsAdminOnly(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	_, err := svc.ListAll(context.Background(), userSession())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	grants.AssertNotCalled(t, "ListAll")

	grants.On("ListAll", mock.Anything).Return([]domain.GrantApplication{}, nil)
	_, err = svc.ListAll(context.Background(), adminSession())
	require.NoError(t, err)
}

func TestGrantService_SetStatusApproves(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})
	grants.On("UpdateStatus", mock.Anything, "farmer-1", "scheme-1", domain.StatusApproved).Return(nil)

	err := svc.SetStatus(context.Background(), adminSession(), domain.GrantID("farmer-1", "scheme-1"), domain.StatusApproved)
	require.NoError(t, err)
	grants.AssertExpectations(t)
}

func TestGrantService_SetStatusOnSettledRecord(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})
	grants.On("UpdateStatus", mock.Anything, "farmer-1", "scheme-1", domain.StatusRejected).
		Return(domain.ErrInvalidTransition)

	err := svc.SetStatus(context.Background(), adminSession(), domain.GrantID("farmer-1", "scheme-1"), domain.StatusRejected)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestGrantService_SetStatusRejectsPendingTarget(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	err := svc.SetStatus(context.Background(), adminSession(), domain.GrantID("farmer-1", "scheme-1"), domain.StatusPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	grants.AssertNotCalled(t, "UpdateStatus")
}

func TestGrantService_SetStatusIsAdminOnly(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	err := svc.SetStatus(context.Background(), userSession(), domain.GrantID("farmer-1", "scheme-1"), domain.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	grants.AssertNotCalled(t, "UpdateStatus")
}

func TestGrantService_SetStatusMalformedID(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	err := svc.SetStatus(context.Background(), adminSession(), "not-a-composite", domain.StatusApproved)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Full lifecycle against the mocks: apply as a user, see it pending in
// the admin queue, approve, see it approved in the user's own list.
func TestGrantService_ApplyApproveRoundTrip(t *testing.T) {
	grants := new(grantRepoMock)
	schemes := new(schemeRepoMock)
	svc := NewGrantService(grants, schemes, noopLogger{})

	schemes.On("GetByID", mock.Anything, "scheme-1").Return(storedScheme(), nil)

	var stored domain.GrantApplication
	grants.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(domain.GrantApplication)
	}).Return(nil)

	app, err := svc.Apply(context.Background(), userSession(), "scheme-1")
	require.NoError(t, err)

	grants.On("ListAll", mock.Anything).Return([]domain.GrantApplication{stored}, nil)
	queue, err := svc.ListAll(context.Background(), adminSession())
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.StatusPending, queue[0].Status)

	grants.On("UpdateStatus", mock.Anything, "farmer-1", "scheme-1", domain.StatusApproved).
		Run(func(mock.Arguments) { stored.Status = domain.StatusApproved }).Return(nil)
	require.NoError(t, svc.SetStatus(context.Background(), adminSession(), app.ID, domain.StatusApproved))

	grants.On("ListByUser", mock.Anything, "farmer-1").Return([]domain.GrantApplication{stored}, nil)
	mine, err := svc.ListMine(context.Background(), userSession())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.StatusApproved, mine[0].Status)
}
