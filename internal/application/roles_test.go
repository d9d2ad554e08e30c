package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"farmaid-portal/internal/domain"
)

func TestRoleService_ResolvesAdminWhenMarkerExists(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})
	repo.On("IsAdmin", mock.Anything, "admin-1").Return(true, nil).Once()

	role := svc.Resolve(context.Background(), domain.Identity{UID: "admin-1"})
	assert.Equal(t, domain.RoleAdmin, role)
	repo.AssertExpectations(t)
}

func TestRoleService_ResolvesUserWhenMarkerAbsent(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})
	repo.On("IsAdmin", mock.Anything, "farmer-1").Return(false, nil).Once()

	role := svc.Resolve(context.Background(), domain.Identity{UID: "farmer-1"})
	assert.Equal(t, domain.RoleUser, role)
}

func TestRoleService_DefaultsToUserOnLookupError(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})
	repo.On("IsAdmin", mock.Anything, "admin-1").Return(false, errors.New("store down"))

	role := svc.Resolve(context.Background(), domain.Identity{UID: "admin-1"})
	assert.Equal(t, domain.RoleUser, role)
}

func TestRoleService_UnauthenticatedIsUser(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})

	role := svc.Resolve(context.Background(), domain.Identity{})
	assert.Equal(t, domain.RoleUser, role)
	repo.AssertNotCalled(t, "IsAdmin")
}

func TestRoleService_CachesUntilInvalidated(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})
	identity := domain.Identity{UID: "admin-1"}
	repo.On("IsAdmin", mock.Anything, "admin-1").Return(true, nil).Twice()

	assert.Equal(t, domain.RoleAdmin, svc.Resolve(context.Background(), identity))
	assert.Equal(t, domain.RoleAdmin, svc.Resolve(context.Background(), identity))

	svc.Invalidate("admin-1")
	assert.Equal(t, domain.RoleAdmin, svc.Resolve(context.Background(), identity))
	repo.AssertExpectations(t)
}

func TestRoleService_ConcurrentResolutionsAgree(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})
	identity := domain.Identity{UID: "admin-1"}
	repo.On("IsAdmin", mock.Anything, "admin-1").Return(true, nil)

	const n = 16
	roles := make([]domain.Role, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roles[i] = svc.Resolve(context.Background(), identity)
		}(i)
	}
	wg.Wait()
	for _, role := range roles {
		assert.Equal(t, domain.RoleAdmin, role)
	}
}

func TestRoleService_SessionCarriesIdentityAndRole(t *testing.T) {
	repo := new(adminRepoMock)
	svc := NewRoleService(repo, noopLogger{})
	identity := domain.Identity{UID: "farmer-1", Email: "farmer@example.com", Name: "Ravi"}
	repo.On("IsAdmin", mock.Anything, "farmer-1").Return(false, nil)

	sess := svc.Session(context.Background(), identity)
	assert.Equal(t, identity, sess.Identity)
	assert.Equal(t, domain.RoleUser, sess.Role)
	assert.False(t, sess.IsAdmin())
}
