package application

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"farmaid-portal/internal/domain"
	"farmaid-portal/internal/ports"
)

// RoleService resolves an identity to its role by probing the admin
// markers collection. Resolution never fails the caller: a lookup error
// is logged and defaults to RoleUser, because a broken role probe must
// not block basic usage. Overlapping resolutions for the same uid are
// collapsed into a single store call.
type RoleService struct {
	admins ports.AdminRepository
	logger ports.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]domain.Role
}

func NewRoleService(admins ports.AdminRepository, logger ports.Logger) *RoleService {
	return &RoleService{
		admins: admins,
		logger: logger,
		cache:  make(map[string]domain.Role),
	}
}

func (s *RoleService) Resolve(ctx context.Context, identity domain.Identity) domain.Role {
	if !identity.Authenticated() {
		return domain.RoleUser
	}
	s.mu.RLock()
	role, ok := s.cache[identity.UID]
	s.mu.RUnlock()
	if ok {
		return role
	}

	v, _, _ := s.group.Do(identity.UID, func() (any, error) {
		isAdmin, err := fetchStore(ctx, func(ctx context.Context) (bool, error) {
			return s.admins.IsAdmin(ctx, identity.UID)
		})
		if err != nil {
			s.logger.Warn(ctx, "role lookup failed, defaulting to user",
				"uid", identity.UID, "error", err)
			isAdmin = false
		}
		resolved := domain.RoleUser
		if isAdmin {
			resolved = domain.RoleAdmin
		}
		s.mu.Lock()
		s.cache[identity.UID] = resolved
		s.mu.Unlock()
		return resolved, nil
	})
	return v.(domain.Role)
}

// Session builds the session object handed to every other service call.
func (s *RoleService) Session(ctx context.Context, identity domain.Identity) domain.Session {
	return domain.Session{Identity: identity, Role: s.Resolve(ctx, identity)}
}

// Invalidate drops the cached resolution for a uid. Called on logout so
// the next authentication starts from the unresolved state.
func (s *RoleService) Invalidate(uid string) {
	s.mu.Lock()
	delete(s.cache, uid)
	s.mu.Unlock()
}
