package rbac

import (
	"context"
	"sync"

	"dayflow/internal/identity"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadPolicy(ctx context.Context) error
	Enforce(role, resource, action string) (bool, error)
	ListPolicies() ([]PolicyResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

// LoadPolicy replaces the in-memory policy with role_permissions, seeding
// DefaultPolicy first when the table is empty.
func (s *service) LoadPolicy(ctx context.Context) error {
	rows, err := s.repo.ListRolePermissions(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		if err := s.repo.SeedRolePermissions(ctx, DefaultPolicy); err != nil {
			return err
		}
		rows = DefaultPolicy
		s.logger.Info("rbac default policy seeded", zap.Int("rules", len(rows)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()
	for _, rp := range rows {
		if _, err := s.enforcer.AddPolicy(rp.Role, rp.Resource, rp.Action); err != nil {
			return err
		}
	}
	if _, err := s.enforcer.AddGroupingPolicy(identity.RoleAdmin, identity.RoleHR); err != nil {
		return err
	}

	s.logger.Info("rbac policy loaded", zap.Int("rules", len(rows)))
	return nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(role, resource, action)
	if err != nil {
		return false, err
	}

	s.logger.Debug("rbac enforce",
		zap.String("role", role),
		zap.String("resource", resource),
		zap.String("action", action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListPolicies() ([]PolicyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policies, err := s.enforcer.GetPolicy()
	if err != nil {
		return nil, err
	}
	out := make([]PolicyResponse, 0, len(policies))
	for _, p := range policies {
		if len(p) < 3 {
			continue
		}
		out = append(out, PolicyResponse{Role: p[0], Resource: p[1], Action: p[2]})
	}
	return out, nil
}
