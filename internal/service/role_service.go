package service

import (
	"context"
	"sort"

	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/repository"
)

// RoleService exposes role definitions.
type RoleService struct {
	roles repository.RoleRepository
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository) *RoleService {
	return &RoleService{roles: roles}
}

// List returns roles sorted by name.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	if roles == nil {
		roles = []domain.Role{}
	}
	return roles, nil
}

// Seed idempotently installs the default roles.
func (s *RoleService) Seed(ctx context.Context) error {
	return s.roles.EnsureDefaults(ctx, domain.DefaultRoles())
}
