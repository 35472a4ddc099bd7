package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/repository"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// Principal is the authenticated caller as currently stored.
type Principal struct {
	User *domain.User
}

// ID returns the caller's user id.
func (p *Principal) ID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

// Role returns the stored role.
func (p *Principal) Role() domain.RoleName {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

// Guard turns verified claims into a principal.
type Guard struct {
	users repository.UserRepository
}

// NewGuard constructs a Guard.
func NewGuard(users repository.UserRepository) *Guard {
	return &Guard{users: users}
}

// Authorize loads the claim's subject and checks its stored role against
// required. The role carried in the claims is ignored.
func (g *Guard) Authorize(ctx context.Context, claims *Claims, required ...domain.RoleName) (*Principal, error) {
	if claims == nil || claims.SubjectID() == "" {
		return nil, apperrors.NewUnauthorized("unauthorized")
	}

	user, err := g.users.GetByID(ctx, claims.SubjectID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("unauthorized")
		}
		return nil, apperrors.NewInternalError(err)
	}

	principal := &Principal{User: user}
	if err := principal.require(required...); err != nil {
		return nil, err
	}
	return principal, nil
}

func (p *Principal) require(roles ...domain.RoleName) error {
	if len(roles) == 0 || slices.Contains(roles, p.Role()) {
		return nil
	}
	return apperrors.NewForbidden("forbidden")
}

// CanModify reports whether p may change a record owned by ownerID.
func CanModify(p *Principal, ownerID string) bool {
	if p == nil || p.User == nil {
		return false
	}
	if p.Role().Elevated() {
		return true
	}
	return ownerID != "" && p.ID() == ownerID
}
