package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/events"
	"github.com/newsdesk/newsroom/internal/repository"
	apperrors "github.com/newsdesk/newsroom/pkg/util"
)

// UserService implements admin account management.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	BcryptCost int
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// UserCreateInput describes an account created by an operator.
type UserCreateInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Role      domain.RoleName
}

// UserUpdateInput is a partial update; nil or empty fields are left alone.
type UserUpdateInput struct {
	ID        string
	FirstName *string
	LastName  *string
	Username  *string
	Password  *string
	Role      *domain.RoleName
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		bcryptCost: deps.BcryptCost,
		dispatcher: deps.Dispatcher,
		logger:     loggerOrNop(deps.Logger),
	}
}

// List returns every account sorted by username.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Create adds an account. An empty role means the default user role.
func (s *UserService) Create(ctx context.Context, caller *auth.Principal, input UserCreateInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if err := s.requireRole(ctx, role); err != nil {
		return nil, err
	}

	user, err := newAccount(input.FirstName, input.LastName, input.Username, input.Password, role, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserWriteError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserCreated,
		Resource:   "user",
		ResourceID: user.ID,
		Actor:      actorOf(caller),
		Payload:    events.UserChangedPayload{Username: user.Username, Role: user.Role},
	})
	return user, nil
}

// Update changes the provided fields of an account.
func (s *UserService) Update(ctx context.Context, caller *auth.Principal, input UserUpdateInput) (*domain.User, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperrors.NewValidationError("invalid data", nil)
	}

	var changed []string
	var role domain.RoleName
	if input.Role != nil && *input.Role != "" {
		role = *input.Role
		if err := s.requireRole(ctx, role); err != nil {
			return nil, err
		}
	}
	var hash string
	if input.Password != nil && *input.Password != "" {
		if err := auth.ValidatePassword(*input.Password); err != nil {
			return nil, apperrors.NewValidationError(err.Error(), nil)
		}
		var err error
		if hash, err = auth.HashPassword(*input.Password, s.bcryptCost); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}

	user, err := s.users.GetByID(ctx, input.ID)
	if err != nil {
		return nil, notFoundAs("user", err)
	}

	if v := trimmed(input.FirstName); v != "" {
		user.FirstName = v
		changed = append(changed, "firstName")
	}
	if v := trimmed(input.LastName); v != "" {
		user.LastName = v
		changed = append(changed, "lastName")
	}
	if v := trimmed(input.Username); v != "" {
		user.Username = v
		changed = append(changed, "username")
	}
	if role != "" {
		user.Role = role
		changed = append(changed, "role")
	}
	if hash != "" {
		user.PasswordHash = hash
		changed = append(changed, "password")
	}
	if len(changed) == 0 {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, mapUserWriteError(err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserUpdated,
		Resource:   "user",
		ResourceID: user.ID,
		Actor:      actorOf(caller),
		Payload:    events.UserChangedPayload{Username: user.Username, Role: user.Role, Fields: changed},
	})
	return user, nil
}

// Delete removes an account. Its articles and comments remain.
func (s *UserService) Delete(ctx context.Context, caller *auth.Principal, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("invalid data", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundAs("user", err)
	}

	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:       events.EventUserDeleted,
		Resource:   "user",
		ResourceID: id,
		Actor:      actorOf(caller),
	})
	return nil
}

func (s *UserService) requireRole(ctx context.Context, name domain.RoleName) error {
	if _, err := s.roles.GetByName(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewValidationError("unknown role", map[string]any{"role": string(name)})
		}
		return err
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
